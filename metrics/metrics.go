// Package metrics wires corosim's per-frame timing and counters into
// Prometheus, since the core's public counters are
// exactly the kind of thing the rest of the example corpus exports via
// prometheus/client_golang rather than hand-rolled atomics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the gauges/counters/histograms a host application
// registers once against its own prometheus.Registerer (or
// prometheus.DefaultRegisterer) and that the scheduler, propagation
// system, and position buffer update every frame.
type Registry struct {
	SystemStepSeconds *prometheus.HistogramVec
	PropagationCalls  *prometheus.CounterVec
	PropagationFails  *prometheus.CounterVec
	SGP4Refreshes     prometheus.Counter
	RK2Steps          prometheus.Counter
	LiveHandles       prometheus.Gauge
	BufferHighWater   prometheus.Gauge
	BufferCapacity    prometheus.Gauge
}

// New constructs a Registry and registers every collector with reg (e.g.
// prometheus.DefaultRegisterer), panicking if registration fails.
func New(reg prometheus.Registerer) *Registry {
	m := &Registry{
		SystemStepSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "corosim",
			Subsystem: "scheduler",
			Name:      "system_step_seconds",
			Help:      "Wall-clock time spent in a single system's Step call.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 2, 16),
		}, []string{"system"}),
		PropagationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corosim",
			Subsystem: "propagation",
			Name:      "calls_total",
			Help:      "Propagator step attempts, labeled by which leg ran.",
		}, []string{"leg"}),
		PropagationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corosim",
			Subsystem: "propagation",
			Name:      "failures_total",
			Help:      "Propagator step failures, labeled by error kind.",
		}, []string{"kind"}),
		SGP4Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "corosim",
			Subsystem: "propagation",
			Name:      "sgp4_refreshes_total",
			Help:      "Hybrid controller calls that took the SGP4 leg.",
		}),
		RK2Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "corosim",
			Subsystem: "propagation",
			Name:      "rk2_steps_total",
			Help:      "Hybrid controller calls that took the RK2 leg.",
		}),
		LiveHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corosim",
			Subsystem: "entities",
			Name:      "live_handles",
			Help:      "Currently live entity handles.",
		}),
		BufferHighWater: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corosim",
			Subsystem: "position_buffer",
			Name:      "high_water_mark",
			Help:      "Number of slots ever allocated in the position buffer (high-water mark).",
		}),
		BufferCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corosim",
			Subsystem: "position_buffer",
			Name:      "capacity",
			Help:      "Configured slot capacity of the position buffer.",
		}),
	}

	reg.MustRegister(
		m.SystemStepSeconds,
		m.PropagationCalls,
		m.PropagationFails,
		m.SGP4Refreshes,
		m.RK2Steps,
		m.LiveHandles,
		m.BufferHighWater,
		m.BufferCapacity,
	)
	return m
}

// ObserveSystemStep records dtMS (milliseconds, as the scheduler already
// measures it) for name, converting to the seconds Prometheus convention
// expects. It satisfies corosim.MetricsSink.
func (m *Registry) ObserveSystemStep(name string, dtMS float64) {
	m.SystemStepSeconds.WithLabelValues(name).Observe(dtMS / 1000.0)
}

// IncSGP4Refresh counts one hybrid-controller call that took the SGP4
// leg. Satisfies corosim's propagationMetricsSink.
func (m *Registry) IncSGP4Refresh() {
	m.SGP4Refreshes.Inc()
	m.PropagationCalls.WithLabelValues("sgp4").Inc()
}

// IncRK2Step counts one hybrid-controller call that took the RK2 leg.
func (m *Registry) IncRK2Step() {
	m.RK2Steps.Inc()
	m.PropagationCalls.WithLabelValues("rk2").Inc()
}

// IncPropagationFailure counts a failed propagation step, labeled by
// the error kind systems.go classified it as.
func (m *Registry) IncPropagationFailure(kind string) {
	m.PropagationFails.WithLabelValues(kind).Inc()
}
