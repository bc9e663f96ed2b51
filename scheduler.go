package corosim

import (
	"sort"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// Well-known system priorities, lower runs earlier
const (
	PriorityCelestialBody Priority = 50
	PriorityPropagation   Priority = 100
	PriorityTransform     Priority = 200
	PriorityRenderHook    Priority = 1000
	PrioritySelection     Priority = 1100
)

// Priority orders systems within a frame.
type Priority int

// Host is the set of services a System's Init hook may capture, rather
// than reaching back into a global engine through a cyclic reference.
type Host struct {
	Clock     *Clock
	Store     *Store
	Query     *QueryService
	Positions *PositionBuffer
	Logger    kitlog.Logger

	// Metrics, if non-nil, receives per-system step timings. It is
	// declared as this minimal interface rather than a direct
	// dependency on package metrics so corosim doesn't have to import
	// prometheus just to drive its own scheduler; metrics.Registry
	// satisfies it structurally.
	Metrics MetricsSink
}

// MetricsSink receives per-system step observations. metrics.Registry
// implements this.
type MetricsSink interface {
	ObserveSystemStep(name string, dtMS float64)
}

// System is a scheduled per-frame pass. RequiredKinds gates which
// handles Step receives; OptionalKinds is informational only (a system
// may read optional components itself via Host.Store).
type System interface {
	Name() string
	Priority() Priority
	RequiredKinds() []Kind
	OptionalKinds() []Kind
	Init(host *Host)
	Step(dtMS float64, matching []Handle)
	Teardown()
}

// Scheduler holds systems sorted by ascending priority and drives them
// once per frame.
type Scheduler struct {
	host    *Host
	systems []System

	lastStepMS map[string]float64
	running    bool
	logger     kitlog.Logger
}

// NewScheduler returns a scheduler bound to host. Call Start before the
// first Step call.
func NewScheduler(host *Host) *Scheduler {
	logger := host.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Scheduler{
		host:       host,
		lastStepMS: make(map[string]float64),
		logger:     logger,
	}
}

// Register adds sys to the scheduler and calls its Init hook. Systems
// are kept sorted by ascending priority after every Register.
func (s *Scheduler) Register(sys System) {
	sys.Init(s.host)
	s.systems = append(s.systems, sys)
	sort.SliceStable(s.systems, func(i, j int) bool {
		return s.systems[i].Priority() < s.systems[j].Priority()
	})
}

// Start allows Step to run systems; Stop gates the scheduler off
// entirely ("start/stop gate the frame loop entirely").
func (s *Scheduler) Start() { s.running = true }
func (s *Scheduler) Stop()  { s.running = false }
func (s *Scheduler) Running() bool { return s.running }

// Step runs every registered system once, in priority order, building
// each one's matching-handle list via Query.With(RequiredKinds), then
// clears the dirty set. If the scheduler has been stopped, Step is a
// no-op: no systems run and the dirty set is left alone, matching pause
// semantics.
func (s *Scheduler) Step(dtMS float64) {
	if !s.running {
		return
	}
	for _, sys := range s.systems {
		start := time.Now()
		matching := s.host.Query.With(sys.RequiredKinds()...)
		sys.Step(dtMS, matching)
		elapsedMS := float64(time.Since(start)) / float64(time.Millisecond)
		s.lastStepMS[sys.Name()] = elapsedMS
		if s.host.Metrics != nil {
			s.host.Metrics.ObserveSystemStep(sys.Name(), elapsedMS)
		}
	}
	s.host.Store.ClearDirty()
}

// LastStepMS returns the wall-clock time, in milliseconds, the named
// system took during its most recent Step call, or 0 if it has never
// run at all. While the scheduler is stopped, Step is never called, so
// the value simply stops being updated rather than reverting to 0.
func (s *Scheduler) LastStepMS(name string) float64 {
	return s.lastStepMS[name]
}

// Teardown calls every registered system's Teardown hook, in reverse
// registration order, the usual LIFO shutdown shape.
func (s *Scheduler) Teardown() {
	for i := len(s.systems) - 1; i >= 0; i-- {
		s.systems[i].Teardown()
	}
}
