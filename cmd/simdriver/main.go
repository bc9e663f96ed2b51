// Command simdriver is a headless driver for the corosim core: it loads
// a TLE catalog and an engine configuration, wires a World and a
// Scheduler exactly the way an embedding renderer would, and ticks the
// frame loop at a fixed rate while serving Prometheus metrics. It has no
// GPU, window, or UI -- those are external collaborators the core
// doesn't touch -- so this binary exists only to exercise the core end
// to end.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitkit/corosim"
	"github.com/orbitkit/corosim/engineconfig"
	"github.com/orbitkit/corosim/metrics"
	"github.com/orbitkit/corosim/propagator"
	"github.com/orbitkit/corosim/tle"
)

var (
	configDir   = flag.String("config", "", "directory containing engine.toml (optional)")
	tlePath     = flag.String("tle", "", "path to a NORAD TLE file to load at startup")
	frames      = flag.Int("frames", 0, "number of frames to run, 0 = run until interrupted")
	metricsAddr = flag.String("metrics-addr", ":9090", "listen address for the Prometheus /metrics endpoint")
	frameRateHz = flag.Float64("hz", 60.0, "target frame rate")
)

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)

	cfg, err := engineconfig.Load(*configDir)
	if err != nil {
		logger.Log("level", "error", "msg", "loading engine config", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	go serveMetrics(logger, reg)

	world := corosim.NewWorld(corosim.WorldConfig{
		MaxLiveHandles:   cfg.MaxLiveHandles,
		PositionCapacity: cfg.PositionCapacity,
		Logger:           logger,
		Metrics:          m,
	})

	world.Scheduler.Register(corosim.NewPropagationSystem(cfg.PropagationWorkers))
	world.Scheduler.Register(corosim.NewTransformSystem())

	if *tlePath != "" {
		if err := loadCatalog(world, *tlePath, cfg, logger); err != nil {
			logger.Log("level", "error", "msg", "loading TLE catalog", "err", err, "path", *tlePath)
			os.Exit(1)
		}
	}

	loop := corosim.NewFrameLoop(world, corosim.NewRealWallClock(), nil)
	loop.Start()

	period := time.Duration(float64(time.Second) / *frameRateHz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	logger.Log("level", "info", "msg", "simdriver started", "hz", *frameRateHz, "frames", *frames)

	frameN := 0
	for range ticker.C {
		dtMS := loop.Tick()
		frameN++
		m.LiveHandles.Set(float64(world.Handles.Len()))
		m.BufferHighWater.Set(float64(world.Positions.HighWaterMark()))
		m.BufferCapacity.Set(float64(world.Positions.Capacity()))
		_ = dtMS
		if *frames > 0 && frameN >= *frames {
			break
		}
	}
	logger.Log("level", "info", "msg", "simdriver exiting", "frames_run", frameN)
}

func serveMetrics(logger kitlog.Logger, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
		logger.Log("level", "error", "msg", "metrics server stopped", "err", err)
	}
}

// loadCatalog reads path (one TLE record per 2 or 3 lines, concatenated)
// and attaches an entity per record, giving each a staggered hybrid
// refresh offset stagger policy.
func loadCatalog(world *corosim.World, path string, cfg engineconfig.Config, logger kitlog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	i := 0
	count := 0
	for i < len(lines) {
		var rec tle.Record
		switch {
		case i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "1 "):
			rec, err = tle.Parse(lines[i], lines[i+1])
			i += 2
		case i+2 < len(lines):
			rec, err = tle.Parse(lines[i], lines[i+1], lines[i+2])
			i += 3
		default:
			i = len(lines)
			continue
		}
		if err != nil {
			logger.Log("level", "warn", "msg", "skipping malformed TLE record", "err", err)
			continue
		}

		h, createErr := world.CreateEntity()
		if createErr != nil {
			return fmt.Errorf("creating entity for %s: %w", rec.Name, createErr)
		}
		oe := corosim.OrbitalElements{Kind: corosim.ElementsTLE, TLE: rec}
		if attachErr := world.Store.Attach(h, corosim.KindOrbitalElements, oe); attachErr != nil {
			return fmt.Errorf("attaching orbital-elements for %s: %w", rec.Name, attachErr)
		}

		hcfg := propagatorHybridConfig(cfg, count)
		prop, propErr := corosim.NewPropagatorForElementsWithHybridConfig(oe, hcfg)
		if propErr != nil {
			return fmt.Errorf("constructing propagator for %s: %w", rec.Name, propErr)
		}
		if attachErr := world.Store.Attach(h, corosim.KindPropagator, corosim.PropagatorComponent{Propagator: prop}); attachErr != nil {
			return fmt.Errorf("attaching propagator for %s: %w", rec.Name, attachErr)
		}
		count++
	}
	logger.Log("level", "info", "msg", "catalog loaded", "entities", count, "sgp4_interval_ms", cfg.SGP4IntervalMS)
	return nil
}

// propagatorHybridConfig staggers the i-th entity's SGP4 refresh offset
// by i*60 milliseconds of sim time, spreading a fleet's refresh work across
// frames rather than clustering it.
func propagatorHybridConfig(cfg engineconfig.Config, i int) propagator.HybridConfig {
	return propagator.HybridConfig{
		SGP4IntervalMS:  cfg.SGP4IntervalMS,
		StaggerOffsetMS: float64(i) * 60,
		JumpThresholdS:  cfg.JumpThresholdS,
		UseRK2:          cfg.UseRK2,
	}
}
