package corosim

import (
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orbitkit/corosim/propagator"
)

// baseSystem implements the bookkeeping every System shares: name,
// priority, declared kinds, host capture. Concrete systems embed it and
// only implement Step.
type baseSystem struct {
	name          string
	priority      Priority
	requiredKinds []Kind
	optionalKinds []Kind
	host          *Host
}

func (b *baseSystem) Name() string            { return b.name }
func (b *baseSystem) Priority() Priority      { return b.priority }
func (b *baseSystem) RequiredKinds() []Kind   { return b.requiredKinds }
func (b *baseSystem) OptionalKinds() []Kind   { return b.optionalKinds }
func (b *baseSystem) Init(host *Host)         { b.host = host }
func (b *baseSystem) Teardown()               {}

// PropagationSystem is the per-frame pass: for
// every entity with {orbital-elements, propagator}, it steps the
// propagator at the current sim time and writes the result into the
// position buffer and the position/velocity components.
//
// Workers, when > 1, shards the matching handles across that many
// goroutines via errgroup.Group (golang.org/x/sync), joined before Step
// returns so the scheduler's per-frame timing and dirty-set semantics
// still hold. Each worker only ever writes its own entities' buffer
// slots, so there is no cross-worker synchronization needed on the
// buffer itself.
type PropagationSystem struct {
	baseSystem
	Workers int

	// LastPassMS is the wall-clock time, in milliseconds, Step took on
	// its most recent call; 0 until the system has run at least once.
	// While the scheduler is stopped, Step is never called, so the value
	// simply stops updating rather than reverting to 0.
	LastPassMS float64
	failCount  map[Handle]uint64
}

// NewPropagationSystem returns a propagation system. workers <= 1 runs
// single-threaded.
func NewPropagationSystem(workers int) *PropagationSystem {
	return &PropagationSystem{
		baseSystem: baseSystem{
			name:          "propagation",
			priority:      PriorityPropagation,
			requiredKinds: []Kind{KindOrbitalElements, KindPropagator},
		},
		Workers:   workers,
		failCount: make(map[Handle]uint64),
	}
}

// failureLogSampleRate bounds failure logging to at most one in this
// many occurrences per entity, so a persistently failing propagator
// doesn't flood the log.
const failureLogSampleRate = 1000

func (p *PropagationSystem) Step(dtMS float64, matching []Handle) {
	start := time.Now()
	t := p.host.Clock.Now()

	if p.Workers > 1 && len(matching) > 1 {
		p.stepParallel(t, matching)
	} else {
		for _, h := range matching {
			p.stepOne(t, h)
		}
	}

	p.LastPassMS = float64(time.Since(start)) / float64(time.Millisecond)
}

func (p *PropagationSystem) stepParallel(t float64, matching []Handle) {
	workers := p.Workers
	if workers > len(matching) {
		workers = len(matching)
	}
	chunk := (len(matching) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(matching) {
			break
		}
		if end > len(matching) {
			end = len(matching)
		}
		shard := matching[start:end]
		g.Go(func() error {
			for _, h := range shard {
				p.stepOne(t, h)
			}
			return nil
		})
	}
	_ = g.Wait() // stepOne never returns an error; Wait only joins.
}

func (p *PropagationSystem) stepOne(t float64, h Handle) {
	row, ok := p.host.Store.Get(h, KindPropagator)
	if !ok {
		return
	}
	pc := row.(PropagatorComponent)

	slot, slotErr := p.host.Positions.Allocate(h)
	if slotErr != nil {
		p.logFailure(h, slotErr)
		return
	}

	var (
		pos   propagator.State
		vel   [3]float64
		frame propagator.Frame
		err   error
	)
	if stepper, ok := pc.Propagator.(propagator.StepperInto); ok {
		vel, frame, err = stepper.StepInto(t, p.host.Positions.Raw(), slot)
		if err == nil {
			x, y, z := p.host.Positions.Read(slot)
			pos = propagator.State{R: [3]float64{float64(x), float64(y), float64(z)}, V: vel, Frame: frame}
		}
	} else {
		pos, err = pc.Propagator.Step(t)
		if err == nil {
			p.host.Positions.Write(slot, float32(pos.R[0]), float32(pos.R[1]), float32(pos.R[2]))
		}
	}

	if err != nil {
		p.logFailure(h, err)
		if sink, ok := p.host.Metrics.(propagationMetricsSink); ok {
			sink.IncPropagationFailure(errorKind(err))
		}
		return
	}

	p.host.Store.Attach(h, KindPosition, PositionComponent{X: pos.R[0], Y: pos.R[1], Z: pos.R[2], Frame: pos.Frame})
	p.host.Store.Attach(h, KindVelocity, VelocityComponent{VX: pos.V[0], VY: pos.V[1], VZ: pos.V[2], Frame: pos.Frame})

	if sink, ok := p.host.Metrics.(propagationMetricsSink); ok {
		if legger, ok := pc.Propagator.(interface{ LastLeg() string }); ok {
			switch legger.LastLeg() {
			case "sgp4":
				sink.IncSGP4Refresh()
			case "rk2":
				sink.IncRK2Step()
			}
		}
	}
}

// propagationMetricsSink is the optional extra a MetricsSink may
// implement to receive per-leg propagation counters; metrics.Registry
// implements it. PropagationSystem checks for it via a type assertion
// so the plain MetricsSink interface (scheduler.go) stays minimal.
type propagationMetricsSink interface {
	IncSGP4Refresh()
	IncRK2Step()
	IncPropagationFailure(kind string)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, propagator.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, propagator.ErrPropagationFailed):
		return "propagation_failed"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	default:
		return "unknown"
	}
}

func (p *PropagationSystem) logFailure(h Handle, err error) {
	p.failCount[h]++
	if p.host.Logger == nil {
		return
	}
	if p.failCount[h]%failureLogSampleRate != 1 {
		return
	}
	p.host.Logger.Log("level", "warn", "subsys", "propagation", "handle", h, "err", err, "count", p.failCount[h])
}

// RenderHookSystem invokes the external renderer's Render hook once
// downstream systems have had a chance to run, at a render-hook
// priority of 1000. It does no work itself: the renderer is an
// external collaborator, and this system's only job is to sit at the
// right priority in the schedule.
type RenderHookSystem struct {
	baseSystem
	Renderer Renderer
}

// Renderer is the host hook the core invokes once per frame, after
// systems run.
type Renderer interface {
	Render()
}

// NewRenderHookSystem returns a system that calls r.Render() every step.
func NewRenderHookSystem(r Renderer) *RenderHookSystem {
	return &RenderHookSystem{
		baseSystem: baseSystem{name: "render-hook", priority: PriorityRenderHook},
		Renderer:   r,
	}
}

func (s *RenderHookSystem) Step(dtMS float64, matching []Handle) {
	if s.Renderer != nil {
		s.Renderer.Render()
	}
}

// TransformSystem is the optional system: it caches
// a render-space transform for entities that carry {position,
// transform}, a plain translation matrix since rotation/scale live in
// the mesh/billboard components and are applied by the renderer.
type TransformSystem struct {
	baseSystem
}

// NewTransformSystem returns the optional transform-caching system.
func NewTransformSystem() *TransformSystem {
	return &TransformSystem{
		baseSystem: baseSystem{
			name:          "transform",
			priority:      PriorityTransform,
			requiredKinds: []Kind{KindPosition, KindTransform},
		},
	}
}

func (s *TransformSystem) Step(dtMS float64, matching []Handle) {
	for _, h := range matching {
		row, ok := s.host.Store.Get(h, KindPosition)
		if !ok {
			continue
		}
		pos := row.(PositionComponent)
		m := [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			float32(pos.X), float32(pos.Y), float32(pos.Z), 1,
		}
		s.host.Store.Attach(h, KindTransform, TransformComponent{Matrix: m})
	}
}

// SelectionSystem is the optional system at priority 1100; the core
// ships only the scheduling slot and a pass-through hook for picking
// logic, which is UI/input territory and out of scope here.
type SelectionSystem struct {
	baseSystem
	OnSelect func(matching []Handle)
}

// NewSelectionSystem returns the optional selection system.
func NewSelectionSystem(onSelect func(matching []Handle)) *SelectionSystem {
	return &SelectionSystem{
		baseSystem: baseSystem{name: "selection", priority: PrioritySelection},
		OnSelect:   onSelect,
	}
}

func (s *SelectionSystem) Step(dtMS float64, matching []Handle) {
	if s.OnSelect != nil {
		s.OnSelect(matching)
	}
}
