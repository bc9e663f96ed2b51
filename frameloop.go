package corosim

import "time"

// WallClock is the monotonic wall-clock source the frame loop uses to
// compute dt between frames. Production code
// passes RealWallClock; tests pass a fake to drive deterministic frame
// sequences.
type WallClock interface {
	NowMS() float64
}

// RealWallClock reads time.Now(), in milliseconds, relative to its own
// construction time so callers don't have to worry about overflow from
// using an absolute Unix timestamp as a float64.
type RealWallClock struct {
	start time.Time
}

// NewRealWallClock returns a WallClock anchored at the current instant.
func NewRealWallClock() *RealWallClock {
	return &RealWallClock{start: time.Now()}
}

// NowMS implements WallClock.
func (c *RealWallClock) NowMS() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// FrameLoop drives the Scheduler once per external tick: it computes the wall dt since the last tick, advances the
// World's Clock, steps the Scheduler, and then invokes its own renderer
// reference, with the animation loop centralized here instead of woven
// through many call sites.
//
// Note the renderer hook is invoked by the loop itself, unconditionally,
// every Tick -- including while paused. The scheduler's own
// render-hook System (priority 1000, registered via
// NewRenderHookSystem) is a separate, pausable downstream pass for
// per-frame bookkeeping that should stop along with everything else;
// it is not what keeps the picture alive while paused.
type FrameLoop struct {
	world     *World
	wallClock WallClock
	renderer  Renderer
	lastTick  float64
	started   bool
	running   bool
}

// NewFrameLoop returns a loop driving world, using wall as the
// wall-clock source and invoking renderer (which may be nil) once per
// Tick regardless of pause state.
func NewFrameLoop(world *World, wall WallClock, renderer Renderer) *FrameLoop {
	return &FrameLoop{world: world, wallClock: wall, renderer: renderer}
}

// Start begins driving frames: the scheduler is started and the next
// Tick computes dt against "now" rather than against whatever time the
// loop was constructed at.
func (f *FrameLoop) Start() {
	f.world.Scheduler.Start()
	f.running = true
	f.started = false
}

// Stop halts the frame loop; an in-flight Tick (there is only ever one,
// since Tick is synchronous) still runs to completion.
func (f *FrameLoop) Stop() {
	f.running = false
	f.world.Scheduler.Stop()
}

// Running reports whether the loop will still act on the next Tick.
func (f *FrameLoop) Running() bool {
	return f.running
}

// Tick computes wall dt, advances the clock (if playing), steps the
// scheduler, and returns the computed wall-clock delta in
// milliseconds. It is meant to be called once per host animation
// callback.
func (f *FrameLoop) Tick() (dtMS float64) {
	now := f.wallClock.NowMS()
	if !f.started {
		f.lastTick = now
		f.started = true
	}
	dtMS = now - f.lastTick
	f.lastTick = now

	if f.running {
		f.world.Clock.Advance(dtMS)
		f.world.Scheduler.Step(dtMS)
	}

	if f.renderer != nil {
		f.renderer.Render()
	}
	return dtMS
}
