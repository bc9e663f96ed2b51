package corosim

import "sync"

// TickFunc is invoked after every clock advancement or jump.
type TickFunc func(tSimMS float64)

// Clock is the simulation's time authority: a monotonic-by-convention
// simulation timestamp in milliseconds since the Unix epoch, a playback
// rate, and a set of tick subscribers. It supports pause/rate/jump and
// callback fan-out rather than advancing only via a blocking solve.
//
// Clock is mutated only from the frame thread; its mutex exists only to
// let on_tick subscribers be registered from a completion callback
// serialized onto that thread, not to make Advance itself safe to call
// concurrently.
type Clock struct {
	mu      sync.Mutex
	tSim    float64
	rate    float64
	playing bool
	subs    map[int]TickFunc
	nextSub int
}

// NewClock returns a Clock seeded at tSim0 milliseconds, rate 1.0,
// playing.
func NewClock(tSim0 float64) *Clock {
	return &Clock{
		tSim:    tSim0,
		rate:    1.0,
		playing: true,
		subs:    make(map[int]TickFunc),
	}
}

// Now returns the current simulation timestamp in milliseconds.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tSim
}

// Set jumps the clock to t milliseconds and fires tick callbacks. Set is
// how a scrubbed timeline or a "seek" UI action reaches the simulation;
// the hybrid propagator's jump-threshold logic (see package propagator)
// depends on Set producing a large |Δt| between consecutive calls.
func (c *Clock) Set(t float64) {
	c.mu.Lock()
	c.tSim = t
	c.mu.Unlock()
	c.fireTicks(t)
}

// Rate returns the current playback multiplier.
func (c *Clock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// SetRate sets the playback multiplier. A negative rate plays the
// simulation backward.
func (c *Clock) SetRate(r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = r
}

// Play resumes advancement.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

// Pause halts advancement; Now() keeps returning the last value until
// Play or Set is called.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Paused reports whether the clock is currently gating advancement.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.playing
}

// Advance moves the clock forward by dtWallMS*rate milliseconds of sim
// time if playing, and fires tick callbacks. If paused, it is a no-op
// (no callbacks fire). The scheduler does not read this state; World.Pause
// stops the scheduler separately.
func (c *Clock) Advance(dtWallMS float64) {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	c.tSim += dtWallMS * c.rate
	t := c.tSim
	c.mu.Unlock()
	c.fireTicks(t)
}

// OnTick registers cb to be called after every Advance and Set. It
// returns an unsubscribe function.
func (c *Clock) OnTick(cb TickFunc) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = cb
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Clock) fireTicks(t float64) {
	c.mu.Lock()
	cbs := make([]TickFunc, 0, len(c.subs))
	for _, cb := range c.subs {
		cbs = append(cbs, cb)
	}
	c.mu.Unlock()
	for _, cb := range cbs {
		cb(t)
	}
}
