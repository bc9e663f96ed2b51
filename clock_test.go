package corosim

import "testing"

func TestClockAdvanceAppliesRate(t *testing.T) {
	c := NewClock(1000)
	c.SetRate(2.0)
	c.Advance(500)
	if got := c.Now(); got != 2000 {
		t.Fatalf("Now() = %v, want 2000", got)
	}
}

func TestClockPausedAdvanceIsNoop(t *testing.T) {
	c := NewClock(0)
	c.Pause()
	var fired bool
	c.OnTick(func(float64) { fired = true })
	c.Advance(1000)
	if c.Now() != 0 {
		t.Fatalf("Now() = %v, want 0 (paused)", c.Now())
	}
	if fired {
		t.Fatalf("tick fired while paused")
	}
}

func TestClockSetFiresTick(t *testing.T) {
	c := NewClock(0)
	var got float64
	c.OnTick(func(t float64) { got = t })
	c.Set(12345)
	if got != 12345 {
		t.Fatalf("tick callback saw %v, want 12345", got)
	}
	if c.Now() != 12345 {
		t.Fatalf("Now() = %v, want 12345", c.Now())
	}
}

func TestClockUnsubscribeStopsCallbacks(t *testing.T) {
	c := NewClock(0)
	calls := 0
	unsub := c.OnTick(func(float64) { calls++ })
	c.Advance(10)
	unsub()
	c.Advance(10)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (unsubscribed before second advance)", calls)
	}
}

func TestClockNegativeRateReversesTime(t *testing.T) {
	c := NewClock(1000)
	c.SetRate(-1.0)
	c.Advance(500)
	if got := c.Now(); got != 500 {
		t.Fatalf("Now() = %v, want 500", got)
	}
}
