package propagator

// HybridConfig configures a Hybrid controller.
type HybridConfig struct {
	// SGP4IntervalMS is the minimum sim-time between SGP4 refreshes.
	SGP4IntervalMS float64
	// StaggerOffsetMS is added to SGP4IntervalMS for this instance, so a
	// fleet of objects spreads its SGP4 work across frames.
	StaggerOffsetMS float64
	// JumpThresholdS forces an SGP4 step regardless of interval when
	// |t_sim - t_sim_prev| exceeds it, in seconds.
	JumpThresholdS float64
	// UseRK2 disables RK2 entirely when false: every call is SGP4.
	UseRK2 bool
}

// DefaultHybridConfig returns the documented defaults.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		SGP4IntervalMS:  60000,
		StaggerOffsetMS: 0,
		JumpThresholdS:  1000,
		UseRK2:          true,
	}
}

// Hybrid is the central controller: it wraps an
// SGP4 propagator and an RK2 cache, and decides per call whether to pay
// for an authoritative SGP4 refresh or take a cheap RK2 step from the
// cached state. Rather than picking one propagation method for an
// entire run, Hybrid picks per call, based on elapsed sim time.
type Hybrid struct {
	cfg  HybridConfig
	sgp4 *SGP4
	rk2  *RK2

	haveSGP4  bool // at least one SGP4 step has succeeded
	tLastSGP4 float64
	tLastCall float64
	haveLast  bool
	lastLeg   string
}

// NewHybrid returns a Hybrid controller wrapping sgp4 with cfg.
func NewHybrid(sgp4 *SGP4, cfg HybridConfig) *Hybrid {
	return &Hybrid{
		cfg:  cfg,
		sgp4: sgp4,
		rk2:  NewRK2(),
	}
}

// Step implements Propagator.
func (h *Hybrid) Step(tSimMS float64) (State, error) {
	useSGP4 := h.shouldUseSGP4(tSimMS)

	var st State
	var err error
	if useSGP4 {
		h.lastLeg = "sgp4"
		st, err = h.sgp4.Step(tSimMS)
		if err == nil {
			h.rk2.Seed(st)
			h.haveSGP4 = true
			h.tLastSGP4 = tSimMS
		}
		// An SGP4 failure does not poison the RK2 cache: leave h.rk2's prior state untouched and report the
		// failure for this call only.
	} else {
		h.lastLeg = "rk2"
		deltaT := (tSimMS - h.tLastCall) / 1000.0
		st = h.rk2.Step(deltaT)
	}

	h.tLastCall = tSimMS
	h.haveLast = true
	return st, err
}

// StepInto implements StepperInto.
func (h *Hybrid) StepInto(tSimMS float64, buf []float32, slot int) ([3]float64, Frame, error) {
	st, err := h.Step(tSimMS)
	if err != nil {
		return [3]float64{}, FrameUnknown, err
	}
	base := slot * 3
	buf[base] = float32(st.R[0])
	buf[base+1] = float32(st.R[1])
	buf[base+2] = float32(st.R[2])
	return st.V, st.Frame, nil
}

func (h *Hybrid) shouldUseSGP4(tSimMS float64) bool {
	if !h.haveSGP4 || !h.cfg.UseRK2 {
		return true
	}
	if tSimMS-h.tLastSGP4 >= h.cfg.SGP4IntervalMS+h.cfg.StaggerOffsetMS {
		return true
	}
	if h.haveLast {
		jumpS := (tSimMS - h.tLastCall) / 1000.0
		if jumpS < 0 {
			jumpS = -jumpS
		}
		if jumpS > h.cfg.JumpThresholdS {
			return true
		}
	}
	return false
}

// ForceSGP4 clears the cached-refresh bookkeeping so the next Step call
// takes an SGP4 step regardless of interval, answering the open
// question about exposing this publicly: a scheduler-level
// "reseed this entity now" operation needs it (e.g. after detaching and
// reattaching orbital-elements), so it is exposed rather than left
// implicit in the jump-threshold heuristic.
func (h *Hybrid) ForceSGP4() {
	h.haveSGP4 = false
}

// LastLeg reports which leg the most recent Step call took, "sgp4" or
// "rk2", or "" before the first call. Exposed so callers can feed
// per-leg counters (e.g. metrics.Registry.SGP4Refreshes) without the
// propagator package depending on a metrics package itself.
func (h *Hybrid) LastLeg() string {
	return h.lastLeg
}
