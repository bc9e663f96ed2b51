package propagator

import "math"

// EarthMu is Earth's gravitational parameter μ = GM, in km^3/s^2. It
// intentionally differs from the WGS72 value baked into the SGP4 model
// (sgp4_model.go uses its own internal constant, as every real SGP4
// implementation does); RK2 is a pure two-body integrator and uses its
// own locally defined constant.
const EarthMu = 398600.4418

// RK2 is a stateful two-body (Keplerian gravity only) propagator using a
// midpoint-style second-order Runge-Kutta step. It caches the last
// (r, v) and always advances from there; it has no notion of "jumping"
// to an arbitrary epoch the way SGP4 does.
//
// The shape of this type -- cache the last state, compute accelerations
// as a free function, integrate by simple loop-free arithmetic on plain
// [3]float64 vectors -- avoids reaching for a generic ODE package: the
// two-evaluation predictor-corrector formula is fixed, not adaptive, so
// there is nothing for a general solver to do.
type RK2 struct {
	mu    float64
	state State
	have  bool
}

// NewRK2 returns an RK2 propagator with Earth's μ. Seed must be called
// (directly, or implicitly via the hybrid controller caching an SGP4
// result into it) before Step can produce output.
func NewRK2() *RK2 {
	return &RK2{mu: EarthMu}
}

// Seed primes the cached state the next Step advances from.
func (r *RK2) Seed(s State) {
	r.state = s
	r.have = true
}

// State returns the currently cached state and whether one has been seeded.
func (r *RK2) State() (State, bool) {
	return r.state, r.have
}

// Step advances Δt seconds (which may be negative for reverse playback)
// from the cached state and updates the cache. It never fails once
// seeded: two-body gravity has no singular cases for r != 0, and the
// hybrid controller is responsible for never calling Step on an
// un-seeded RK2.
func (r *RK2) Step(deltaT float64) State {
	r1, v1 := r.state.R, r.state.V
	a1 := gravityAccel(r1, r.mu)

	var rPredict [3]float64
	for i := 0; i < 3; i++ {
		rPredict[i] = r1[i] + deltaT*v1[i]
	}
	a2 := gravityAccel(rPredict, r.mu)

	var vNew, rNew [3]float64
	for i := 0; i < 3; i++ {
		vNew[i] = v1[i] + (deltaT/2)*(a1[i]+a2[i])
		rNew[i] = r1[i] + deltaT*vNew[i]
	}

	r.state = State{R: rNew, V: vNew, Frame: r.state.Frame}
	return r.state
}

func gravityAccel(r [3]float64, mu float64) [3]float64 {
	r3 := math.Pow(r[0]*r[0]+r[1]*r[1]+r[2]*r[2], 1.5)
	return [3]float64{
		-mu * r[0] / r3,
		-mu * r[1] / r3,
		-mu * r[2] / r3,
	}
}

// TwoBody adapts RK2 to the Propagator/StepperInto interfaces for
// entities whose orbital elements are Keplerian or raw Cartesian state
// rather than a TLE: there is no SGP4 model to refresh from,
// so every call is an RK2 step relative to the previous call's sim
// time, the same bookkeeping Hybrid does for its own RK2 leg.
type TwoBody struct {
	rk2       *RK2
	tLastCall float64
	haveLast  bool
}

// NewTwoBody returns a TwoBody propagator seeded at s.
func NewTwoBody(s State) *TwoBody {
	rk2 := NewRK2()
	rk2.Seed(s)
	return &TwoBody{rk2: rk2}
}

// Step implements Propagator.
func (t *TwoBody) Step(tSimMS float64) (State, error) {
	var deltaT float64
	if t.haveLast {
		deltaT = (tSimMS - t.tLastCall) / 1000.0
	}
	t.tLastCall = tSimMS
	t.haveLast = true
	return t.rk2.Step(deltaT), nil
}

// StepInto implements StepperInto.
func (t *TwoBody) StepInto(tSimMS float64, buf []float32, slot int) ([3]float64, Frame, error) {
	st, err := t.Step(tSimMS)
	if err != nil {
		return [3]float64{}, FrameUnknown, err
	}
	base := slot * 3
	buf[base] = float32(st.R[0])
	buf[base+1] = float32(st.R[1])
	buf[base+2] = float32(st.R[2])
	return st.V, st.Frame, nil
}
