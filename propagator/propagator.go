// Package propagator implements the orbital-state propagators the
// simulation core drives each frame: an SGP4 wrapper, a two-body RK2
// integrator, and the hybrid controller that mixes the two under a
// staggered refresh policy. It separates "propagation method" from
// "the thing being propagated" behind a common interface, so the propagation
// system (package corosim) can treat any of the three uniformly.
package propagator

import "errors"

// Sentinel errors a Propagator can return from Step/StepInto. These
// mirror the conceptual error kinds in the simulation core's own
// error set (corosim.ErrNotInitialized, corosim.ErrPropagationFailed);
// they are declared separately here so this package has no dependency
// on the root package.
var (
	// ErrNotInitialized is returned by every Step call on a propagator
	// that failed to construct (e.g. a malformed TLE). It never clears.
	ErrNotInitialized = errors.New("propagator: not initialized")

	// ErrPropagationFailed is a transient per-step failure: SGP4 decay,
	// a numerical error, or similar. The caller should keep the entity's
	// last good state and retry next frame.
	ErrPropagationFailed = errors.New("propagator: step failed")
)

// Frame names the reference frame a State's vectors are expressed in.
type Frame uint8

const (
	// FrameUnknown is the zero value; no propagator should ever return it.
	FrameUnknown Frame = iota
	FrameECI
	FrameECEF
	FrameJ2000
	FrameTEME
	FrameRender
)

func (f Frame) String() string {
	switch f {
	case FrameECI:
		return "ECI"
	case FrameECEF:
		return "ECEF"
	case FrameJ2000:
		return "J2000"
	case FrameTEME:
		return "TEME"
	case FrameRender:
		return "RENDER"
	default:
		return "UNKNOWN"
	}
}

// State is a Cartesian position/velocity pair in a named frame.
type State struct {
	R     [3]float64 // km
	V     [3]float64 // km/s
	Frame Frame
}

// Propagator advances orbital elements to a simulation timestamp.
// tSimMS is milliseconds since the Unix epoch, matching the clock's
// Now()/Set() units.
type Propagator interface {
	Step(tSimMS float64) (State, error)
}

// StepperInto is an optional fast path: a propagator that can write
// directly into a caller-owned position buffer slot, avoiding the
// allocation Step's returned State would otherwise need. buf is the
// packed f32[3*capacity] array (corosim.PositionBuffer.Raw()); slot is
// the pre-allocated index into it. Implementations must still return
// the velocity, since the propagation system mirrors it into the
// velocity component.
type StepperInto interface {
	StepInto(tSimMS float64, buf []float32, slot int) (vel [3]float64, frame Frame, err error)
}
