package corosim

import (
	"math"

	"github.com/orbitkit/corosim/propagator"
)

// keplerianToCartesian converts a Keplerian element set into an ECI
// position/velocity pair. It works in radians throughout
// (KeplerianElements already stores angles in radians) and returns
// plain [3]float64 vectors rather than a heavier orbit object. It is
// used to seed an RK2 two-body propagator from an entity's
// OrbitalElements component when Kind is ElementsKeplerian.
//
// Algorithm from Vallado, COE2RV.
func keplerianToCartesian(ke KeplerianElements) (r, v [3]float64) {
	a := ke.SemiMajorAxisKM
	e := ke.Eccentricity
	i := ke.InclinationRad
	raan := ke.RAANRad
	argp := ke.ArgPerigeeRad
	nu := ke.TrueAnomalyRad

	if e < eccentricityε {
		if i < angleε {
			raan = 0
			argp = 0
			nu = math.Mod(argp+raan+nu, 2*math.Pi)
		} else {
			argp = 0
			nu = math.Mod(nu+argp, 2*math.Pi)
		}
	} else if i < angleε {
		raan = 0
		argp = math.Mod(argp+raan, 2*math.Pi)
	}

	p := a * (1 - e*e)
	muOverP := math.Sqrt(earthMu / p)
	sinNu, cosNu := math.Sincos(nu)

	rPQW := [3]float64{p * cosNu / (1 + e*cosNu), p * sinNu / (1 + e*cosNu), 0}
	vPQW := [3]float64{-muOverP * sinNu, muOverP * (e + cosNu), 0}

	r = rot313(-argp, -i, -raan, rPQW)
	v = rot313(-argp, -i, -raan, vPQW)
	return r, v
}

// NewPropagatorForElements builds the propagator bound to oe at attach
// time, using the hybrid controller's documented defaults for a TLE
// element set. Use NewPropagatorForElementsWithHybridConfig to stagger a
// fleet's SGP4 refresh windows.
func NewPropagatorForElements(oe OrbitalElements) (propagator.Propagator, error) {
	return NewPropagatorForElementsWithHybridConfig(oe, propagator.DefaultHybridConfig())
}

// NewPropagatorForElementsWithHybridConfig is NewPropagatorForElements
// with an explicit HybridConfig for the TLE case; Keplerian and
// Cartesian element sets ignore hcfg since they get a bare RK2 two-body
// propagator (neither carries the drag/perturbation terms SGP4 needs).
func NewPropagatorForElementsWithHybridConfig(oe OrbitalElements, hcfg propagator.HybridConfig) (propagator.Propagator, error) {
	switch oe.Kind {
	case ElementsTLE:
		sgp4 := propagator.NewSGP4(oe.TLE)
		return propagator.NewHybrid(sgp4, hcfg), nil
	case ElementsKeplerian:
		r, v := keplerianToCartesian(oe.Keplerian)
		return propagator.NewTwoBody(propagator.State{R: r, V: v, Frame: FrameECI}), nil
	case ElementsCartesian:
		return propagator.NewTwoBody(propagator.State{R: oe.Cartesian.R, V: oe.Cartesian.V, Frame: oe.Cartesian.Frame}), nil
	default:
		return nil, ErrInvariantViolation
	}
}

// norm returns the Euclidean length of v, a plain [3]float64 rather
// than a gonum vector.
func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
