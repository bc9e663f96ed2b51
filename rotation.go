package corosim

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// earthMu is the two-body gravitational parameter used to seed a
// propagator from Keplerian elements, matching propagator.EarthMu so a
// Cartesian state produced here and one produced by the RK2 propagator
// agree on the value of μ.
const earthMu = 398600.4418

// eccentricityε and angleε bound the circular/equatorial special cases
// in keplerianToCartesian's COE2RV edge cases.
const (
	eccentricityε = 1e-8
	angleε        = 1e-8
)

// rot313 applies a 3-1-3 Euler angle rotation to v, built on
// gonum/matrix's mat64.Dense for the vector/matrix multiply. Root-package
// code (elements.go) uses this directly; the propagator package keeps
// its own copy inline rather than importing the root package, to avoid
// a dependency cycle.
func rot313(theta1, theta2, theta3 float64, v [3]float64) [3]float64 {
	m := r3r1r3(theta1, theta2, theta3)
	vec := mat64.NewVector(3, v[:])
	var out mat64.Vector
	out.MulVec(m, vec)
	return [3]float64{out.At(0, 0), out.At(1, 0), out.At(2, 0)}
}

func r3r1r3(theta1, theta2, theta3 float64) *mat64.Dense {
	s1, c1 := math.Sincos(theta1)
	s2, c2 := math.Sincos(theta2)
	s3, c3 := math.Sincos(theta3)
	return mat64.NewDense(3, 3, []float64{
		c3*c1 - s3*c2*s1, c3*s1 + s3*c2*c1, s3 * s2,
		-s3*c1 - c3*c2*s1, -s3*s1 + c3*c2*c1, c3 * s2,
		s2 * s1, -s2 * c1, c2,
	})
}
