package propagator

import "math"

// Near-earth WGS72 constants, the values SGP4 implementations have used
// since Hoots & Roehrich (1980). These are independent of the WGS84 μ
// the RK2 propagator uses (rk2.go), which is slightly smaller: SGP4 was defined
// against WGS72 and re-deriving it against a different ellipsoid would
// change its numerical behavior against the published element sets it
// is meant to consume.
const (
	wgs72Mu      = 398600.8    // km^3/s^2
	wgs72Re      = 6378.135    // km
	wgs72J2      = 0.001082616
	wgs72J3      = -0.00000253881
	wgs72J4      = -0.00000165597
	minPerDay    = 1440.0
	decayAltKM   = 100.0 // perigee altitude below which we report decay
)

var wgs72J3oJ2 = wgs72J3 / wgs72J2

// xke is sqrt(GM) in Earth-radii^1.5 per minute, the unit system the
// Brouwer mean-motion correction is carried out in.
var xke = 60.0 / math.Sqrt(wgs72Re*wgs72Re*wgs72Re/wgs72Mu)

// satrec holds the once-per-construction derived quantities for a
// near-earth (non-deep-space) SGP4-family propagation, precomputed once
// at construction so that Step is cheap.
//
// This implements the secular J2 (RAAN and argument-of-perigee
// precession) and a linearized BSTAR drag decay of the semi-major axis
// and mean anomaly rate; it omits the deep-space resonance corrections
// real SGP4 applies above ~225-minute periods, which is out of scope
// for the LEO/MEO catalog this engine targets.
type satrec struct {
	epochJD float64 // Julian date of the TLE epoch
	bstar   float64

	e0, i0, argp0, m0, nodeo0 float64
	n0dp                      float64 // Brouwer-corrected mean motion, rad/min
	a0dp                      float64 // Brouwer-corrected semi-major axis, Earth radii

	nodeDot float64 // RAAN secular rate, rad/min
	argpDot float64 // argument of perigee secular rate, rad/min

	isimp bool // true if perigee altitude < 220km (simplified drag terms)
}

func initSatrec(epochJD, bstar, ecco, inclo, argpo, mo, no, nodeo float64) *satrec {
	s := &satrec{
		epochJD: epochJD,
		bstar:   bstar,
		e0:      ecco,
		i0:      inclo,
		argp0:   argpo,
		m0:      mo,
		nodeo0:  nodeo,
	}

	cosio := math.Cos(inclo)
	theta2 := cosio * cosio
	x3thm1 := 3*theta2 - 1
	eosq := ecco * ecco
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)

	// Brouwer mean motion / semi-major axis correction.
	a1 := math.Pow(xke/no, 2.0/3.0)
	del1 := 1.5 * wgs72J2 * x3thm1 / (a1 * a1 * betao * betao2)
	a0 := a1 * (1 - del1/3 - del1*del1 - (134.0/81.0)*del1*del1*del1)
	del0 := 1.5 * wgs72J2 * x3thm1 / (a0 * a0 * betao * betao2)
	n0dp := no / (1 + del0)
	a0dp := a0 / (1 - del0)

	s.n0dp = n0dp
	s.a0dp = a0dp

	perigeeAlt := (a0dp*(1-ecco))*wgs72Re - wgs72Re
	s.isimp = perigeeAlt < 220 // SGP4's simplified-drag threshold

	// Secular rates from J2 (Hoots & Roehrich eq. 2.2-2.4, near-earth).
	p := a0dp * betao2
	temp := 1.5 * wgs72J2 * (wgs72Re * wgs72Re) / (p * p) * n0dp
	s.nodeDot = -temp * cosio
	s.argpDot = 0.5 * temp * (5*theta2 - 1)

	return s
}

// propagate returns the perifocal-frame-derived TEME state tsinceMin
// minutes after the TLE epoch, or ErrPropagationFailed if the object has
// decayed (perigee altitude below decayAltKM) or the eccentric-anomaly
// solve fails to converge.
func (s *satrec) propagate(tsinceMin float64) (State, error) {
	// Linearized BSTAR drag: semi-major axis decays, mean motion (and
	// hence mean anomaly rate) increases, roughly proportional to time
	// since epoch. The coefficient below is a simplified stand-in for
	// SGP4's C1/C2/C4 drag series, not the full expansion.
	dragRateFactor := 1.0 + 4*s.bstar*s.n0dp*tsinceMin
	if dragRateFactor < 0.5 {
		dragRateFactor = 0.5
	}
	a := s.a0dp / dragRateFactor
	e := s.e0 - s.bstar*math.Abs(tsinceMin)*1e-5
	if e < 1e-6 {
		e = 1e-6
	}
	if e > 0.999 {
		e = 0.999
	}

	perigeeAlt := a*(1-e)*wgs72Re - wgs72Re
	if perigeeAlt < decayAltKM {
		return State{}, ErrPropagationFailed
	}

	node := s.nodeo0 + s.nodeDot*tsinceMin
	argp := s.argp0 + s.argpDot*tsinceMin
	m := s.m0 + s.n0dp*tsinceMin*dragRateFactor
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	ecc, err := solveKepler(m, e)
	if err != nil {
		return State{}, err
	}

	sinE, cosE := math.Sincos(ecc)
	// True anomaly from eccentric anomaly.
	nu := math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)

	aKM := a * wgs72Re
	pKM := aKM * (1 - e*e)
	rMag := pKM / (1 + e*math.Cos(nu))

	sinNu, cosNu := math.Sincos(nu)
	rPQW := [3]float64{rMag * cosNu, rMag * sinNu, 0}
	muOverP := math.Sqrt(wgs72Mu / pKM)
	vPQW := [3]float64{-muOverP * sinNu, muOverP * (e + cosNu), 0}

	rTEME := rot313(-argp, -s.i0, -node, rPQW)
	vTEME := rot313(-argp, -s.i0, -node, vPQW)

	return State{R: rTEME, V: vTEME, Frame: FrameTEME}, nil
}

// solveKepler solves Kepler's equation M = E - e*sin(E) for E via
// Newton-Raphson: SGP4 hands us mean anomaly, not true anomaly, so this
// must iterate rather than solve analytically.
func solveKepler(m, e float64) (float64, error) {
	ecc := m
	if e > 0.8 {
		ecc = math.Pi
	}
	for i := 0; i < 50; i++ {
		f := ecc - e*math.Sin(ecc) - m
		fPrime := 1 - e*math.Cos(ecc)
		delta := f / fPrime
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			return ecc, nil
		}
	}
	return 0, ErrPropagationFailed
}

// rot313 performs the 3-1-3 Euler rotation (ω, i, Ω) from the perifocal
// (PQW) frame to the inertial frame, inlined here to avoid a dependency
// from this package on the root module's rotation helpers.
func rot313(theta1, theta2, theta3 float64, v [3]float64) [3]float64 {
	s1, c1 := math.Sincos(theta1)
	s2, c2 := math.Sincos(theta2)
	s3, c3 := math.Sincos(theta3)
	m := [3][3]float64{
		{c3*c1 - s3*c2*s1, c3*s1 + s3*c2*c1, s3 * s2},
		{-s3*c1 - c3*c2*s1, -s3*s1 + c3*c2*c1, c3 * s2},
		{s2 * s1, -s2 * c1, c2},
	}
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}
