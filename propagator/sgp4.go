package propagator

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"

	"github.com/orbitkit/corosim/tle"
)

// SGP4 wraps a precomputed satellite record. Construction (NewSGP4)
// never fails even for a malformed record; instead the propagator
// remembers the failure and every Step call reports ErrNotInitialized,
// so construction with a malformed TLE yields a permanently-failing
// propagator rather than an error the caller must check immediately.
// Initialization happens once here, in NewSGP4, and never again.
type SGP4 struct {
	rec     tle.Record
	sat     *satrec
	initErr error
}

// NewSGP4 precomputes the satellite record from rec at construction
// time rather than on first Step, so a malformed TLE fails fast.
func NewSGP4(rec tle.Record) *SGP4 {
	p := &SGP4{rec: rec}

	ecco := rec.Eccentricity
	if ecco < 0 || ecco >= 1 {
		p.initErr = ErrNotInitialized
		return p
	}
	inclo := rec.Inclination * deg2rad
	argpo := rec.ArgOfPerigee * deg2rad
	mo := rec.MeanAnomaly * deg2rad
	nodeo := rec.RAAN * deg2rad
	no := rec.MeanMotion * 2 * math.Pi / minPerDay // rev/day -> rad/min
	if no <= 0 {
		p.initErr = ErrNotInitialized
		return p
	}

	epochTime := time.Date(rec.EpochYear, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration((rec.EpochDay - 1) * 24 * float64(time.Hour)))
	epochJD := julian.TimeToJD(epochTime)

	p.sat = initSatrec(epochJD, rec.BStar, ecco, inclo, argpo, mo, no, nodeo)
	return p
}

const deg2rad = math.Pi / 180

// Step implements Propagator. It always reports the TEME frame.
func (p *SGP4) Step(tSimMS float64) (State, error) {
	if p.initErr != nil {
		return State{}, p.initErr
	}
	tsinceMin := minutesSinceEpoch(tSimMS, p.sat.epochJD)
	return p.sat.propagate(tsinceMin)
}

// StepInto implements StepperInto, writing directly into buf at slot*3.
func (p *SGP4) StepInto(tSimMS float64, buf []float32, slot int) ([3]float64, Frame, error) {
	st, err := p.Step(tSimMS)
	if err != nil {
		return [3]float64{}, FrameUnknown, err
	}
	base := slot * 3
	buf[base] = float32(st.R[0])
	buf[base+1] = float32(st.R[1])
	buf[base+2] = float32(st.R[2])
	return st.V, st.Frame, nil
}

func minutesSinceEpoch(tSimMS, epochJD float64) float64 {
	tSimTime := time.UnixMilli(int64(tSimMS)).UTC()
	tJD := julian.TimeToJD(tSimTime)
	return (tJD - epochJD) * minPerDay
}
