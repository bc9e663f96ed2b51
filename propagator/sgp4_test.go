package propagator

import (
	"math"
	"testing"

	"github.com/orbitkit/corosim/tle"
)

const (
	issLine1 = "1 25544U 98067A   21001.00000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6442 339.8364 0002571  31.2677 328.8693 15.48919393123456"
)

func issRecord(t *testing.T) tle.Record {
	t.Helper()
	rec, err := tle.Parse(issLine1, issLine2)
	if err != nil {
		t.Fatalf("parse ISS TLE: %v", err)
	}
	return rec
}

func TestSGP4SingleStepMagnitude(t *testing.T) {
	rec := issRecord(t)
	p := NewSGP4(rec)

	const tSim = 1609459200000 // 2021-01-01T00:00:00Z
	st, err := p.Step(tSim)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if st.Frame != FrameTEME {
		t.Fatalf("frame = %v, want TEME", st.Frame)
	}
	mag := math.Sqrt(st.R[0]*st.R[0] + st.R[1]*st.R[1] + st.R[2]*st.R[2])
	if mag < 6600 || mag > 6900 {
		t.Fatalf("|r| = %f km, want within [6600, 6900]", mag)
	}
}

func TestSGP4MalformedIsPermanentlyNotInitialized(t *testing.T) {
	rec := issRecord(t)
	rec.Eccentricity = 1.5 // invalid
	p := NewSGP4(rec)

	for i := 0; i < 3; i++ {
		if _, err := p.Step(float64(i) * 1000); err != ErrNotInitialized {
			t.Fatalf("call %d: err = %v, want ErrNotInitialized", i, err)
		}
	}
}

func TestSGP4StepIntoWritesBuffer(t *testing.T) {
	rec := issRecord(t)
	p := NewSGP4(rec)
	buf := make([]float32, 9)
	vel, frame, err := p.StepInto(1609459200000, buf, 1)
	if err != nil {
		t.Fatalf("step into: %v", err)
	}
	if frame != FrameTEME {
		t.Fatalf("frame = %v", frame)
	}
	if buf[0] != 0 || buf[1] != 0 || buf[2] != 0 {
		t.Fatalf("slot 0 should be untouched, got %v", buf[:3])
	}
	if buf[3] == 0 && buf[4] == 0 && buf[5] == 0 {
		t.Fatalf("slot 1 was not written")
	}
	if vel == ([3]float64{}) {
		t.Fatalf("velocity not populated")
	}
}
