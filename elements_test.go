package corosim

import (
	"math"
	"testing"

	"github.com/gonum/floats"

	"github.com/orbitkit/corosim/propagator"
	"github.com/orbitkit/corosim/tle"
)

const (
	issLine1 = "1 25544U 98067A   21001.00000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6442 339.8364 0002571  31.2677 328.8693 15.48919393123456"
)

func issTLERecord(t *testing.T) tle.Record {
	t.Helper()
	rec, err := tle.Parse(issLine1, issLine2)
	if err != nil {
		t.Fatalf("tle.Parse(ISS): %v", err)
	}
	return rec
}

// approxEqual is the tolerance-based comparison used throughout these
// tests, not exact float equality.
func approxEqual(a, b, tol float64) bool {
	return floats.EqualWithinAbs(a, b, tol)
}

func TestKeplerianToCartesianCircularOrbitRadius(t *testing.T) {
	// A circular (e=0), equatorial (i=0) orbit at 7000 km: |r| must equal
	// the semi-major axis regardless of true anomaly.
	ke := KeplerianElements{SemiMajorAxisKM: 7000, Eccentricity: 0, InclinationRad: 0, TrueAnomalyRad: 1.2}
	r, v := keplerianToCartesian(ke)
	if got := norm(r); !approxEqual(got, 7000, 1e-6) {
		t.Fatalf("|r| = %v, want 7000", got)
	}
	// Circular velocity magnitude: sqrt(mu/a).
	want := math.Sqrt(earthMu / 7000)
	if got := norm(v); !approxEqual(got, want, 1e-6) {
		t.Fatalf("|v| = %v, want %v", got, want)
	}
}

func TestKeplerianToCartesianEllipticalPerigee(t *testing.T) {
	// At true anomaly 0 (perigee), |r| = a(1-e).
	ke := KeplerianElements{SemiMajorAxisKM: 8000, Eccentricity: 0.1, InclinationRad: 0.5, RAANRad: 0.3, ArgPerigeeRad: 0.4, TrueAnomalyRad: 0}
	r, _ := keplerianToCartesian(ke)
	want := 8000 * (1 - 0.1)
	if got := norm(r); !approxEqual(got, want, 1e-6) {
		t.Fatalf("|r| at perigee = %v, want %v", got, want)
	}
}

func TestNewPropagatorForElementsCartesianSeedsTwoBody(t *testing.T) {
	oe := OrbitalElements{Kind: ElementsCartesian, Cartesian: CartesianElements{
		R: [3]float64{7000, 0, 0}, V: [3]float64{0, 7.5, 0}, Frame: FrameECI,
	}}
	prop, err := NewPropagatorForElements(oe)
	if err != nil {
		t.Fatalf("NewPropagatorForElements: %v", err)
	}
	st, err := prop.Step(0)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if st.Frame != FrameECI {
		t.Fatalf("Step().Frame = %v, want ECI", st.Frame)
	}
	if !approxEqual(st.R[0], 7000, 1e-9) {
		t.Fatalf("first Step with deltaT=0 moved position: %v", st.R)
	}
}

func TestNewPropagatorForElementsUnknownKindRejected(t *testing.T) {
	_, err := NewPropagatorForElements(OrbitalElements{})
	if err != ErrInvariantViolation {
		t.Fatalf("NewPropagatorForElements(zero value) = %v, want ErrInvariantViolation", err)
	}
}

func TestNewPropagatorForElementsTLEUsesHybridConfig(t *testing.T) {
	oe := OrbitalElements{Kind: ElementsTLE, TLE: issTLERecord(t)}
	hcfg := propagator.HybridConfig{SGP4IntervalMS: 1000, StaggerOffsetMS: 5, JumpThresholdS: 10, UseRK2: true}
	prop, err := NewPropagatorForElementsWithHybridConfig(oe, hcfg)
	if err != nil {
		t.Fatalf("NewPropagatorForElementsWithHybridConfig: %v", err)
	}
	h, ok := prop.(*propagator.Hybrid)
	if !ok {
		t.Fatalf("TLE element set did not produce a *propagator.Hybrid")
	}
	// 1005 ms after the seed step is exactly hcfg's interval plus stagger:
	// the supplied config refreshes SGP4 here, the 60s default would not.
	t0 := 1609459200000.0
	if _, err := h.Step(t0); err != nil {
		t.Fatalf("seed step: %v", err)
	}
	if _, err := h.Step(t0 + 1005); err != nil {
		t.Fatalf("step: %v", err)
	}
	if leg := h.LastLeg(); leg != "sgp4" {
		t.Fatalf("LastLeg() = %q at interval+stagger, want \"sgp4\"", leg)
	}
}
