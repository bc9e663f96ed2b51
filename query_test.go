package corosim

import (
	"sort"
	"testing"
)

func handleSet(hs []Handle) map[Handle]bool {
	m := make(map[Handle]bool, len(hs))
	for _, h := range hs {
		m[h] = true
	}
	return m
}

func TestQueryWithIntersection(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)

	s.Attach(1, KindOrbitalElements, OrbitalElements{})
	s.Attach(1, KindPropagator, PropagatorComponent{})
	s.Attach(2, KindOrbitalElements, OrbitalElements{})
	// handle 2 has no propagator, so should be excluded below.

	got := handleSet(q.With(KindOrbitalElements, KindPropagator))
	if len(got) != 1 || !got[1] {
		t.Fatalf("With intersection = %v, want {1}", got)
	}
}

func TestQueryWithUnknownKindEmpty(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	if got := q.With(KindMesh); got != nil {
		t.Fatalf("With(unknown kind) = %v, want nil", got)
	}
}

func TestQueryVisibleAt(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	s.Attach(1, KindTimeVisibility, TimeVisibilityComponent{Start: 0, End: 100})
	s.Attach(2, KindTimeVisibility, TimeVisibilityComponent{Start: 200, End: 300})

	got := handleSet(q.VisibleAt(50))
	if len(got) != 1 || !got[1] {
		t.Fatalf("VisibleAt(50) = %v, want {1}", got)
	}
	if got := q.VisibleAt(100); len(got) != 0 {
		t.Fatalf("VisibleAt(100) = %v, want {} (end is exclusive)", got)
	}
}

func TestQueryInRadius(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	s.Attach(1, KindPosition, PositionComponent{X: 1, Y: 0, Z: 0, Frame: FrameECI})
	s.Attach(2, KindPosition, PositionComponent{X: 100, Y: 0, Z: 0, Frame: FrameECI})

	got := handleSet(q.InRadius([3]float64{0, 0, 0}, 10, FrameUnknownZero))
	if len(got) != 1 || !got[1] {
		t.Fatalf("InRadius = %v, want {1}", got)
	}
}

func TestQueryInRadiusFrameFilter(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	s.Attach(1, KindPosition, PositionComponent{X: 1, Frame: FrameECI})
	s.Attach(2, KindPosition, PositionComponent{X: 1, Frame: FrameECEF})

	got := handleSet(q.InRadius([3]float64{0, 0, 0}, 10, FrameECI))
	if len(got) != 1 || !got[1] {
		t.Fatalf("InRadius restricted to FrameECI = %v, want {1}", got)
	}
}

func TestQueryBuildIndexAndLookup(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	s.Attach(1, KindBillboard, BillboardComponent{ColorRGB: 0xff0000})
	s.Attach(2, KindBillboard, BillboardComponent{ColorRGB: 0xff0000})
	s.Attach(3, KindBillboard, BillboardComponent{ColorRGB: 0x00ff00})

	q.BuildIndex("by-color", KindBillboard, func(row any) any {
		return row.(BillboardComponent).ColorRGB
	})

	got := q.Lookup("by-color", uint32(0xff0000))
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Lookup(by-color, 0xff0000) = %v, want [1 2]", got)
	}
	if got := q.Lookup("unknown-index", 1); got != nil {
		t.Fatalf("Lookup on unknown index = %v, want nil", got)
	}
}

func TestQueryInFrustum(t *testing.T) {
	s := NewStore(nil)
	q := NewQueryService(s)
	s.Attach(1, KindPosition, PositionComponent{X: 0, Y: 0, Z: 0})
	s.Attach(2, KindPosition, PositionComponent{X: -100, Y: 0, Z: 0})

	// A single plane requiring x >= 0.
	fr := Frustum{Planes: [6][4]float64{
		{1, 0, 0, 0},
		{0, 0, 0, 1}, {0, 0, 0, 1}, {0, 0, 0, 1}, {0, 0, 0, 1}, {0, 0, 0, 1},
	}}
	got := handleSet(q.InFrustum(fr))
	if len(got) != 1 || !got[1] {
		t.Fatalf("InFrustum = %v, want {1}", got)
	}
}
