package corosim

import (
	"errors"
	"testing"

	"github.com/orbitkit/corosim/tle"
)

func TestStoreAttachRequiresOrbitalElementsForPropagator(t *testing.T) {
	s := NewStore(nil)
	err := s.Attach(1, KindPropagator, PropagatorComponent{})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Attach(propagator) without elements = %v, want ErrInvariantViolation", err)
	}
	if _, ok := s.Get(1, KindPropagator); ok {
		t.Fatalf("propagator row present after rejected Attach")
	}
}

func TestStoreAttachDetachRoundTrip(t *testing.T) {
	s := NewStore(nil)
	oe := OrbitalElements{Kind: ElementsTLE, TLE: tle.Record{Name: "TEST"}}
	if err := s.Attach(1, KindOrbitalElements, oe); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	s.Detach(1, KindOrbitalElements)
	if _, ok := s.Get(1, KindOrbitalElements); ok {
		t.Fatalf("row still present after Detach")
	}
	if kinds := s.KindsOf(1); len(kinds) != 0 {
		t.Fatalf("KindsOf after Detach = %v, want empty", kinds)
	}
}

func TestStoreMarksDirtyOnAttachAndDetach(t *testing.T) {
	s := NewStore(nil)
	s.Attach(1, KindOrbitalElements, OrbitalElements{Kind: ElementsCartesian})
	dirty := s.DirtyHandles()
	if len(dirty) != 1 || dirty[0] != 1 {
		t.Fatalf("DirtyHandles = %v, want [1]", dirty)
	}
	s.ClearDirty()
	if len(s.DirtyHandles()) != 0 {
		t.Fatalf("DirtyHandles after ClearDirty not empty")
	}
	s.Detach(1, KindOrbitalElements)
	if len(s.DirtyHandles()) != 1 {
		t.Fatalf("Detach did not mark handle dirty")
	}
}

func TestStoreDestroyEntityRemovesAllKinds(t *testing.T) {
	s := NewStore(nil)
	s.Attach(1, KindOrbitalElements, OrbitalElements{Kind: ElementsCartesian})
	s.Attach(1, KindPropagator, PropagatorComponent{})
	s.Attach(1, KindBillboard, BillboardComponent{Size: 1})
	s.DestroyEntity(1)
	for _, k := range []Kind{KindOrbitalElements, KindPropagator, KindBillboard} {
		if s.Has(1, k) {
			t.Fatalf("kind %s still present after DestroyEntity", k)
		}
	}
	if kinds := s.KindsOf(1); kinds != nil {
		t.Fatalf("KindsOf after destroy = %v, want nil", kinds)
	}
}

func TestStoreGetMissingIsAbsentNotError(t *testing.T) {
	s := NewStore(nil)
	if _, ok := s.Get(42, KindPosition); ok {
		t.Fatalf("Get on empty store returned ok=true")
	}
}

func TestStoreAttachOverwritesAndRemainsDirty(t *testing.T) {
	s := NewStore(nil)
	s.Attach(1, KindBillboard, BillboardComponent{Size: 1})
	s.ClearDirty()
	s.Attach(1, KindBillboard, BillboardComponent{Size: 2})
	row, _ := s.Get(1, KindBillboard)
	if row.(BillboardComponent).Size != 2 {
		t.Fatalf("Attach did not overwrite prior row")
	}
	if !s.Has(1, KindBillboard) {
		t.Fatalf("Has reports false after overwrite")
	}
	if dirty := s.DirtyHandles(); len(dirty) != 1 || dirty[0] != 1 {
		t.Fatalf("DirtyHandles after overwrite = %v, want [1]", dirty)
	}
}
