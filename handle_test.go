package corosim

import "testing"

func TestHandleAllocatorUniqueAndBounded(t *testing.T) {
	a := NewHandleAllocator(3)
	seen := make(map[Handle]bool)
	for i := 0; i < 3; i++ {
		h, err := a.Create()
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[h] {
			t.Fatalf("handle %s issued twice while live", h)
		}
		seen[h] = true
	}
	if _, err := a.Create(); err != ErrCapacityExceeded {
		t.Fatalf("Create at capacity = %v, want ErrCapacityExceeded", err)
	}
}

func TestHandleAllocatorReissueAfterDestroy(t *testing.T) {
	a := NewHandleAllocator(1)
	h1, err := a.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	a.Destroy(h1)
	h2, err := a.Create()
	if err != nil {
		t.Fatalf("Create after destroy: %v", err)
	}
	if h2 != h1 {
		t.Fatalf("reissued handle = %s, want %s (free-list reuse)", h2, h1)
	}
	if !a.IsLive(h2) {
		t.Fatalf("reissued handle reports not live")
	}
}

func TestHandleAllocatorDoubleDestroyNoop(t *testing.T) {
	a := NewHandleAllocator(2)
	h, _ := a.Create()
	a.Destroy(h)
	a.Destroy(h) // must not corrupt the free list
	h2, _ := a.Create()
	h3, err := a.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h2 == h3 {
		t.Fatalf("free list corrupted: both creates returned %s", h2)
	}
}

func TestHandleZeroNeverLive(t *testing.T) {
	a := NewHandleAllocator(1)
	if a.IsLive(0) {
		t.Fatalf("handle 0 must never be live")
	}
}
