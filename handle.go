package corosim

import "fmt"

// Handle is an opaque, non-zero identifier for a simulation object. It is
// never dereferenced directly: every piece of data about the object it
// names lives in a component table, keyed by this value.
type Handle uint32

// String implements the Stringer interface, giving every domain type a
// human-readable representation for logs.
func (h Handle) String() string {
	return fmt.Sprintf("#%d", uint32(h))
}

// DefaultMaxLive is the allocator's default ceiling on live handles.
const DefaultMaxLive = 100000

// HandleAllocator hands out dense, reusable Handles: a bump counter plus
// a free list. Create reuses the most recently destroyed handle first
// (LIFO), which is not necessarily the smallest free value, and only
// bumps the counter when the free list is empty.
type HandleAllocator struct {
	maxLive int
	next    Handle
	free    []Handle
	live    map[Handle]struct{}
}

// NewHandleAllocator returns an allocator with the given live-handle
// ceiling. A maxLive of 0 uses DefaultMaxLive.
func NewHandleAllocator(maxLive int) *HandleAllocator {
	if maxLive <= 0 {
		maxLive = DefaultMaxLive
	}
	return &HandleAllocator{
		maxLive: maxLive,
		next:    1, // zero is never a live handle
		live:    make(map[Handle]struct{}),
	}
}

// Create returns a new, live Handle, or ErrCapacityExceeded if maxLive
// live handles already exist.
func (a *HandleAllocator) Create() (Handle, error) {
	if len(a.live) >= a.maxLive {
		return 0, ErrCapacityExceeded
	}
	var h Handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		h = a.next
		a.next++
	}
	a.live[h] = struct{}{}
	return h, nil
}

// Destroy releases h back to the free list. Destroying a handle that
// isn't live is a no-op: the store's own Destroy is responsible for
// removing component rows, and a double-destroy must not corrupt the
// free list by adding h twice.
func (a *HandleAllocator) Destroy(h Handle) {
	if _, ok := a.live[h]; !ok {
		return
	}
	delete(a.live, h)
	a.free = append(a.free, h)
}

// IsLive reports whether h currently names a live object.
func (a *HandleAllocator) IsLive(h Handle) bool {
	_, ok := a.live[h]
	return ok
}

// Len returns the number of currently live handles.
func (a *HandleAllocator) Len() int {
	return len(a.live)
}

// MaxLive returns the configured ceiling.
func (a *HandleAllocator) MaxLive() int {
	return a.maxLive
}
