package corosim

// PositionBuffer owns the packed f32[3*capacity] array the renderer
// reads once per frame. Slot allocation is independent of
// entity creation order and is stable until release: a handle keeps its
// slot across any number of frames, and released slots are reused
// LIFO, mirroring the free-list shape of HandleAllocator but over
// buffer slots instead of handles.
type PositionBuffer struct {
	capacity int
	data     []float32 // len == capacity*3

	slotOf map[Handle]int
	handleOf map[int]Handle
	free     []int
	hwm      int
}

// NewPositionBuffer returns a buffer with room for capacity slots.
func NewPositionBuffer(capacity int) *PositionBuffer {
	return &PositionBuffer{
		capacity: capacity,
		data:     make([]float32, capacity*3),
		slotOf:   make(map[Handle]int),
		handleOf: make(map[int]Handle),
	}
}

// SlotOf returns the slot allocated to h, if any.
func (b *PositionBuffer) SlotOf(h Handle) (slot int, ok bool) {
	slot, ok = b.slotOf[h]
	return
}

// Allocate returns h's slot, allocating one if h doesn't have one yet.
// It is idempotent: calling it twice in a row for the same handle
// returns the same slot and leaves the free list unchanged. Slots come from the free list first, then the
// high-water mark; ErrCapacityExceeded is returned once both are exhausted.
func (b *PositionBuffer) Allocate(h Handle) (int, error) {
	if slot, ok := b.slotOf[h]; ok {
		return slot, nil
	}
	var slot int
	if n := len(b.free); n > 0 {
		slot = b.free[n-1]
		b.free = b.free[:n-1]
	} else if b.hwm < b.capacity {
		slot = b.hwm
		b.hwm++
	} else {
		return 0, ErrCapacityExceeded
	}
	b.slotOf[h] = slot
	b.handleOf[slot] = h
	return slot, nil
}

// Release returns h's slot to the free list and zeros its three floats,
// the buffer's agreed "hidden" sentinel. Releasing a handle
// with no slot is a no-op.
func (b *PositionBuffer) Release(h Handle) {
	slot, ok := b.slotOf[h]
	if !ok {
		return
	}
	delete(b.slotOf, h)
	delete(b.handleOf, slot)
	b.free = append(b.free, slot)
	base := slot * 3
	b.data[base] = 0
	b.data[base+1] = 0
	b.data[base+2] = 0
}

// Write stores (x, y, z) at slot.
func (b *PositionBuffer) Write(slot int, x, y, z float32) {
	base := slot * 3
	b.data[base] = x
	b.data[base+1] = y
	b.data[base+2] = z
}

// Read returns the three floats at slot.
func (b *PositionBuffer) Read(slot int) (x, y, z float32) {
	base := slot * 3
	return b.data[base], b.data[base+1], b.data[base+2]
}

// Raw returns the zero-copy backing array for the renderer. Callers
// must not resize the returned slice; resizing the buffer itself is not
// supported (a renderer that needs more capacity restarts with a larger
// NewPositionBuffer).
func (b *PositionBuffer) Raw() []float32 {
	return b.data
}

// HighWaterMark returns the number of slots ever allocated (hwm), the
// bound the renderer should use when walking Raw() instead of reading
// the full capacity*3 floats.
func (b *PositionBuffer) HighWaterMark() int {
	return b.hwm
}

// Capacity returns the configured slot capacity.
func (b *PositionBuffer) Capacity() int {
	return b.capacity
}

// HandleAt returns the handle occupying slot, if any.
func (b *PositionBuffer) HandleAt(slot int) (Handle, bool) {
	h, ok := b.handleOf[slot]
	return h, ok
}
