// Package ring implements the generic circular descriptor buffer shared
// by the TX and RX DMA rings: a fixed-size slice of descriptors plus a
// CPU cursor, with no dynamic growth.
package ring

import "unsafe"

// Ring holds N descriptors of type D and a cursor indexing the next one
// the CPU will inspect. It carries no "tail" pointer; the DMA's
// effective tail is derived from OWN bits by the DMA engine, not stored
// here.
type Ring[D any] struct {
	descs  []D
	cursor int
}

// New wraps an existing, already-sized slice of descriptors. The slice's
// backing array is the ring's storage for its entire lifetime; Ring never
// allocates.
func New[D any](descs []D) *Ring[D] {
	if len(descs) < 1 {
		panic("ring: N must be >= 1")
	}
	return &Ring[D]{descs: descs}
}

// Len returns N, the ring's fixed descriptor count.
func (r *Ring[D]) Len() int { return len(r.descs) }

// Cursor returns the current CPU cursor position, in 0..Len().
func (r *Ring[D]) Cursor() int { return r.cursor }

// Current returns the descriptor at the cursor.
func (r *Ring[D]) Current() *D { return &r.descs[r.cursor] }

// Advance moves the cursor forward by one, modulo N. On a one-element
// ring this is a no-op, matching §4.3's bringup-only single-descriptor
// case.
func (r *Ring[D]) Advance() {
	if len(r.descs) > 1 {
		r.cursor = (r.cursor + 1) % len(r.descs)
	}
}

// AdvanceBy moves the cursor forward by k positions, modulo N.
func (r *Ring[D]) AdvanceBy(k int) {
	if len(r.descs) > 1 {
		r.cursor = (r.cursor + k) % len(r.descs)
	}
}

// Reset returns the cursor to 0.
func (r *Ring[D]) Reset() { r.cursor = 0 }

// AtOffset returns the descriptor k positions ahead of the cursor,
// modulo N.
func (r *Ring[D]) AtOffset(k int) *D {
	return &r.descs[(r.cursor+k)%len(r.descs)]
}

// ForEach visits every descriptor by index, in ring order starting at 0
// (not at the cursor). It never allocates, standing in for the paired
// iter()/iter_mut() accessors since Go pointers are already mutable
// through a single method. Returning false from f stops the walk early.
func (r *Ring[D]) ForEach(f func(i int, d *D) bool) {
	for i := range r.descs {
		if !f(i, &r.descs[i]) {
			return
		}
	}
}

// BaseAddr returns the physical address of descriptor 0, the value
// written into the DMA's RX/TX list address register.
func (r *Ring[D]) BaseAddr() uint32 {
	return uint32(uintptr(unsafe.Pointer(&r.descs[0])))
}
