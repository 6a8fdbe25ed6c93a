// Package concurrency provides the ISR-safe wrapper around a single
// *emac.Emac and the per-instance waker set that lets task code await
// RX/TX readiness without any global state. It targets the
// single-threaded-cooperative-executor-plus-ISR model: the only
// concurrent access to the controller is a task calling into it versus
// the interrupt handler calling into it, never two tasks at once.
package concurrency

import (
	"runtime/interrupt"

	"github.com/photon-circus/ph-esp32-mac/emac"
)

// SharedCell wraps exactly one Emac. It is a simpler primitive than a
// mutex: critical sections already serialize every caller, and an
// interrupt cannot preempt itself, so there is nothing left to arbitrate
// beyond detecting accidental reentrancy.
type SharedCell struct {
	inner  *emac.Emac
	active bool
}

// NewSharedCell wraps e.
func NewSharedCell(e *emac.Emac) *SharedCell {
	return &SharedCell{inner: e}
}

// With runs f with exclusive access to the wrapped Emac, masking
// interrupts for the duration. Nesting With calls on the same cell
// (calling With again from inside f, including from a re-entered ISR)
// panics rather than deadlocking silently.
func With[R any](c *SharedCell, f func(*emac.Emac) R) R {
	state := interrupt.Disable()
	defer state.Restore()
	if c.active {
		panic("concurrency: nested SharedCell.With")
	}
	c.active = true
	defer func() { c.active = false }()
	return f(c.inner)
}

// TryWith is With's non-panicking counterpart: ok is false, with f not
// called, if a With/TryWith on this cell is already active.
func TryWith[R any](c *SharedCell, f func(*emac.Emac) R) (result R, ok bool) {
	state := interrupt.Disable()
	defer state.Restore()
	if c.active {
		return result, false
	}
	c.active = true
	defer func() { c.active = false }()
	return f(c.inner), true
}
