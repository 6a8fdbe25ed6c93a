package concurrency

import (
	"testing"

	"github.com/photon-circus/ph-esp32-mac/emac"
	"github.com/stretchr/testify/assert"
)

func TestWakeRxCallsRegisteredWakerExactlyOnce(t *testing.T) {
	w := NewWakerSet()
	calls := 0
	w.RegisterRx(func() { calls++ })
	w.WakeRx()
	w.WakeRx() // the slot was cleared by the first wake
	assert.Equal(t, 1, calls)
}

func TestWakeTxAndWakeErrAreIndependentSlots(t *testing.T) {
	w := NewWakerSet()
	var rx, tx, errCalls int
	w.RegisterRx(func() { rx++ })
	w.RegisterTx(func() { tx++ })
	w.RegisterErr(func() { errCalls++ })

	w.WakeTx()
	assert.Equal(t, 0, rx)
	assert.Equal(t, 1, tx)
	assert.Equal(t, 0, errCalls)
}

func TestWakeWithNoRegisteredWakerIsANoop(t *testing.T) {
	w := NewWakerSet()
	assert.NotPanics(t, func() { w.WakeRx() })
}

func TestRegisterReplacesPreviousWaker(t *testing.T) {
	w := NewWakerSet()
	var first, second bool
	w.RegisterRx(func() { first = true })
	w.RegisterRx(func() { second = true })
	w.WakeRx()
	assert.False(t, first)
	assert.True(t, second)
}

func TestSnapshotStatusReflectsLastStoredValue(t *testing.T) {
	w := NewWakerSet()
	assert.Equal(t, emac.InterruptStatus{}, w.SnapshotStatus())

	want := emac.FromRaw(0) // zero value, but exercises the real parse path
	w.setSnapshot(want)
	assert.Equal(t, want, w.SnapshotStatus())
}
