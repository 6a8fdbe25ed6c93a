package concurrency

import (
	"testing"

	"github.com/photon-circus/ph-esp32-mac/emac"
	"github.com/photon-circus/ph-esp32-mac/internal/desc"
	"github.com/stretchr/testify/assert"
)

// newTestEmac builds an Emac that has never had Init called, so no
// hardware register is ever touched by the tests in this package: every
// method exercised here (State, RxAvailable, TxReady, Receive's
// BufferTooSmall path, Transmit's early-return paths) only manipulates
// descriptor and ring state that lives in ordinary memory. The RX
// descriptor holds a completed frame longer than any buffer these tests
// pass, so Receive stops at BufferTooSmall and never reaches the recycle
// path that pokes the RX poll-demand register.
func newTestEmac(t *testing.T) *emac.Emac {
	t.Helper()
	txDescs := make([]desc.TxDescriptor, 1)
	rxDescs := make([]desc.RxDescriptor, 1)
	rxDescs[0].SimulateRxComplete(100)
	txBufs := [][]byte{make([]byte, 64)}
	rxBufs := [][]byte{make([]byte, 64)}
	return emac.New(txDescs, txBufs, rxDescs, rxBufs, emac.EmacConfig{}, nil)
}

func TestWithReturnsCallbackResult(t *testing.T) {
	cell := NewSharedCell(newTestEmac(t))
	got := With(cell, func(e *emac.Emac) emac.State { return e.State() })
	assert.Equal(t, emac.Uninitialized, got)
}

func TestWithPanicsOnNestedCall(t *testing.T) {
	cell := NewSharedCell(newTestEmac(t))
	assert.Panics(t, func() {
		With(cell, func(e *emac.Emac) int {
			return With(cell, func(*emac.Emac) int { return 0 })
		})
	})
}

func TestTryWithFailsOnNestedCall(t *testing.T) {
	cell := NewSharedCell(newTestEmac(t))
	_, ok := TryWith(cell, func(e *emac.Emac) int {
		_, inner := TryWith(cell, func(*emac.Emac) int { return 0 })
		assert.False(t, inner)
		return 0
	})
	assert.True(t, ok, "the outer call itself must still succeed")
}

func TestWithAfterPriorCallCompletesIsNotNested(t *testing.T) {
	cell := NewSharedCell(newTestEmac(t))
	With(cell, func(*emac.Emac) int { return 0 })
	assert.NotPanics(t, func() {
		With(cell, func(*emac.Emac) int { return 0 })
	})
}
