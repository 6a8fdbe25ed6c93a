package concurrency

import (
	"runtime/interrupt"

	"github.com/photon-circus/ph-esp32-mac/emac"
)

// Waker is called to tell a suspended task it should poll again. It
// carries no payload; the task re-checks the condition it was waiting
// on itself.
type Waker func()

// WakerSet holds one waker slot per event class (RX, TX, error) plus
// the most recently observed interrupt status. It is the only state
// the ISR touches besides the hardware status register itself, and
// every access goes through the same critical section SharedCell uses.
type WakerSet struct {
	rx, tx, errW Waker
	snapshot     emac.InterruptStatus
}

// NewWakerSet returns an empty waker set.
func NewWakerSet() *WakerSet { return &WakerSet{} }

// RegisterRx stores waker in the RX slot, replacing whatever was there.
func (w *WakerSet) RegisterRx(waker Waker) { w.register(&w.rx, waker) }

// RegisterTx stores waker in the TX slot, replacing whatever was there.
func (w *WakerSet) RegisterTx(waker Waker) { w.register(&w.tx, waker) }

// RegisterErr stores waker in the error slot, replacing whatever was there.
func (w *WakerSet) RegisterErr(waker Waker) { w.register(&w.errW, waker) }

func (w *WakerSet) register(slot *Waker, waker Waker) {
	state := interrupt.Disable()
	*slot = waker
	state.Restore()
}

// WakeRx takes the RX slot's waker, if any, and calls it outside the
// critical section.
func (w *WakerSet) WakeRx() { w.wake(&w.rx) }

// WakeTx takes the TX slot's waker, if any, and calls it outside the
// critical section.
func (w *WakerSet) WakeTx() { w.wake(&w.tx) }

// WakeErr takes the error slot's waker, if any, and calls it outside
// the critical section.
func (w *WakerSet) WakeErr() { w.wake(&w.errW) }

func (w *WakerSet) wake(slot *Waker) {
	state := interrupt.Disable()
	waker := *slot
	*slot = nil
	state.Restore()
	if waker != nil {
		waker()
	}
}

// SnapshotStatus returns the interrupt status most recently stored by
// the ISR, for inspection by async helpers that want to know why they
// were woken without re-reading hardware.
func (w *WakerSet) SnapshotStatus() emac.InterruptStatus {
	state := interrupt.Disable()
	defer state.Restore()
	return w.snapshot
}

func (w *WakerSet) setSnapshot(s emac.InterruptStatus) {
	state := interrupt.Disable()
	w.snapshot = s
	state.Restore()
}

// HandleInterrupt is the ISR entry point: it reads-and-clears the MAC's
// interrupt status through cell, stores the snapshot, and wakes
// whichever slots correspond to the event classes that fired. The ISR
// itself has no failure path; W1C register access cannot fail.
func HandleInterrupt(cell *SharedCell, wakers *WakerSet) emac.InterruptStatus {
	status := With(cell, func(e *emac.Emac) emac.InterruptStatus { return e.HandleInterrupt() })
	wakers.setSnapshot(status)

	if status.RxComplete || status.RxBufferUnavailable || status.RxOverflow {
		wakers.WakeRx()
	}
	if status.TxComplete || status.TxBufferUnavailable || status.TxUnderflow {
		wakers.WakeTx()
	}
	if status.FatalBusError {
		wakers.WakeErr()
	}
	return status
}
