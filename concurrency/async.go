package concurrency

import "github.com/photon-circus/ph-esp32-mac/emac"

// receiveResult bundles Receive's two return values so With's single
// type parameter can carry both across the critical section.
type receiveResult struct {
	n   int
	err error
}

// ReceivePoll implements the mandatory wait ordering: register the
// waker before checking availability, so an interrupt arriving between
// the check and the registration is never missed (the lost-wakeup
// race). ready is false when no frame was available; the caller's
// executor should suspend until wake is called, then call ReceivePoll
// again. wake may be called more than once; only the last registration
// before a wakeup fires.
func ReceivePoll(cell *SharedCell, wakers *WakerSet, out []byte, wake Waker) (n int, err error, ready bool) {
	wakers.RegisterRx(wake)
	available := With(cell, func(e *emac.Emac) bool { return e.RxAvailable() })
	if !available {
		return 0, nil, false
	}
	res := With(cell, func(e *emac.Emac) receiveResult {
		n, err := e.Receive(out)
		return receiveResult{n: n, err: err}
	})
	return res.n, res.err, true
}

// TransmitPoll is ReceivePoll's symmetric counterpart on TX readiness.
func TransmitPoll(cell *SharedCell, wakers *WakerSet, frame []byte, wake Waker) (err error, ready bool) {
	wakers.RegisterTx(wake)
	available := With(cell, func(e *emac.Emac) bool { return e.TxReady() })
	if !available {
		return nil, false
	}
	err = With(cell, func(e *emac.Emac) error { return e.Transmit(frame) })
	return err, true
}
