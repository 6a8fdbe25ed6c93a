// Package dma implements the descriptor-based TX/RX data path: ring
// initialization, frame submission and reclaim, and the receive/recycle
// cycle. It owns no register state outside the DMA block's own list
// address and poll-demand registers; MAC-level enable bits are the emac
// package's concern.
package dma

import (
	"log/slog"

	"github.com/photon-circus/ph-esp32-mac/internal/desc"
	"github.com/photon-circus/ph-esp32-mac/internal/regs"
	"github.com/photon-circus/ph-esp32-mac/internal/ring"
)

// Engine owns one TX ring and one RX ring, each paired with a
// statically-sized slice of packet buffers supplied by the caller at
// construction time. Buffer and descriptor counts are runtime slice
// lengths rather than type parameters: Go has no const generics, so
// the teacher's Rust counterpart's N_RX/N_TX/BUF type parameters become
// ordinary constructor arguments here.
type Engine struct {
	txRing *ring.Ring[desc.TxDescriptor]
	rxRing *ring.Ring[desc.RxDescriptor]
	txBufs [][]byte
	rxBufs [][]byte
	bufSize      int
	checksumMode uint32
	log          *slog.Logger

	// txPollDemand/rxPollDemand default to the real MMIO pokes in
	// internal/regs. Tests substitute a no-op so the boundary checks in
	// Transmit/Receive can be exercised on a host without touching
	// physical register addresses.
	txPollDemand func()
	rxPollDemand func()
}

// NewEngine wires together caller-allocated descriptor and buffer
// slices. Every txBufs/rxBufs entry must be the same length; that
// length is the single-descriptor frame size ceiling used by Transmit's
// FrameTooLarge check. log may be nil.
func NewEngine(txDescs []desc.TxDescriptor, txBufs [][]byte, rxDescs []desc.RxDescriptor, rxBufs [][]byte, checksumMode uint32, log *slog.Logger) *Engine {
	if len(txDescs) != len(txBufs) || len(rxDescs) != len(rxBufs) {
		panic("dma: descriptor and buffer slice counts must match")
	}
	return &Engine{
		txRing:       ring.New(txDescs),
		rxRing:       ring.New(rxDescs),
		txBufs:       txBufs,
		rxBufs:       rxBufs,
		bufSize:      len(rxBufs[0]),
		checksumMode: checksumMode,
		log:          log,
		txPollDemand: regs.TxPollDemand,
		rxPollDemand: regs.RxPollDemand,
	}
}

// Init chains every descriptor to its successor, hands the RX ring to
// the DMA by setting OWN on each entry, and latches both ring base
// addresses into the DMA's list address registers. Per §4.4.1 this must
// run after bus-mode programming and before DMA start; the caller (the
// emac package) sequences that ordering.
func (e *Engine) Init() {
	n := e.rxRing.Len()
	e.rxRing.ForEach(func(i int, d *desc.RxDescriptor) bool {
		next := e.rxRing.AtOffset((i + 1) % n)
		d.InitChained(e.rxBufs[i], next)
		return true
	})
	m := e.txRing.Len()
	e.txRing.ForEach(func(i int, d *desc.TxDescriptor) bool {
		next := e.txRing.AtOffset((i + 1) % m)
		d.InitChained(e.txBufs[i], next)
		return true
	})
	e.rxRing.Reset()
	e.txRing.Reset()

	regs.SetRxListAddr(e.rxRing.BaseAddr())
	regs.SetTxListAddr(e.txRing.BaseAddr())

	if e.log != nil {
		e.log.Debug("dma rings initialized", "tx", m, "rx", n, "bufSize", e.bufSize)
	}
}

// TxChecksumMode returns the checksum-insertion mode applied to every
// future Transmit call.
func (e *Engine) TxChecksumMode() uint32 { return e.checksumMode }

// SetTxChecksumMode updates the checksum-insertion mode used by Prepare
// on subsequent Transmit calls; it does not affect frames already
// submitted.
func (e *Engine) SetTxChecksumMode(mode uint32) { e.checksumMode = mode }

// Transmit copies frame into the current TX descriptor's buffer and
// submits it to the DMA. Only single-descriptor frames are supported:
// frame must fit entirely within one buffer.
func (e *Engine) Transmit(frame []byte) error {
	if len(frame) == 0 {
		return InvalidLength
	}
	if len(frame) > e.bufSize {
		return FrameTooLarge
	}
	d := e.txRing.Current()
	if d.IsOwned() {
		return TxBuffersFull
	}
	idx := e.txRing.Cursor()
	copy(e.txBufs[idx], frame)
	d.Prepare(len(frame), true, true, e.checksumMode)
	// Prepare's field writes must retire before the OWN-publishing write
	// in Submit. volatile.Register32 stores are never reordered by the
	// compiler, and this core issues ordinary stores with no hardware
	// store reordering, so the program order above already satisfies the
	// ordering §9 requires; no separate fence primitive is needed.
	d.Submit()
	e.txPollDemand()
	e.txRing.Advance()
	return nil
}

// recycleAndAdvance hands d back to the DMA and pokes RX poll demand, so
// the engine resumes fetching if it had gone idle on descriptor
// starvation. §4.4.3 lists this poke as a receive-path step symmetric
// with Transmit's poll-demand write.
func (e *Engine) recycleAndAdvance(d *desc.RxDescriptor) {
	d.Recycle()
	e.rxRing.Advance()
	e.rxPollDemand()
}

// Receive copies the oldest completed frame into out, stripping the
// 4-byte trailing CRC. It returns NoFrameAvailable if the current RX
// descriptor is still DMA-owned. A descriptor is always recycled once
// consumed, except when out is too small: the descriptor is left
// un-recycled so a retry with a bigger buffer can still read it.
func (e *Engine) Receive(out []byte) (int, error) {
	d := e.rxRing.Current()
	if d.IsOwned() {
		return 0, NoFrameAvailable
	}
	if !d.IsLast() {
		// Non-terminal fragment of a multi-descriptor frame: unsupported
		// in single-buffer mode, treated as malformed input.
		e.recycleAndAdvance(d)
		return 0, ReceiveError
	}
	if d.HasError() {
		e.recycleAndAdvance(d)
		return 0, ReceiveError
	}
	length := int(d.FrameLength()) - 4
	if length < 0 {
		length = 0
	}
	if len(out) < length {
		return 0, BufferTooSmall
	}
	idx := e.rxRing.Cursor()
	copy(out, e.rxBufs[idx][:length])
	e.recycleAndAdvance(d)
	return length, nil
}

// RxAvailable reports whether Receive would find a completed frame
// right now, without consuming it.
func (e *Engine) RxAvailable() bool { return !e.rxRing.Current().IsOwned() }

// TxReady reports whether Transmit would accept a frame right now,
// without submitting one.
func (e *Engine) TxReady() bool { return !e.txRing.Current().IsOwned() }

// TxDescriptorsAvailable counts CPU-owned TX descriptors across the
// whole ring, a coarser diagnostic than TxReady's single-slot check.
func (e *Engine) TxDescriptorsAvailable() int {
	n := 0
	e.txRing.ForEach(func(_ int, d *desc.TxDescriptor) bool {
		if !d.IsOwned() {
			n++
		}
		return true
	})
	return n
}

// RxFramesWaiting counts CPU-owned (completed) RX descriptors across
// the whole ring.
func (e *Engine) RxFramesWaiting() int {
	n := 0
	e.rxRing.ForEach(func(_ int, d *desc.RxDescriptor) bool {
		if !d.IsOwned() {
			n++
		}
		return true
	})
	return n
}

// PeekRxLength returns the length of the next frame Receive would
// return, without consuming it. ok is false if no frame is available.
func (e *Engine) PeekRxLength() (length int, ok bool) {
	d := e.rxRing.Current()
	if d.IsOwned() || !d.IsLast() || d.HasError() {
		return 0, false
	}
	l := int(d.FrameLength()) - 4
	if l < 0 {
		l = 0
	}
	return l, true
}

// BufferSize returns the fixed per-descriptor buffer capacity shared by
// every TX and RX slot.
func (e *Engine) BufferSize() int { return e.bufSize }
