// Package desc defines the TX and RX DMA descriptor records used by the
// ring and DMA engine. Each is a 32-byte record with four volatile words
// and 16 reserved bytes, matching the Synopsys DWMAC1000 enhanced
// descriptor layout this SoC family exposes.
package desc

import (
	"runtime/volatile"
	"unsafe"
)

// RDES0 (status word) bits.
const (
	rdes0CRCErr       uint32 = 1 << 1
	rdes0DribbleErr   uint32 = 1 << 2
	rdes0RxErr        uint32 = 1 << 3
	rdes0RxWatchdog   uint32 = 1 << 4
	rdes0LastDesc     uint32 = 1 << 8
	rdes0FirstDesc    uint32 = 1 << 9
	rdes0OverflowErr  uint32 = 1 << 11
	rdes0LengthErr    uint32 = 1 << 12
	rdes0DescErr      uint32 = 1 << 14
	rdes0ErrSummary   uint32 = 1 << 15
	rdes0FrameLenMask uint32 = 0x3FFF << 16
	rdes0FrameLenPos         = 16
	// Own is the descriptor ownership bit: set means DMA-owned.
	Own uint32 = 1 << 31

	rdes0AllErrors = rdes0CRCErr | rdes0DribbleErr | rdes0RxErr | rdes0RxWatchdog |
		rdes0OverflowErr | rdes0LengthErr | rdes0DescErr
)

// RDES1 (control word) bits.
const (
	rdes1Buf1SizeMask    uint32 = 0x1FFF
	rdes1SecondAddrChain uint32 = 1 << 14
)

// RxDescriptor is a CPU/DMA-shared receive descriptor. All field access
// goes through volatile.Register32 so the compiler never elides or
// reorders a load/store the hardware depends on.
type RxDescriptor struct {
	status   volatile.Register32 // RDES0
	ctrl     volatile.Register32 // RDES1: chained flag, buffer1 length
	buf1Addr volatile.Register32 // RDES2: buffer1 physical address
	next     volatile.Register32 // RDES3: next descriptor address (chained mode)
	_        [16]byte            // RDES4..RDES7, unused by this driver
}

// InitChained points the descriptor at buf, links it to next, and hands
// it to the DMA by setting OWN. Caller must call this before the DMA
// engine's base-address register is written (§4.4.1 ordering).
func (d *RxDescriptor) InitChained(buf []byte, next *RxDescriptor) {
	bufLen := uint32(len(buf)) & rdes1Buf1SizeMask
	d.buf1Addr.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
	d.next.Set(uint32(uintptr(unsafe.Pointer(next))))
	d.ctrl.Set(rdes1SecondAddrChain | bufLen)
	d.status.Set(Own)
}

// IsOwned reports whether the DMA currently owns this descriptor.
func (d *RxDescriptor) IsOwned() bool { return d.status.Get()&Own != 0 }

// IsFirst reports whether this descriptor starts a frame.
func (d *RxDescriptor) IsFirst() bool { return d.status.Get()&rdes0FirstDesc != 0 }

// IsLast reports whether this descriptor ends a frame.
func (d *RxDescriptor) IsLast() bool { return d.status.Get()&rdes0LastDesc != 0 }

// HasError reports whether the frame summary error bit is set. Only
// meaningful once IsLast() && !IsOwned().
func (d *RxDescriptor) HasError() bool { return d.status.Get()&rdes0ErrSummary != 0 }

// ErrorFlags returns the individual per-kind RX error bits.
func (d *RxDescriptor) ErrorFlags() uint32 { return d.status.Get() & rdes0AllErrors }

// FrameLength returns the received frame length including CRC. Only
// valid when IsLast() && !IsOwned(); callers must check both first.
func (d *RxDescriptor) FrameLength() uint32 {
	return (d.status.Get() & rdes0FrameLenMask) >> rdes0FrameLenPos
}

// Recycle clears status (including any error bits) and hands the
// descriptor back to the DMA without disturbing the buffer address or
// chain pointer, which never change after construction.
func (d *RxDescriptor) Recycle() {
	d.status.Set(Own)
}

// SimulateRxComplete marks the descriptor CPU-owned as if the DMA had
// just written a length-byte, error-free, single-descriptor frame into
// its buffer. Production code never calls this; it exists so data-path
// tests can exercise Receive without a real DMA engine.
func (d *RxDescriptor) SimulateRxComplete(length int) {
	d.status.Set(rdes0FirstDesc | rdes0LastDesc | (uint32(length)<<rdes0FrameLenPos)&rdes0FrameLenMask)
}
