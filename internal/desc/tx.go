package desc

import (
	"runtime/volatile"
	"unsafe"
)

// Checksum insertion modes for TDES0 bits 22..23, per §3 and §6.3.
const (
	ChecksumDisabled    uint32 = 0
	ChecksumIPHeaderOnly uint32 = 1
	ChecksumIPAndPayload uint32 = 2
	ChecksumFull         uint32 = 3
)

// TDES0 (status/control word) bits.
const (
	tdes0UnderflowErr     uint32 = 1 << 1
	tdes0ExcessiveDefer   uint32 = 1 << 2
	tdes0CollisionCntMask uint32 = 0xF << 3
	tdes0CollisionCntPos         = 3
	tdes0ExcessiveColl    uint32 = 1 << 8
	tdes0LateCollision    uint32 = 1 << 9
	tdes0NoCarrier        uint32 = 1 << 10
	tdes0LossOfCarrier    uint32 = 1 << 11
	tdes0ErrSummary       uint32 = 1 << 15
	tdes0ChecksumModeMask uint32 = 0x3 << 22
	tdes0ChecksumModePos         = 22
	tdes0SecondAddrChain  uint32 = 1 << 20
	tdes0FirstSegment     uint32 = 1 << 28
	tdes0LastSegment      uint32 = 1 << 29
	tdes0InterruptOnComp  uint32 = 1 << 30

	tdes0AllErrors = tdes0UnderflowErr | tdes0ExcessiveDefer | tdes0ExcessiveColl |
		tdes0LateCollision | tdes0NoCarrier | tdes0LossOfCarrier
)

// TDES1 (buffer length word) bits.
const tdes1Buf1SizeMask uint32 = 0x1FFF

// TxDescriptor is a CPU/DMA-shared transmit descriptor.
type TxDescriptor struct {
	status   volatile.Register32 // TDES0
	ctrl     volatile.Register32 // TDES1: buffer1 length
	buf1Addr volatile.Register32 // TDES2: buffer1 physical address
	next     volatile.Register32 // TDES3: next descriptor address (chained mode)
	_        [16]byte
}

// InitChained points the descriptor at buf and links it to next. The
// descriptor starts CPU-owned; the DMA must not touch it until Submit.
func (d *TxDescriptor) InitChained(buf []byte, next *TxDescriptor) {
	d.buf1Addr.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
	d.next.Set(uint32(uintptr(unsafe.Pointer(next))))
	d.status.Set(tdes0SecondAddrChain)
	d.ctrl.Set(0)
}

// IsOwned reports whether the DMA currently owns this descriptor.
func (d *TxDescriptor) IsOwned() bool { return d.status.Get()&Own != 0 }

// Prepare writes the buffer length, segment flags, interrupt-on-complete,
// and checksum mode. It does not set OWN: Submit is the single publishing
// write that hands the descriptor to the DMA, kept separate so a memory
// barrier can sit between field writes and the OWN write per §9.
func (d *TxDescriptor) Prepare(length int, first, last bool, checksumMode uint32) {
	flags := tdes0SecondAddrChain
	if first {
		flags |= tdes0FirstSegment
	}
	if last {
		flags |= tdes0LastSegment | tdes0InterruptOnComp
	}
	flags |= (checksumMode << tdes0ChecksumModePos) & tdes0ChecksumModeMask
	d.ctrl.Set(uint32(length) & tdes1Buf1SizeMask)
	d.status.Set(flags)
}

// Submit is the single write that publishes OWN=1, making the descriptor
// and its buffer visible to the DMA. Callers on architectures that may
// reorder stores must issue a memory barrier before calling this.
func (d *TxDescriptor) Submit() {
	d.status.Set(d.status.Get() | Own)
}

// HasError reports whether the completed transmission logged any error.
func (d *TxDescriptor) HasError() bool { return d.status.Get()&tdes0ErrSummary != 0 }

// ErrorFlags returns the individual per-kind TX error bits.
func (d *TxDescriptor) ErrorFlags() uint32 { return d.status.Get() & tdes0AllErrors }

// CollisionCount returns the 4-bit collision counter from a completed
// transmission.
func (d *TxDescriptor) CollisionCount() uint32 {
	return (d.status.Get() & tdes0CollisionCntMask) >> tdes0CollisionCntPos
}
