package regs

import "runtime/volatile"

// DMA register offsets (Synopsys DWMAC1000 DMA block), relative to DMABase.
const (
	dmaBusModeOffset   uintptr = 0x00
	dmaTxPollOffset    uintptr = 0x04
	dmaRxPollOffset    uintptr = 0x08
	dmaRxBaseAddrOff   uintptr = 0x0C
	dmaTxBaseAddrOff   uintptr = 0x10
	dmaStatusOffset    uintptr = 0x14
	dmaOperationOffset uintptr = 0x18
	dmaIntEnableOffset uintptr = 0x1C
)

// Bus mode bits (DMABUSMODE).
const (
	DMABusModeSwReset uint32 = 1 << 0
	DMABusModeATDS    uint32 = 1 << 7 // alternate (enhanced) descriptor size
	DMABusModePBLShift       = 8
	DMABusModePBLMask uint32 = 0x3F << DMABusModePBLShift
	DMABusModeFB      uint32 = 1 << 16 // fixed burst
	DMABusModeUSP     uint32 = 1 << 23 // use separate PBL
	DMABusModeAAL     uint32 = 1 << 25 // address-aligned beats
)

// Status bits (DMASTATUS), all write-one-to-clear except the RS/TS/EB
// process-state fields, which are read-only.
const (
	DMAStatusTI  uint32 = 1 << 0 // transmit complete
	DMAStatusTPS uint32 = 1 << 1 // transmit process stopped
	DMAStatusTU  uint32 = 1 << 2 // transmit buffer unavailable
	DMAStatusTJT uint32 = 1 << 3 // transmit jabber timeout
	DMAStatusOVF uint32 = 1 << 4 // receive overflow
	DMAStatusUNF uint32 = 1 << 5 // transmit underflow
	DMAStatusRI  uint32 = 1 << 6 // receive complete
	DMAStatusRU  uint32 = 1 << 7 // receive buffer unavailable
	DMAStatusRPS uint32 = 1 << 8 // receive process stopped
	DMAStatusRWT uint32 = 1 << 9 // receive watchdog timeout
	DMAStatusETI uint32 = 1 << 10
	DMAStatusFBI uint32 = 1 << 13 // fatal bus error
	DMAStatusERI uint32 = 1 << 14
	DMAStatusAIS uint32 = 1 << 15 // abnormal interrupt summary
	DMAStatusNIS uint32 = 1 << 16 // normal interrupt summary

	DMAStatusTSShift = 20
	DMAStatusTSMask  uint32 = 0x7 << DMAStatusTSShift
	DMAStatusRSShift = 17
	DMAStatusRSMask  uint32 = 0x7 << DMAStatusRSShift

	// DMAStatusW1C is every bit the hardware clears on a write-1; the
	// process-state fields are excluded since writes to them are ignored.
	DMAStatusW1C uint32 = DMAStatusTI | DMAStatusTPS | DMAStatusTU | DMAStatusTJT |
		DMAStatusOVF | DMAStatusUNF | DMAStatusRI | DMAStatusRU | DMAStatusRPS |
		DMAStatusRWT | DMAStatusETI | DMAStatusFBI | DMAStatusERI | DMAStatusAIS | DMAStatusNIS
)

// Operation mode bits (DMAOPERATION).
const (
	DMAOperationST  uint32 = 1 << 13 // start/stop transmission
	DMAOperationFTF uint32 = 1 << 20 // flush transmit FIFO
	DMAOperationTSF uint32 = 1 << 21 // TX store-and-forward
	DMAOperationSR  uint32 = 1 << 1  // start/stop receive
	DMAOperationRSF uint32 = 1 << 25 // RX store-and-forward
)

// Interrupt enable bits (DMAINTENABLE), same layout as DMASTATUS's event bits.
const (
	DMAIntEnTIE uint32 = 1 << 0
	DMAIntEnTUE uint32 = 1 << 2
	DMAIntEnOVE uint32 = 1 << 4
	DMAIntEnRIE uint32 = 1 << 6
	DMAIntEnRUE uint32 = 1 << 7
	DMAIntEnFBE uint32 = 1 << 13
	DMAIntEnAIE uint32 = 1 << 15
	DMAIntEnNIE uint32 = 1 << 16

	// DMADefaultInterrupts is what start() enables: the events the spec's
	// InterruptStatus surface and the waker set care about.
	DMADefaultInterrupts uint32 = DMAIntEnTIE | DMAIntEnTUE | DMAIntEnOVE |
		DMAIntEnRIE | DMAIntEnRUE | DMAIntEnFBE | DMAIntEnAIE | DMAIntEnNIE
)

func dma(offset uintptr) *volatile.Register32 { return reg(DMABase, offset) }

// BusMode returns the raw DMABUSMODE register.
func BusMode() uint32 { return dma(dmaBusModeOffset).Get() }

// SetBusMode programs DMABUSMODE.
func SetBusMode(v uint32) { dma(dmaBusModeOffset).Set(v) }

// SoftReset requests a DMA soft reset. Caller must poll BusMode for
// DMABusModeSwReset to clear with a bounded timeout.
func SoftReset() { dma(dmaBusModeOffset).Set(dma(dmaBusModeOffset).Get() | DMABusModeSwReset) }

// SoftResetPending reports whether the soft reset bit is still set.
func SoftResetPending() bool { return dma(dmaBusModeOffset).Get()&DMABusModeSwReset != 0 }

// Status returns the raw DMASTATUS register.
func Status() uint32 { return dma(dmaStatusOffset).Get() }

// SetStatus writes DMASTATUS; bits set to 1 are cleared (W1C idiom).
func SetStatus(v uint32) { dma(dmaStatusOffset).Set(v) }

// ClearAllInterrupts clears every W1C status bit.
func ClearAllInterrupts() { SetStatus(DMAStatusW1C) }

// InterruptEnable returns the raw DMAINTENABLE register.
func InterruptEnable() uint32 { return dma(dmaIntEnableOffset).Get() }

// SetInterruptEnable programs DMAINTENABLE.
func SetInterruptEnable(v uint32) { dma(dmaIntEnableOffset).Set(v) }

// DisableAllInterrupts masks every DMA interrupt source.
func DisableAllInterrupts() { SetInterruptEnable(0) }

// EnableDefaultInterrupts enables the interrupt set the waker/ISR path uses.
func EnableDefaultInterrupts() { SetInterruptEnable(DMADefaultInterrupts) }

// OperationMode returns the raw DMAOPERATION register.
func OperationMode() uint32 { return dma(dmaOperationOffset).Get() }

// SetOperationMode programs DMAOPERATION.
func SetOperationMode(v uint32) { dma(dmaOperationOffset).Set(v) }

// StartTx sets the transmit start bit.
func StartTx() { r := dma(dmaOperationOffset); r.Set(r.Get() | DMAOperationST) }

// StopTx clears the transmit start bit.
func StopTx() { r := dma(dmaOperationOffset); r.Set(r.Get() &^ DMAOperationST) }

// StartRx sets the receive start bit.
func StartRx() { r := dma(dmaOperationOffset); r.Set(r.Get() | DMAOperationSR) }

// StopRx clears the receive start bit.
func StopRx() { r := dma(dmaOperationOffset); r.Set(r.Get() &^ DMAOperationSR) }

// FlushTxFIFO requests a TX FIFO flush; the bit self-clears when complete.
func FlushTxFIFO() { r := dma(dmaOperationOffset); r.Set(r.Get() | DMAOperationFTF) }

// TxFIFOFlushComplete reports whether a prior FlushTxFIFO has finished.
func TxFIFOFlushComplete() bool { return dma(dmaOperationOffset).Get()&DMAOperationFTF == 0 }

// SetRxListAddr latches the physical address of the first RX descriptor.
// Per spec §4.4.1, this must be written after the descriptor chain itself
// is fully initialized: the hardware begins traversal the moment the
// register is written.
func SetRxListAddr(addr uint32) { dma(dmaRxBaseAddrOff).Set(addr) }

// SetTxListAddr latches the physical address of the first TX descriptor.
func SetTxListAddr(addr uint32) { dma(dmaTxBaseAddrOff).Set(addr) }

// RxPollDemand pokes the DMA to resume RX descriptor fetches.
func RxPollDemand() { dma(dmaRxPollOffset).Set(1) }

// TxPollDemand pokes the DMA to resume TX descriptor fetches.
func TxPollDemand() { dma(dmaTxPollOffset).Set(1) }

// TxProcessState decodes the 3-bit TX DMA state machine from DMASTATUS.
func TxProcessState() uint32 {
	return (Status() & DMAStatusTSMask) >> DMAStatusTSShift
}

// RxProcessState decodes the 3-bit RX DMA state machine from DMASTATUS.
func RxProcessState() uint32 {
	return (Status() & DMAStatusRSMask) >> DMAStatusRSShift
}
