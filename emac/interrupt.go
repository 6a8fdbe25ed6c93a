package emac

import "github.com/photon-circus/ph-esp32-mac/internal/regs"

// knownInterruptBits is every bit InterruptStatus parses; ToRaw never
// produces a bit outside this set, and FromRaw(x).ToRaw() == x &
// knownInterruptBits for every x.
const knownInterruptBits = regs.DMAStatusTI | regs.DMAStatusRI |
	regs.DMAStatusTU | regs.DMAStatusRU |
	regs.DMAStatusOVF | regs.DMAStatusUNF |
	regs.DMAStatusFBI | regs.DMAStatusERI | regs.DMAStatusETI |
	regs.DMAStatusAIS | regs.DMAStatusNIS

// InterruptStatus is the parsed form of the DMA status register's
// event bits. NormalSummary and AbnormalSummary mirror other bits
// rather than representing independent events; Any reports whether any
// non-summary bit is set.
type InterruptStatus struct {
	TxComplete          bool
	RxComplete          bool
	TxBufferUnavailable bool
	RxBufferUnavailable bool
	RxOverflow          bool
	TxUnderflow         bool
	FatalBusError       bool
	EarlyRx             bool
	EarlyTx             bool
	NormalSummary       bool
	AbnormalSummary     bool
}

// FromRaw parses the raw DMA status register value.
func FromRaw(v uint32) InterruptStatus {
	return InterruptStatus{
		TxComplete:          v&regs.DMAStatusTI != 0,
		RxComplete:          v&regs.DMAStatusRI != 0,
		TxBufferUnavailable: v&regs.DMAStatusTU != 0,
		RxBufferUnavailable: v&regs.DMAStatusRU != 0,
		RxOverflow:          v&regs.DMAStatusOVF != 0,
		TxUnderflow:         v&regs.DMAStatusUNF != 0,
		FatalBusError:       v&regs.DMAStatusFBI != 0,
		EarlyRx:             v&regs.DMAStatusERI != 0,
		EarlyTx:             v&regs.DMAStatusETI != 0,
		NormalSummary:       v&regs.DMAStatusNIS != 0,
		AbnormalSummary:     v&regs.DMAStatusAIS != 0,
	}
}

// ToRaw reconstructs the raw bits this status represents.
func (s InterruptStatus) ToRaw() uint32 {
	var v uint32
	if s.TxComplete {
		v |= regs.DMAStatusTI
	}
	if s.RxComplete {
		v |= regs.DMAStatusRI
	}
	if s.TxBufferUnavailable {
		v |= regs.DMAStatusTU
	}
	if s.RxBufferUnavailable {
		v |= regs.DMAStatusRU
	}
	if s.RxOverflow {
		v |= regs.DMAStatusOVF
	}
	if s.TxUnderflow {
		v |= regs.DMAStatusUNF
	}
	if s.FatalBusError {
		v |= regs.DMAStatusFBI
	}
	if s.EarlyRx {
		v |= regs.DMAStatusERI
	}
	if s.EarlyTx {
		v |= regs.DMAStatusETI
	}
	if s.NormalSummary {
		v |= regs.DMAStatusNIS
	}
	if s.AbnormalSummary {
		v |= regs.DMAStatusAIS
	}
	return v
}

// Any reports whether any non-summary event bit is set.
func (s InterruptStatus) Any() bool {
	return s.TxComplete || s.RxComplete || s.TxBufferUnavailable || s.RxBufferUnavailable ||
		s.RxOverflow || s.TxUnderflow || s.FatalBusError || s.EarlyRx || s.EarlyTx
}

// HasError reports whether any error event bit (TxBufferUnavailable,
// RxBufferUnavailable, RxOverflow, TxUnderflow, FatalBusError) is set.
// The completion, early-RX/TX and summary bits are not errors.
func (s InterruptStatus) HasError() bool {
	return s.TxBufferUnavailable || s.RxBufferUnavailable || s.RxOverflow ||
		s.TxUnderflow || s.FatalBusError
}

// InterruptStatus reads and parses the DMA status register without
// clearing it.
func (e *Emac) InterruptStatus() InterruptStatus { return FromRaw(regs.Status()) }

// ClearInterrupts writes the W1C bits corresponding to exactly the
// flags set in s, leaving every other status bit untouched.
func (e *Emac) ClearInterrupts(s InterruptStatus) { regs.SetStatus(s.ToRaw()) }

// ClearAllInterrupts clears every W1C status bit.
func (e *Emac) ClearAllInterrupts() { regs.ClearAllInterrupts() }

// HandleInterrupt atomically reads and clears the DMA status register:
// two consecutive accesses to the same register. This is race-free
// because any new event between the two accesses ORs into the register
// rather than overwriting it, so it survives into the next read.
func (e *Emac) HandleInterrupt() InterruptStatus {
	raw := regs.Status()
	regs.SetStatus(raw)
	return FromRaw(raw)
}
