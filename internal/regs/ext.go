package regs

import "runtime/volatile"

// SoC-extension register offsets, relative to ExtBase. This block is
// outside the Synopsys DWMAC1000 IP proper; it is the ESP32-specific glue
// that feeds the MAC its reference clock and RMII/MII mux selection, and
// powers up the EMAC's own SRAM.
const (
	extClkoutConfOff uintptr = 0x00
	extOscClkConfOff uintptr = 0x04
	extClkCtrlOff    uintptr = 0x08
	extPhyIntfOff    uintptr = 0x0C
	extPowerDownOff  uintptr = 0x10
)

// Clock control bits (EX_CLK_CTRL).
const (
	ExtClkExtEn    uint32 = 1 << 0 // RMII ref clock sourced from external pin
	ExtClkIntEn    uint32 = 1 << 1 // RMII ref clock sourced internally
	ExtClkRx125En  uint32 = 1 << 2
	ExtClkMIITxEn  uint32 = 1 << 3
	ExtClkMIIRxEn  uint32 = 1 << 4
	ExtClkEn       uint32 = 1 << 5 // master clock-block enable
)

// PHY interface select bits (EX_PHYINF_CONF).
const (
	ExtPhyIntfSelShift        = 13
	ExtPhyIntfSelMask  uint32 = 0x7 << ExtPhyIntfSelShift
	ExtPhyIntfMII      uint32 = 0
	ExtPhyIntfRMII     uint32 = 4
)

// RAM power-down select bits (EX_PD_SEL / RAM power sequencer).
const (
	ExtRAMPowerDownMask uint32 = 0x03
)

func ext(offset uintptr) *volatile.Register32 { return reg(ExtBase, offset) }

// EnableClocks turns on the extension block's master clock gate and the
// MII TX/RX and RX-125 sub-clocks used regardless of MII/RMII mode.
func EnableClocks() {
	r := ext(extClkCtrlOff)
	r.Set(r.Get() | ExtClkEn | ExtClkMIITxEn | ExtClkMIIRxEn | ExtClkRx125En)
}

// DisableClocks reverses EnableClocks.
func DisableClocks() {
	r := ext(extClkCtrlOff)
	r.Set(r.Get() &^ (ExtClkEn | ExtClkMIITxEn | ExtClkMIIRxEn | ExtClkRx125En))
}

// SetRMIIMode selects the RMII PHY interface.
func SetRMIIMode() {
	r := ext(extPhyIntfOff)
	r.Set((r.Get() &^ ExtPhyIntfSelMask) | (ExtPhyIntfRMII << ExtPhyIntfSelShift))
}

// SetMIIMode selects the MII PHY interface.
func SetMIIMode() {
	r := ext(extPhyIntfOff)
	r.Set((r.Get() &^ ExtPhyIntfSelMask) | (ExtPhyIntfMII << ExtPhyIntfSelShift))
}

// SetRMIIClockExternal routes the RMII reference clock from the dedicated
// external input pin.
func SetRMIIClockExternal() {
	r := ext(extClkCtrlOff)
	r.Set((r.Get() &^ ExtClkIntEn) | ExtClkExtEn)
}

// SetRMIIClockInternal routes the RMII reference clock from the internal
// 50 MHz output, used when the board generates its own reference clock
// rather than taking one from the PHY.
func SetRMIIClockInternal() {
	r := ext(extClkCtrlOff)
	r.Set((r.Get() &^ ExtClkExtEn) | ExtClkIntEn)
}

// PowerUpRAM releases the EMAC's internal descriptor/buffer SRAM from
// power-down. Must happen before the DMA engine is allowed to touch the
// ring; §4.7.1 init runs this before the DMA soft reset.
func PowerUpRAM() {
	r := ext(extPowerDownOff)
	r.Set(r.Get() &^ ExtRAMPowerDownMask)
}

// PowerDownRAM re-asserts SRAM power-down, reversing PowerUpRAM.
func PowerDownRAM() {
	r := ext(extPowerDownOff)
	r.Set(r.Get() | ExtRAMPowerDownMask)
}
