// Package mdio drives IEEE 802.3 clause 22 management-bus transactions
// through the MAC's own MII address/data registers, rather than
// bit-banging the MDC/MDIO pins directly.
package mdio

import (
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
	"github.com/photon-circus/ph-esp32-mac/internal/regs"
)

// DefaultTimeout bounds every BUSY-bit poll. §4.5 specifies "~1ms" as
// the default.
const DefaultTimeout = time.Millisecond

// Bus is the management-bus transaction surface PHY drivers are
// written against, generic over any backing controller — not just this
// package's MAC-register-backed one — so PHY code can be exercised
// against a mock in tests.
type Bus interface {
	Read(phyAddr, reg uint8) (uint16, error)
	Write(phyAddr, reg uint8, value uint16) error
}

// Controller drives MDIO through the MAC's MII address/data registers.
// It holds no descriptor or buffer state and is safe to construct once
// per Emac instance.
type Controller struct {
	clockCode uint32
	timeout   time.Duration
}

// New returns a Controller using clockCode (one of regs.CSRClockDiv*,
// selected by the caller from the CPU clock feeding the MAC so MDC
// stays at or below 2.5 MHz) and the default BUSY-poll timeout.
func New(clockCode uint32) *Controller {
	return &Controller{clockCode: clockCode, timeout: DefaultTimeout}
}

// SetTimeout overrides the default BUSY-poll bound.
func (c *Controller) SetTimeout(d time.Duration) { c.timeout = d }

func (c *Controller) waitNotBusy() error {
	deadline := time.Now().Add(c.timeout)
	for regs.MIIAddress()&regs.MIIAddrBusy != 0 {
		if time.Now().After(deadline) {
			return ioerr.Timeout
		}
	}
	return nil
}

// Read performs a clause-22 register read. phyAddr and reg must each fit
// in 5 bits; values outside that range are not range-checked since the
// caller (the phy package) is already bounded to valid PHY addresses.
func (c *Controller) Read(phyAddr, reg uint8) (uint16, error) {
	if err := c.waitNotBusy(); err != nil {
		return 0, ioerr.MdioBusy
	}
	addr := (uint32(phyAddr)<<regs.MIIAddrPhyShift)&regs.MIIAddrPhyMask |
		(uint32(reg)<<regs.MIIAddrRegShift)&regs.MIIAddrRegMask |
		(c.clockCode<<regs.MIIAddrCRShift)&regs.MIIAddrCRMask |
		regs.MIIAddrBusy
	regs.SetMIIAddress(addr)
	if err := c.waitNotBusy(); err != nil {
		return 0, err
	}
	return uint16(regs.MIIData()), nil
}

// Write performs a clause-22 register write.
func (c *Controller) Write(phyAddr, reg uint8, value uint16) error {
	if err := c.waitNotBusy(); err != nil {
		return ioerr.MdioBusy
	}
	regs.SetMIIData(uint32(value))
	addr := (uint32(phyAddr)<<regs.MIIAddrPhyShift)&regs.MIIAddrPhyMask |
		(uint32(reg)<<regs.MIIAddrRegShift)&regs.MIIAddrRegMask |
		(c.clockCode<<regs.MIIAddrCRShift)&regs.MIIAddrCRMask |
		regs.MIIAddrWrite | regs.MIIAddrBusy
	regs.SetMIIAddress(addr)
	return c.waitNotBusy()
}
