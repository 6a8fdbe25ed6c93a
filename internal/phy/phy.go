// Package phy implements the generic IEEE 802.3 clause 22 register
// operations every PHY driver needs, independent of any particular
// vendor. Vendor drivers (lan8720a) call these against their own bus
// and address rather than reimplementing them.
package phy

import (
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
	"github.com/photon-circus/ph-esp32-mac/internal/mdio"
)

// Clause 22 register addresses common to every PHY.
const (
	RegBMCR = 0 // basic control
	RegBMSR = 1 // basic status
)

const (
	bmcrReset        uint16 = 1 << 15
	bmcrAutoNegEna   uint16 = 1 << 12
	bmcrRestartAutoNeg uint16 = 1 << 9
	bmcrFullDuplex   uint16 = 1 << 8
	bmcrSpeed100     uint16 = 1 << 13

	bmsrLinkStatus uint16 = 1 << 2
)

// SoftReset writes BMCR.RESET and polls until it clears or timeout
// elapses. It is a free function taking any mdio.Bus implementation;
// bus calls go through the mdio.Bus interface and are dynamically
// dispatched.
func SoftReset(bus mdio.Bus, addr uint8, timeout time.Duration) error {
	if err := bus.Write(addr, RegBMCR, bmcrReset); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for {
		v, err := bus.Read(addr, RegBMCR)
		if err != nil {
			return err
		}
		if v&bmcrReset == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return ioerr.Timeout
		}
	}
}

// EnableAutoNegotiation sets BMCR.ANE and BMCR.RESTART, leaving every
// other BMCR bit as the hardware left it.
func EnableAutoNegotiation(bus mdio.Bus, addr uint8) error {
	v, err := bus.Read(addr, RegBMCR)
	if err != nil {
		return err
	}
	return bus.Write(addr, RegBMCR, v|bmcrAutoNegEna|bmcrRestartAutoNeg)
}

// ForceLink clears BMCR.ANE and sets the speed/duplex bits directly.
func ForceLink(bus mdio.Bus, addr uint8, speed100, fullDuplex bool) error {
	v, err := bus.Read(addr, RegBMCR)
	if err != nil {
		return err
	}
	v &^= bmcrAutoNegEna
	v &^= bmcrSpeed100 | bmcrFullDuplex
	if speed100 {
		v |= bmcrSpeed100
	}
	if fullDuplex {
		v |= bmcrFullDuplex
	}
	return bus.Write(addr, RegBMCR, v)
}

// IsLinkUp reads BMSR twice, since LINK_STATUS is a sticky-low bit that
// the first read clears, and returns the second read's value.
func IsLinkUp(bus mdio.Bus, addr uint8) (bool, error) {
	if _, err := bus.Read(addr, RegBMSR); err != nil {
		return false, err
	}
	v, err := bus.Read(addr, RegBMSR)
	if err != nil {
		return false, err
	}
	return v&bmsrLinkStatus != 0, nil
}

// LinkStatus is the decoded result of a link-status query, shared by
// every vendor driver.
type LinkStatus struct {
	Up             bool
	AutoNegotiated bool
	Speed          uint16 // Mbps; 0 if unresolved
	FullDuplex     bool
}
