// Package lan8720a drives the Microchip/SMSC LAN8720A 10/100 PHY, the
// part most commonly paired with this SoC family's RMII interface.
package lan8720a

import (
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
	"github.com/photon-circus/ph-esp32-mac/internal/mdio"
	"github.com/photon-circus/ph-esp32-mac/internal/phy"
)

// Clause 22 identifier registers.
const (
	regPHYIDR1 = 2
	regPHYIDR2 = 3
)

// Vendor-specific register addresses.
const (
	regMCSR  = 17 // Mode Control/Status Register
	regPSCSR = 31 // PHY Special Control/Status Register
)

const mcsrEDPWRDOWN uint16 = 1 << 13

const (
	pscsrAutoDone     uint16 = 1 << 12
	pscsrHCDSpeedMask uint16 = 0x7 << 2
	pscsrHCDSpeed10HD  uint16 = 0x1 << 2
	pscsrHCDSpeed10FD  uint16 = 0x5 << 2
	pscsrHCDSpeed100HD uint16 = 0x2 << 2
	pscsrHCDSpeed100FD uint16 = 0x6 << 2
)

// phyIDValue/phyIDMask identify the LAN8720A family: PHYIDR1=0x0007,
// PHYIDR2=0xC0Fx, the low nibble of PHYIDR2 being a revision that
// verify carefully ignores.
const (
	phyIDValue uint32 = 0x0007C0F0
	phyIDMask  uint32 = 0xFFFFFFF0
)

const softResetTimeout = 10 * time.Millisecond

// PHY drives one LAN8720A at Addr over Bus. It caches the last reported
// link status so PollLink can report transitions only.
type PHY struct {
	Addr uint8
	Bus  mdio.Bus

	last            phy.LinkStatus
	unresolvedPolls int
}

// New returns a driver for the PHY at addr, reached through bus.
func New(addr uint8, bus mdio.Bus) *PHY {
	return &PHY{Addr: addr, Bus: bus}
}

func (p *PHY) readID() (uint32, error) {
	hi, err := p.Bus.Read(p.Addr, regPHYIDR1)
	if err != nil {
		return 0, err
	}
	lo, err := p.Bus.Read(p.Addr, regPHYIDR2)
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// VerifyID confirms the part at Addr is a LAN8720A-family PHY, ignoring
// the revision nibble.
func (p *PHY) VerifyID() error {
	id, err := p.readID()
	if err != nil {
		return err
	}
	if id&phyIDMask != phyIDValue {
		return ioerr.PhyMismatch
	}
	return nil
}

// SetEnergyDetectPowerDown enables or disables the vendor low-power mode
// that otherwise suspends the PHY when no cable activity is detected.
func (p *PHY) SetEnergyDetectPowerDown(enabled bool) error {
	v, err := p.Bus.Read(p.Addr, regMCSR)
	if err != nil {
		return err
	}
	if enabled {
		v |= mcsrEDPWRDOWN
	} else {
		v &^= mcsrEDPWRDOWN
	}
	return p.Bus.Write(p.Addr, regMCSR, v)
}

// Init soft-resets the PHY, disables energy-detect power-down (which
// otherwise interferes with bring-up before a cable is connected), and
// starts auto-negotiation.
func (p *PHY) Init() error {
	if err := phy.SoftReset(p.Bus, p.Addr, softResetTimeout); err != nil {
		return err
	}
	if err := p.SetEnergyDetectPowerDown(false); err != nil {
		return err
	}
	if err := phy.EnableAutoNegotiation(p.Bus, p.Addr); err != nil {
		return err
	}
	p.last = phy.LinkStatus{}
	p.unresolvedPolls = 0
	return nil
}

// speedIndication reads PSCSR and decodes the post-autoneg speed and
// duplex. resolved is false when auto-negotiation hasn't completed or
// the 3-bit code doesn't match one of the four meaningful values.
func (p *PHY) speedIndication() (status phy.LinkStatus, resolved bool, err error) {
	v, err := p.Bus.Read(p.Addr, regPSCSR)
	if err != nil {
		return phy.LinkStatus{}, false, err
	}
	if v&pscsrAutoDone == 0 {
		return phy.LinkStatus{}, false, nil
	}
	var lst phy.LinkStatus
	lst.AutoNegotiated = true
	switch v & pscsrHCDSpeedMask {
	case pscsrHCDSpeed100FD:
		lst.Speed, lst.FullDuplex = 100, true
	case pscsrHCDSpeed100HD:
		lst.Speed, lst.FullDuplex = 100, false
	case pscsrHCDSpeed10FD:
		lst.Speed, lst.FullDuplex = 10, true
	case pscsrHCDSpeed10HD:
		lst.Speed, lst.FullDuplex = 10, false
	default:
		return phy.LinkStatus{}, false, nil
	}
	lst.Up = true
	return lst, true, nil
}

// LinkStatus returns the current link state: the vendor register's
// post-autoneg decode when it has one, an "up, unresolved" status when
// the cable is up but auto-negotiation hasn't settled, or a zero value
// when the link is down.
func (p *PHY) LinkStatus() (phy.LinkStatus, error) {
	up, err := phy.IsLinkUp(p.Bus, p.Addr)
	if err != nil {
		return phy.LinkStatus{}, err
	}
	if !up {
		return phy.LinkStatus{}, nil
	}
	lst, resolved, err := p.speedIndication()
	if err != nil {
		return phy.LinkStatus{}, err
	}
	if !resolved {
		return phy.LinkStatus{Up: true}, nil
	}
	return lst, nil
}

// PollLink compares the current link status against the cached one and
// returns changed=true only on a transition (down→up, up→down, or a
// resolved speed/duplex change). The vendor register is authoritative:
// when it disagrees with whatever the link-partner negotiation implied,
// what PSCSR reports is what gets returned. If PSCSR stays unresolved
// for more than one poll interval while the cached state was up, that
// is treated as a flap and reported as link-down.
func (p *PHY) PollLink() (status phy.LinkStatus, changed bool, err error) {
	up, err := phy.IsLinkUp(p.Bus, p.Addr)
	if err != nil {
		return phy.LinkStatus{}, false, err
	}

	if !up {
		p.unresolvedPolls = 0
		if p.last.Up {
			p.last = phy.LinkStatus{}
			return p.last, true, nil
		}
		return phy.LinkStatus{}, false, nil
	}

	lst, resolved, err := p.speedIndication()
	if err != nil {
		return phy.LinkStatus{}, false, err
	}

	if !resolved {
		p.unresolvedPolls++
		if p.unresolvedPolls > 1 && p.last.Up {
			p.last = phy.LinkStatus{}
			return p.last, true, nil
		}
		return p.last, false, nil
	}
	p.unresolvedPolls = 0

	if lst == p.last {
		return p.last, false, nil
	}
	p.last = lst
	return lst, true, nil
}
