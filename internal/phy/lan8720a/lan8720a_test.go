package lan8720a

import (
	"testing"

	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
	"github.com/photon-circus/ph-esp32-mac/internal/phy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	regs map[uint8]uint16
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[uint8]uint16{
		regPHYIDR1: 0x0007,
		regPHYIDR2: 0xC0F1, // low nibble is a revision VerifyID must ignore
	}}
}

func (b *fakeBus) Read(_ uint8, reg uint8) (uint16, error) { return b.regs[reg], nil }
func (b *fakeBus) Write(_ uint8, reg uint8, value uint16) error {
	b.regs[reg] = value
	return nil
}

func (b *fakeBus) setLinkUp(pscsr uint16) {
	b.regs[phy.RegBMSR] = 1 << 2
	b.regs[regPSCSR] = pscsr
}

func (b *fakeBus) setLinkDown() {
	b.regs[phy.RegBMSR] = 0
	b.regs[regPSCSR] = 0
}

func TestVerifyIDIgnoresRevisionNibble(t *testing.T) {
	bus := newFakeBus()
	p := New(0, bus)
	assert.NoError(t, p.VerifyID())
}

func TestVerifyIDRejectsWrongVendor(t *testing.T) {
	bus := newFakeBus()
	bus.regs[regPHYIDR1] = 0x0022
	p := New(0, bus)
	assert.ErrorIs(t, p.VerifyID(), ioerr.PhyMismatch)
}

func TestSetEnergyDetectPowerDownTogglesBitOnly(t *testing.T) {
	bus := newFakeBus()
	bus.regs[regMCSR] = 0x00FF
	p := New(0, bus)

	require.NoError(t, p.SetEnergyDetectPowerDown(true))
	assert.NotZero(t, bus.regs[regMCSR]&mcsrEDPWRDOWN)
	assert.Equal(t, uint16(0x00FF), bus.regs[regMCSR]&^mcsrEDPWRDOWN)

	require.NoError(t, p.SetEnergyDetectPowerDown(false))
	assert.Zero(t, bus.regs[regMCSR]&mcsrEDPWRDOWN)
}

func TestLinkStatusDecodesAllFourResolvedCodes(t *testing.T) {
	cases := []struct {
		pscsr  uint16
		speed  uint16
		duplex bool
	}{
		{pscsrAutoDone | pscsrHCDSpeed10HD, 10, false},
		{pscsrAutoDone | pscsrHCDSpeed10FD, 10, true},
		{pscsrAutoDone | pscsrHCDSpeed100HD, 100, false},
		{pscsrAutoDone | pscsrHCDSpeed100FD, 100, true},
	}
	for _, c := range cases {
		bus := newFakeBus()
		bus.setLinkUp(c.pscsr)
		p := New(0, bus)
		status, err := p.LinkStatus()
		require.NoError(t, err)
		assert.True(t, status.Up)
		assert.True(t, status.AutoNegotiated)
		assert.Equal(t, c.speed, status.Speed)
		assert.Equal(t, c.duplex, status.FullDuplex)
	}
}

func TestLinkStatusUpButUnresolvedBeforeAutoNegDone(t *testing.T) {
	bus := newFakeBus()
	bus.setLinkUp(0) // auto-neg not yet complete
	p := New(0, bus)
	status, err := p.LinkStatus()
	require.NoError(t, err)
	assert.True(t, status.Up)
	assert.False(t, status.AutoNegotiated)
	assert.Zero(t, status.Speed)
}

func TestLinkStatusDownReportsZeroValue(t *testing.T) {
	bus := newFakeBus()
	bus.setLinkDown()
	p := New(0, bus)
	status, err := p.LinkStatus()
	require.NoError(t, err)
	assert.Equal(t, phy.LinkStatus{}, status)
}

func TestPollLinkReportsChangedOnlyOnTransition(t *testing.T) {
	bus := newFakeBus()
	bus.setLinkUp(pscsrAutoDone | pscsrHCDSpeed100FD)
	p := New(0, bus)

	status, changed, err := p.PollLink()
	require.NoError(t, err)
	assert.True(t, changed, "first observation of an up link is a transition")
	assert.True(t, status.Up)

	status, changed, err = p.PollLink()
	require.NoError(t, err)
	assert.False(t, changed, "repeated identical status is not a transition")
	assert.True(t, status.Up)
}

func TestPollLinkReportsDownTransition(t *testing.T) {
	bus := newFakeBus()
	bus.setLinkUp(pscsrAutoDone | pscsrHCDSpeed100FD)
	p := New(0, bus)
	_, _, err := p.PollLink()
	require.NoError(t, err)

	bus.setLinkDown()
	status, changed, err := p.PollLink()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, status.Up)
}

func TestPollLinkTreatsSustainedUnresolvedAsFlapWhenPreviouslyUp(t *testing.T) {
	bus := newFakeBus()
	bus.setLinkUp(pscsrAutoDone | pscsrHCDSpeed100FD)
	p := New(0, bus)
	_, _, err := p.PollLink()
	require.NoError(t, err)

	bus.setLinkUp(0) // link stays up but auto-neg result regresses

	_, changed, err := p.PollLink()
	require.NoError(t, err)
	assert.False(t, changed, "a single unresolved poll is not yet a flap")

	status, changed, err := p.PollLink()
	require.NoError(t, err)
	assert.True(t, changed, "a second consecutive unresolved poll while previously up is a flap")
	assert.False(t, status.Up)
}
