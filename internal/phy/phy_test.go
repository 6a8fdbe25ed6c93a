package phy

import (
	"testing"
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is an in-memory clause-22 register file for exercising PHY
// logic without real MDIO hardware.
type fakeBus struct {
	regs map[uint8]uint16
	// resetClearsAfter, when > 0, makes BMCR.RESET read as set for this
	// many reads before clearing itself, simulating reset latency.
	resetClearsAfter int
	resetReads       int
}

func newFakeBus() *fakeBus { return &fakeBus{regs: make(map[uint8]uint16)} }

func (b *fakeBus) Read(_ uint8, reg uint8) (uint16, error) {
	if reg == RegBMCR && b.regs[reg]&bmcrReset != 0 {
		b.resetReads++
		if b.resetClearsAfter > 0 && b.resetReads > b.resetClearsAfter {
			b.regs[reg] &^= bmcrReset
		}
	}
	return b.regs[reg], nil
}

func (b *fakeBus) Write(_ uint8, reg uint8, value uint16) error {
	b.regs[reg] = value
	return nil
}

func TestSoftResetClearsOnceHardwareSettles(t *testing.T) {
	bus := newFakeBus()
	bus.resetClearsAfter = 2
	err := SoftReset(bus, 0, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Zero(t, bus.regs[RegBMCR]&bmcrReset)
}

func TestSoftResetTimesOutIfResetNeverClears(t *testing.T) {
	bus := &fakeBus{regs: map[uint8]uint16{RegBMCR: bmcrReset}}
	err := SoftReset(bus, 0, time.Millisecond)
	assert.ErrorIs(t, err, ioerr.Timeout)
}

func TestEnableAutoNegotiationPreservesOtherBits(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegBMCR] = bmcrFullDuplex
	require.NoError(t, EnableAutoNegotiation(bus, 0))
	v := bus.regs[RegBMCR]
	assert.NotZero(t, v&bmcrAutoNegEna)
	assert.NotZero(t, v&bmcrRestartAutoNeg)
	assert.NotZero(t, v&bmcrFullDuplex)
}

func TestForceLinkClearsAutoNegAndSetsSpeedDuplex(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegBMCR] = bmcrAutoNegEna
	require.NoError(t, ForceLink(bus, 0, true, true))
	v := bus.regs[RegBMCR]
	assert.Zero(t, v&bmcrAutoNegEna)
	assert.NotZero(t, v&bmcrSpeed100)
	assert.NotZero(t, v&bmcrFullDuplex)
}

func TestForceLinkHalfDuplex10(t *testing.T) {
	bus := newFakeBus()
	require.NoError(t, ForceLink(bus, 0, false, false))
	v := bus.regs[RegBMCR]
	assert.Zero(t, v&bmcrSpeed100)
	assert.Zero(t, v&bmcrFullDuplex)
}

func TestIsLinkUpReadsTwiceAndReturnsSecondValue(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegBMSR] = bmsrLinkStatus
	up, err := IsLinkUp(bus, 0)
	require.NoError(t, err)
	assert.True(t, up)
}

func TestIsLinkUpFalseWhenBitClear(t *testing.T) {
	bus := newFakeBus()
	up, err := IsLinkUp(bus, 0)
	require.NoError(t, err)
	assert.False(t, up)
}
