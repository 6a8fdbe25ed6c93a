package emac

import (
	"testing"

	"github.com/photon-circus/ph-esp32-mac/internal/regs"
	"github.com/stretchr/testify/assert"
)

func TestFromRawToRawRoundTrip(t *testing.T) {
	raw := regs.DMAStatusTI | regs.DMAStatusRU | regs.DMAStatusFBI | regs.DMAStatusNIS
	s := FromRaw(raw)
	assert.Equal(t, raw, s.ToRaw())
}

func TestFromRawIgnoresUnknownBits(t *testing.T) {
	raw := regs.DMAStatusTI | uint32(1<<11) // bit 11 is reserved, not a known event
	s := FromRaw(raw)
	assert.Equal(t, regs.DMAStatusTI, s.ToRaw())
}

func TestAnyExcludesSummaryBits(t *testing.T) {
	s := FromRaw(regs.DMAStatusNIS | regs.DMAStatusAIS)
	assert.False(t, s.Any())
}

func TestAnyTrueOnEventBit(t *testing.T) {
	s := FromRaw(regs.DMAStatusRI)
	assert.True(t, s.Any())
}

func TestHasErrorOnlyForErrorBits(t *testing.T) {
	ok := FromRaw(regs.DMAStatusTI | regs.DMAStatusRI)
	assert.False(t, ok.HasError())

	bad := FromRaw(regs.DMAStatusFBI)
	assert.True(t, bad.HasError())
}
