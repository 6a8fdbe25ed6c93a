package emac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHashIndexIsDeterministic(t *testing.T) {
	addr := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	first := ComputeHashIndex(addr)
	second := ComputeHashIndex(addr)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 62, first)
}

func TestComputeHashIndexStaysWithinSixBits(t *testing.T) {
	addrs := [][6]byte{
		{0, 0, 0, 0, 0, 0},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x33, 0x33, 0x00, 0x00, 0x00, 0x01},
		{0x02, 0x00, 0x00, 0x00, 0x00, 0xC4},
	}
	for _, a := range addrs {
		assert.LessOrEqual(t, ComputeHashIndex(a), uint8(63))
	}
}

func TestComputeHashIndexCollisionDoesNotAliasDistinctAddresses(t *testing.T) {
	a := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	b := [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0xC4}
	assert.Equal(t, ComputeHashIndex(a), ComputeHashIndex(b),
		"these two addresses are a known colliding pair under this hash")
	assert.NotEqual(t, a, b)
}

// newTestEmacForHash builds a bare Emac with writeHash stubbed to a
// no-op, so AddHashFilter/RemoveHashFilter's bucket bookkeeping can be
// exercised without the real MAC hash-register write.
func newTestEmacForHash() *Emac {
	return &Emac{writeHash: func(uint32, uint32) {}}
}

func TestRemoveHashFilterOnUncollidedBucketClearsShadowBit(t *testing.T) {
	e := newTestEmacForHash()
	addr := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	idx := e.AddHashFilter(addr)
	assert.NotZero(t, e.hashShadow&(uint64(1)<<idx))

	e.RemoveHashFilter(addr)
	assert.Zero(t, e.hashShadow&(uint64(1)<<idx))
}

func TestRemoveHashFilterOnCollidedBucketDoesNotDisableSurvivingAddress(t *testing.T) {
	e := newTestEmacForHash()
	a := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	b := [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0xC4}
	idx := e.AddHashFilter(a)
	require.Equal(t, idx, e.AddHashFilter(b))

	e.RemoveHashFilter(a)
	assert.NotZero(t, e.hashShadow&(uint64(1)<<idx),
		"removing one of two colliding addresses must not disable reception for the other")

	e.RemoveHashFilter(b)
	assert.Zero(t, e.hashShadow&(uint64(1)<<idx),
		"once both colliding addresses are removed the bucket must clear")
}

func TestRemoveHashFilterOnAddressNeverAddedIsANoop(t *testing.T) {
	e := newTestEmacForHash()
	addr := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	assert.NotPanics(t, func() { e.RemoveHashFilter(addr) })
	assert.Zero(t, e.hashShadow)
}
