package desc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxInitChainedStartsCpuOwned(t *testing.T) {
	var d, next TxDescriptor
	buf := make([]byte, 256)
	d.InitChained(buf, &next)
	assert.False(t, d.IsOwned())
}

func TestTxPrepareThenSubmitSetsOwn(t *testing.T) {
	var d, next TxDescriptor
	buf := make([]byte, 256)
	d.InitChained(buf, &next)

	d.Prepare(100, true, true, ChecksumFull)
	assert.False(t, d.IsOwned(), "Prepare alone must not publish OWN")

	d.Submit()
	assert.True(t, d.IsOwned())
}

func TestTxPreparePacksChecksumModeAndSegmentFlags(t *testing.T) {
	var d TxDescriptor
	d.Prepare(64, true, true, ChecksumIPAndPayload)
	raw := d.status.Get()
	assert.NotZero(t, raw&tdes0FirstSegment)
	assert.NotZero(t, raw&tdes0LastSegment)
	assert.NotZero(t, raw&tdes0InterruptOnComp)
	assert.Equal(t, ChecksumIPAndPayload<<tdes0ChecksumModePos, raw&tdes0ChecksumModeMask)
}

func TestTxPrepareNonLastSegmentOmitsInterruptAndLast(t *testing.T) {
	var d TxDescriptor
	d.Prepare(64, true, false, ChecksumDisabled)
	raw := d.status.Get()
	assert.NotZero(t, raw&tdes0FirstSegment)
	assert.Zero(t, raw&tdes0LastSegment)
	assert.Zero(t, raw&tdes0InterruptOnComp)
}

func TestTxErrorFlagsAndCollisionCount(t *testing.T) {
	var d TxDescriptor
	d.status.Set(tdes0ErrSummary | tdes0LateCollision | (5 << tdes0CollisionCntPos))
	assert.True(t, d.HasError())
	assert.Equal(t, tdes0LateCollision, d.ErrorFlags())
	assert.EqualValues(t, 5, d.CollisionCount())
}
