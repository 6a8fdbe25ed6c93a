package desc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestRxInitChainedSetsOwnAndAddresses(t *testing.T) {
	var d, next RxDescriptor
	buf := make([]byte, 1536)
	d.InitChained(buf, &next)

	assert.Equal(t, uint32(uintptr(unsafe.Pointer(&buf[0]))), d.buf1Addr.Get())
	assert.Equal(t, uint32(uintptr(unsafe.Pointer(&next))), d.next.Get())
	assert.True(t, d.IsOwned())
	assert.False(t, d.IsFirst())
	assert.False(t, d.IsLast())
	assert.False(t, d.HasError())
}

func TestRxRecycleRestoresOwnAndClearsStatus(t *testing.T) {
	var d RxDescriptor
	d.status.Set(Own | rdes0ErrSummary | rdes0LastDesc)
	assert.True(t, d.HasError())

	d.Recycle()
	assert.True(t, d.IsOwned())
	assert.False(t, d.HasError())
	assert.False(t, d.IsLast())
}

func TestRxFrameLengthDecode(t *testing.T) {
	var d RxDescriptor
	d.status.Set((1500 << rdes0FrameLenPos) & rdes0FrameLenMask)
	assert.EqualValues(t, 1500, d.FrameLength())
}

func TestRxErrorFlagsMasksOnlyErrorBits(t *testing.T) {
	var d RxDescriptor
	d.status.Set(rdes0CRCErr | rdes0LastDesc | rdes0ErrSummary)
	assert.Equal(t, rdes0CRCErr, d.ErrorFlags())
}

func TestRxIsFirstAndIsLastIndependent(t *testing.T) {
	var d RxDescriptor
	d.status.Set(rdes0FirstDesc)
	assert.True(t, d.IsFirst())
	assert.False(t, d.IsLast())

	d.status.Set(rdes0LastDesc)
	assert.False(t, d.IsFirst())
	assert.True(t, d.IsLast())
}
