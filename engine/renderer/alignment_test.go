package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedStrideInvariant(t *testing.T) {
	alignments := []uint64{1, 4, 16, 64, 256, 1024}
	for _, a := range alignments {
		for s := uint64(1); s <= 1100; s++ {
			stride := PaddedStride(s, a)
			assert.Zero(t, stride%a, "size=%d align=%d", s, a)
			assert.GreaterOrEqual(t, stride, s)
			assert.Less(t, stride, s+a)
		}
	}
}

func TestPaddedStrideKnownValues(t *testing.T) {
	cases := []struct {
		size, align, want uint64
	}{
		{16, 256, 256},
		{64, 256, 256},
		{96, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{0, 256, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PaddedStride(c.size, c.align), "size=%d align=%d", c.size, c.align)
	}
}

func TestInstanceOffsetSkipsReservedSlot(t *testing.T) {
	assert.Equal(t, uint64(256), InstanceOffset(0, 256))
	assert.Equal(t, uint64(768), InstanceOffset(2, 256))
	assert.Equal(t, uint64(41*256), InstanceBufferSize(40, 256))
}

func TestInstanceOffsetDoesNotWrap(t *testing.T) {
	const last = ^uint32(0)
	assert.Equal(t, uint64(last)+1, InstanceOffset(last, 1))
	assert.Equal(t, (uint64(last)+1)*256, InstanceBufferSize(last, 256))
}

func TestOffsetsFit(t *testing.T) {
	assert.True(t, OffsetsFit(0, 256))
	assert.True(t, OffsetsFit(40, 256))
	// the last slot starts at 2^24 * 256 = 2^32
	assert.False(t, OffsetsFit(1<<24, 256))
	assert.True(t, OffsetsFit(1<<24-1, 256))
}
