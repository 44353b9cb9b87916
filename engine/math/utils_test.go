package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignTo(t *testing.T) {
	assert.Equal(t, uint64(256), AlignTo[uint64](16, 256))
	assert.Equal(t, uint64(256), AlignTo[uint64](256, 256))
	assert.Equal(t, uint64(512), AlignTo[uint64](257, 256))
	assert.Equal(t, uint64(0), AlignTo[uint64](0, 256))
	assert.Equal(t, uint32(7), AlignTo[uint32](7, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp[float32](3, 0, 1))
	assert.Equal(t, float32(0), Clamp[float32](-2, 0, 1))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestRandomInRangeStaysInBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandomInRange(10, 20)
		assert.GreaterOrEqual(t, v, float32(10))
		assert.Less(t, v, float32(20))

		n := RandomIntInRange(1, 3)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
	}
}
