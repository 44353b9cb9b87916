package math

import (
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// AlignTo rounds value up to the next multiple of alignment.
// An alignment of zero returns value unchanged.
func AlignTo[T constraints.Unsigned](value, alignment T) T {
	if alignment == 0 {
		return value
	}
	return ((value + alignment - 1) / alignment) * alignment
}

// RandomInRange returns a pseudo random float in [min, max).
func RandomInRange(min, max float32) float32 {
	return min + rng.Float32()*(max-min)
}

// RandomIntInRange returns a pseudo random integer in [min, max].
func RandomIntInRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
