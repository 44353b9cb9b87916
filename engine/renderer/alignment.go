package renderer

import "github.com/spaghettifunk/flatland/engine/math"

// ReservedSlotCount is the number of leading slots of every instance buffer
// that are never written. Request i lives in slot i+ReservedSlotCount.
const ReservedSlotCount = 1

// PaddedStride returns logicalSize rounded up to a multiple of minAlignment.
// A zero size yields zero.
func PaddedStride(logicalSize, minAlignment uint64) uint64 {
	return math.AlignTo(logicalSize, minAlignment)
}

// InstanceOffset returns the byte offset of request index in a buffer with the given stride.
func InstanceOffset(index uint32, stride uint64) uint64 {
	return (uint64(index) + ReservedSlotCount) * stride
}

// InstanceBufferSize returns the bytes needed to hold maxInstances requests plus the reserved slots.
func InstanceBufferSize(maxInstances uint32, stride uint64) uint64 {
	return (uint64(maxInstances) + ReservedSlotCount) * stride
}

// OffsetsFit reports whether every instance offset of the buffer fits in the
// 32-bit dynamic offset a draw call binds.
func OffsetsFit(maxInstances uint32, stride uint64) bool {
	if maxInstances == 0 {
		return true
	}
	return InstanceOffset(maxInstances-1, stride) <= uint64(^uint32(0))
}
