package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func (wr *WebGPURenderer) VertexBufferCreate(label string, vertices []float32) (*metadata.RenderBuffer, error) {
	if wr.context.Device == nil {
		return nil, core.ErrBackendNotInitialized
	}
	buf, err := wr.context.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex buffer %s: %w", label, err)
	}
	return &metadata.RenderBuffer{
		Label:            label,
		RenderBufferType: metadata.RENDERBUFFER_TYPE_VERTEX,
		TotalSize:        uint64(len(vertices) * 4),
		InternalData:     buf,
	}, nil
}

func (wr *WebGPURenderer) IndexBufferCreate(label string, indices []uint16) (*metadata.RenderBuffer, error) {
	if wr.context.Device == nil {
		return nil, core.ErrBackendNotInitialized
	}
	// mapped buffer contents must be a multiple of 4 bytes
	contents := indices
	if len(contents)%2 != 0 {
		contents = append(append([]uint16(nil), indices...), 0)
	}
	buf, err := wr.context.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(contents),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return nil, fmt.Errorf("index buffer %s: %w", label, err)
	}
	return &metadata.RenderBuffer{
		Label:            label,
		RenderBufferType: metadata.RENDERBUFFER_TYPE_INDEX,
		TotalSize:        uint64(len(contents) * 2),
		ElementCount:     uint32(len(indices)),
		InternalData:     buf,
	}, nil
}

func (wr *WebGPURenderer) UniformBufferCreate(label string, totalSize uint64) (*metadata.RenderBuffer, error) {
	if wr.context.Device == nil {
		return nil, core.ErrBackendNotInitialized
	}
	buf, err := wr.context.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  totalSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("uniform buffer %s: %w", label, err)
	}
	return &metadata.RenderBuffer{
		Label:            label,
		RenderBufferType: metadata.RENDERBUFFER_TYPE_UNIFORM,
		TotalSize:        totalSize,
		InternalData:     buf,
	}, nil
}

func (wr *WebGPURenderer) RenderBufferDestroy(buffer *metadata.RenderBuffer) {
	if buffer == nil {
		return
	}
	if buf, ok := buffer.InternalData.(*wgpu.Buffer); ok {
		buf.Release()
	}
	buffer.InternalData = nil
}

// RenderBufferLoadRange queues a write of data at offset. The write lands
// before any command buffer submitted afterwards.
func (wr *WebGPURenderer) RenderBufferLoadRange(buffer *metadata.RenderBuffer, offset uint64, data []float32) error {
	buf, ok := buffer.InternalData.(*wgpu.Buffer)
	if !ok {
		return fmt.Errorf("%w: buffer %s", core.ErrBackendNotInitialized, buffer.Label)
	}
	size := uint64(len(data) * 4)
	if offset+size > buffer.TotalSize {
		return fmt.Errorf("write of %d bytes at %d overflows %s (%d bytes)", size, offset, buffer.Label, buffer.TotalSize)
	}
	return wr.context.Queue.WriteBuffer(buf, offset, wgpu.ToBytes(data))
}
