package renderer

import (
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

// RendererBackend is the GPU API the renderer system drives. Resource
// creation happens during setup; the bind/draw calls are only valid
// between RenderPassBegin and RenderPassEnd.
type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	// MinUniformBufferOffsetAlignment is the device limit every dynamic offset must be a multiple of.
	MinUniformBufferOffsetAlignment() uint64

	PipelineCreate(config *metadata.PipelineConfig) (*metadata.Pipeline, error)
	PipelineDestroy(pipeline *metadata.Pipeline)

	VertexBufferCreate(label string, vertices []float32) (*metadata.RenderBuffer, error)
	IndexBufferCreate(label string, indices []uint16) (*metadata.RenderBuffer, error)
	UniformBufferCreate(label string, totalSize uint64) (*metadata.RenderBuffer, error)
	RenderBufferDestroy(buffer *metadata.RenderBuffer)
	RenderBufferLoadRange(buffer *metadata.RenderBuffer, offset uint64, data []float32) error

	// InstanceBindGroupCreate binds buffers[i] at binding i of group 0 with the size of the pipeline's slot i.
	InstanceBindGroupCreate(pipeline *metadata.Pipeline, buffers []*metadata.RenderBuffer) (*metadata.BindGroup, error)
	BindGroupDestroy(group *metadata.BindGroup)

	TextureCreate(pixels []uint8, texture *metadata.Texture, sampler metadata.SamplerConfig) error
	TextureDestroy(texture *metadata.Texture)

	AcquireRenderTarget() (*metadata.RenderTarget, error)
	RenderPassBegin(target *metadata.RenderTarget, clearColour math.Vec4) error
	PipelineBind(pipeline *metadata.Pipeline)
	BindGroupBind(index uint32, group *metadata.BindGroup, dynamicOffsets []uint32)
	TextureBind(index uint32, texture *metadata.Texture)
	VertexBufferBind(buffer *metadata.RenderBuffer)
	IndexBufferBind(buffer *metadata.RenderBuffer)
	Draw(vertexCount uint32)
	DrawIndexed(indexCount uint32)
	RenderPassEnd() error
	Present(target *metadata.RenderTarget) error
}
