package webgpu

import "github.com/cogentcore/webgpu/wgpu"

type WebGPUContext struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface

	SurfaceFormat wgpu.TextureFormat
	AlphaMode     wgpu.CompositeAlphaMode
	PresentMode   wgpu.PresentMode

	/** @brief The framebuffer's current width. */
	FramebufferWidth uint32
	/** @brief The framebuffer's current height. */
	FramebufferHeight uint32

	/** @brief Limits reported by the adapter, read once at startup. */
	Limits wgpu.Limits

	/** @brief Group 1 layout shared by every textured pipeline: texture view and sampler. */
	TextureBindGroupLayout *wgpu.BindGroupLayout

	// Recording state, valid between RenderPassBegin and RenderPassEnd.
	Encoder *wgpu.CommandEncoder
	Pass    *wgpu.RenderPassEncoder
}

// pipelineData is the InternalData of a metadata.Pipeline.
type pipelineData struct {
	module         *wgpu.ShaderModule
	instanceLayout *wgpu.BindGroupLayout
	layout         *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline
}

// textureData is the InternalData of a metadata.Texture.
type textureData struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

// frameData is the InternalData of a metadata.RenderTarget.
type frameData struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}
