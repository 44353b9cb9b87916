package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/platform"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*WebGPURenderer)(nil)

type WebGPURenderer struct {
	platform    *platform.Platform
	FrameNumber uint64
	context     *WebGPUContext
}

func New(p *platform.Platform) *WebGPURenderer {
	return &WebGPURenderer{
		platform:    p,
		FrameNumber: 0,
		context:     &WebGPUContext{},
	}
}

func (wr *WebGPURenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if wr.platform == nil || wr.platform.Window == nil {
		return fmt.Errorf("%w: no window to render into", core.ErrBackendNotInitialized)
	}
	ctx := wr.context
	ctx.FramebufferWidth = config.Width
	ctx.FramebufferHeight = config.Height

	ctx.Instance = wgpu.CreateInstance(nil)
	ctx.Surface = ctx.Instance.CreateSurface(wr.platform.SurfaceDescriptor())

	adapter, err := ctx.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: ctx.Surface,
	})
	if err != nil {
		core.LogError("failed to acquire a GPU adapter: %s", err)
		return err
	}
	ctx.Adapter = adapter

	// the device only enforces what it was created with, so the
	// requested limits are the ones dynamic offsets must honour
	limits := requiredLimits(adapter.GetLimits().Limits)
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: config.ApplicationName + " Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		core.LogError("failed to create logical device: %s", err)
		return err
	}
	ctx.Device = device
	ctx.Queue = device.GetQueue()
	ctx.Limits = limits

	ctx.PresentMode = wgpu.PresentModeImmediate
	if config.VSync {
		ctx.PresentMode = wgpu.PresentModeFifo
	}
	caps := ctx.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("%w: surface reports no formats", core.ErrBackendNotInitialized)
	}
	ctx.SurfaceFormat = caps.Formats[0]
	ctx.AlphaMode = caps.AlphaModes[0]
	wr.configureSurface()

	if err := wr.createTextureBindGroupLayout(); err != nil {
		return err
	}

	core.LogInfo("WebGPU renderer initialized successfully.")
	return nil
}

// requiredLimits starts from the WebGPU defaults and takes the adapter's
// offset alignments when they are finer. Alignment limits are valid when
// they are at least the adapter's value.
func requiredLimits(adapter wgpu.Limits) wgpu.Limits {
	limits := wgpu.DefaultLimits()
	if a := adapter.MinUniformBufferOffsetAlignment; a != 0 && a < limits.MinUniformBufferOffsetAlignment {
		limits.MinUniformBufferOffsetAlignment = a
	}
	if a := adapter.MinStorageBufferOffsetAlignment; a != 0 && a < limits.MinStorageBufferOffsetAlignment {
		limits.MinStorageBufferOffsetAlignment = a
	}
	return limits
}

func (wr *WebGPURenderer) configureSurface() {
	ctx := wr.context
	ctx.Surface.Configure(ctx.Adapter, ctx.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      ctx.SurfaceFormat,
		Width:       ctx.FramebufferWidth,
		Height:      ctx.FramebufferHeight,
		PresentMode: ctx.PresentMode,
		AlphaMode:   ctx.AlphaMode,
	})
}

func (wr *WebGPURenderer) Shutdown() error {
	ctx := wr.context
	core.LogDebug("Destroying WebGPU device and surface...")
	if ctx.TextureBindGroupLayout != nil {
		ctx.TextureBindGroupLayout.Release()
		ctx.TextureBindGroupLayout = nil
	}
	if ctx.Queue != nil {
		ctx.Queue.Release()
		ctx.Queue = nil
	}
	if ctx.Device != nil {
		ctx.Device.Release()
		ctx.Device = nil
	}
	if ctx.Adapter != nil {
		ctx.Adapter.Release()
		ctx.Adapter = nil
	}
	if ctx.Surface != nil {
		ctx.Surface.Release()
		ctx.Surface = nil
	}
	if ctx.Instance != nil {
		ctx.Instance.Release()
		ctx.Instance = nil
	}
	return nil
}

// Resized reconfigures the surface. Zero sizes are ignored, the surface
// cannot be configured while the window is minimized.
func (wr *WebGPURenderer) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if wr.context.Device == nil {
		return core.ErrBackendNotInitialized
	}
	wr.context.FramebufferWidth = width
	wr.context.FramebufferHeight = height
	wr.configureSurface()
	core.LogDebug("WebGPU renderer backend->resized: w/h: %d/%d", width, height)
	return nil
}

func (wr *WebGPURenderer) MinUniformBufferOffsetAlignment() uint64 {
	return uint64(wr.context.Limits.MinUniformBufferOffsetAlignment)
}
