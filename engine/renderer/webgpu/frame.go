package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

// AcquireRenderTarget takes the next surface image.
func (wr *WebGPURenderer) AcquireRenderTarget() (*metadata.RenderTarget, error) {
	ctx := wr.context
	if ctx.Surface == nil {
		return nil, core.ErrBackendNotInitialized
	}
	texture, err := ctx.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &metadata.RenderTarget{
		Width:        ctx.FramebufferWidth,
		Height:       ctx.FramebufferHeight,
		InternalData: &frameData{texture: texture, view: view},
	}, nil
}

// RenderPassBegin opens a command encoder and a pass that clears target.
func (wr *WebGPURenderer) RenderPassBegin(target *metadata.RenderTarget, clearColour math.Vec4) error {
	ctx := wr.context
	if ctx.Pass != nil {
		return fmt.Errorf("render pass already in progress")
	}
	frame, ok := target.InternalData.(*frameData)
	if !ok {
		return fmt.Errorf("render target has no surface view")
	}
	encoder, err := ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	ctx.Encoder = encoder
	ctx.Pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    frame.view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clearColour.X),
					G: float64(clearColour.Y),
					B: float64(clearColour.Z),
					A: float64(clearColour.W),
				},
			},
		},
	})
	return nil
}

func (wr *WebGPURenderer) PipelineBind(pipeline *metadata.Pipeline) {
	data := pipeline.InternalData.(*pipelineData)
	wr.context.Pass.SetPipeline(data.pipeline)
}

func (wr *WebGPURenderer) BindGroupBind(index uint32, group *metadata.BindGroup, dynamicOffsets []uint32) {
	wr.context.Pass.SetBindGroup(index, group.InternalData.(*wgpu.BindGroup), dynamicOffsets)
}

func (wr *WebGPURenderer) TextureBind(index uint32, texture *metadata.Texture) {
	data := texture.InternalData.(*textureData)
	wr.context.Pass.SetBindGroup(index, data.bindGroup, nil)
}

func (wr *WebGPURenderer) VertexBufferBind(buffer *metadata.RenderBuffer) {
	wr.context.Pass.SetVertexBuffer(0, buffer.InternalData.(*wgpu.Buffer), 0, wgpu.WholeSize)
}

func (wr *WebGPURenderer) IndexBufferBind(buffer *metadata.RenderBuffer) {
	wr.context.Pass.SetIndexBuffer(buffer.InternalData.(*wgpu.Buffer), wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
}

func (wr *WebGPURenderer) Draw(vertexCount uint32) {
	wr.context.Pass.Draw(vertexCount, 1, 0, 0)
}

func (wr *WebGPURenderer) DrawIndexed(indexCount uint32) {
	wr.context.Pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

// RenderPassEnd closes the pass and submits the recorded commands.
func (wr *WebGPURenderer) RenderPassEnd() error {
	ctx := wr.context
	if ctx.Pass == nil {
		return fmt.Errorf("no render pass in progress")
	}
	ctx.Pass.End()
	ctx.Pass.Release()
	ctx.Pass = nil

	encoder := ctx.Encoder
	ctx.Encoder = nil
	defer encoder.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	ctx.Queue.Submit(cmd)
	wr.FrameNumber++
	return nil
}

// Present shows target and releases its surface image.
func (wr *WebGPURenderer) Present(target *metadata.RenderTarget) error {
	frame, ok := target.InternalData.(*frameData)
	if !ok {
		return fmt.Errorf("render target has no surface texture")
	}
	wr.context.Surface.Present()
	frame.view.Release()
	frame.texture.Release()
	target.InternalData = nil
	return nil
}
