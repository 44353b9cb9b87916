// Package rendertest provides a renderer backend that records every call
// instead of talking to a GPU.
package rendertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*Recorder)(nil)

// ErrInjected is returned by calls a test asked to fail.
var ErrInjected = errors.New("injected failure")

// Write is one RenderBufferLoadRange call.
type Write struct {
	Buffer string
	Offset uint64
	Data   []float32
}

// DrawCall is one Draw or DrawIndexed call with the state bound at that time.
type DrawCall struct {
	Pipeline       string
	Kind           metadata.PrimitiveKind
	Count          uint32
	Indexed        bool
	DynamicOffsets []uint32
	Texture        string
}

type Recorder struct {
	mu sync.Mutex

	Alignment   uint64
	Initialized bool
	Width       uint32
	Height      uint32

	Pipelines      []*metadata.Pipeline
	Buffers        map[string]*metadata.RenderBuffer
	TextureUploads []string
	Writes         []Write
	DrawCalls      []DrawCall
	Passes         int
	Presented      int

	// FailPipeline makes PipelineCreate fail for the named pipeline.
	FailPipeline string
	// FailTexture makes TextureCreate fail for the named texture.
	FailTexture string

	inPass   bool
	pipeline *metadata.Pipeline
	offsets  []uint32
	texture  string
}

func New(alignment uint64) *Recorder {
	return &Recorder{
		Alignment: alignment,
		Buffers:   make(map[string]*metadata.RenderBuffer),
	}
}

func (r *Recorder) Initialize(config *metadata.RendererBackendConfig) error {
	r.Initialized = true
	r.Width = config.Width
	r.Height = config.Height
	return nil
}

func (r *Recorder) Shutdown() error {
	r.Initialized = false
	return nil
}

func (r *Recorder) Resized(width, height uint32) error {
	r.Width = width
	r.Height = height
	return nil
}

func (r *Recorder) MinUniformBufferOffsetAlignment() uint64 {
	return r.Alignment
}

func (r *Recorder) PipelineCreate(config *metadata.PipelineConfig) (*metadata.Pipeline, error) {
	if config.Name == r.FailPipeline {
		return nil, fmt.Errorf("pipeline %s: %w", config.Name, ErrInjected)
	}
	p := &metadata.Pipeline{Config: config}
	r.Pipelines = append(r.Pipelines, p)
	return p, nil
}

func (r *Recorder) PipelineDestroy(pipeline *metadata.Pipeline) {}

func (r *Recorder) VertexBufferCreate(label string, vertices []float32) (*metadata.RenderBuffer, error) {
	return r.buffer(label, metadata.RENDERBUFFER_TYPE_VERTEX, uint64(len(vertices)*4)), nil
}

func (r *Recorder) IndexBufferCreate(label string, indices []uint16) (*metadata.RenderBuffer, error) {
	b := r.buffer(label, metadata.RENDERBUFFER_TYPE_INDEX, uint64(len(indices)*2))
	b.ElementCount = uint32(len(indices))
	return b, nil
}

func (r *Recorder) UniformBufferCreate(label string, totalSize uint64) (*metadata.RenderBuffer, error) {
	return r.buffer(label, metadata.RENDERBUFFER_TYPE_UNIFORM, totalSize), nil
}

func (r *Recorder) buffer(label string, t metadata.RenderBufferType, size uint64) *metadata.RenderBuffer {
	b := &metadata.RenderBuffer{Label: label, RenderBufferType: t, TotalSize: size}
	r.Buffers[label] = b
	return b
}

func (r *Recorder) RenderBufferDestroy(buffer *metadata.RenderBuffer) {
	delete(r.Buffers, buffer.Label)
}

func (r *Recorder) RenderBufferLoadRange(buffer *metadata.RenderBuffer, offset uint64, data []float32) error {
	if offset+uint64(len(data)*4) > buffer.TotalSize {
		return fmt.Errorf("write of %d bytes at %d overflows %s (%d bytes)", len(data)*4, offset, buffer.Label, buffer.TotalSize)
	}
	r.Writes = append(r.Writes, Write{
		Buffer: buffer.Label,
		Offset: offset,
		Data:   append([]float32(nil), data...),
	})
	return nil
}

func (r *Recorder) InstanceBindGroupCreate(pipeline *metadata.Pipeline, buffers []*metadata.RenderBuffer) (*metadata.BindGroup, error) {
	if len(buffers) != len(pipeline.Config.Slots) {
		return nil, fmt.Errorf("%s expects %d buffers, got %d", pipeline.Config.Name, len(pipeline.Config.Slots), len(buffers))
	}
	return &metadata.BindGroup{Label: pipeline.Config.Name + ".Instance"}, nil
}

func (r *Recorder) BindGroupDestroy(group *metadata.BindGroup) {}

func (r *Recorder) TextureCreate(pixels []uint8, texture *metadata.Texture, sampler metadata.SamplerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(pixels) != int(texture.Width*texture.Height*4) {
		return fmt.Errorf("texture %s: %w", texture.Name, core.ErrInvalidTexture)
	}
	if texture.Name == r.FailTexture {
		return fmt.Errorf("texture %s: %w", texture.Name, ErrInjected)
	}
	r.TextureUploads = append(r.TextureUploads, texture.Name)
	texture.InternalData = texture.Name
	texture.Generation++
	return nil
}

func (r *Recorder) TextureDestroy(texture *metadata.Texture) {
	texture.InternalData = nil
}

// Uploads returns how many times the named texture was uploaded.
func (r *Recorder) Uploads(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.TextureUploads {
		if u == name {
			n++
		}
	}
	return n
}

func (r *Recorder) AcquireRenderTarget() (*metadata.RenderTarget, error) {
	return &metadata.RenderTarget{Width: r.Width, Height: r.Height}, nil
}

func (r *Recorder) RenderPassBegin(target *metadata.RenderTarget, clearColour math.Vec4) error {
	if r.inPass {
		return fmt.Errorf("render pass already open")
	}
	r.inPass = true
	r.Passes++
	return nil
}

func (r *Recorder) PipelineBind(pipeline *metadata.Pipeline) {
	r.pipeline = pipeline
	r.offsets = nil
	r.texture = ""
}

func (r *Recorder) BindGroupBind(index uint32, group *metadata.BindGroup, dynamicOffsets []uint32) {
	r.offsets = append([]uint32(nil), dynamicOffsets...)
}

func (r *Recorder) TextureBind(index uint32, texture *metadata.Texture) {
	r.texture = texture.Name
}

func (r *Recorder) VertexBufferBind(buffer *metadata.RenderBuffer) {}

func (r *Recorder) IndexBufferBind(buffer *metadata.RenderBuffer) {}

func (r *Recorder) Draw(vertexCount uint32) {
	r.record(vertexCount, false)
}

func (r *Recorder) DrawIndexed(indexCount uint32) {
	r.record(indexCount, true)
}

func (r *Recorder) record(count uint32, indexed bool) {
	call := DrawCall{
		Count:          count,
		Indexed:        indexed,
		DynamicOffsets: r.offsets,
		Texture:        r.texture,
	}
	if r.pipeline != nil {
		call.Pipeline = r.pipeline.Config.Name
		call.Kind = r.pipeline.Config.Kind
	}
	r.DrawCalls = append(r.DrawCalls, call)
}

func (r *Recorder) RenderPassEnd() error {
	if !r.inPass {
		return fmt.Errorf("no render pass open")
	}
	r.inPass = false
	r.pipeline = nil
	return nil
}

func (r *Recorder) Present(target *metadata.RenderTarget) error {
	r.Presented++
	return nil
}

// WritesTo returns the writes recorded for the named buffer, in order.
func (r *Recorder) WritesTo(buffer string) []Write {
	var out []Write
	for _, w := range r.Writes {
		if w.Buffer == buffer {
			out = append(out, w)
		}
	}
	return out
}

// Reset forgets recorded writes and draw calls, keeping created resources.
func (r *Recorder) Reset() {
	r.Writes = nil
	r.DrawCalls = nil
}
