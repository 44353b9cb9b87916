package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

// RendererSystemConfig sizes the per-kind instance buffers.
type RendererSystemConfig struct {
	AppName     string
	Width       uint32
	Height      uint32
	VSync       bool
	ClearColour math.Vec4
	// MaxInstances is the number of requests of each kind a frame may hold.
	MaxInstances map[metadata.PrimitiveKind]uint32
}

// primitiveResources is everything one primitive kind owns on the GPU plus
// the requests accumulated for the current frame.
type primitiveResources struct {
	config       *metadata.PipelineConfig
	pipeline     *metadata.Pipeline
	vertexBuffer *metadata.RenderBuffer
	indexBuffer  *metadata.RenderBuffer
	// one instance buffer per uniform slot
	uniforms     []*metadata.RenderBuffer
	strides      []uint64
	bindGroup    *metadata.BindGroup
	maxInstances uint32

	pending []renderer.DrawRequest
	offsets []uint32
}

func (p *primitiveResources) free() uint32 {
	return p.maxInstances - uint32(len(p.pending))
}

// RendererSystem accumulates draw requests during a frame, uploads them into
// the instance buffers and replays them in paint order inside one render pass.
type RendererSystem struct {
	backend  renderer.RendererBackend
	textures *TextureSystem
	config   *RendererSystemConfig

	resources  map[metadata.PrimitiveKind]*primitiveResources
	projection math.Mat4
	alignment  uint64

	width     uint32
	height    uint32
	minimized bool

	initialized bool
	uploaded    bool
	drawCalls   uint32
}

func NewRendererSystem(backend renderer.RendererBackend, textures *TextureSystem, config *RendererSystemConfig) (*RendererSystem, error) {
	if backend == nil {
		return nil, fmt.Errorf("func NewRendererSystem - backend must not be nil")
	}
	if config == nil {
		return nil, fmt.Errorf("func NewRendererSystem - config must not be nil")
	}
	return &RendererSystem{
		backend:    backend,
		textures:   textures,
		config:     config,
		resources:  make(map[metadata.PrimitiveKind]*primitiveResources, len(metadata.PaintOrder)),
		width:      config.Width,
		height:     config.Height,
		projection: math.NewMat4ScreenProjection(float32(config.Width), float32(config.Height)),
	}, nil
}

// Initialize brings the backend up and creates the pipeline, meshes and
// instance buffers of every primitive kind. Any failure here is fatal.
func (r *RendererSystem) Initialize() error {
	rbc := &metadata.RendererBackendConfig{
		ApplicationName: r.config.AppName,
		Width:           r.width,
		Height:          r.height,
		VSync:           r.config.VSync,
	}
	if err := r.backend.Initialize(rbc); err != nil {
		return fmt.Errorf("renderer backend failed to initialize: %w", err)
	}

	r.alignment = r.backend.MinUniformBufferOffsetAlignment()
	if r.alignment == 0 {
		return fmt.Errorf("%w: device reported a zero uniform offset alignment", core.ErrBackendNotInitialized)
	}

	for _, kind := range metadata.PaintOrder {
		res, err := r.createResources(kind)
		if err != nil {
			return err
		}
		r.resources[kind] = res
	}
	r.initialized = true
	core.LogInfo("Renderer system initialized (uniform alignment %d bytes).", r.alignment)
	return nil
}

func (r *RendererSystem) createResources(kind metadata.PrimitiveKind) (*primitiveResources, error) {
	cfg := renderer.PipelineConfigFor(kind)
	if cfg == nil {
		return nil, fmt.Errorf("no pipeline description for primitive kind %s", kind)
	}
	capacity := r.config.MaxInstances[kind]
	for _, slot := range cfg.Slots {
		if stride := renderer.PaddedStride(slot.Size, r.alignment); !renderer.OffsetsFit(capacity, stride) {
			return nil, fmt.Errorf("%w: %d %s instances with stride %d overflow 32-bit offsets", core.ErrInvalidConfig, capacity, cfg.Name, stride)
		}
	}

	pipeline, err := r.backend.PipelineCreate(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", cfg.Name, err)
	}
	res := &primitiveResources{
		config:       cfg,
		pipeline:     pipeline,
		maxInstances: capacity,
		pending:      make([]renderer.DrawRequest, 0, capacity),
		offsets:      make([]uint32, len(cfg.Slots)),
	}

	res.vertexBuffer, err = r.backend.VertexBufferCreate(cfg.Name+".Vertices", cfg.Vertices)
	if err != nil {
		return nil, err
	}
	if cfg.Indexed() {
		res.indexBuffer, err = r.backend.IndexBufferCreate(cfg.Name+".Indices", cfg.Indices)
		if err != nil {
			return nil, err
		}
	}

	for _, slot := range cfg.Slots {
		stride := renderer.PaddedStride(slot.Size, r.alignment)
		buf, err := r.backend.UniformBufferCreate(fmt.Sprintf("%s.%s", cfg.Name, slot.Name), renderer.InstanceBufferSize(capacity, stride))
		if err != nil {
			return nil, err
		}
		res.uniforms = append(res.uniforms, buf)
		res.strides = append(res.strides, stride)
	}

	res.bindGroup, err = r.backend.InstanceBindGroupCreate(pipeline, res.uniforms)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group for %s: %w", cfg.Name, err)
	}
	core.LogDebug("%s ready: %d instances, strides %v", cfg.Name, capacity, res.strides)
	return res, nil
}

func (r *RendererSystem) Shutdown() error {
	for _, kind := range metadata.PaintOrder {
		res, ok := r.resources[kind]
		if !ok {
			continue
		}
		r.backend.BindGroupDestroy(res.bindGroup)
		for _, buf := range res.uniforms {
			r.backend.RenderBufferDestroy(buf)
		}
		if res.indexBuffer != nil {
			r.backend.RenderBufferDestroy(res.indexBuffer)
		}
		r.backend.RenderBufferDestroy(res.vertexBuffer)
		r.backend.PipelineDestroy(res.pipeline)
		delete(r.resources, kind)
	}
	r.initialized = false
	return r.backend.Shutdown()
}

// BeginFrame starts a new accumulation window.
func (r *RendererSystem) BeginFrame() {
	r.uploaded = false
	r.drawCalls = 0
}

// EndFrame drops every request of the frame. Instance buffers keep their
// bytes; the next frame overwrites the slots it uses.
func (r *RendererSystem) EndFrame() {
	for _, res := range r.resources {
		clear(res.pending)
		res.pending = res.pending[:0]
	}
	r.uploaded = false
}

func (r *RendererSystem) submit(req renderer.DrawRequest) error {
	res, ok := r.resources[req.Kind()]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrBackendNotInitialized, req.Kind())
	}
	if res.free() == 0 {
		return fmt.Errorf("%w: %s limit is %d", core.ErrCapacityExceeded, req.Kind(), res.maxInstances)
	}
	res.pending = append(res.pending, req)
	r.uploaded = false
	return nil
}

// SubmitQuad queues a quad of size scale centered at position. An empty
// textureName samples the default texture.
func (r *RendererSystem) SubmitQuad(position, scale math.Vec3, angle float32, color math.Vec4, textureName string) error {
	return r.submit(&renderer.QuadRequest{
		Transform:   math.TransformFromPositionAngleScale(position, angle, scale),
		Color:       color,
		TextureName: textureName,
	})
}

func (r *RendererSystem) SubmitLine(origin, destination math.Vec3, color math.Vec4) error {
	return r.submit(&renderer.LineRequest{
		Origin:      math.TransformFromPosition(origin),
		Destination: math.TransformFromPosition(destination),
		Color:       color,
	})
}

// SubmitRectOutline queues the four edges of a rotated rectangle as lines.
// Either all four fit or none is queued.
func (r *RendererSystem) SubmitRectOutline(position, size math.Vec3, angle float32, color math.Vec4) error {
	res, ok := r.resources[metadata.PrimitiveKindLine]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrBackendNotInitialized, metadata.PrimitiveKindLine)
	}
	if res.free() < 4 {
		return fmt.Errorf("%w: rect outline needs 4 lines, %d free", core.ErrCapacityExceeded, res.free())
	}
	corners := renderer.RectOutlineCorners(position, size, angle)
	for i := range corners {
		if err := r.SubmitLine(corners[i], corners[(i+1)%4], color); err != nil {
			return err
		}
	}
	return nil
}

// SubmitCircle queues a ring of diameter scale centered at position.
func (r *RendererSystem) SubmitCircle(position, scale math.Vec3, thickness, fade float32, color math.Vec4) error {
	return r.submit(&renderer.CircleRequest{
		Transform: math.TransformFromPositionAngleScale(position, 0, scale),
		Color:     color,
		Thickness: thickness,
		Fade:      fade,
	})
}

// Pending returns the number of requests of kind queued this frame.
func (r *RendererSystem) Pending(kind metadata.PrimitiveKind) int {
	if res, ok := r.resources[kind]; ok {
		return len(res.pending)
	}
	return 0
}

// FlushUploads writes the payload of every pending request into its slot.
func (r *RendererSystem) FlushUploads() error {
	proj := r.Projection()
	for _, kind := range metadata.PaintOrder {
		res, ok := r.resources[kind]
		if !ok {
			continue
		}
		for i, req := range res.pending {
			payloads := req.Pack(proj)
			for s, data := range payloads {
				offset := renderer.InstanceOffset(uint32(i), res.strides[s])
				if err := r.backend.RenderBufferLoadRange(res.uniforms[s], offset, data); err != nil {
					return fmt.Errorf("upload %s[%d] slot %s: %w", kind, i, res.config.Slots[s].Name, err)
				}
			}
		}
	}
	r.uploaded = true
	return nil
}

// Draw records one render pass into target: clear, then each kind in paint
// order, each request with its own dynamic offsets.
func (r *RendererSystem) Draw(target *metadata.RenderTarget) error {
	if !r.initialized {
		return core.ErrBackendNotInitialized
	}
	if !r.uploaded {
		if err := r.FlushUploads(); err != nil {
			return err
		}
	}
	if err := r.backend.RenderPassBegin(target, r.config.ClearColour); err != nil {
		return err
	}

	var drawErr error
	for _, kind := range metadata.PaintOrder {
		if drawErr = r.drawKind(r.resources[kind]); drawErr != nil {
			break
		}
	}
	// the pass must be closed even when recording failed
	if err := r.backend.RenderPassEnd(); err != nil {
		return errors.Join(drawErr, err)
	}
	return drawErr
}

func (r *RendererSystem) drawKind(res *primitiveResources) error {
	if res == nil || len(res.pending) == 0 {
		return nil
	}
	r.backend.PipelineBind(res.pipeline)
	r.backend.VertexBufferBind(res.vertexBuffer)
	if res.indexBuffer != nil {
		r.backend.IndexBufferBind(res.indexBuffer)
	}

	for i, req := range res.pending {
		for s := range res.offsets {
			res.offsets[s] = uint32(renderer.InstanceOffset(uint32(i), res.strides[s]))
		}
		r.backend.BindGroupBind(0, res.bindGroup, res.offsets)

		if res.config.Textured {
			quad, ok := req.(*renderer.QuadRequest)
			if !ok {
				return fmt.Errorf("textured pipeline %s got a %T", res.config.Name, req)
			}
			if r.textures == nil {
				return fmt.Errorf("%w: no texture system", core.ErrUnknownTexture)
			}
			tex, err := r.textures.Resolve(quad.TextureName)
			if err != nil {
				return err
			}
			r.backend.TextureBind(1, tex)
		}

		if res.indexBuffer != nil {
			r.backend.DrawIndexed(uint32(len(res.config.Indices)))
		} else {
			r.backend.Draw(res.config.VertexCount())
		}
		r.drawCalls++
	}
	return nil
}

// DrawFrame uploads, draws and presents the frame. A minimized window skips
// the GPU work but the frame still counts as rendered.
func (r *RendererSystem) DrawFrame() error {
	if r.minimized {
		return nil
	}
	if err := r.FlushUploads(); err != nil {
		return err
	}
	target, err := r.backend.AcquireRenderTarget()
	if err != nil {
		return err
	}
	if err := r.Draw(target); err != nil {
		return err
	}
	return r.backend.Present(target)
}

// OnResize handles a window whose framebuffer has the same size as the
// window, see Resize.
func (r *RendererSystem) OnResize(width, height uint32) error {
	return r.Resize(width, height, width, height)
}

// Resize rebuilds the projection in logical window units and reconfigures
// the surface in framebuffer pixels, which differ on HiDPI displays. A zero
// dimension marks the window as minimized.
func (r *RendererSystem) Resize(windowWidth, windowHeight, framebufferWidth, framebufferHeight uint32) error {
	if windowWidth == 0 || windowHeight == 0 || framebufferWidth == 0 || framebufferHeight == 0 {
		r.minimized = true
		core.LogDebug("renderer: window minimized, skipping frames")
		return nil
	}
	r.minimized = false
	r.width = framebufferWidth
	r.height = framebufferHeight
	r.projection = math.NewMat4ScreenProjection(float32(windowWidth), float32(windowHeight))
	return r.backend.Resized(framebufferWidth, framebufferHeight)
}

// Projection maps logical window units to clip space.
func (r *RendererSystem) Projection() math.Mat4 { return r.projection }

func (r *RendererSystem) DrawCalls() uint32 { return r.drawCalls }

// Capacity returns the per-frame limit of kind.
func (r *RendererSystem) Capacity(kind metadata.PrimitiveKind) uint32 {
	if res, ok := r.resources[kind]; ok {
		return res.maxInstances
	}
	return 0
}
