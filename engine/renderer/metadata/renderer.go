package metadata

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief The initial framebuffer width. */
	Width uint32
	/** @brief The initial framebuffer height. */
	Height uint32
	/** @brief Present with vertical sync (fifo) when true, immediate otherwise. */
	VSync bool
}

/** @brief Represents a render target, the surface image a frame is drawn into. */
type RenderTarget struct {
	/** @brief The width of the target in pixels. */
	Width uint32
	/** @brief The height of the target in pixels. */
	Height uint32
	/** @brief The renderer API internal data (surface texture and view). */
	InternalData interface{}
}

type RenderBufferType int

const (
	/** @brief Buffer is use is unknown. Default, but usually invalid. */
	RENDERBUFFER_TYPE_UNKNOWN RenderBufferType = iota
	/** @brief Buffer is used for vertex data. */
	RENDERBUFFER_TYPE_VERTEX
	/** @brief Buffer is used for index data. */
	RENDERBUFFER_TYPE_INDEX
	/** @brief Buffer is used for per-instance uniform data addressed with dynamic offsets. */
	RENDERBUFFER_TYPE_UNIFORM
)

type RenderBuffer struct {
	/** @brief The label, used by GPU debuggers and logs. */
	Label string
	/** @brief The type of buffer, which typically determines its use. */
	RenderBufferType RenderBufferType
	/** @brief The total size of the buffer in bytes. */
	TotalSize uint64
	/** @brief The number of elements (vertices or indices) for static meshes. */
	ElementCount uint32
	/** @brief Contains internal data for the renderer-API-specific buffer. */
	InternalData interface{}
}

/** @brief A set of GPU resources bound together at a group index. */
type BindGroup struct {
	Label        string
	InternalData interface{}
}

/** @brief A compiled graphics pipeline for one primitive kind. */
type Pipeline struct {
	Config       *PipelineConfig
	InternalData interface{}
}
