package metadata

import "fmt"

// PrimitiveKind is one of the shapes the renderer can draw.
type PrimitiveKind uint8

const (
	PrimitiveKindQuad PrimitiveKind = iota
	PrimitiveKindLine
	PrimitiveKindCircle
)

// PaintOrder is the fixed order in which kinds are drawn within a frame.
var PaintOrder = []PrimitiveKind{
	PrimitiveKindQuad,
	PrimitiveKindLine,
	PrimitiveKindCircle,
}

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveKindQuad:
		return "quad"
	case PrimitiveKindLine:
		return "line"
	case PrimitiveKindCircle:
		return "circle"
	}
	return fmt.Sprintf("primitive(%d)", uint8(k))
}

type ShaderStage uint8

const (
	ShaderStageVertex   ShaderStage = 0x1
	ShaderStageFragment ShaderStage = 0x2
)

type PrimitiveTopology uint8

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyLineList
)

// UniformSlot describes one per-instance uniform binding of a pipeline.
// Slots are bound in declaration order at binding indices 0..n-1 of group 0,
// each backed by its own buffer addressed with a dynamic offset.
type UniformSlot struct {
	Name       string
	Size       uint64
	Visibility ShaderStage
}

// VertexAttribute is a float32 vector attribute of a static mesh.
type VertexAttribute struct {
	Location   uint32
	Offset     uint64
	Components uint32
}

type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// PipelineConfig is the data describing everything a kind needs on the GPU.
type PipelineConfig struct {
	Kind     PrimitiveKind
	Name     string
	Shader   string
	Topology PrimitiveTopology
	Layout   VertexLayout
	Slots    []UniformSlot
	// Textured pipelines take a texture + sampler bind group at group 1.
	Textured bool
	Vertices []float32
	Indices  []uint16
}

// VertexCount returns the number of vertices in the static mesh.
func (c *PipelineConfig) VertexCount() uint32 {
	floats := c.Layout.Stride / 4
	if floats == 0 {
		return 0
	}
	return uint32(uint64(len(c.Vertices)) / floats)
}

// Indexed reports whether the mesh is drawn with an index buffer.
func (c *PipelineConfig) Indexed() bool {
	return len(c.Indices) > 0
}
