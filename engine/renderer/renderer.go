package renderer

import (
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

type RendererType uint8

const (
	WebGPU RendererType = iota
)

// DrawRequest is one pending primitive of a frame.
type DrawRequest interface {
	Kind() metadata.PrimitiveKind
	// Pack returns one payload per uniform slot of the kind's pipeline, in slot order.
	Pack(projection math.Mat4) [][]float32
}

// QuadRequest draws the unit quad. An empty TextureName samples the default texture.
type QuadRequest struct {
	Transform   math.Transform
	Color       math.Vec4
	TextureName string
}

func (q *QuadRequest) Kind() metadata.PrimitiveKind { return metadata.PrimitiveKindQuad }

func (q *QuadRequest) Pack(projection math.Mat4) [][]float32 {
	color := q.Color.Elements()
	model := q.Transform.GetWorld(projection)
	return [][]float32{color[:], model.Data[:]}
}

// LineRequest draws a segment between the translations of Origin and Destination.
type LineRequest struct {
	Origin      math.Transform
	Destination math.Transform
	Color       math.Vec4
}

func (l *LineRequest) Kind() metadata.PrimitiveKind { return metadata.PrimitiveKindLine }

func (l *LineRequest) Pack(projection math.Mat4) [][]float32 {
	color := l.Color.Elements()
	origin := l.Origin.GetWorld(projection)
	destination := l.Destination.GetWorld(projection)
	return [][]float32{color[:], origin.Data[:], destination.Data[:]}
}

// CircleRequest draws a ring inside the unit quad. Thickness 1 fills the disc,
// Fade is the width of the soft edge.
type CircleRequest struct {
	Transform math.Transform
	Color     math.Vec4
	Thickness float32
	Fade      float32
}

func (c *CircleRequest) Kind() metadata.PrimitiveKind { return metadata.PrimitiveKindCircle }

func (c *CircleRequest) Pack(projection math.Mat4) [][]float32 {
	model := c.Transform.GetWorld(projection)
	data := make([]float32, 0, circleInstanceFloats)
	data = append(data, model.Data[:]...)
	data = append(data, c.Color.X, c.Color.Y, c.Color.Z, c.Color.W)
	// thickness, fade and two floats of padding to the 16 byte struct alignment
	data = append(data, c.Thickness, c.Fade, 0, 0)
	return [][]float32{data}
}

const (
	colorSize            = 4 * 4
	matrixSize           = 16 * 4
	circleInstanceFloats = 16 + 4 + 4
)

// quad corners with uv, two counter-clockwise triangles
var quadVertices = []float32{
	-0.5, -0.5, 0.0, 0.0, 1.0,
	0.5, -0.5, 0.0, 1.0, 1.0,
	0.5, 0.5, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 1.0,
	0.5, 0.5, 0.0, 1.0, 0.0,
	-0.5, 0.5, 0.0, 0.0, 0.0,
}

var circleVertices = []float32{
	-0.5, -0.5, 0.0, 0.0, 1.0,
	0.5, -0.5, 0.0, 1.0, 1.0,
	0.5, 0.5, 0.0, 1.0, 0.0,
	-0.5, 0.5, 0.0, 0.0, 0.0,
}

var circleIndices = []uint16{0, 1, 2, 2, 3, 0}

// both endpoints sit at the origin, the shader picks the transform by vertex index
var lineVertices = []float32{
	0.0, 0.0, 0.0,
	0.0, 0.0, 0.0,
}

var texturedLayout = metadata.VertexLayout{
	Stride: 5 * 4,
	Attributes: []metadata.VertexAttribute{
		{Location: 0, Offset: 0, Components: 3},
		{Location: 1, Offset: 3 * 4, Components: 2},
	},
}

// PipelineConfigFor returns the description of the GPU resources a kind needs.
func PipelineConfigFor(kind metadata.PrimitiveKind) *metadata.PipelineConfig {
	switch kind {
	case metadata.PrimitiveKindQuad:
		return &metadata.PipelineConfig{
			Kind:     kind,
			Name:     "Pipeline.Builtin.Quad",
			Shader:   "quad",
			Topology: metadata.PrimitiveTopologyTriangleList,
			Layout:   texturedLayout,
			Slots: []metadata.UniformSlot{
				{Name: "color", Size: colorSize, Visibility: metadata.ShaderStageFragment},
				{Name: "transform", Size: matrixSize, Visibility: metadata.ShaderStageVertex | metadata.ShaderStageFragment},
			},
			Textured: true,
			Vertices: quadVertices,
		}
	case metadata.PrimitiveKindLine:
		return &metadata.PipelineConfig{
			Kind:     kind,
			Name:     "Pipeline.Builtin.Line",
			Shader:   "line",
			Topology: metadata.PrimitiveTopologyLineList,
			Layout: metadata.VertexLayout{
				Stride: 3 * 4,
				Attributes: []metadata.VertexAttribute{
					{Location: 0, Offset: 0, Components: 3},
				},
			},
			Slots: []metadata.UniformSlot{
				{Name: "color", Size: colorSize, Visibility: metadata.ShaderStageFragment},
				{Name: "origin", Size: matrixSize, Visibility: metadata.ShaderStageVertex},
				{Name: "destination", Size: matrixSize, Visibility: metadata.ShaderStageVertex},
			},
			Vertices: lineVertices,
		}
	case metadata.PrimitiveKindCircle:
		return &metadata.PipelineConfig{
			Kind:     kind,
			Name:     "Pipeline.Builtin.Circle",
			Shader:   "circle",
			Topology: metadata.PrimitiveTopologyTriangleList,
			Layout:   texturedLayout,
			Slots: []metadata.UniformSlot{
				{Name: "instance", Size: circleInstanceFloats * 4, Visibility: metadata.ShaderStageVertex | metadata.ShaderStageFragment},
			},
			Vertices: circleVertices,
			Indices:  circleIndices,
		}
	}
	return nil
}

// RectOutlineCorners returns the corners of a size.X by size.Y rectangle
// centered at position and rotated counter-clockwise by angle about its
// center, in the order bottom-left, bottom-right, top-right, top-left.
func RectOutlineCorners(position, size math.Vec3, angle float32) [4]math.Vec3 {
	hw := size.X / 2
	hh := size.Y / 2
	local := [4]math.Vec2{
		math.NewVec2(-hw, -hh),
		math.NewVec2(hw, -hh),
		math.NewVec2(hw, hh),
		math.NewVec2(-hw, hh),
	}
	var out [4]math.Vec3
	for i, c := range local {
		r := c.Rotate(angle)
		out[i] = math.NewVec3(position.X+r.X, position.Y+r.Y, position.Z)
	}
	return out
}
