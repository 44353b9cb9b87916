package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func TestPipelineConfigsMatchPackedPayloads(t *testing.T) {
	proj := math.NewMat4ScreenProjection(800, 600)
	tr := math.TransformCreate()
	requests := []DrawRequest{
		&QuadRequest{Transform: tr, Color: math.NewVec4Create(1, 0, 0, 1)},
		&LineRequest{Origin: tr, Destination: tr, Color: math.NewVec4Create(0, 1, 0, 1)},
		&CircleRequest{Transform: tr, Color: math.NewVec4Create(0, 0, 1, 1), Thickness: 1, Fade: 0.01},
	}

	for _, r := range requests {
		cfg := PipelineConfigFor(r.Kind())
		require.NotNil(t, cfg, r.Kind().String())
		payload := r.Pack(proj)
		require.Len(t, payload, len(cfg.Slots), r.Kind().String())
		for i, slot := range cfg.Slots {
			assert.Equal(t, slot.Size, uint64(len(payload[i])*4), "%s slot %s", r.Kind(), slot.Name)
		}
	}
}

func TestPipelineMeshes(t *testing.T) {
	quad := PipelineConfigFor(metadata.PrimitiveKindQuad)
	assert.Equal(t, uint32(6), quad.VertexCount())
	assert.False(t, quad.Indexed())
	assert.True(t, quad.Textured)

	line := PipelineConfigFor(metadata.PrimitiveKindLine)
	assert.Equal(t, uint32(2), line.VertexCount())
	assert.Equal(t, metadata.PrimitiveTopologyLineList, line.Topology)

	circle := PipelineConfigFor(metadata.PrimitiveKindCircle)
	assert.True(t, circle.Indexed())
	assert.Len(t, circle.Indices, 6)
	assert.Equal(t, uint32(4), circle.VertexCount())
}

func TestQuadPackAppliesProjectionLast(t *testing.T) {
	proj := math.NewMat4ScreenProjection(800, 600)
	q := &QuadRequest{
		Transform: math.TransformFromPositionAngleScale(math.NewVec3(10, 20, 0), 0, math.NewVec3(2, 2, 1)),
		Color:     math.NewVec4Create(0.1, 0.2, 0.3, 0.4),
	}
	payload := q.Pack(proj)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, payload[0])

	var model math.Mat4
	copy(model.Data[:], payload[1])
	want := math.NewVec3(11, 21, 0).Transform(proj)
	got := math.NewVec3(0.5, 0.5, 0).Transform(model)
	assert.True(t, got.Compare(want, 1e-5), "got %v want %v", got, want)
}

func TestCirclePackLayout(t *testing.T) {
	c := &CircleRequest{Transform: math.TransformCreate(), Color: math.NewVec4Create(1, 1, 1, 1), Thickness: 0.5, Fade: 0.02}
	data := c.Pack(math.NewMat4Identity())[0]
	assert.Equal(t, float32(0.5), data[20])
	assert.Equal(t, float32(0.02), data[21])
	assert.Equal(t, []float32{1, 1, 1, 1}, data[16:20])
}

func TestRectOutlineCornersAxisAligned(t *testing.T) {
	corners := RectOutlineCorners(math.NewVec3Zero(), math.NewVec3(10, 10, 0), 0)
	want := [4]math.Vec3{
		math.NewVec3(-5, -5, 0),
		math.NewVec3(5, -5, 0),
		math.NewVec3(5, 5, 0),
		math.NewVec3(-5, 5, 0),
	}
	for i := range want {
		assert.True(t, corners[i].Compare(want[i], 1e-5), "corner %d: %v", i, corners[i])
	}
}

func TestRectOutlineCornersRotated(t *testing.T) {
	corners := RectOutlineCorners(math.NewVec3(100, 50, 0), math.NewVec3(20, 10, 0), math.K_HALF_PI)
	// bottom-left (-10,-5) rotates to (5,-10)
	assert.True(t, corners[0].Compare(math.NewVec3(105, 40, 0), 1e-4), "got %v", corners[0])
}
