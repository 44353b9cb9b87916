package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformScalesThenTranslates(t *testing.T) {
	tr := TransformFromPositionAngleScale(NewVec3(10, 20, 0), 0, NewVec3(2, 2, 1))

	got := NewVec3(0.5, 0.5, 0).Transform(tr.GetLocal())
	assert.True(t, got.Compare(NewVec3(11, 21, 0), 1e-5), "got %v", got)

	want := NewMat4Scale(tr.Scale).Mul(NewMat4Translation(tr.Position))
	assert.True(t, tr.GetLocal().Compare(want, 1e-6))
}

func TestTransformRotatesAroundOwnCenter(t *testing.T) {
	tr := TransformFromPositionAngleScale(NewVec3(100, 100, 0), K_HALF_PI, NewVec3(10, 10, 1))

	// top-right corner of the unit quad ends up top-left after a quarter turn
	got := NewVec3(0.5, 0.5, 0).Transform(tr.GetLocal())
	assert.True(t, got.Compare(NewVec3(95, 105, 0), 1e-4), "got %v", got)
}

func TestTransformWorldAppliesProjectionLast(t *testing.T) {
	tr := TransformFromPosition(NewVec3(400, 300, 0))
	proj := NewMat4ScreenProjection(800, 600)

	got := NewVec3Zero().Transform(tr.GetWorld(proj))
	assert.True(t, got.Compare(NewVec3Zero(), 1e-5), "got %v", got)
}

func TestNegativeScaleMirrors(t *testing.T) {
	tr := TransformFromPositionAngleScale(NewVec3Zero(), 0, NewVec3(-4, 4, 1))
	got := NewVec3(0.5, 0.5, 0).Transform(tr.GetLocal())
	assert.True(t, got.Compare(NewVec3(-2, 2, 0), 1e-5), "got %v", got)
}
