package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4MulAppliesLeftOperandFirst(t *testing.T) {
	s := NewMat4Scale(NewVec3(2, 2, 1))
	tr := NewMat4Translation(NewVec3(10, 0, 0))

	p := NewVec3(1, 1, 0).Transform(s.Mul(tr))
	assert.True(t, p.Compare(NewVec3(12, 2, 0), 1e-5), "got %v", p)

	p = NewVec3(1, 1, 0).Transform(tr.Mul(s))
	assert.True(t, p.Compare(NewVec3(22, 2, 0), 1e-5), "got %v", p)
}

func TestEulerZRotatesCounterClockwise(t *testing.T) {
	p := NewVec3(1, 0, 0).Transform(NewMat4EulerZ(K_HALF_PI))
	assert.True(t, p.Compare(NewVec3(0, 1, 0), 1e-5), "got %v", p)

	v := NewVec2(1, 0).Rotate(K_HALF_PI)
	assert.InDelta(t, 0, v.X, 1e-5)
	assert.InDelta(t, 1, v.Y, 1e-5)
}

func TestScreenProjectionMapsCornersToClipSpace(t *testing.T) {
	proj := NewMat4ScreenProjection(800, 600)

	cases := []struct {
		in, want Vec3
	}{
		{NewVec3(0, 0, 0), NewVec3(-1, -1, 0)},
		{NewVec3(800, 600, 0), NewVec3(1, 1, 0)},
		{NewVec3(400, 300, 0), NewVec3(0, 0, 0)},
	}
	for _, c := range cases {
		got := c.in.Transform(proj)
		assert.True(t, got.Compare(c.want, 1e-5), "%v -> %v, want %v", c.in, got, c.want)
	}
}

func TestIdentityIsNeutral(t *testing.T) {
	m := NewMat4Translation(NewVec3(3, 4, 5)).Mul(NewMat4EulerZ(0.3))
	assert.True(t, m.Mul(NewMat4Identity()).Compare(m, 1e-6))
	assert.True(t, NewMat4Identity().Mul(m).Compare(m, 1e-6))
}
