package math

// TransformCreate returns a transform at the origin with unit scale.
func TransformCreate() Transform {
	return Transform{
		Position: NewVec3Zero(),
		Angle:    0,
		Scale:    NewVec3One(),
	}
}

func TransformFromPosition(position Vec3) Transform {
	return Transform{
		Position: position,
		Scale:    NewVec3One(),
	}
}

func TransformFromPositionAngleScale(position Vec3, angle float32, scale Vec3) Transform {
	return Transform{
		Position: position,
		Angle:    angle,
		Scale:    scale,
	}
}

func (t Transform) Translation() Mat4 {
	return NewMat4Translation(t.Position)
}

func (t Transform) Rotation() Mat4 {
	return NewMat4EulerZ(t.Angle)
}

func (t Transform) ScaleMatrix() Mat4 {
	return NewMat4Scale(t.Scale)
}

// GetLocal returns the model matrix. Scale is applied first, then the
// rotation around Z, then the translation (translation * rotation * scale).
func (t Transform) GetLocal() Mat4 {
	s := t.ScaleMatrix()
	return s.Mul(t.Rotation()).Mul(t.Translation())
}

// GetWorld returns the model matrix followed by the given projection.
func (t Transform) GetWorld(projection Mat4) Mat4 {
	return t.GetLocal().Mul(projection)
}
