package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translate-rotate-scale decomposition of a model matrix.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Translation returns an identity-rotation, unit-scale transform at p.
func Translation(p mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = p
	return t
}

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}
