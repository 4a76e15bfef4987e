package core

import (
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialKind identifies a material variant. Each program accepts exactly
// one kind.
type MaterialKind int

const (
	NoMaterial MaterialKind = iota
	StandardKind
	CanopyKind
	WaterKind
	GrassKind
	ParticleKind
	AtmosphereKind
)

func (k MaterialKind) String() string {
	switch k {
	case NoMaterial:
		return "none"
	case StandardKind:
		return "standard"
	case CanopyKind:
		return "canopy"
	case WaterKind:
		return "water"
	case GrassKind:
		return "grass"
	case ParticleKind:
		return "particle"
	case AtmosphereKind:
		return "atmosphere"
	default:
		return "invalid"
	}
}

// Material is one of the variants below. Materials are compared by
// identity: two actors share a material when they hold the same pointer.
type Material interface {
	Kind() MaterialKind
}

// StandardMaterial is a normal-mapped diffuse surface.
type StandardMaterial struct {
	Diffuse gfx.Texture
	Normal  gfx.Texture
	Tiling  float32
}

// CanopyMaterial shades foliage billboards.
type CanopyMaterial struct {
	Foliage gfx.Texture
	Tint    mgl32.Vec3
	// Size scales the billboard corner offsets.
	Size float32
	// Sway is the wind displacement at full wind speed.
	Sway float32
}

// WaterMaterial shades the lake surface.
type WaterMaterial struct {
	Normal       gfx.Texture
	ShallowColor mgl32.Vec3
	DeepColor    mgl32.Vec3
	WaveScale    float32
	WaveSpeed    float32
}

// GrassMaterial shades grass blades.
type GrassMaterial struct {
	Blade  gfx.Texture
	Color  mgl32.Vec3
	Height float32
	Sway   float32
}

// Curve is a cubic Bézier easing curve from (0,0) to (1,1) with control
// points P1 and P2.
type Curve struct {
	P1, P2 mgl32.Vec2
}

var LinearCurve = Curve{P1: mgl32.Vec2{0, 0}, P2: mgl32.Vec2{1, 1}}

// Vec4 packs the control points for upload.
func (c Curve) Vec4() mgl32.Vec4 { return mgl32.Vec4{c.P1[0], c.P1[1], c.P2[0], c.P2[1]} }

// ParticleMaterial animates fire and smoke sprites.
type ParticleMaterial struct {
	Sprite     gfx.Texture
	StartColor mgl32.Vec4
	EndColor   mgl32.Vec4
	// Lifetime of one particle cycle in seconds.
	Lifetime float32
	// Rise is the vertical distance travelled over one lifetime.
	Rise       float32
	StartSize  float32
	EndSize    float32
	SizeCurve  Curve
	AlphaCurve Curve
}

// AtmosphereMaterial controls the sky/haze overlay.
type AtmosphereMaterial struct {
	Haze      float32
	Intensity float32
}

func (*StandardMaterial) Kind() MaterialKind   { return StandardKind }
func (*CanopyMaterial) Kind() MaterialKind     { return CanopyKind }
func (*WaterMaterial) Kind() MaterialKind      { return WaterKind }
func (*GrassMaterial) Kind() MaterialKind      { return GrassKind }
func (*ParticleMaterial) Kind() MaterialKind   { return ParticleKind }
func (*AtmosphereMaterial) Kind() MaterialKind { return AtmosphereKind }
