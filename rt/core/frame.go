package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSmoothing is the per-frame factor atmosphere values move toward
// their targets with.
const DefaultSmoothing = 0.1

// FrameSize is the drawing buffer size in device pixels.
type FrameSize struct {
	Width      float32
	Height     float32
	PixelRatio float32
}

func (s FrameSize) Vec3() mgl32.Vec3 { return mgl32.Vec3{s.Width, s.Height, s.PixelRatio} }

// Wind drives foliage, grass and smoke displacement.
type Wind struct {
	Angle float32 // radians, counter-clockwise from +X
	Speed float32
}

// Direction returns the unit wind direction in the ground plane.
func (w Wind) Direction() mgl32.Vec2 {
	return mgl32.Vec2{float32(math.Cos(float64(w.Angle))), float32(math.Sin(float64(w.Angle)))}
}

// AtmosphereParams is one set of sun/sky values.
type AtmosphereParams struct {
	SunElevation float32
	SunAzimuth   float32
	SunColor     mgl32.Vec3
	SkyColor     mgl32.Vec3
}

// SunDirection returns the unit vector pointing toward the sun (Z up).
func (a AtmosphereParams) SunDirection() mgl32.Vec3 {
	ce := math.Cos(float64(a.SunElevation))
	return mgl32.Vec3{
		float32(ce * math.Sin(float64(a.SunAzimuth))),
		float32(ce * math.Cos(float64(a.SunAzimuth))),
		float32(math.Sin(float64(a.SunElevation))),
	}
}

// Atmosphere holds target values and the exponentially smoothed current
// ones. The factor is applied per Step, not per unit of time.
type Atmosphere struct {
	Target  AtmosphereParams
	Current AtmosphereParams
	Factor  float32
}

// NewAtmosphere starts at p with no pending transition.
func NewAtmosphere(p AtmosphereParams, factor float32) Atmosphere {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothing
	}
	return Atmosphere{Target: p, Current: p, Factor: factor}
}

// Step moves every current value a Factor of the way to its target.
func (a *Atmosphere) Step() {
	k := a.Factor
	c, t := &a.Current, &a.Target
	c.SunElevation += k * (t.SunElevation - c.SunElevation)
	c.SunAzimuth += k * (t.SunAzimuth - c.SunAzimuth)
	c.SunColor = c.SunColor.Add(t.SunColor.Sub(c.SunColor).Mul(k))
	c.SkyColor = c.SkyColor.Add(t.SkyColor.Sub(c.SkyColor).Mul(k))
}

// View holds the map-style camera parameters set from outside the loop.
type View struct {
	// Center in absolute map units.
	Center mgl64.Vec2
	// Rotation in degrees, counter-clockwise.
	Rotation float64
	// Resolution in map units per CSS pixel.
	Resolution float64
	PixelRatio float64
	// Viewport in CSS pixels.
	Width, Height int
}

// Valid reports whether the view describes a drawable area.
func (v View) Valid() bool {
	return v.Width > 0 && v.Height > 0 && v.Resolution > 0 && v.PixelRatio > 0
}

// Depth range of the orthographic projection, in map units around z=0.
const viewDepth = 5000

// Matrices returns the view and projection matrices for a scene whose
// geometry is expressed relative to origin, plus the frame size.
// The view looks straight down -Z with the map rotated about the center.
func (v View) Matrices(origin mgl64.Vec2) (view, project mgl32.Mat4, size FrameSize) {
	rel := v.Center.Sub(origin)
	rot := mgl32.HomogRotate3DZ(float32(mgl64.DegToRad(v.Rotation)))
	view = rot.Mul4(mgl32.Translate3D(float32(-rel[0]), float32(-rel[1]), 0))

	hw := float32(float64(v.Width) * v.Resolution / 2)
	hh := float32(float64(v.Height) * v.Resolution / 2)
	project = mgl32.Ortho(-hw, hw, -hh, hh, -viewDepth, viewDepth)

	size = FrameSize{
		Width:      float32(math.Round(float64(v.Width) * v.PixelRatio)),
		Height:     float32(math.Round(float64(v.Height) * v.PixelRatio)),
		PixelRatio: float32(v.PixelRatio),
	}
	return view, project, size
}

// FrameState is everything a frame's uniforms are computed from.
type FrameState struct {
	View       mgl32.Mat4
	Project    mgl32.Mat4
	Time       float32
	Dt         float32
	Size       FrameSize
	Wind       Wind
	Atmosphere Atmosphere
}

// NewFrameState returns identity matrices and a zero-sized frame.
func NewFrameState(atmosphere AtmosphereParams, smoothing float32) *FrameState {
	return &FrameState{
		View:       mgl32.Ident4(),
		Project:    mgl32.Ident4(),
		Atmosphere: NewAtmosphere(atmosphere, smoothing),
	}
}
