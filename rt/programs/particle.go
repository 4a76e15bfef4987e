package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

// Particle draws looping fire and smoke sprites. Each particle's age is
// derived from time and its first random value, so nothing is simulated on
// the CPU.
type Particle struct {
	program
	sprite, startColor, endColor gfx.Location
	lifetime, rise               gfx.Location
	startSize, endSize           gfx.Location
	sizeCurve, alphaCurve        gfx.Location
}

func NewParticle(dev gfx.Device) (*Particle, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:       "particle",
		Vertex:     shaders.ParticleVert,
		Fragment:   shaders.ParticleFrag,
		Attributes: []string{core.AttrPosition, core.AttrTexcoord, core.AttrOffset, core.AttrRandom},
		Caps: core.CapView | core.CapProject | core.CapModel | core.CapTime | core.CapMaterial |
			core.CapWind | core.CapFrameSize,
		Material: core.ParticleKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Particle{program: base}
	p.sprite = p.Uniform(dev, "u_sprite")
	p.startColor = p.Uniform(dev, "u_startColor")
	p.endColor = p.Uniform(dev, "u_endColor")
	p.lifetime = p.Uniform(dev, "u_lifetime")
	p.rise = p.Uniform(dev, "u_rise")
	p.startSize = p.Uniform(dev, "u_startSize")
	p.endSize = p.Uniform(dev, "u_endSize")
	p.sizeCurve = p.Uniform(dev, "u_sizeCurve")
	p.alphaCurve = p.Uniform(dev, "u_alphaCurve")
	return p, nil
}

func (p *Particle) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.ParticleMaterial)
	if !ok {
		return
	}
	bindSampler(dev, p.sprite, unit0, mat.Sprite)
	dev.Uniform4f(p.startColor, mat.StartColor)
	dev.Uniform4f(p.endColor, mat.EndColor)
	dev.Uniform1f(p.lifetime, mat.Lifetime)
	dev.Uniform1f(p.rise, mat.Rise)
	dev.Uniform1f(p.startSize, mat.StartSize)
	dev.Uniform1f(p.endSize, mat.EndSize)
	dev.Uniform4f(p.sizeCurve, mat.SizeCurve.Vec4())
	dev.Uniform4f(p.alphaCurve, mat.AlphaCurve.Vec4())
}
