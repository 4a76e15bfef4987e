package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

// Atmosphere draws a screen-space haze overlay tinted by the sun and sky.
type Atmosphere struct {
	program
	haze, intensity gfx.Location
}

func NewAtmosphere(dev gfx.Device) (*Atmosphere, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:       "atmosphere",
		Vertex:     shaders.AtmosphereVert,
		Fragment:   shaders.AtmosphereFrag,
		Attributes: []string{core.AttrPosition},
		Caps: core.CapView | core.CapProject | core.CapTime | core.CapMaterial |
			core.CapAtmosphere | core.CapFrameSize,
		Material: core.AtmosphereKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Atmosphere{program: base}
	p.haze = p.Uniform(dev, "u_haze")
	p.intensity = p.Uniform(dev, "u_intensity")
	return p, nil
}

func (p *Atmosphere) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.AtmosphereMaterial)
	if !ok {
		return
	}
	dev.Uniform1f(p.haze, mat.Haze)
	dev.Uniform1f(p.intensity, mat.Intensity)
}
