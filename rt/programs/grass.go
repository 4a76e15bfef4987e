package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

type Grass struct {
	program
	blade, color, height, sway gfx.Location
}

func NewGrass(dev gfx.Device) (*Grass, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:       "grass",
		Vertex:     shaders.GrassVert,
		Fragment:   shaders.GrassFrag,
		Attributes: []string{core.AttrPosition, core.AttrTexcoord, core.AttrOffset, core.AttrRandom},
		Caps: core.CapView | core.CapProject | core.CapModel | core.CapTime | core.CapMaterial |
			core.CapWind | core.CapAtmosphere,
		Material: core.GrassKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Grass{program: base}
	p.blade = p.Uniform(dev, "u_blade")
	p.color = p.Uniform(dev, "u_color")
	p.height = p.Uniform(dev, "u_height")
	p.sway = p.Uniform(dev, "u_sway")
	return p, nil
}

func (p *Grass) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.GrassMaterial)
	if !ok {
		return
	}
	bindSampler(dev, p.blade, unit0, mat.Blade)
	dev.Uniform3f(p.color, mat.Color)
	dev.Uniform1f(p.height, mat.Height)
	dev.Uniform1f(p.sway, mat.Sway)
}
