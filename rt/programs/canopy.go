package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

// Canopy draws foliage billboards that sway in the wind.
type Canopy struct {
	program
	foliage, tint, size, sway gfx.Location
}

func NewCanopy(dev gfx.Device) (*Canopy, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:       "canopy",
		Vertex:     shaders.CanopyVert,
		Fragment:   shaders.CanopyFrag,
		Attributes: []string{core.AttrPosition, core.AttrTexcoord, core.AttrOffset, core.AttrRandom},
		Caps: core.CapView | core.CapProject | core.CapModel | core.CapTime | core.CapMaterial |
			core.CapWind | core.CapAtmosphere | core.CapFrameSize,
		Material: core.CanopyKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Canopy{program: base}
	p.foliage = p.Uniform(dev, "u_foliage")
	p.tint = p.Uniform(dev, "u_tint")
	p.size = p.Uniform(dev, "u_size")
	p.sway = p.Uniform(dev, "u_sway")
	return p, nil
}

func (p *Canopy) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.CanopyMaterial)
	if !ok {
		return
	}
	bindSampler(dev, p.foliage, unit0, mat.Foliage)
	dev.Uniform3f(p.tint, mat.Tint)
	dev.Uniform1f(p.size, mat.Size)
	dev.Uniform1f(p.sway, mat.Sway)
}
