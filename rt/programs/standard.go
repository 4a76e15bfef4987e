package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

// Standard draws normal-mapped diffuse surfaces lit by the sun.
type Standard struct {
	program
	diffuse, normal, tiling gfx.Location
}

func NewStandard(dev gfx.Device) (*Standard, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:     "standard",
		Vertex:   shaders.StandardVert,
		Fragment: shaders.StandardFrag,
		Attributes: []string{
			core.AttrPosition, core.AttrTexcoord, core.AttrTangent, core.AttrBinormal, core.AttrNormal,
		},
		Caps:     core.CapView | core.CapProject | core.CapModel | core.CapTime | core.CapMaterial | core.CapAtmosphere,
		Material: core.StandardKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Standard{program: base}
	p.diffuse = p.Uniform(dev, "u_diffuse")
	p.normal = p.Uniform(dev, "u_normalMap")
	p.tiling = p.Uniform(dev, "u_tiling")
	return p, nil
}

func (p *Standard) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.StandardMaterial)
	if !ok {
		return
	}
	bindSampler(dev, p.diffuse, unit0, mat.Diffuse)
	bindSampler(dev, p.normal, unit1, mat.Normal)
	tiling := mat.Tiling
	if tiling == 0 {
		tiling = 1
	}
	dev.Uniform1f(p.tiling, tiling)
}
