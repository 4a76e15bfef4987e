package programs

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/shaders"
)

// Water draws the lake surface with scrolling normal-mapped waves.
type Water struct {
	program
	normal, shallow, deep, waveScale, waveSpeed gfx.Location
}

func NewWater(dev gfx.Device) (*Water, error) {
	base, err := newProgram(dev, core.ProgramSource{
		Name:       "water",
		Vertex:     shaders.WaterVert,
		Fragment:   shaders.WaterFrag,
		Attributes: []string{core.AttrPosition, core.AttrDepth},
		Caps:       core.CapView | core.CapProject | core.CapModel | core.CapTime | core.CapMaterial | core.CapAtmosphere,
		Material:   core.WaterKind,
	})
	if err != nil {
		return nil, err
	}
	p := &Water{program: base}
	p.normal = p.Uniform(dev, "u_normalMap")
	p.shallow = p.Uniform(dev, "u_shallowColor")
	p.deep = p.Uniform(dev, "u_deepColor")
	p.waveScale = p.Uniform(dev, "u_waveScale")
	p.waveSpeed = p.Uniform(dev, "u_waveSpeed")
	return p, nil
}

func (p *Water) ApplyMaterial(dev gfx.Device, m core.Material) {
	mat, ok := m.(*core.WaterMaterial)
	if !ok {
		return
	}
	bindSampler(dev, p.normal, unit0, mat.Normal)
	dev.Uniform3f(p.shallow, mat.ShallowColor)
	dev.Uniform3f(p.deep, mat.DeepColor)
	dev.Uniform1f(p.waveScale, mat.WaveScale)
	dev.Uniform1f(p.waveSpeed, mat.WaveSpeed)
}
