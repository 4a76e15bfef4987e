// Package programs holds the concrete shader programs of the scene. Each
// program embeds core.BaseProgram, declares its capabilities and overrides
// the hooks behind them.
package programs

import (
	"fmt"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Texture units are assigned per program; programs reapply their material
// after a switch, so units can overlap between programs.
const (
	unit0 = iota
	unit1
)

// program implements the frame-level hooks shared by every variant.
type program struct {
	core.BaseProgram
	u frameLocations
}

type frameLocations struct {
	view, project, model, time gfx.Location
	frameSize, wind            gfx.Location
	sunDirection               gfx.Location
	sunColor, skyColor         gfx.Location
}

func newProgram(dev gfx.Device, src core.ProgramSource) (program, error) {
	base, err := core.NewBaseProgram(dev, src)
	if err != nil {
		return program{}, err
	}
	p := program{BaseProgram: base}
	p.u = frameLocations{
		view:         p.Uniform(dev, "u_view"),
		project:      p.Uniform(dev, "u_project"),
		model:        p.Uniform(dev, "u_model"),
		time:         p.Uniform(dev, "u_time"),
		frameSize:    p.Uniform(dev, "u_frameSize"),
		wind:         p.Uniform(dev, "u_wind"),
		sunDirection: p.Uniform(dev, "u_sunDirection"),
		sunColor:     p.Uniform(dev, "u_sunColor"),
		skyColor:     p.Uniform(dev, "u_skyColor"),
	}
	return p, nil
}

func (p *program) UpdateView(dev gfx.Device, view mgl32.Mat4) {
	dev.UniformMatrix4(p.u.view, view)
}

func (p *program) UpdateProject(dev gfx.Device, project mgl32.Mat4) {
	dev.UniformMatrix4(p.u.project, project)
}

func (p *program) UpdateModel(dev gfx.Device, model mgl32.Mat4) {
	dev.UniformMatrix4(p.u.model, model)
}

func (p *program) UpdateTime(dev gfx.Device, seconds float32) {
	dev.Uniform1f(p.u.time, seconds)
}

func (p *program) UpdateFrameSize(dev gfx.Device, size core.FrameSize) {
	dev.Uniform3f(p.u.frameSize, size.Vec3())
}

// UpdateWind uploads the wind as (direction.x, direction.y, speed).
func (p *program) UpdateWind(dev gfx.Device, wind core.Wind) {
	d := wind.Direction()
	dev.Uniform3f(p.u.wind, mgl32.Vec3{d[0], d[1], wind.Speed})
}

func (p *program) UpdateAtmosphere(dev gfx.Device, a core.AtmosphereParams) {
	dev.Uniform3f(p.u.sunDirection, a.SunDirection())
	dev.Uniform3f(p.u.sunColor, a.SunColor)
	dev.Uniform3f(p.u.skyColor, a.SkyColor)
}

// bindSampler binds t to unit and points the sampler uniform at it.
func bindSampler(dev gfx.Device, loc gfx.Location, unit int, t gfx.Texture) {
	dev.BindTexture(unit, t)
	dev.Uniform1i(loc, int32(unit))
}

// New compiles the program that consumes materials of the given kind.
func New(dev gfx.Device, kind core.MaterialKind) (core.Program, error) {
	switch kind {
	case core.StandardKind:
		return wrap(NewStandard(dev))
	case core.CanopyKind:
		return wrap(NewCanopy(dev))
	case core.WaterKind:
		return wrap(NewWater(dev))
	case core.GrassKind:
		return wrap(NewGrass(dev))
	case core.ParticleKind:
		return wrap(NewParticle(dev))
	case core.AtmosphereKind:
		return wrap(NewAtmosphere(dev))
	}
	return nil, fmt.Errorf("programs: no program for %s materials", kind)
}

func wrap[P core.Program](p P, err error) (core.Program, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
