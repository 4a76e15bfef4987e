package core

import (
	"github.com/gekko3d/sylva/rt/gfx"
)

// DrawStats counts what the last pass did.
type DrawStats struct {
	Actors          int
	DrawCalls       int
	ProgramSwitches int
	FrameUploads    int
	MaterialUploads int
}

// Pass draws an actor list. It remembers which programs already received
// the frame uniforms so that each gets them at most once per frame.
//
// Material tracking is stricter than "last material this program applied":
// it is also forgotten whenever the active program changes, because texture
// units are device state shared by all programs. Consecutive actors with the
// same program and material still upload the material once.
type Pass struct {
	framePrograms map[Program]struct{}
	Stats         DrawStats
}

func NewPass() *Pass {
	return &Pass{framePrograms: make(map[Program]struct{})}
}

// Begin starts a new frame: clears the frame-uniform set and forgets every
// program's last applied material.
func (p *Pass) Begin(actors []*Actor) {
	clear(p.framePrograms)
	for _, a := range actors {
		a.Program.ResetMaterial()
	}
	p.Stats = DrawStats{}
}

// Draw issues every actor in list order. Callers order actors for correct
// blending; nothing is sorted here.
func (p *Pass) Draw(dev gfx.Device, frame *FrameState, actors []*Actor) {
	var active Program
	for _, a := range actors {
		dev.SetBlend(a.Blend.State())

		prog := a.Program
		prog.Use(dev)
		if prog != active {
			// Texture units are shared by all programs, so a material
			// applied before the switch may no longer be bound.
			if active != nil {
				prog.ResetMaterial()
			}
			active = prog
			p.Stats.ProgramSwitches++
		}
		a.Slice.Geometry.Bind(dev, prog)

		if _, done := p.framePrograms[prog]; !done {
			p.framePrograms[prog] = struct{}{}
			pushFrameUniforms(dev, prog, frame)
			p.Stats.FrameUploads++
		}

		caps := prog.Capabilities()
		if caps.Has(CapMaterial) && a.Material != nil && prog.LastMaterial() != a.Material {
			prog.ApplyMaterial(dev, a.Material)
			prog.SetLastMaterial(a.Material)
			p.Stats.MaterialUploads++
		}

		if caps.Has(CapModel) {
			prog.UpdateModel(dev, a.Model)
		}

		dev.SetDepthFunc(gfx.LessEqual)
		a.Slice.Draw(dev)
		p.Stats.DrawCalls++
		p.Stats.Actors++
	}
}

// frameHooks feed the FrameCaps uniforms, in upload order.
var frameHooks = []struct {
	cap  Capability
	push func(dev gfx.Device, p Program, f *FrameState)
}{
	{CapView, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateView(dev, f.View) }},
	{CapProject, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateProject(dev, f.Project) }},
	{CapTime, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateTime(dev, f.Time) }},
	{CapFrameSize, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateFrameSize(dev, f.Size) }},
	{CapWind, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateWind(dev, f.Wind) }},
	{CapAtmosphere, func(dev gfx.Device, p Program, f *FrameState) { p.UpdateAtmosphere(dev, f.Atmosphere.Current) }},
}

func pushFrameUniforms(dev gfx.Device, prog Program, frame *FrameState) {
	caps := prog.Capabilities() & FrameCaps
	for _, h := range frameHooks {
		if caps.Has(h.cap) {
			h.push(dev, prog, frame)
		}
	}
}
