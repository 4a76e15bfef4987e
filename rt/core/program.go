package core

import (
	"fmt"
	"strings"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Capability is the set of optional update hooks a Program implements.
// The frame driver only calls the hooks whose bit is set.
type Capability uint16

const (
	CapView Capability = 1 << iota
	CapProject
	CapModel
	CapTime
	CapMaterial
	CapWind
	CapAtmosphere
	CapFrameSize
)

// FrameCaps are the capabilities fed once per program per frame.
const FrameCaps = CapView | CapProject | CapTime | CapWind | CapAtmosphere | CapFrameSize

func (c Capability) Has(x Capability) bool { return c&x == x }

var capNames = [...]string{"view", "project", "model", "time", "material", "wind", "atmosphere", "framesize"}

func (c Capability) String() string {
	var parts []string
	for i, name := range capNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Program is a linked shader pair plus the hooks that feed its uniforms.
// Hooks outside Capabilities() are never called by the frame driver.
type Program interface {
	Name() string
	Handle() gfx.Program
	// Attributes returns the attribute names the program reads, in slot
	// order.
	Attributes() []string
	Location(attribute string) (slot uint32, ok bool)
	Capabilities() Capability
	// MaterialKind is the material variant ApplyMaterial accepts, or
	// NoMaterial.
	MaterialKind() MaterialKind

	Use(dev gfx.Device)
	UpdateView(dev gfx.Device, view mgl32.Mat4)
	UpdateProject(dev gfx.Device, project mgl32.Mat4)
	UpdateModel(dev gfx.Device, model mgl32.Mat4)
	UpdateTime(dev gfx.Device, seconds float32)
	UpdateFrameSize(dev gfx.Device, size FrameSize)
	UpdateWind(dev gfx.Device, wind Wind)
	UpdateAtmosphere(dev gfx.Device, atmosphere AtmosphereParams)
	ApplyMaterial(dev gfx.Device, m Material)

	// LastMaterial is the material most recently applied, nil after
	// ResetMaterial.
	LastMaterial() Material
	SetLastMaterial(m Material)
	ResetMaterial()

	Release(dev gfx.Device)
}

// ProgramSource describes a program to compile.
type ProgramSource struct {
	Name       string
	Vertex     string
	Fragment   string
	Attributes []string
	Caps       Capability
	Material   MaterialKind
}

// BaseProgram implements the bookkeeping half of Program and no-op hooks.
// Concrete programs embed it and override the hooks they declare.
type BaseProgram struct {
	name     string
	handle   gfx.Program
	attrs    []string
	caps     Capability
	kind     MaterialKind
	last     Material
	released bool
}

// NewBaseProgram compiles src, binding attribute i to slot i.
func NewBaseProgram(dev gfx.Device, src ProgramSource) (BaseProgram, error) {
	if src.Caps.Has(CapMaterial) != (src.Material != NoMaterial) {
		return BaseProgram{}, fmt.Errorf("program %s: material capability and kind disagree", src.Name)
	}
	slots := make(map[string]uint32, len(src.Attributes))
	for i, a := range src.Attributes {
		slots[a] = uint32(i)
	}
	h, err := dev.CreateProgram(src.Vertex, src.Fragment, slots)
	if err != nil {
		return BaseProgram{}, fmt.Errorf("program %s: %w", src.Name, err)
	}
	attrs := make([]string, len(src.Attributes))
	copy(attrs, src.Attributes)
	return BaseProgram{
		name:   src.Name,
		handle: h,
		attrs:  attrs,
		caps:   src.Caps,
		kind:   src.Material,
	}, nil
}

func (p *BaseProgram) Name() string               { return p.name }
func (p *BaseProgram) Handle() gfx.Program        { return p.handle }
func (p *BaseProgram) Capabilities() Capability   { return p.caps }
func (p *BaseProgram) MaterialKind() MaterialKind { return p.kind }

func (p *BaseProgram) Attributes() []string {
	cp := make([]string, len(p.attrs))
	copy(cp, p.attrs)
	return cp
}

func (p *BaseProgram) Location(attribute string) (uint32, bool) {
	for i, a := range p.attrs {
		if a == attribute {
			return uint32(i), true
		}
	}
	return 0, false
}

// Uniform resolves a uniform location of the linked program.
func (p *BaseProgram) Uniform(dev gfx.Device, name string) gfx.Location {
	return dev.UniformLocation(p.handle, name)
}

func (p *BaseProgram) Use(dev gfx.Device) { dev.UseProgram(p.handle) }

func (p *BaseProgram) UpdateView(gfx.Device, mgl32.Mat4)             {}
func (p *BaseProgram) UpdateProject(gfx.Device, mgl32.Mat4)          {}
func (p *BaseProgram) UpdateModel(gfx.Device, mgl32.Mat4)            {}
func (p *BaseProgram) UpdateTime(gfx.Device, float32)                {}
func (p *BaseProgram) UpdateFrameSize(gfx.Device, FrameSize)         {}
func (p *BaseProgram) UpdateWind(gfx.Device, Wind)                   {}
func (p *BaseProgram) UpdateAtmosphere(gfx.Device, AtmosphereParams) {}
func (p *BaseProgram) ApplyMaterial(gfx.Device, Material)            {}

func (p *BaseProgram) LastMaterial() Material     { return p.last }
func (p *BaseProgram) SetLastMaterial(m Material) { p.last = m }
func (p *BaseProgram) ResetMaterial()             { p.last = nil }

// Release deletes the GPU program. Further calls are no-ops.
func (p *BaseProgram) Release(dev gfx.Device) {
	if p.released {
		return
	}
	p.released = true
	p.last = nil
	dev.DeleteProgram(p.handle)
}
