package core

import (
	"fmt"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode is the compositing rule of an actor.
type BlendMode int

const (
	Opaque BlendMode = iota
	Add
	Alpha
	Multiply
)

func (m BlendMode) String() string {
	switch m {
	case Opaque:
		return "opaque"
	case Add:
		return "add"
	case Alpha:
		return "alpha"
	case Multiply:
		return "multiply"
	default:
		return "invalid"
	}
}

// ParseBlendMode parses the String form of a blend mode.
func ParseBlendMode(s string) (BlendMode, error) {
	switch s {
	case "", "opaque":
		return Opaque, nil
	case "add":
		return Add, nil
	case "alpha":
		return Alpha, nil
	case "multiply":
		return Multiply, nil
	}
	return Opaque, fmt.Errorf("unknown blend mode %q", s)
}

// State returns the device blend state for the mode. Colors are assumed
// premultiplied.
func (m BlendMode) State() gfx.BlendState {
	switch m {
	case Add:
		return gfx.BlendState{Enabled: true, Src: gfx.One, Dst: gfx.One}
	case Alpha:
		return gfx.BlendState{Enabled: true, Src: gfx.One, Dst: gfx.OneMinusSrcAlpha}
	case Multiply:
		return gfx.BlendState{Enabled: true, Src: gfx.One, Dst: gfx.SrcColor}
	default:
		return gfx.BlendState{}
	}
}

// Animator recomputes an actor's model transform once per frame.
type Animator func(frame *FrameState, model *mgl32.Mat4)

// Actor is one drawable: a geometry slice drawn with a program and an
// optional material.
type Actor struct {
	Name     string
	Slice    Slice
	Program  Program
	Material Material
	Model    mgl32.Mat4
	Blend    BlendMode
	Animate  Animator
}

// NewActor checks that the geometry provides every attribute the program
// reads and that the material is the program's kind.
func NewActor(name string, slice Slice, program Program, material Material, blend BlendMode) (*Actor, error) {
	if slice.Geometry == nil {
		return nil, fmt.Errorf("actor %s: no geometry", name)
	}
	if slice.Geometry.Released() {
		return nil, fmt.Errorf("actor %s: geometry %s: %w", name, slice.Geometry.Label, ErrReleased)
	}
	if program == nil {
		return nil, fmt.Errorf("actor %s: no program", name)
	}
	for _, attr := range program.Attributes() {
		if !slice.Geometry.Has(attr) {
			return nil, fmt.Errorf("actor %s: program %s reads %q: %w", name, program.Name(), attr, ErrMissingAttribute)
		}
	}
	if material != nil && material.Kind() != program.MaterialKind() {
		return nil, fmt.Errorf("actor %s: %s material for program %s (wants %s): %w",
			name, material.Kind(), program.Name(), program.MaterialKind(), ErrMaterialMismatch)
	}
	return &Actor{
		Name:     name,
		Slice:    slice,
		Program:  program,
		Material: material,
		Model:    mgl32.Ident4(),
		Blend:    blend,
	}, nil
}
