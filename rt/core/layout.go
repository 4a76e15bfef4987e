package core

import (
	"errors"
	"fmt"

	"github.com/gekko3d/sylva/rt/gfx"
)

var (
	ErrInvalidLayout    = errors.New("invalid vertex layout")
	ErrMissingAttribute = errors.New("missing vertex attribute")
	ErrMaterialMismatch = errors.New("material does not match program")
	ErrReleased         = errors.New("resource already released")
)

// Attribute describes how one named channel is decoded from an interleaved
// vertex buffer.
type Attribute struct {
	Name       string
	Components int
	Type       gfx.ComponentType
	Normalized bool
	Stride     int
	Offset     int
}

// Size returns the attribute's size in bytes.
func (a Attribute) Size() int { return a.Components * a.Type.Size() }

// VertexLayout is an immutable, ordered list of attributes sharing one stride.
type VertexLayout struct {
	attrs  []Attribute
	stride int
}

// NewVertexLayout validates attrs: at least one attribute, identical strides,
// unique names and non-overlapping ranges that fit inside the stride.
func NewVertexLayout(attrs ...Attribute) (*VertexLayout, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}
	stride := attrs[0].Stride
	if stride <= 0 {
		return nil, fmt.Errorf("%w: stride %d", ErrInvalidLayout, stride)
	}
	names := make(map[string]bool, len(attrs))
	for i, a := range attrs {
		switch {
		case a.Name == "":
			return nil, fmt.Errorf("%w: attribute %d has no name", ErrInvalidLayout, i)
		case names[a.Name]:
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrInvalidLayout, a.Name)
		case a.Stride != stride:
			return nil, fmt.Errorf("%w: %q stride %d, want %d", ErrInvalidLayout, a.Name, a.Stride, stride)
		case a.Components < 1 || a.Components > 4:
			return nil, fmt.Errorf("%w: %q has %d components", ErrInvalidLayout, a.Name, a.Components)
		case !a.Type.Valid():
			return nil, fmt.Errorf("%w: %q has unknown component type %d", ErrInvalidLayout, a.Name, int(a.Type))
		case a.Offset < 0 || a.Offset+a.Size() > stride:
			return nil, fmt.Errorf("%w: %q [%d,%d) exceeds stride %d", ErrInvalidLayout, a.Name, a.Offset, a.Offset+a.Size(), stride)
		}
		names[a.Name] = true
		for _, b := range attrs[:i] {
			if a.Offset < b.Offset+b.Size() && b.Offset < a.Offset+a.Size() {
				return nil, fmt.Errorf("%w: %q overlaps %q", ErrInvalidLayout, a.Name, b.Name)
			}
		}
	}
	cp := make([]Attribute, len(attrs))
	copy(cp, attrs)
	return &VertexLayout{attrs: cp, stride: stride}, nil
}

// MustVertexLayout is like NewVertexLayout but panics on error.
// Intended for package-level layout tables.
func MustVertexLayout(attrs ...Attribute) *VertexLayout {
	l, err := NewVertexLayout(attrs...)
	if err != nil {
		panic(err)
	}
	return l
}

// Floats builds a tightly packed all-float layout from (name, components)
// pairs, in order.
func Floats(channels ...FloatChannel) *VertexLayout {
	stride := 0
	for _, c := range channels {
		stride += 4 * c.Components
	}
	attrs := make([]Attribute, 0, len(channels))
	offset := 0
	for _, c := range channels {
		attrs = append(attrs, Attribute{
			Name:       c.Name,
			Components: c.Components,
			Type:       gfx.Float,
			Stride:     stride,
			Offset:     offset,
		})
		offset += 4 * c.Components
	}
	return MustVertexLayout(attrs...)
}

// FloatChannel names a float attribute for Floats.
type FloatChannel struct {
	Name       string
	Components int
}

func (l *VertexLayout) Stride() int { return l.stride }

// Attributes returns a copy of the attributes, in declaration order.
func (l *VertexLayout) Attributes() []Attribute {
	cp := make([]Attribute, len(l.attrs))
	copy(cp, l.attrs)
	return cp
}

// Attribute looks up an attribute by name.
func (l *VertexLayout) Attribute(name string) (Attribute, bool) {
	for _, a := range l.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (l *VertexLayout) Has(name string) bool {
	_, ok := l.Attribute(name)
	return ok
}

func (l *VertexLayout) Names() []string {
	names := make([]string, len(l.attrs))
	for i, a := range l.attrs {
		names[i] = a.Name
	}
	return names
}

// Attribute names shared by layouts and programs.
const (
	AttrPosition = "a_position"
	AttrTexcoord = "a_texcoord"
	AttrTangent  = "a_tangent"
	AttrBinormal = "a_binormal"
	AttrNormal   = "a_normal"
	AttrOffset   = "a_offset"
	AttrRandom   = "a_random"
	AttrDepth    = "a_depth"
)

var (
	// PTTBN: position, texcoord, tangent, binormal, normal (56 bytes).
	PTTBN = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrTexcoord, 2},
		FloatChannel{AttrTangent, 3},
		FloatChannel{AttrBinormal, 3},
		FloatChannel{AttrNormal, 3},
	)

	// PTN: position, texcoord, normal (32 bytes).
	PTN = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrTexcoord, 2},
		FloatChannel{AttrNormal, 3},
	)

	// PTOR: canopy billboards; position, texcoord, offset, random3 (44 bytes).
	PTOR = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrTexcoord, 2},
		FloatChannel{AttrOffset, 3},
		FloatChannel{AttrRandom, 3},
	)

	// PTOR4: particle billboards; like PTOR with four random values (48 bytes).
	PTOR4 = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrTexcoord, 2},
		FloatChannel{AttrOffset, 3},
		FloatChannel{AttrRandom, 4},
	)

	// PTOW: grass blades; position, texcoord, offset2, random2 (36 bytes).
	PTOW = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrTexcoord, 2},
		FloatChannel{AttrOffset, 2},
		FloatChannel{AttrRandom, 2},
	)

	// PD: lake surface; position and a constant depth scalar (16 bytes).
	PD = Floats(
		FloatChannel{AttrPosition, 3},
		FloatChannel{AttrDepth, 1},
	)

	// P2: screen-space overlay (8 bytes).
	P2 = Floats(
		FloatChannel{AttrPosition, 2},
	)
)
