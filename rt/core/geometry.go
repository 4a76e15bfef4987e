package core

import (
	"fmt"
	"unsafe"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/google/uuid"
)

// VertexBinding pairs an uploaded vertex buffer with the layout describing it.
type VertexBinding struct {
	Buffer gfx.Buffer
	Layout *VertexLayout
}

// Bind points every attribute of the layout that p declares at its slot.
// Slots are resolved by name against p, so the same binding serves any
// program.
func (b VertexBinding) Bind(dev gfx.Device, p Program) {
	dev.BindBuffer(gfx.ArrayBuffer, b.Buffer)
	for _, a := range b.Layout.attrs {
		slot, ok := p.Location(a.Name)
		if !ok {
			continue
		}
		dev.VertexAttribute(slot, a.Components, a.Type, a.Normalized, a.Stride, a.Offset)
	}
}

// Geometry owns a vertex buffer and an index buffer. Buffer
// contents are immutable after upload.
type Geometry struct {
	ID         string
	Label      string
	bindings   []VertexBinding
	index      gfx.Buffer
	indexType  gfx.IndexType
	indexCount int
	released   bool
}

// NewGeometry uploads one interleaved vertex blob and an index list.
// Indices are stored as uint16 when they all fit, uint32 otherwise.
func NewGeometry(dev gfx.Device, label string, layout *VertexLayout, vertices []byte, indices []uint32) (*Geometry, error) {
	if layout == nil {
		return nil, fmt.Errorf("geometry %s: %w: nil layout", label, ErrInvalidLayout)
	}
	if len(vertices) == 0 || len(vertices)%layout.Stride() != 0 {
		return nil, fmt.Errorf("geometry %s: vertex data (%d bytes) is not a multiple of stride %d", label, len(vertices), layout.Stride())
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("geometry %s: no indices", label)
	}
	vertexCount := len(vertices) / layout.Stride()
	for _, i := range indices {
		if int(i) >= vertexCount {
			return nil, fmt.Errorf("geometry %s: index %d out of range (%d vertices)", label, i, vertexCount)
		}
	}

	vb, err := dev.CreateBuffer(gfx.ArrayBuffer, vertices)
	if err != nil {
		return nil, fmt.Errorf("geometry %s: vertex buffer: %w", label, err)
	}
	indexType, indexData := packIndices(indices, vertexCount)
	ib, err := dev.CreateBuffer(gfx.ElementArrayBuffer, indexData)
	if err != nil {
		dev.DeleteBuffer(vb)
		return nil, fmt.Errorf("geometry %s: index buffer: %w", label, err)
	}
	return &Geometry{
		ID:         uuid.NewString(),
		Label:      label,
		bindings:   []VertexBinding{{Buffer: vb, Layout: layout}},
		index:      ib,
		indexType:  indexType,
		indexCount: len(indices),
	}, nil
}

func packIndices(indices []uint32, vertexCount int) (gfx.IndexType, []byte) {
	if vertexCount <= 1<<16 {
		short := make([]uint16, len(indices))
		for i, v := range indices {
			short[i] = uint16(v)
		}
		return gfx.Uint16, unsafe.Slice((*byte)(unsafe.Pointer(&short[0])), len(short)*2)
	}
	cp := make([]uint32, len(indices))
	copy(cp, indices)
	return gfx.Uint32, unsafe.Slice((*byte)(unsafe.Pointer(&cp[0])), len(cp)*4)
}

func (g *Geometry) IndexCount() int          { return g.indexCount }
func (g *Geometry) IndexType() gfx.IndexType { return g.indexType }

// Has reports whether any binding provides the named attribute.
func (g *Geometry) Has(name string) bool {
	for _, b := range g.bindings {
		if b.Layout.Has(name) {
			return true
		}
	}
	return false
}

// Bind binds the vertex and index buffers for the program in use.
func (g *Geometry) Bind(dev gfx.Device, p Program) {
	for _, b := range g.bindings {
		b.Bind(dev, p)
	}
	dev.BindBuffer(gfx.ElementArrayBuffer, g.index)
}

// Slice returns a view of count indices starting at from.
func (g *Geometry) Slice(from, count int) (Slice, error) {
	if g.released {
		return Slice{}, fmt.Errorf("geometry %s: %w", g.Label, ErrReleased)
	}
	if from < 0 || count <= 0 || from+count > g.indexCount {
		return Slice{}, fmt.Errorf("geometry %s: slice [%d,%d) out of range (%d indices)", g.Label, from, from+count, g.indexCount)
	}
	return Slice{Geometry: g, From: from, Count: count}, nil
}

// All returns a view over every index.
func (g *Geometry) All() Slice {
	return Slice{Geometry: g, From: 0, Count: g.indexCount}
}

// Release deletes the GPU buffers. Further calls are no-ops.
func (g *Geometry) Release(dev gfx.Device) {
	if g.released {
		return
	}
	g.released = true
	for _, b := range g.bindings {
		dev.DeleteBuffer(b.Buffer)
	}
	dev.DeleteBuffer(g.index)
}

func (g *Geometry) Released() bool { return g.released }

// Slice is a sub-range of a geometry's index buffer. It shares the
// geometry's buffers.
type Slice struct {
	Geometry *Geometry
	From     int
	Count    int
}

// ByteOffset is the slice start inside the index buffer.
func (s Slice) ByteOffset() int { return s.From * s.Geometry.indexType.Size() }

// Draw issues the indexed draw call for the slice. The geometry must be
// bound.
func (s Slice) Draw(dev gfx.Device) {
	dev.DrawIndexed(gfx.Triangles, s.Count, s.Geometry.indexType, s.ByteOffset())
}
