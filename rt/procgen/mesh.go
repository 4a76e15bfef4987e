// Package procgen builds vertex and index data for the scene's procedural
// meshes. Builders are pure: they take domain input and a random source and
// return CPU-side data ready for upload.
package procgen

import (
	"errors"
	"unsafe"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
)

var ErrEmpty = errors.New("procgen: empty mesh")

// MeshData is interleaved float vertex data described by Layout plus a
// triangle index list.
type MeshData struct {
	Layout   *core.VertexLayout
	Vertices []float32
	Indices  []uint32
}

func newMesh(layout *core.VertexLayout, vertices, indices int) *MeshData {
	return &MeshData{
		Layout:   layout,
		Vertices: make([]float32, 0, vertices*layout.Stride()/4),
		Indices:  make([]uint32, 0, indices),
	}
}

// VertexCount is the number of vertices in Vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) * 4 / m.Layout.Stride()
}

// Bytes views the vertex data as raw bytes without copying.
func (m *MeshData) Bytes() []byte {
	if len(m.Vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Vertices[0])), len(m.Vertices)*4)
}

// Upload creates a geometry from the mesh.
func (m *MeshData) Upload(dev gfx.Device, label string) (*core.Geometry, error) {
	if len(m.Indices) == 0 {
		return nil, ErrEmpty
	}
	return core.NewGeometry(dev, label, m.Layout, m.Bytes(), m.Indices)
}

// quad appends the two triangles of the quad whose first vertex is base.
// Corners are ordered (0,0) (1,0) (0,1) (1,1).
func (m *MeshData) quad(base uint32) {
	m.Indices = append(m.Indices, base+0, base+1, base+2, base+1, base+3, base+2)
}

// quadCorners are texcoords of a billboard's corners, in quad order.
var quadCorners = [4][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
