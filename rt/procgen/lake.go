package procgen

import (
	"fmt"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/earcut"
	"github.com/go-gl/mathgl/mgl64"
)

// LakeMesh triangulates a polygon given as an outer ring followed by hole
// rings, all in absolute map coordinates. Vertices are expressed relative
// to origin at z=0 and carry depth as a constant scalar channel.
// A ring may repeat its first point at the end; the duplicate is dropped.
func LakeMesh(rings [][]mgl64.Vec2, origin mgl64.Vec2, depth float32) (*MeshData, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("lake: %w", ErrEmpty)
	}
	var (
		flat  []float64
		holes []int
	)
	for r, ring := range rings {
		if n := len(ring); n > 1 && ring[0] == ring[n-1] {
			ring = ring[:n-1]
		}
		if len(ring) < 3 {
			return nil, fmt.Errorf("lake: ring %d has %d points", r, len(ring))
		}
		if r > 0 {
			holes = append(holes, len(flat)/2)
		}
		for _, p := range ring {
			rel := p.Sub(origin)
			flat = append(flat, rel[0], rel[1])
		}
	}

	tris, err := earcut.Triangulate(flat, holes, 2)
	if err != nil {
		return nil, fmt.Errorf("lake: %w", err)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("lake: degenerate polygon: %w", ErrEmpty)
	}

	n := len(flat) / 2
	m := newMesh(core.PD, n, len(tris))
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, float32(flat[2*i]), float32(flat[2*i+1]), 0, depth)
	}
	for _, t := range tris {
		m.Indices = append(m.Indices, uint32(t))
	}
	return m, nil
}
