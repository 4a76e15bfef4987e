package procgen

import (
	"fmt"
	"math/rand"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// CanopyHeight is the height span the particles of one tree are
	// stacked over.
	CanopyHeight = 10
	// CanopyExtent is the half size of a canopy billboard.
	CanopyExtent = 15
)

// UniformDisk draws a point uniformly distributed over the unit disk by
// rejection from the enclosing square.
func UniformDisk(rng *rand.Rand) (x, y float64) {
	for {
		x = rng.Float64()*2 - 1
		y = rng.Float64()*2 - 1
		if x*x+y*y <= 1 {
			return x, y
		}
	}
}

// CanopyMesh builds particlesPerTree billboards per tree. Tree positions are
// absolute map coordinates; vertex positions are relative to origin.
// Particle j of a tree sits at height CanopyHeight*j/particlesPerTree and
// carries two random values from the unit disk and one from [0,1).
func CanopyMesh(trees []mgl64.Vec2, origin mgl64.Vec2, particlesPerTree int, rng *rand.Rand) (*MeshData, error) {
	if particlesPerTree < 1 {
		return nil, fmt.Errorf("procgen: canopy needs at least one particle per tree, got %d", particlesPerTree)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("canopy: %w", ErrEmpty)
	}
	quads := len(trees) * particlesPerTree
	m := newMesh(core.PTOR, quads*4, quads*6)

	offsets := [4][2]float32{
		{-CanopyExtent, -CanopyExtent},
		{CanopyExtent, -CanopyExtent},
		{-CanopyExtent, CanopyExtent},
		{CanopyExtent, CanopyExtent},
	}
	for i, tree := range trees {
		rel := tree.Sub(origin)
		px, py := float32(rel[0]), float32(rel[1])
		for j := 0; j < particlesPerTree; j++ {
			r0, r1 := UniformDisk(rng)
			r2 := rng.Float32()
			h := float32(CanopyHeight) * float32(j) / float32(particlesPerTree)
			for c := 0; c < 4; c++ {
				m.Vertices = append(m.Vertices,
					px, py, h,
					quadCorners[c][0], quadCorners[c][1],
					offsets[c][0], offsets[c][1], 0,
					float32(r0), float32(r1), r2,
				)
			}
			m.quad(uint32((i*particlesPerTree + j) * 4))
		}
	}
	return m, nil
}
