package procgen

import (
	"fmt"
	"math/rand"

	"github.com/gekko3d/sylva/rt/core"
)

// GroundPlane builds a square of side size centered on the origin in the
// z=0 plane, facing +Z. Texture coordinates span [0, repeat].
func GroundPlane(size, repeat float32) (*MeshData, error) {
	if size <= 0 || repeat <= 0 {
		return nil, fmt.Errorf("procgen: ground plane size %v repeat %v", size, repeat)
	}
	h := size / 2
	m := newMesh(core.PTTBN, 4, 6)
	corners := [4][2]float32{{-h, -h}, {h, -h}, {-h, h}, {h, h}}
	for c := 0; c < 4; c++ {
		m.Vertices = append(m.Vertices,
			corners[c][0], corners[c][1], 0,
			quadCorners[c][0]*repeat, quadCorners[c][1]*repeat,
			1, 0, 0, // tangent
			0, 1, 0, // binormal
			0, 0, 1, // normal
		)
	}
	m.quad(0)
	return m, nil
}

// GrassField scatters count blades uniformly over the square
// [-extent, extent]². Each blade is a quad whose offset channel holds the
// horizontal corner (±0.5) and the height fraction (0 or 1); its random
// channel holds a sway phase and a height scale in [0.5, 1).
func GrassField(count int, extent float32, rng *rand.Rand) (*MeshData, error) {
	if count < 1 {
		return nil, fmt.Errorf("grass: %w", ErrEmpty)
	}
	m := newMesh(core.PTOW, count*4, count*6)
	offsets := [4][2]float32{{-0.5, 0}, {0.5, 0}, {-0.5, 1}, {0.5, 1}}
	for i := 0; i < count; i++ {
		x := (rng.Float32()*2 - 1) * extent
		y := (rng.Float32()*2 - 1) * extent
		phase := rng.Float32()
		scale := 0.5 + rng.Float32()/2
		for c := 0; c < 4; c++ {
			m.Vertices = append(m.Vertices,
				x, y, 0,
				quadCorners[c][0], quadCorners[c][1],
				offsets[c][0], offsets[c][1],
				phase, scale,
			)
		}
		m.quad(uint32(i * 4))
	}
	return m, nil
}

// FullscreenQuad covers clip space.
func FullscreenQuad() *MeshData {
	m := newMesh(core.P2, 4, 6)
	m.Vertices = append(m.Vertices, -1, -1, 1, -1, -1, 1, 1, 1)
	m.quad(0)
	return m
}
