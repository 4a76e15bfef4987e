package procgen

import (
	"fmt"
	"math/rand"

	"github.com/gekko3d/sylva/rt/core"
)

// ParticleMesh builds count billboards of half size size, all at the
// origin, each with four uniform random values in [0,1). The emitter's
// model transform places them.
func ParticleMesh(count int, size float32, rng *rand.Rand) (*MeshData, error) {
	if count < 1 {
		return nil, fmt.Errorf("particles: %w", ErrEmpty)
	}
	m := newMesh(core.PTOR4, count*4, count*6)
	offsets := [4][2]float32{{-size, -size}, {size, -size}, {-size, size}, {size, size}}
	for i := 0; i < count; i++ {
		r := [4]float32{rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32()}
		for c := 0; c < 4; c++ {
			m.Vertices = append(m.Vertices,
				0, 0, 0,
				quadCorners[c][0], quadCorners[c][1],
				offsets[c][0], offsets[c][1], 0,
				r[0], r[1], r[2], r[3],
			)
		}
		m.quad(uint32(i * 4))
	}
	return m, nil
}
