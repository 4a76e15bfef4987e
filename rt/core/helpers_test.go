package core

import (
	"testing"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/gfx/gfxtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// countingProgram records how often each hook runs.
type countingProgram struct {
	BaseProgram
	calls map[string]int
	model gfx.Location
}

func newCountingProgram(t *testing.T, dev gfx.Device, name string, caps Capability, kind MaterialKind, attrs ...string) *countingProgram {
	t.Helper()
	base, err := NewBaseProgram(dev, ProgramSource{
		Name:       name,
		Vertex:     "void main() {} // " + name,
		Fragment:   "void main() {}",
		Attributes: attrs,
		Caps:       caps,
		Material:   kind,
	})
	require.NoError(t, err)
	p := &countingProgram{BaseProgram: base, calls: make(map[string]int)}
	p.model = p.Uniform(dev, "u_model")
	return p
}

func (p *countingProgram) UpdateView(gfx.Device, mgl32.Mat4)             { p.calls["view"]++ }
func (p *countingProgram) UpdateProject(gfx.Device, mgl32.Mat4)          { p.calls["project"]++ }
func (p *countingProgram) UpdateTime(gfx.Device, float32)                { p.calls["time"]++ }
func (p *countingProgram) UpdateFrameSize(gfx.Device, FrameSize)         { p.calls["framesize"]++ }
func (p *countingProgram) UpdateWind(gfx.Device, Wind)                   { p.calls["wind"]++ }
func (p *countingProgram) UpdateAtmosphere(gfx.Device, AtmosphereParams) { p.calls["atmosphere"]++ }
func (p *countingProgram) ApplyMaterial(gfx.Device, Material)            { p.calls["material"]++ }
func (p *countingProgram) UpdateModel(dev gfx.Device, m mgl32.Mat4) {
	p.calls["model"]++
	dev.UniformMatrix4(p.model, m)
}

// quadGeometry uploads a two-triangle PTN quad.
func quadGeometry(t *testing.T, dev gfx.Device, layout *VertexLayout) *Geometry {
	t.Helper()
	vertices := make([]byte, 4*layout.Stride())
	g, err := NewGeometry(dev, "quad", layout, vertices, []uint32{0, 1, 2, 1, 3, 2})
	require.NoError(t, err)
	return g
}

func newRecorder() *gfxtest.Recorder { return gfxtest.NewRecorder() }
