package core

import (
	"testing"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryBindResolvesSlotsPerProgram(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)

	// Same geometry, two programs with different slot orders.
	p1 := newCountingProgram(t, dev, "p1", CapModel, NoMaterial, AttrPosition, AttrNormal)
	p2 := newCountingProgram(t, dev, "p2", CapModel, NoMaterial, AttrNormal, AttrTexcoord, AttrPosition)

	dev.Reset()
	g.Bind(dev, p1)
	attrs := dev.Filter("VertexAttribute")
	require.Len(t, attrs, 2)
	assert.Equal(t, []any{uint32(0), 3, gfx.Float, false, 32, 0}, attrs[0].Args)  // position
	assert.Equal(t, []any{uint32(1), 3, gfx.Float, false, 32, 20}, attrs[1].Args) // normal

	dev.Reset()
	g.Bind(dev, p2)
	attrs = dev.Filter("VertexAttribute")
	require.Len(t, attrs, 3)
	assert.Equal(t, uint32(2), attrs[0].Args[0]) // position
	assert.Equal(t, uint32(1), attrs[1].Args[0]) // texcoord
	assert.Equal(t, uint32(0), attrs[2].Args[0]) // normal

	binds := dev.Filter("BindBuffer")
	require.Len(t, binds, 2)
	assert.Equal(t, gfx.ElementArrayBuffer, binds[1].Args[0])
}

func TestGeometrySlicesShareBuffers(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	buffers, _, _ := dev.Live()
	require.Equal(t, 2, buffers)

	second, err := g.Slice(3, 3)
	require.NoError(t, err)
	assert.Same(t, g, second.Geometry)
	assert.Equal(t, 6, second.ByteOffset())

	buffers, _, _ = dev.Live()
	assert.Equal(t, 2, buffers, "slicing must not allocate")

	_, err = g.Slice(4, 3)
	assert.Error(t, err)
	_, err = g.Slice(0, 0)
	assert.Error(t, err)

	dev.Reset()
	second.Draw(dev)
	draws := dev.Filter("DrawIndexed")
	require.Len(t, draws, 1)
	assert.Equal(t, []any{gfx.Triangles, 3, gfx.Uint16, 6}, draws[0].Args)
}

func TestGeometryIndexWidth(t *testing.T) {
	dev := newRecorder()
	small := quadGeometry(t, dev, P2)
	assert.Equal(t, gfx.Uint16, small.IndexType())

	n := 1<<16 + 4
	big, err := NewGeometry(dev, "big", P2, make([]byte, n*P2.Stride()), []uint32{0, 1, uint32(n - 1)})
	require.NoError(t, err)
	assert.Equal(t, gfx.Uint32, big.IndexType())
	s, err := big.Slice(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, s.ByteOffset())
}

func TestNewGeometryValidates(t *testing.T) {
	dev := newRecorder()
	_, err := NewGeometry(dev, "odd", PTN, make([]byte, 33), []uint32{0})
	assert.Error(t, err)
	_, err = NewGeometry(dev, "range", PTN, make([]byte, 64), []uint32{0, 1, 2})
	assert.Error(t, err)
	_, err = NewGeometry(dev, "noindex", PTN, make([]byte, 64), nil)
	assert.Error(t, err)
	buffers, _, _ := dev.Live()
	assert.Zero(t, buffers)
}

func TestGeometryReleaseIsIdempotent(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	g.Release(dev)
	g.Release(dev)
	assert.True(t, g.Released())
	assert.Equal(t, 2, dev.Count("DeleteBuffer"))
	buffers, _, _ := dev.Live()
	assert.Zero(t, buffers)
}

func TestReleasedGeometryRefusesNewUse(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "p", CapModel, NoMaterial, AttrPosition)
	g.Release(dev)

	_, err := g.Slice(0, 3)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = NewActor("late", g.All(), p, nil, Opaque)
	assert.ErrorIs(t, err, ErrReleased)
}
