package core

import (
	"testing"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allCaps = CapView | CapProject | CapModel | CapTime | CapMaterial | CapWind | CapAtmosphere | CapFrameSize

func mustActor(t *testing.T, name string, s Slice, p Program, m Material, b BlendMode) *Actor {
	t.Helper()
	a, err := NewActor(name, s, p, m, b)
	require.NoError(t, err)
	return a
}

func TestFrameUniformsOncePerProgramPerFrame(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "shared", allCaps, StandardKind, AttrPosition)
	mat := &StandardMaterial{}

	var actors []*Actor
	for i := 0; i < 7; i++ {
		actors = append(actors, mustActor(t, "a", g.All(), p, mat, Opaque))
	}

	pass := NewPass()
	frame := NewFrameState(AtmosphereParams{}, 0)
	for f := 1; f <= 3; f++ {
		pass.Begin(actors)
		pass.Draw(dev, frame, actors)
		for _, hook := range []string{"view", "project", "time", "framesize", "wind", "atmosphere"} {
			assert.Equal(t, f, p.calls[hook], "%s after frame %d", hook, f)
		}
		assert.Equal(t, 7*f, p.calls["model"])
		assert.Equal(t, 1, pass.Stats.FrameUploads)
		assert.Equal(t, 7, pass.Stats.DrawCalls)
	}
}

func TestFrameHooksCoverFrameCaps(t *testing.T) {
	var covered Capability
	for _, h := range frameHooks {
		assert.Zero(t, covered&h.cap, "%s pushed twice", h.cap)
		covered |= h.cap
	}
	assert.Equal(t, FrameCaps, covered)
	assert.False(t, FrameCaps.Has(CapModel))
	assert.False(t, FrameCaps.Has(CapMaterial))
}

func TestFrameUniformsRespectCapabilities(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "minimal", CapView|CapModel, NoMaterial, AttrPosition)
	actors := []*Actor{mustActor(t, "a", g.All(), p, nil, Opaque)}

	pass := NewPass()
	pass.Begin(actors)
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)
	assert.Equal(t, map[string]int{"view": 1, "model": 1}, p.calls)
}

func TestMaterialCoalescing(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "p", allCaps, StandardKind, AttrPosition)
	rock := &StandardMaterial{Diffuse: 1}
	moss := &StandardMaterial{Diffuse: 2}

	actors := []*Actor{
		mustActor(t, "r1", g.All(), p, rock, Opaque),
		mustActor(t, "r2", g.All(), p, rock, Opaque),
		mustActor(t, "r3", g.All(), p, rock, Opaque),
		mustActor(t, "m1", g.All(), p, moss, Opaque),
		mustActor(t, "m2", g.All(), p, moss, Opaque),
		mustActor(t, "none", g.All(), p, nil, Opaque),
		mustActor(t, "r4", g.All(), p, rock, Opaque),
	}
	pass := NewPass()
	pass.Begin(actors)
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)
	assert.Equal(t, 3, p.calls["material"])
	assert.Equal(t, 3, pass.Stats.MaterialUploads)

	// Deep-equal but distinct materials are not coalesced.
	twin := &StandardMaterial{Diffuse: 1}
	actors = []*Actor{
		mustActor(t, "r", g.All(), p, rock, Opaque),
		mustActor(t, "t", g.All(), p, twin, Opaque),
	}
	pass.Begin(actors)
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)
	assert.Equal(t, 5, p.calls["material"])
}

func TestMaterialReappliedAfterProgramSwitch(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	a := newCountingProgram(t, dev, "a", allCaps, StandardKind, AttrPosition)
	b := newCountingProgram(t, dev, "b", allCaps, StandardKind, AttrPosition)
	rock := &StandardMaterial{}
	moss := &StandardMaterial{}

	actors := []*Actor{
		mustActor(t, "1", g.All(), a, rock, Opaque),
		mustActor(t, "2", g.All(), b, moss, Opaque),
		mustActor(t, "3", g.All(), a, rock, Opaque),
	}
	pass := NewPass()
	pass.Begin(actors)
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)
	assert.Equal(t, 2, a.calls["material"])
	assert.Equal(t, 1, b.calls["material"])
	assert.Equal(t, 1, a.calls["view"])
	assert.Equal(t, 3, pass.Stats.ProgramSwitches)
}

func TestBlendModesInListOrder(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "p", CapModel, NoMaterial, AttrPosition)
	modes := []BlendMode{Opaque, Add, Alpha, Multiply, Opaque, Alpha}
	var actors []*Actor
	for _, m := range modes {
		actors = append(actors, mustActor(t, m.String(), g.All(), p, nil, m))
	}

	pass := NewPass()
	pass.Begin(actors)
	dev.Reset()
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)

	want := []gfx.BlendState{
		{},
		{Enabled: true, Src: gfx.One, Dst: gfx.One},
		{Enabled: true, Src: gfx.One, Dst: gfx.OneMinusSrcAlpha},
		{Enabled: true, Src: gfx.One, Dst: gfx.SrcColor},
		{},
		{Enabled: true, Src: gfx.One, Dst: gfx.OneMinusSrcAlpha},
	}
	blends := dev.Filter("SetBlend")
	require.Len(t, blends, len(want))
	for i, c := range blends {
		assert.Equal(t, want[i], c.Args[0], "actor %d", i)
	}
}

func TestDrawCallSequence(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, PTN)
	p := newCountingProgram(t, dev, "p", CapView|CapModel, NoMaterial, AttrPosition)
	s, err := g.Slice(3, 3)
	require.NoError(t, err)
	actors := []*Actor{mustActor(t, "a", s, p, nil, Add)}

	pass := NewPass()
	pass.Begin(actors)
	dev.Reset()
	pass.Draw(dev, NewFrameState(AtmosphereParams{}, 0), actors)

	assert.Equal(t, []string{
		"SetBlend",
		"UseProgram",
		"BindBuffer", "VertexAttribute", "BindBuffer",
		"UniformMatrix4",
		"SetDepthFunc",
		"DrawIndexed",
	}, dev.Ops())
	assert.Equal(t, gfx.LessEqual, dev.Filter("SetDepthFunc")[0].Args[0])
	assert.Equal(t, []any{gfx.Triangles, 3, gfx.Uint16, 6}, dev.Filter("DrawIndexed")[0].Args)
}

func TestNewActorValidation(t *testing.T) {
	dev := newRecorder()
	g := quadGeometry(t, dev, P2)
	p := newCountingProgram(t, dev, "needs-normal", CapMaterial, StandardKind, AttrPosition, AttrNormal)

	_, err := NewActor("a", g.All(), p, nil, Opaque)
	assert.ErrorIs(t, err, ErrMissingAttribute)

	ok := newCountingProgram(t, dev, "pos", CapMaterial, StandardKind, AttrPosition)
	_, err = NewActor("b", g.All(), ok, &WaterMaterial{}, Opaque)
	assert.ErrorIs(t, err, ErrMaterialMismatch)

	a, err := NewActor("c", g.All(), ok, &StandardMaterial{}, Alpha)
	require.NoError(t, err)
	assert.Equal(t, Alpha, a.Blend)

	_, err = NewActor("d", Slice{}, ok, nil, Opaque)
	assert.Error(t, err)
}

func TestProgramMaterialCapabilityMustMatchKind(t *testing.T) {
	_, err := NewBaseProgram(newRecorder(), ProgramSource{Name: "x", Caps: CapMaterial})
	assert.Error(t, err)
}
