package sylva

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/gfx/gfxtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrigin = mgl64.Vec2{2600000, 1200000}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testAssets(t *testing.T) *AssetServer {
	t.Helper()
	tex := pngBytes(t, 8, 8)
	return NewAssetServer(fstest.MapFS{
		"ground.png": {Data: tex},
		"normal.png": {Data: tex},
		"smoke.png":  {Data: tex},
		"trees.json": {Data: []byte(`[[2600010, 1200010], [2600020, 1200015], [2600030, 1200005]]`)},
	})
}

// stepClock advances by a fixed 16ms on every call.
func stepClock() Clock {
	now := time.Unix(1700000000, 0)
	return func() time.Time {
		now = now.Add(16 * time.Millisecond)
		return now
	}
}

func fireLayers() []ParticleLayerDef {
	return []ParticleLayerDef{
		{Sprite: "smoke.png", Blend: "alpha", Count: 16, Size: 2, Lifetime: 4, Rise: 10, StartSize: 1, EndSize: 3,
			StartColor: mgl32.Vec4{0.3, 0.3, 0.3, 0.6}, EndColor: mgl32.Vec4{0.5, 0.5, 0.5, 0}},
		{Sprite: "smoke.png", Blend: "add", Count: 8, Size: 1, Lifetime: 1, Rise: 3, StartSize: 1, EndSize: 0.5,
			StartColor: mgl32.Vec4{1, 0.6, 0.1, 1}, EndColor: mgl32.Vec4{1, 0.1, 0, 0},
			Bob: 0.5, BobRate: 2},
	}
}

// testScene has ground, canopy, two fires and the haze overlay.
func testScene(t *testing.T) *AppBuilder {
	t.Helper()
	return NewAppBuilder().
		UseAssets(testAssets(t)).
		UseClock(stepClock()).
		UseOrigin(testOrigin).
		UseModule(
			&GroundModule{Size: 100, Repeat: 4, Diffuse: "ground.png", Normal: "normal.png"},
			&CanopyModule{Trees: "trees.json", ParticlesPerTree: 4, Foliage: "smoke.png", Size: 3},
			&EmitterModule{Emitters: []EmitterDef{
				{Name: "fire", Position: mgl64.Vec3{testOrigin[0] + 10, testOrigin[1] + 20, 1}, Layers: fireLayers()},
				{Name: "camp", Position: mgl64.Vec3{testOrigin[0] - 5, testOrigin[1], 0}, Layers: fireLayers()},
			}},
			&AtmosphereModule{Haze: 0.2, Intensity: 1},
		)
}

func loadedApp(t *testing.T, b *AppBuilder) *App {
	t.Helper()
	app := b.Build()
	require.NoError(t, app.Load(context.Background()))
	app.SetView(testOrigin, 0, 1, 1, 800, 600)
	return app
}

func uniformCount(dev *gfxtest.Recorder, name string) int {
	n := 0
	for _, c := range dev.Calls {
		if c.Uniform == name {
			n++
		}
	}
	return n
}

func TestApp_RenderBeforeLoad(t *testing.T) {
	app := testScene(t).Build()
	dev := gfxtest.NewRecorder()

	assert.ErrorIs(t, app.Render(dev), ErrNotLoaded)
	assert.Empty(t, dev.Calls)
	assert.Empty(t, app.Actors())
}

type countingModule struct {
	name  string
	loads int
	err   error
}

func (m *countingModule) Name() string { return m.name }
func (m *countingModule) Load(context.Context, *AssetServer) error {
	m.loads++
	return m.err
}
func (m *countingModule) Install(*Setup) error { return nil }

func TestApp_LoadRunsOnce(t *testing.T) {
	m := &countingModule{name: "counting"}
	app := NewAppBuilder().UseModule(m).Build()

	require.NoError(t, app.Load(context.Background()))
	require.NoError(t, app.Load(context.Background()))
	assert.Equal(t, 1, m.loads)
	assert.True(t, app.Loaded())
}

func TestApp_LoadFailure(t *testing.T) {
	boom := errors.New("boom")
	app := NewAppBuilder().UseModule(
		&countingModule{name: "good"},
		&countingModule{name: "bad", err: boom},
	).Build()

	err := app.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, boom)
	assert.False(t, app.Loaded())
	assert.ErrorIs(t, app.Render(gfxtest.NewRecorder()), ErrNotLoaded)
}

func TestApp_MissingAsset(t *testing.T) {
	app := NewAppBuilder().
		UseAssets(testAssets(t)).
		UseModule(&GroundModule{Size: 10, Diffuse: "missing.png", Normal: "normal.png"}).
		Build()
	assert.ErrorIs(t, app.Load(context.Background()), ErrLoadFailed)
}

func TestAppBuilder_DuplicateModulePanics(t *testing.T) {
	assert.PanicsWithValue(t, "module ground is already registered", func() {
		NewAppBuilder().UseModule(&GroundModule{}, &GroundModule{}).Build()
	})
}

func TestApp_InitializesInModuleOrder(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	var names []string
	for _, a := range app.Actors() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{
		"ground", "canopy",
		"emitter/fire/0", "emitter/fire/1",
		"emitter/camp/0", "emitter/camp/1",
		"atmosphere",
	}, names)

	// One program per material kind, one texture per image.
	_, textures, programs := dev.Live()
	assert.Equal(t, 4, programs)
	assert.Equal(t, 3, textures)
	assert.Equal(t, 7, dev.Count("DrawIndexed"))
}

func TestApp_FrameUniformsOncePerProgram(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()

	for frame := 0; frame < 3; frame++ {
		dev.Reset()
		require.NoError(t, app.Render(dev))
		if frame == 0 {
			continue
		}
		// standard, canopy, particle and atmosphere programs.
		assert.Equal(t, 4, uniformCount(dev, "u_view"))
		assert.Equal(t, 4, uniformCount(dev, "u_project"))
		assert.Equal(t, 4, uniformCount(dev, "u_time"))
		// atmosphere has no model transform.
		assert.Equal(t, 6, uniformCount(dev, "u_model"))

		stats := app.Stats()
		assert.Equal(t, 4, stats.FrameUploads)
		assert.Equal(t, 7, stats.DrawCalls)
		assert.Equal(t, 7, stats.MaterialUploads)
	}
}

func TestApp_BlendStatesFollowActorOrder(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	alpha := core.Alpha.State()
	add := core.Add.State()
	want := []gfx.BlendState{
		core.Opaque.State(), alpha,
		alpha, add,
		alpha, add,
		alpha,
	}
	var got []gfx.BlendState
	for _, c := range dev.Filter("SetBlend") {
		got = append(got, c.Args[0].(gfx.BlendState))
	}
	assert.Equal(t, want, got)
	assert.Equal(t, gfx.BlendState{Enabled: true, Src: gfx.One, Dst: gfx.OneMinusSrcAlpha}, alpha)
	assert.Equal(t, gfx.BlendState{Enabled: true, Src: gfx.One, Dst: gfx.One}, add)
}

func TestApp_DisposeReleasesEverything(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))
	require.NoError(t, app.Render(dev))
	require.Positive(t, app.assets.Cached())

	app.Dispose()
	app.Dispose()
	require.NoError(t, app.Render(dev))
	buffers, textures, programs := dev.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)
	assert.Zero(t, programs)
	assert.Zero(t, app.assets.Cached())

	dev.Reset()
	for i := 0; i < 3; i++ {
		require.NoError(t, app.Render(dev))
	}
	assert.Empty(t, dev.Calls)
}

func TestApp_DisposeBeforeFirstFrame(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()

	app.Dispose()
	require.NoError(t, app.Render(dev))
	require.NoError(t, app.Render(dev))
	assert.Empty(t, dev.Calls)
	assert.Zero(t, app.assets.Cached())
	assert.Empty(t, app.Actors())
}

func TestApp_InitFailureReleasesPartialResources(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	// The canopy program fails after the ground was fully installed.
	dev.FailCompile = "a_offset"

	err := app.Render(dev)
	var compileErr *gfx.CompileError
	require.ErrorAs(t, err, &compileErr)
	buffers, textures, programs := dev.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)
	assert.Zero(t, programs)
	assert.Zero(t, dev.Count("DrawIndexed"))

	dev.Reset()
	assert.Equal(t, err, app.Render(dev))
	assert.Empty(t, dev.Calls)
}

func TestApp_AtmosphereEasesTowardTarget(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	app.SetAtmosphere(0.5, 0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.2, 0.2, 0.2})
	require.NoError(t, app.Render(dev))

	app.SetAtmosphere(0.5, 0, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.2, 0.2, 0.2})
	prevErr := float32(1)
	for i := 0; i < 20; i++ {
		dev.Reset()
		require.NoError(t, app.Render(dev))

		var sun []mgl32.Vec3
		for _, c := range dev.Calls {
			if c.Uniform == "u_sunColor" {
				sun = append(sun, c.Args[0].(mgl32.Vec3))
			}
		}
		// standard, canopy and atmosphere programs read the sun.
		require.Len(t, sun, 3)
		for _, s := range sun[1:] {
			assert.Equal(t, sun[0], s)
		}
		v := sun[0][0]
		assert.LessOrEqual(t, v, float32(1))
		errNow := 1 - v
		assert.InDelta(t, prevErr*0.9, errNow, 1e-5)
		prevErr = errNow
	}
}

func TestApp_SettersApplyOnNextFrame(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	app.SetWind(0, 4)
	app.SetEmitterPosition("fire", mgl64.Vec3{testOrigin[0] + 30, testOrigin[1] - 40, 2})
	app.SetView(testOrigin, 0, 2, 2, 400, 300)

	dev.Reset()
	require.NoError(t, app.Render(dev))

	for _, c := range dev.Calls {
		if c.Uniform == "u_wind" {
			assert.Equal(t, mgl32.Vec3{1, 0, 4}, c.Args[0])
		}
	}
	assert.Equal(t, []any{0, 0, 800, 600}, dev.Filter("SetViewport")[0].Args)

	// Layer 0 does not bob, so its model is the emitter position.
	for _, a := range app.Actors() {
		switch a.Name {
		case "emitter/fire/0":
			assert.Equal(t, mgl32.Translate3D(30, -40, 2), a.Model)
		case "emitter/camp/0":
			assert.Equal(t, mgl32.Translate3D(-5, 0, 0), a.Model)
		}
	}
}

func TestApp_ClearsBeforeDrawing(t *testing.T) {
	app := loadedApp(t, testScene(t).UseClearColor(mgl32.Vec4{0, 0, 0, 1}))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))
	dev.Reset()
	require.NoError(t, app.Render(dev))

	ops := dev.Ops()
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, "SetViewport", ops[0])
	assert.Equal(t, "Clear", ops[1])
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, dev.Filter("Clear")[0].Args[0])
}

func TestApp_LakeAndGrass(t *testing.T) {
	assets := NewAssetServer(fstest.MapFS{
		"normal.png": {Data: pngBytes(t, 4, 4)},
		"blade.png":  {Data: pngBytes(t, 4, 4)},
		"lake.json": {Data: []byte(`{"feature": {"geometry": {"rings": [
			[[2600000, 1200000], [2600010, 1200000], [2600010, 1200010], [2600000, 1200010], [2600000, 1200000]],
			[[2600003, 1200003], [2600007, 1200003], [2600007, 1200007], [2600003, 1200007]]
		]}}}`)},
	})
	app := loadedApp(t, NewAppBuilder().
		UseAssets(assets).
		UseClock(stepClock()).
		UseOrigin(testOrigin).
		UseModule(
			&LakeModule{Rings: "lake.json", Normal: "normal.png", Depth: 2, WaveScale: 1, WaveSpeed: 1},
			&GrassModule{Center: mgl64.Vec2{testOrigin[0] + 50, testOrigin[1] - 25}, Count: 100, Extent: 10, Blade: "blade.png", Height: 1},
		))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	actors := app.Actors()
	require.Len(t, actors, 2)
	assert.Equal(t, core.Alpha, actors[0].Blend)
	// Square with a square hole: 8 triangles.
	assert.Equal(t, 24, actors[0].Slice.Count)
	assert.Equal(t, core.Opaque, actors[1].Blend)
	assert.Equal(t, mgl32.Translate3D(50, -25, 0), actors[1].Model)
	assert.Equal(t, 2, dev.Count("DrawIndexed"))
}

func modelUploads(dev *gfxtest.Recorder) []mgl32.Mat4 {
	var out []mgl32.Mat4
	for _, c := range dev.Calls {
		if c.Uniform == "u_model" {
			out = append(out, c.Args[0].(mgl32.Mat4))
		}
	}
	return out
}

func TestApp_AnimateRunsOncePerFrameBeforeDraw(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	ground := app.Actors()[0]
	calls := 0
	ground.Animate = func(f *core.FrameState, model *mgl32.Mat4) {
		calls++
		*model = mgl32.Translate3D(float32(calls), 0, 0)
	}

	for frame := 1; frame <= 3; frame++ {
		dev.Reset()
		require.NoError(t, app.Render(dev))
		assert.Equal(t, frame, calls)

		models := modelUploads(dev)
		// ground, canopy, fire/0, fire/1, camp/0, camp/1
		require.Len(t, models, 6)
		assert.Equal(t, mgl32.Translate3D(float32(frame), 0, 0), models[0])
		assert.Equal(t, ground.Model, models[0])
	}
}

func TestApp_EmitterLayerBobs(t *testing.T) {
	app := loadedApp(t, testScene(t))
	dev := gfxtest.NewRecorder()
	require.NoError(t, app.Render(dev))

	for frame := 0; frame < 4; frame++ {
		dev.Reset()
		require.NoError(t, app.Render(dev))

		tsec := app.frame.Time
		require.Positive(t, tsec)
		z := float32(0.5) * float32(math.Sin(2*math.Pi*float64(float32(2)*tsec)))
		want := mgl32.Translate3D(10, 20, 1).Mul4(mgl32.Translate3D(0, 0, z))

		models := modelUploads(dev)
		require.Len(t, models, 6)
		assert.Equal(t, mgl32.Translate3D(10, 20, 1), models[2])
		assert.Equal(t, want, models[3])
		assert.InDelta(t, 1+z, models[3][14], 1e-5)
	}

	// Moving the emitter moves the anchor; the bob continues around it.
	app.SetEmitterPosition("fire", mgl64.Vec3{testOrigin[0], testOrigin[1], 4})
	dev.Reset()
	require.NoError(t, app.Render(dev))
	z := float32(0.5) * float32(math.Sin(2*math.Pi*float64(float32(2)*app.frame.Time)))
	models := modelUploads(dev)
	assert.Equal(t, mgl32.Translate3D(0, 0, 4), models[2])
	assert.Equal(t, mgl32.Translate3D(0, 0, 4).Mul4(mgl32.Translate3D(0, 0, z)), models[3])
}
