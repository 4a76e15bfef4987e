package sylva

import (
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		clearColor: mgl32.Vec4{0.2, 0.3, 0.5, 1},
		smoothing:  core.DefaultSmoothing,
		seed:       1,
		clock:      time.Now,
	}}
}

func (b *AppBuilder) UseLogger(logger Logger) *AppBuilder {
	b.app.logger = logger
	return b
}

func (b *AppBuilder) UseClock(clock Clock) *AppBuilder {
	b.app.clock = clock
	return b
}

// UseModule appends modules. Modules install, and their actors draw, in the
// order they are added.
func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

func (b *AppBuilder) UseAssets(assets *AssetServer) *AppBuilder {
	b.app.assets = assets
	return b
}

// UseOrigin sets the absolute map position scene geometry is expressed
// relative to.
func (b *AppBuilder) UseOrigin(origin mgl64.Vec2) *AppBuilder {
	b.app.origin = origin
	return b
}

func (b *AppBuilder) UseClearColor(color mgl32.Vec4) *AppBuilder {
	b.app.clearColor = color
	return b
}

// UseAtmosphereSmoothing sets the fraction of the remaining distance the
// atmosphere moves toward its target each frame.
func (b *AppBuilder) UseAtmosphereSmoothing(factor float32) *AppBuilder {
	b.app.smoothing = factor
	return b
}

// UseSeed seeds the random source of the procedural builders.
func (b *AppBuilder) UseSeed(seed int64) *AppBuilder {
	b.app.seed = seed
	return b
}

// Build panics when two modules share a name.
func (b *AppBuilder) Build() *App {
	app := b.app
	seen := make(map[string]bool, len(b.modules))
	for _, m := range b.modules {
		if seen[m.Name()] {
			panic(fmt.Sprintf("module %s is already registered", m.Name()))
		}
		seen[m.Name()] = true
	}
	app.modules = append([]Module(nil), b.modules...)
	if app.assets == nil {
		app.assets = NewAssetServer(os.DirFS("."))
	}
	return app
}
