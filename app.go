package sylva

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotLoaded  = errors.New("scene assets not loaded")
	ErrLoadFailed = errors.New("scene asset load failed")
)

// Module contributes part of the scene. Load fetches assets and may run
// concurrently with other modules; Install creates GPU resources and actors
// on the render thread.
type Module interface {
	Name() string
	Load(ctx context.Context, assets *AssetServer) error
	Install(s *Setup) error
}

type lifecycle int

const (
	uninitialized lifecycle = iota
	initialized
	disposed
)

func (s lifecycle) String() string {
	switch s {
	case uninitialized:
		return "uninitialized"
	case initialized:
		return "initialized"
	default:
		return "disposed"
	}
}

// App owns the scene and drives it one Render call per frame.
type App struct {
	logger     Logger
	assets     *AssetServer
	modules    []Module
	origin     mgl64.Vec2
	clearColor mgl32.Vec4
	smoothing  float32
	seed       int64
	clock      Clock

	loadOnce sync.Once
	loadErr  error
	loaded   atomic.Bool

	mu       sync.Mutex
	controls controls
	stats    core.DrawStats

	// Render thread only.
	state   lifecycle
	initErr error
	setup   *Setup
	actors  []*core.Actor
	frame   *core.FrameState
	pass    *core.Pass
	time    Time
}

// Load runs every module's Load once, concurrently. Later calls return the
// first result. Render refuses to start until Load succeeded.
func (app *App) Load(ctx context.Context) error {
	app.loadOnce.Do(func() {
		start := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		for _, m := range app.modules {
			g.Go(func() error {
				if err := m.Load(gctx, app.assets); err != nil {
					return fmt.Errorf("module %s: %w", m.Name(), err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			app.loadErr = fmt.Errorf("%w: %w", ErrLoadFailed, err)
			app.Logger().Named("load").Errorf("%v", err)
			return
		}
		app.loaded.Store(true)
		app.Logger().Named("load").Infof("loaded %d modules in %v", len(app.modules), time.Since(start).Round(time.Millisecond))
	})
	return app.loadErr
}

// Loaded reports whether Load has completed successfully.
func (app *App) Loaded() bool { return app.loaded.Load() }

// Render runs one frame tick. The first tick after Load initializes the
// scene; a tick after Dispose releases it. Ticks after that do nothing.
func (app *App) Render(dev gfx.Device) error {
	app.mu.Lock()
	disposeRequested := app.controls.dispose
	app.mu.Unlock()

	switch app.state {
	case disposed:
		return app.initErr
	case uninitialized:
		if disposeRequested {
			// Nothing reached the GPU; decoded images are simply dropped.
			app.state = disposed
			app.assets.Purge()
			app.Logger().Named("dispose").Infof("disposed before first frame")
			return nil
		}
		if !app.loaded.Load() {
			return ErrNotLoaded
		}
		if err := app.initialize(dev); err != nil {
			app.initErr = err
			app.state = disposed
			app.Logger().Named("init").Errorf("%v", err)
			return err
		}
	case initialized:
		if disposeRequested {
			app.release()
			return nil
		}
	}
	app.update()
	app.draw(dev)
	return nil
}

// Dispose requests teardown. The GPU resources are released by the next
// Render. Safe to call more than once and from any goroutine.
func (app *App) Dispose() {
	app.mu.Lock()
	app.controls.dispose = true
	app.mu.Unlock()
}

func (app *App) initialize(dev gfx.Device) error {
	log := app.Logger().Named("init")
	s := newSetup(dev, log, app.origin, app.seed)
	for _, m := range app.modules {
		if err := m.Install(s); err != nil {
			s.release()
			return fmt.Errorf("module %s: %w", m.Name(), err)
		}
		log.Debugf("installed module %s", m.Name())
	}

	app.mu.Lock()
	c := app.controls
	app.mu.Unlock()

	app.setup = s
	app.actors = s.actors
	app.frame = core.NewFrameState(c.atmosphere, app.smoothing)
	app.pass = core.NewPass()
	app.state = initialized
	log.Infof("initialized %d actors, %d programs", len(app.actors), len(s.programs))
	return nil
}

func (app *App) release() {
	app.setup.release()
	app.setup = nil
	app.actors = nil
	app.state = disposed
	app.assets.Purge()
	app.Logger().Named("dispose").Infof("disposed")
}

// update advances time and environment, applies the latest controls and
// runs actor animations.
func (app *App) update() {
	app.time.tick(app.clock())
	f := app.frame
	f.Time = float32(app.time.Elapsed.Seconds())
	f.Dt = float32(app.time.Dt.Seconds())

	app.mu.Lock()
	c := app.controls
	positions := make(map[string]mgl64.Vec3, len(c.emitters))
	for name, p := range c.emitters {
		positions[name] = p
	}
	app.mu.Unlock()

	f.Atmosphere.Target = c.atmosphere
	f.Atmosphere.Step()
	f.Wind = c.wind
	if c.view.Valid() {
		f.View, f.Project, f.Size = c.view.Matrices(app.origin)
	}

	for name, p := range positions {
		e, ok := app.setup.emitters[name]
		if !ok {
			continue
		}
		rel := app.setup.relative(mgl64.Vec2{p[0], p[1]})
		e.anchor = core.Translation(mgl32.Vec3{float32(rel[0]), float32(rel[1]), float32(p[2])}).Matrix()
	}
	for _, a := range app.actors {
		if a.Animate != nil {
			a.Animate(f, &a.Model)
		}
	}
	app.pass.Begin(app.actors)
}

func (app *App) draw(dev gfx.Device) {
	size := app.frame.Size
	if size.Width > 0 && size.Height > 0 {
		dev.SetViewport(0, 0, int(size.Width), int(size.Height))
	}
	dev.Clear(app.clearColor)
	app.pass.Draw(dev, app.frame, app.actors)

	app.mu.Lock()
	app.stats = app.pass.Stats
	app.mu.Unlock()
}

// Stats returns the counters of the last drawn frame.
func (app *App) Stats() core.DrawStats {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.stats
}

// Actors returns the actors in draw order. Empty before the first frame.
func (app *App) Actors() []*core.Actor {
	return app.actors
}
