// Command sylva renders a scene description in a desktop window.
package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/gekko3d/sylva"
	"github.com/gekko3d/sylva/rt/glgfx"
)

func init() {
	// GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	scenePath := flag.String("scene", "scene.yaml", "scene description")
	assetsDir := flag.String("assets", ".", "directory asset paths are relative to")
	debug := flag.Bool("debug", false, "debug logging")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	daylight := flag.Duration("day", 0, "length of an animated day; 0 keeps the sun still")
	flag.Parse()

	logger := sylva.NewDefaultLogger("sylva", *debug)
	if err := run(logger, *scenePath, *assetsDir, *width, *height, *daylight); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger sylva.Logger, scenePath, assetsDir string, width, height int, day time.Duration) error {
	def, err := sylva.LoadSceneDef(scenePath)
	if err != nil {
		return err
	}

	assets := sylva.NewAssetServer(os.DirFS(assetsDir))
	if def.MaxTextureSize > 0 {
		assets.SetMaxTextureSize(def.MaxTextureSize)
	}
	app := def.Configure(sylva.NewAppBuilder()).
		UseLogger(logger).
		UseAssets(assets).
		Build()
	def.Start(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	loadErr := make(chan error, 1)
	go func() { loadErr <- app.Load(ctx) }()

	win, err := newWindow(width, height, "sylva")
	if err != nil {
		return err
	}
	defer win.close()
	win.center = def.ViewCenter()
	win.rotation = def.View.Rotation
	win.resolution = def.View.Resolution

	dev, err := glgfx.New()
	if err != nil {
		return err
	}
	defer dev.Release()
	logger.Infof("OpenGL %s", dev.Version())

	start := time.Now()
	last := start
	for !win.glfw.ShouldClose() && ctx.Err() == nil {
		now := time.Now()
		win.poll(now.Sub(last).Seconds())
		last = now

		select {
		case err := <-loadErr:
			if err != nil {
				return err
			}
		default:
		}

		w, h, ratio := win.size()
		app.SetView(win.center, win.rotation, win.resolution, ratio, w, h)
		if day > 0 {
			animateSun(app, def, now.Sub(start), day)
		}

		if app.Loaded() {
			if err := app.Render(dev); err != nil {
				return err
			}
		}
		win.glfw.SwapBuffers()
	}

	app.Dispose()
	if err := app.Render(dev); err != nil {
		return err
	}
	s := app.Stats()
	logger.Infof("last frame: %d draws, %d program switches, %d material uploads", s.DrawCalls, s.ProgramSwitches, s.MaterialUploads)
	return nil
}

// animateSun swings the sun azimuth around once per day and lifts the
// elevation with it.
func animateSun(app *sylva.App, def *sylva.SceneDef, elapsed, day time.Duration) {
	phase := 2 * math.Pi * elapsed.Seconds() / day.Seconds()
	a := def.Atmosphere
	elevation := a.SunElevation * float32(0.5+0.5*math.Sin(phase))
	app.SetAtmosphere(elevation, a.SunAzimuth+float32(phase), a.SunColor, a.SkyColor)
}
