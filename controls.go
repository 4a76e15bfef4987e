package sylva

import (
	"github.com/gekko3d/sylva/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// controls are the values set from outside the render loop. Render copies
// them at the start of each frame.
type controls struct {
	view       core.View
	wind       core.Wind
	atmosphere core.AtmosphereParams
	emitters   map[string]mgl64.Vec3
	dispose    bool
}

// SetView positions the map camera. center is in absolute map units,
// rotation in degrees, resolution in map units per CSS pixel and the
// viewport size in CSS pixels.
func (app *App) SetView(center mgl64.Vec2, rotation, resolution, pixelRatio float64, width, height int) {
	app.mu.Lock()
	app.controls.view = core.View{
		Center:     center,
		Rotation:   rotation,
		Resolution: resolution,
		PixelRatio: pixelRatio,
		Width:      width,
		Height:     height,
	}
	app.mu.Unlock()
}

// SetWind sets the wind direction (radians) and speed.
func (app *App) SetWind(angle, speed float32) {
	app.mu.Lock()
	app.controls.wind = core.Wind{Angle: angle, Speed: speed}
	app.mu.Unlock()
}

// SetAtmosphere sets the sun and sky targets. Before the first frame they
// are used as is; afterwards the rendered values ease toward them.
func (app *App) SetAtmosphere(sunElevation, sunAzimuth float32, sunColor, skyColor mgl32.Vec3) {
	app.mu.Lock()
	app.controls.atmosphere = core.AtmosphereParams{
		SunElevation: sunElevation,
		SunAzimuth:   sunAzimuth,
		SunColor:     sunColor,
		SkyColor:     skyColor,
	}
	app.mu.Unlock()
}

// SetEmitterPosition moves the named emitter to an absolute map position
// at height pos.Z().
func (app *App) SetEmitterPosition(name string, pos mgl64.Vec3) {
	app.mu.Lock()
	if app.controls.emitters == nil {
		app.controls.emitters = make(map[string]mgl64.Vec3)
	}
	app.controls.emitters[name] = pos
	app.mu.Unlock()
}
