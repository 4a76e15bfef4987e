package sylva

import (
	"fmt"
	"os"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// SceneDef is the YAML description of a scene. Absent sections are not drawn.
type SceneDef struct {
	Origin         mgl64.Vec2 `yaml:"origin"`
	ClearColor     mgl32.Vec4 `yaml:"clear_color"`
	Seed           int64      `yaml:"seed"`
	Smoothing      float32    `yaml:"smoothing"`
	MaxTextureSize int        `yaml:"max_texture_size"`

	View       ViewDef       `yaml:"view"`
	Wind       WindDef       `yaml:"wind"`
	Atmosphere AtmosphereDef `yaml:"atmosphere"`

	Ground   *GroundModule     `yaml:"ground"`
	Lake     *LakeModule       `yaml:"lake"`
	Grass    *GrassModule      `yaml:"grass"`
	Canopy   *CanopyModule     `yaml:"canopy"`
	Emitters []EmitterDef      `yaml:"emitters"`
	Overlay  *AtmosphereModule `yaml:"overlay"`
}

// ViewDef is the initial camera. Center defaults to the origin.
type ViewDef struct {
	Center     *mgl64.Vec2 `yaml:"center"`
	Rotation   float64     `yaml:"rotation"`
	Resolution float64     `yaml:"resolution"`
}

type WindDef struct {
	Angle float32 `yaml:"angle"`
	Speed float32 `yaml:"speed"`
}

// AtmosphereDef angles are in radians.
type AtmosphereDef struct {
	SunElevation float32    `yaml:"sun_elevation"`
	SunAzimuth   float32    `yaml:"sun_azimuth"`
	SunColor     mgl32.Vec3 `yaml:"sun_color"`
	SkyColor     mgl32.Vec3 `yaml:"sky_color"`
}

func LoadSceneDef(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := ParseSceneDef(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseSceneDef decodes a scene, fills defaults and validates it.
func ParseSceneDef(data []byte) (*SceneDef, error) {
	def := &SceneDef{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, err
	}
	def.defaults()
	if err := def.validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func (d *SceneDef) defaults() {
	if d.ClearColor == (mgl32.Vec4{}) {
		d.ClearColor = mgl32.Vec4{0.2, 0.3, 0.5, 1}
	}
	if d.Seed == 0 {
		d.Seed = 1
	}
	if d.Smoothing == 0 {
		d.Smoothing = core.DefaultSmoothing
	}
	if d.View.Resolution == 0 {
		d.View.Resolution = 1
	}
	if d.Atmosphere.SunColor == (mgl32.Vec3{}) {
		d.Atmosphere.SunColor = mgl32.Vec3{1, 0.95, 0.85}
	}
	if d.Atmosphere.SkyColor == (mgl32.Vec3{}) {
		d.Atmosphere.SkyColor = mgl32.Vec3{0.5, 0.65, 0.9}
	}
	if g := d.Ground; g != nil && g.Repeat == 0 {
		g.Repeat = 1
	}
	if c := d.Canopy; c != nil && c.ParticlesPerTree == 0 {
		c.ParticlesPerTree = 8
	}
	if o := d.Overlay; o != nil && o.Intensity == 0 {
		o.Intensity = 1
	}
}

func (d *SceneDef) validate() error {
	if d.Smoothing < 0 || d.Smoothing > 1 {
		return fmt.Errorf("smoothing %v outside (0, 1]", d.Smoothing)
	}
	if d.View.Resolution < 0 {
		return fmt.Errorf("view resolution %v is negative", d.View.Resolution)
	}
	if g := d.Ground; g != nil && g.Size <= 0 {
		return fmt.Errorf("ground size must be positive")
	}
	if g := d.Grass; g != nil && (g.Count <= 0 || g.Extent <= 0) {
		return fmt.Errorf("grass needs a positive count and extent")
	}
	if c := d.Canopy; c != nil && c.ParticlesPerTree < 0 {
		return fmt.Errorf("canopy particles per tree is negative")
	}
	seen := make(map[string]bool, len(d.Emitters))
	for _, e := range d.Emitters {
		if e.Name == "" {
			return fmt.Errorf("emitter without a name")
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate emitter %q", e.Name)
		}
		seen[e.Name] = true
		for i, l := range e.Layers {
			if _, err := core.ParseBlendMode(l.Blend); err != nil {
				return fmt.Errorf("emitter %s layer %d: %w", e.Name, i, err)
			}
			if l.Count <= 0 || l.Lifetime <= 0 {
				return fmt.Errorf("emitter %s layer %d needs a positive count and lifetime", e.Name, i)
			}
		}
	}
	return nil
}

// Modules returns the scene's modules in draw order: opaque surfaces first,
// then the blended layers and finally the full screen overlay.
func (d *SceneDef) Modules() []Module {
	var mods []Module
	if d.Ground != nil {
		mods = append(mods, d.Ground)
	}
	if d.Lake != nil {
		mods = append(mods, d.Lake)
	}
	if d.Grass != nil {
		mods = append(mods, d.Grass)
	}
	if d.Canopy != nil {
		mods = append(mods, d.Canopy)
	}
	if len(d.Emitters) > 0 {
		mods = append(mods, &EmitterModule{Emitters: d.Emitters})
	}
	if d.Overlay != nil {
		mods = append(mods, d.Overlay)
	}
	return mods
}

// Configure applies the scene-wide settings and modules to b.
func (d *SceneDef) Configure(b *AppBuilder) *AppBuilder {
	return b.
		UseOrigin(d.Origin).
		UseClearColor(d.ClearColor).
		UseSeed(d.Seed).
		UseAtmosphereSmoothing(d.Smoothing).
		UseModule(d.Modules()...)
}

// Start sets the initial wind and atmosphere on app. The atmosphere is used
// as is by the first frame.
func (d *SceneDef) Start(app *App) {
	app.SetWind(d.Wind.Angle, d.Wind.Speed)
	app.SetAtmosphere(d.Atmosphere.SunElevation, d.Atmosphere.SunAzimuth, d.Atmosphere.SunColor, d.Atmosphere.SkyColor)
}

// ViewCenter is the initial camera center in absolute map units.
func (d *SceneDef) ViewCenter() mgl64.Vec2 {
	if d.View.Center != nil {
		return *d.View.Center
	}
	return d.Origin
}
