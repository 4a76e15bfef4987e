package sylva

import (
	"context"
	"fmt"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// EmitterModule draws fire and smoke. Every emitter is a cluster of looping
// billboard particles placed by its model transform; each layer of an
// emitter is its own actor so that smoke and flame can blend differently.
type EmitterModule struct {
	Emitters []EmitterDef `yaml:"emitters"`

	sprites map[string]*ImageAsset
}

type EmitterDef struct {
	Name string `yaml:"name"`
	// Position is an absolute map position; Z is the height.
	Position mgl64.Vec3         `yaml:"position"`
	Layers   []ParticleLayerDef `yaml:"layers"`
}

type ParticleLayerDef struct {
	Sprite     string     `yaml:"sprite"`
	Blend      string     `yaml:"blend"`
	Count      int        `yaml:"count"`
	Size       float32    `yaml:"size"`
	Lifetime   float32    `yaml:"lifetime"`
	Rise       float32    `yaml:"rise"`
	StartSize  float32    `yaml:"start_size"`
	EndSize    float32    `yaml:"end_size"`
	StartColor mgl32.Vec4 `yaml:"start_color"`
	EndColor   mgl32.Vec4 `yaml:"end_color"`
	// Easing control points as (p1.x, p1.y, p2.x, p2.y). Zero means linear.
	SizeCurve  mgl32.Vec4 `yaml:"size_curve"`
	AlphaCurve mgl32.Vec4 `yaml:"alpha_curve"`
	// Bob moves the whole layer up and down by this many map units,
	// BobRate times per second. Flames use it to flicker.
	Bob     float32 `yaml:"bob"`
	BobRate float32 `yaml:"bob_rate"`
}

func (m *EmitterModule) Name() string { return "emitters" }

func (m *EmitterModule) Load(ctx context.Context, assets *AssetServer) error {
	m.sprites = make(map[string]*ImageAsset)
	for _, e := range m.Emitters {
		for _, l := range e.Layers {
			if _, ok := m.sprites[l.Sprite]; ok {
				continue
			}
			img, err := assets.LoadImage(ctx, l.Sprite)
			if err != nil {
				return fmt.Errorf("emitter %s: %w", e.Name, err)
			}
			m.sprites[l.Sprite] = img
		}
	}
	return nil
}

func (m *EmitterModule) Install(s *Setup) error {
	for _, e := range m.Emitters {
		rel := s.relative(mgl64.Vec2{e.Position[0], e.Position[1]})
		model := core.Translation(mgl32.Vec3{float32(rel[0]), float32(rel[1]), float32(e.Position[2])}).Matrix()

		var actors []*core.Actor
		for i, l := range e.Layers {
			name := fmt.Sprintf("emitter/%s/%d", e.Name, i)
			blend, err := core.ParseBlendMode(l.Blend)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			sprite, err := s.Texture(m.sprites[l.Sprite], gfx.TextureParams{Filter: gfx.Linear})
			if err != nil {
				return err
			}
			mesh, err := procgen.ParticleMesh(l.Count, l.Size, s.Rand())
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			g, err := s.Geometry(name, mesh)
			if err != nil {
				return err
			}
			a, err := s.AddActor(name, g.All(), l.material(sprite), blend)
			if err != nil {
				return err
			}
			actors = append(actors, a)
		}
		s.Emitter(e.Name, model, actors...)
		em := s.emitters[e.Name]
		for i, a := range actors {
			if l := e.Layers[i]; l.Bob != 0 {
				a.Animate = em.animator(l.Bob, l.BobRate)
			}
		}
	}
	return nil
}

func (l ParticleLayerDef) material(sprite gfx.Texture) *core.ParticleMaterial {
	return &core.ParticleMaterial{
		Sprite:     sprite,
		StartColor: l.StartColor,
		EndColor:   l.EndColor,
		Lifetime:   l.Lifetime,
		Rise:       l.Rise,
		StartSize:  l.StartSize,
		EndSize:    l.EndSize,
		SizeCurve:  curve(l.SizeCurve),
		AlphaCurve: curve(l.AlphaCurve),
	}
}

func curve(v mgl32.Vec4) core.Curve {
	if v == (mgl32.Vec4{}) {
		return core.LinearCurve
	}
	return core.Curve{P1: mgl32.Vec2{v[0], v[1]}, P2: mgl32.Vec2{v[2], v[3]}}
}
