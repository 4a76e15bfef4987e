package sylva

import (
	"context"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// GrassModule scatters grass blades over a square patch.
type GrassModule struct {
	Center mgl64.Vec2 `yaml:"center"`
	Count  int        `yaml:"count"`
	Extent float32    `yaml:"extent"`
	Blade  string     `yaml:"blade"`
	Color  mgl32.Vec3 `yaml:"color"`
	Height float32    `yaml:"height"`
	Sway   float32    `yaml:"sway"`

	blade *ImageAsset
}

func (m *GrassModule) Name() string { return "grass" }

func (m *GrassModule) Load(ctx context.Context, assets *AssetServer) error {
	var err error
	m.blade, err = assets.LoadImage(ctx, m.Blade)
	return err
}

func (m *GrassModule) Install(s *Setup) error {
	blade, err := s.Texture(m.blade, gfx.TextureParams{Filter: gfx.Linear})
	if err != nil {
		return err
	}
	mesh, err := procgen.GrassField(m.Count, m.Extent, s.Rand())
	if err != nil {
		return err
	}
	g, err := s.Geometry("grass", mesh)
	if err != nil {
		return err
	}
	a, err := s.AddActor("grass", g.All(), &core.GrassMaterial{
		Blade:  blade,
		Color:  m.Color,
		Height: m.Height,
		Sway:   m.Sway,
	}, core.Opaque)
	if err != nil {
		return err
	}
	rel := s.relative(m.Center)
	a.Model = core.Translation(mgl32.Vec3{float32(rel[0]), float32(rel[1]), 0}).Matrix()
	return nil
}
