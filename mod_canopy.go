package sylva

import (
	"context"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// CanopyModule draws tree crowns as stacks of foliage billboards at the
// positions listed in a JSON file.
type CanopyModule struct {
	Trees            string     `yaml:"trees"`
	ParticlesPerTree int        `yaml:"particles_per_tree"`
	Foliage          string     `yaml:"foliage"`
	Tint             mgl32.Vec3 `yaml:"tint"`
	Size             float32    `yaml:"size"`
	Sway             float32    `yaml:"sway"`

	trees   []mgl64.Vec2
	foliage *ImageAsset
}

func (m *CanopyModule) Name() string { return "canopy" }

func (m *CanopyModule) Load(ctx context.Context, assets *AssetServer) error {
	var err error
	if m.trees, err = assets.LoadTreePositions(ctx, m.Trees); err != nil {
		return err
	}
	m.foliage, err = assets.LoadImage(ctx, m.Foliage)
	return err
}

func (m *CanopyModule) Install(s *Setup) error {
	foliage, err := s.Texture(m.foliage, gfx.TextureParams{Filter: gfx.LinearMipmap})
	if err != nil {
		return err
	}
	mesh, err := procgen.CanopyMesh(m.trees, s.Origin(), m.ParticlesPerTree, s.Rand())
	if err != nil {
		return err
	}
	g, err := s.Geometry("canopy", mesh)
	if err != nil {
		return err
	}
	_, err = s.AddActor("canopy", g.All(), &core.CanopyMaterial{
		Foliage: foliage,
		Tint:    m.Tint,
		Size:    m.Size,
		Sway:    m.Sway,
	}, core.Alpha)
	return err
}
