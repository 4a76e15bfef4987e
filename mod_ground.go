package sylva

import (
	"context"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
)

// GroundModule draws a textured, normal-mapped ground square centered on
// the scene origin.
type GroundModule struct {
	Size    float32 `yaml:"size"`
	Repeat  float32 `yaml:"repeat"`
	Diffuse string  `yaml:"diffuse"`
	Normal  string  `yaml:"normal"`

	diffuse *ImageAsset
	normal  *ImageAsset
}

func (m *GroundModule) Name() string { return "ground" }

func (m *GroundModule) Load(ctx context.Context, assets *AssetServer) error {
	var err error
	if m.diffuse, err = assets.LoadImage(ctx, m.Diffuse); err != nil {
		return err
	}
	m.normal, err = assets.LoadImage(ctx, m.Normal)
	return err
}

func (m *GroundModule) Install(s *Setup) error {
	params := gfx.TextureParams{Filter: gfx.LinearMipmap, Repeat: true}
	diffuse, err := s.Texture(m.diffuse, params)
	if err != nil {
		return err
	}
	normal, err := s.Texture(m.normal, params)
	if err != nil {
		return err
	}
	mesh, err := procgen.GroundPlane(m.Size, m.Repeat)
	if err != nil {
		return err
	}
	g, err := s.Geometry("ground", mesh)
	if err != nil {
		return err
	}
	_, err = s.AddActor("ground", g.All(), &core.StandardMaterial{
		Diffuse: diffuse,
		Normal:  normal,
		Tiling:  1,
	}, core.Opaque)
	return err
}
