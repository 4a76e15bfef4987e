package sylva

import (
	"context"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// LakeModule draws a water surface from a polygon-with-holes document.
type LakeModule struct {
	Rings        string     `yaml:"rings"`
	Normal       string     `yaml:"normal"`
	Depth        float32    `yaml:"depth"`
	ShallowColor mgl32.Vec3 `yaml:"shallow_color"`
	DeepColor    mgl32.Vec3 `yaml:"deep_color"`
	WaveScale    float32    `yaml:"wave_scale"`
	WaveSpeed    float32    `yaml:"wave_speed"`

	rings  [][]mgl64.Vec2
	normal *ImageAsset
}

func (m *LakeModule) Name() string { return "lake" }

func (m *LakeModule) Load(ctx context.Context, assets *AssetServer) error {
	var err error
	if m.rings, err = assets.LoadRings(ctx, m.Rings); err != nil {
		return err
	}
	m.normal, err = assets.LoadImage(ctx, m.Normal)
	return err
}

func (m *LakeModule) Install(s *Setup) error {
	normal, err := s.Texture(m.normal, gfx.TextureParams{Filter: gfx.LinearMipmap, Repeat: true})
	if err != nil {
		return err
	}
	mesh, err := procgen.LakeMesh(m.rings, s.Origin(), m.Depth)
	if err != nil {
		return err
	}
	g, err := s.Geometry("lake", mesh)
	if err != nil {
		return err
	}
	_, err = s.AddActor("lake", g.All(), &core.WaterMaterial{
		Normal:       normal,
		ShallowColor: m.ShallowColor,
		DeepColor:    m.DeepColor,
		WaveScale:    m.WaveScale,
		WaveSpeed:    m.WaveSpeed,
	}, core.Alpha)
	return err
}
