package sylva

import (
	"context"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/procgen"
)

// AtmosphereModule draws the haze overlay. Add it last so it covers the
// rest of the scene.
type AtmosphereModule struct {
	Haze      float32 `yaml:"haze"`
	Intensity float32 `yaml:"intensity"`
}

func (m *AtmosphereModule) Name() string { return "atmosphere" }

func (m *AtmosphereModule) Load(context.Context, *AssetServer) error { return nil }

func (m *AtmosphereModule) Install(s *Setup) error {
	g, err := s.Geometry("atmosphere", procgen.FullscreenQuad())
	if err != nil {
		return err
	}
	_, err = s.AddActor("atmosphere", g.All(), &core.AtmosphereMaterial{
		Haze:      m.Haze,
		Intensity: m.Intensity,
	}, core.Alpha)
	return err
}
