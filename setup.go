package sylva

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gekko3d/sylva/rt/core"
	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/gekko3d/sylva/rt/procgen"
	"github.com/gekko3d/sylva/rt/programs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Setup is handed to every module's Install. It compiles one program per
// material kind, uploads each image once and remembers every GPU resource
// it created so the App can release them.
type Setup struct {
	dev    gfx.Device
	logger Logger
	origin mgl64.Vec2
	rng    *rand.Rand

	programs   map[core.MaterialKind]core.Program
	textures   map[AssetId]gfx.Texture
	geometries []*core.Geometry
	actors     []*core.Actor
	emitters   map[string]*emitter
}

// emitter places a group of actors at one anchor transform. Layer animations
// are applied on top of the anchor every frame.
type emitter struct {
	anchor mgl32.Mat4
}

// animator returns a hook that bobs the actor vertically around the anchor
// by amplitude map units, rate times per second.
func (e *emitter) animator(amplitude, rate float32) core.Animator {
	return func(f *core.FrameState, model *mgl32.Mat4) {
		z := amplitude * float32(math.Sin(2*math.Pi*float64(rate*f.Time)))
		*model = e.anchor.Mul4(mgl32.Translate3D(0, 0, z))
	}
}

func newSetup(dev gfx.Device, logger Logger, origin mgl64.Vec2, seed int64) *Setup {
	return &Setup{
		dev:      dev,
		logger:   logger,
		origin:   origin,
		rng:      rand.New(rand.NewSource(seed)),
		programs: make(map[core.MaterialKind]core.Program),
		textures: make(map[AssetId]gfx.Texture),
		emitters: make(map[string]*emitter),
	}
}

func (s *Setup) Device() gfx.Device { return s.dev }

// Origin is the absolute map position scene geometry is expressed relative
// to.
func (s *Setup) Origin() mgl64.Vec2 { return s.origin }

// Rand is the seeded source procedural builders draw from.
func (s *Setup) Rand() *rand.Rand { return s.rng }

// Program returns the shared program for materials of kind, compiling it on
// first use.
func (s *Setup) Program(kind core.MaterialKind) (core.Program, error) {
	if p, ok := s.programs[kind]; ok {
		return p, nil
	}
	p, err := programs.New(s.dev, kind)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("compiled %s program", p.Name())
	s.programs[kind] = p
	return p, nil
}

// Texture uploads img once; later calls with the same asset return the same
// texture.
func (s *Setup) Texture(img *ImageAsset, params gfx.TextureParams) (gfx.Texture, error) {
	if img == nil {
		return 0, fmt.Errorf("texture: %w", ErrNotLoaded)
	}
	if t, ok := s.textures[img.Id]; ok {
		return t, nil
	}
	t, err := s.dev.CreateTexture(img.RGBA, params)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", img.Path, err)
	}
	s.textures[img.Id] = t
	return t, nil
}

// Geometry uploads mesh.
func (s *Setup) Geometry(label string, mesh *procgen.MeshData) (*core.Geometry, error) {
	g, err := mesh.Upload(s.dev, label)
	if err != nil {
		return nil, fmt.Errorf("geometry %s: %w", label, err)
	}
	s.geometries = append(s.geometries, g)
	return g, nil
}

// AddActor appends an actor drawn with the program for the material's kind.
// Actors draw in the order they are added.
func (s *Setup) AddActor(name string, slice core.Slice, material core.Material, blend core.BlendMode) (*core.Actor, error) {
	if material == nil {
		return nil, fmt.Errorf("actor %s: no material", name)
	}
	prog, err := s.Program(material.Kind())
	if err != nil {
		return nil, err
	}
	a, err := core.NewActor(name, slice, prog, material, blend)
	if err != nil {
		return nil, err
	}
	s.actors = append(s.actors, a)
	return a, nil
}

// Emitter registers actors that move together when the emitter's position
// is set. Each actor's model follows anchor from the next frame on.
func (s *Setup) Emitter(name string, anchor mgl32.Mat4, actors ...*core.Actor) {
	e, ok := s.emitters[name]
	if !ok {
		e = &emitter{}
		s.emitters[name] = e
	}
	e.anchor = anchor
	for _, a := range actors {
		a.Model = anchor
		if a.Animate == nil {
			a.Animate = e.animator(0, 0)
		}
	}
}

// release deletes all GPU resources created through s.
func (s *Setup) release() {
	for _, g := range s.geometries {
		g.Release(s.dev)
	}
	for _, t := range s.textures {
		s.dev.DeleteTexture(t)
	}
	for _, p := range s.programs {
		p.Release(s.dev)
	}
	s.geometries = nil
	s.actors = nil
	clear(s.textures)
	clear(s.programs)
	clear(s.emitters)
}

// relative converts an absolute map position to scene coordinates.
func (s *Setup) relative(p mgl64.Vec2) mgl64.Vec2 { return p.Sub(s.origin) }
