package shaders

import (
	_ "embed"
)

//go:embed standard.vert
var StandardVert string

//go:embed standard.frag
var StandardFrag string

//go:embed canopy.vert
var CanopyVert string

//go:embed canopy.frag
var CanopyFrag string

//go:embed water.vert
var WaterVert string

//go:embed water.frag
var WaterFrag string

//go:embed grass.vert
var GrassVert string

//go:embed grass.frag
var GrassFrag string

//go:embed particle.vert
var ParticleVert string

//go:embed particle.frag
var ParticleFrag string

//go:embed atmosphere.vert
var AtmosphereVert string

//go:embed atmosphere.frag
var AtmosphereFrag string
