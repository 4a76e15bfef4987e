// Package gfx describes the graphics device the renderer draws with.
//
// The device is a small, GL-shaped capability set: buffers, textures,
// programs, attribute pointers, mutable blend/depth state and indexed draws.
// The renderer never depends on a concrete implementation; see package
// glgfx for the OpenGL one and gfxtest for a recording one.
package gfx

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Handles are opaque, non-zero when valid.
type (
	Buffer  uint32
	Texture uint32
	Program uint32
)

// Location is a uniform location. NoLocation marks an uniform the program
// does not declare (or the compiler optimized away); setters ignore it.
type Location int32

const NoLocation Location = -1

type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

type ComponentType int

const (
	Float ComponentType = iota
	Short
	UnsignedShort
	Byte
	UnsignedByte
)

// Valid reports whether t is one of the declared component types.
func (t ComponentType) Valid() bool {
	switch t {
	case Float, Short, UnsignedShort, Byte, UnsignedByte:
		return true
	}
	return false
}

// Size returns the size in bytes of one component. It panics for types that
// are not Valid.
func (t ComponentType) Size() int {
	switch t {
	case Float:
		return 4
	case Short, UnsignedShort:
		return 2
	case Byte, UnsignedByte:
		return 1
	default:
		panic(fmt.Sprintf("gfx: invalid ComponentType %d", int(t)))
	}
}

func (t ComponentType) String() string {
	switch t {
	case Float:
		return "float"
	case Short:
		return "short"
	case UnsignedShort:
		return "ushort"
	case Byte:
		return "byte"
	case UnsignedByte:
		return "ubyte"
	default:
		return "invalid"
	}
}

type IndexType int

const (
	Uint16 IndexType = iota
	Uint32
)

// Size returns the size in bytes of one index.
func (t IndexType) Size() int {
	if t == Uint32 {
		return 4
	}
	return 2
}

type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
	Lines
	Points
)

type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	SrcAlpha
	OneMinusSrcAlpha
)

func (f BlendFactor) String() string {
	switch f {
	case Zero:
		return "ZERO"
	case One:
		return "ONE"
	case SrcColor:
		return "SRC_COLOR"
	case OneMinusSrcColor:
		return "ONE_MINUS_SRC_COLOR"
	case SrcAlpha:
		return "SRC_ALPHA"
	case OneMinusSrcAlpha:
		return "ONE_MINUS_SRC_ALPHA"
	default:
		return "invalid"
	}
}

// BlendState configures blending. The blend equation is always additive.
type BlendState struct {
	Enabled bool
	Src     BlendFactor
	Dst     BlendFactor
}

type DepthFunc int

const (
	Less DepthFunc = iota
	LessEqual
	Always
)

// Filter selects texture sampling.
type Filter int

const (
	Linear Filter = iota
	Nearest
	LinearMipmap
)

// TextureParams configures sampling of an uploaded texture.
type TextureParams struct {
	Filter Filter
	Repeat bool
}

// ShaderStage names the stage a CompileError comes from.
type ShaderStage string

const (
	VertexStage   ShaderStage = "vertex"
	FragmentStage ShaderStage = "fragment"
	LinkStage     ShaderStage = "link"
)

// CompileError is returned by CreateProgram when a shader fails to compile
// or the program fails to link.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gfx: %s shader failed: %s", e.Stage, e.Log)
}

// Device is the host graphics context.
type Device interface {
	CreateBuffer(target BufferTarget, data []byte) (Buffer, error)
	DeleteBuffer(b Buffer)
	CreateTexture(img *image.RGBA, params TextureParams) (Texture, error)
	DeleteTexture(t Texture)

	// CreateProgram compiles and links vs and fs, binding each attribute
	// name to the given slot before linking.
	CreateProgram(vs, fs string, attributes map[string]uint32) (Program, error)
	DeleteProgram(p Program)
	UniformLocation(p Program, name string) Location
	UseProgram(p Program)

	BindBuffer(target BufferTarget, b Buffer)
	VertexAttribute(slot uint32, size int, typ ComponentType, normalized bool, stride, offset int)
	DrawIndexed(mode Primitive, count int, typ IndexType, byteOffset int)

	SetBlend(state BlendState)
	SetDepthFunc(f DepthFunc)
	SetViewport(x, y, width, height int)
	Clear(color mgl32.Vec4)

	BindTexture(unit int, t Texture)
	Uniform1i(loc Location, v int32)
	Uniform1f(loc Location, v float32)
	Uniform2f(loc Location, v mgl32.Vec2)
	Uniform3f(loc Location, v mgl32.Vec3)
	Uniform4f(loc Location, v mgl32.Vec4)
	UniformMatrix4(loc Location, m mgl32.Mat4)
}
