// Package glgfx implements gfx.Device on top of an OpenGL 4.1 core context.
//
// A context must be current on the calling thread before New is called and
// for every subsequent call; GL is not safe for concurrent use.
package glgfx

import (
	"fmt"
	"image"
	"strings"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device is an OpenGL gfx.Device.
type Device struct {
	vao     uint32
	enabled map[uint32]bool
}

// New loads GL function pointers for the current context and prepares the
// state the renderer relies on (one shared vertex array object, depth test).
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgfx: init: %w", err)
	}
	d := &Device{enabled: make(map[uint32]bool)}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.BlendEquation(gl.FUNC_ADD)
	return d, nil
}

// Version returns the GL version string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Release deletes the shared vertex array object.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func bufferTarget(t gfx.BufferTarget) uint32 {
	if t == gfx.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (d *Device) CreateBuffer(target gfx.BufferTarget, data []byte) (gfx.Buffer, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("glgfx: empty buffer data")
	}
	var b uint32
	gl.GenBuffers(1, &b)
	t := bufferTarget(target)
	gl.BindBuffer(t, b)
	gl.BufferData(t, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	if target == gfx.ArrayBuffer {
		gl.BindBuffer(t, 0)
	}
	return gfx.Buffer(b), nil
}

func (d *Device) DeleteBuffer(b gfx.Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

func (d *Device) CreateTexture(img *image.RGBA, params gfx.TextureParams) (gfx.Texture, error) {
	if img == nil {
		return 0, fmt.Errorf("glgfx: nil image")
	}
	size := img.Bounds().Size()
	var t uint32
	gl.GenTextures(1, &t)
	gl.BindTexture(gl.TEXTURE_2D, t)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if params.Repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

	switch params.Filter {
	case gfx.Nearest:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	case gfx.LinearMipmap:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	default:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if params.Filter == gfx.LinearMipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gfx.Texture(t), nil
}

func (d *Device) DeleteTexture(t gfx.Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

func (d *Device) CreateProgram(vs, fs string, attributes map[string]uint32) (gfx.Program, error) {
	vertexShader, err := compileShader(vs, gl.VERTEX_SHADER, gfx.VertexStage)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fs, gl.FRAGMENT_SHADER, gfx.FragmentStage)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for name, slot := range attributes {
		gl.BindAttribLocation(program, slot, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &gfx.CompileError{Stage: gfx.LinkStage, Log: strings.TrimRight(log, "\x00")}
	}
	return gfx.Program(program), nil
}

func compileShader(source string, shaderType uint32, stage gfx.ShaderStage) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &gfx.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p gfx.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) UniformLocation(p gfx.Program, name string) gfx.Location {
	return gfx.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

// UseProgram switches programs and disables the attribute arrays the
// previous geometry enabled.
func (d *Device) UseProgram(p gfx.Program) {
	for slot := range d.enabled {
		gl.DisableVertexAttribArray(slot)
		delete(d.enabled, slot)
	}
	gl.UseProgram(uint32(p))
}

func (d *Device) BindBuffer(target gfx.BufferTarget, b gfx.Buffer) {
	gl.BindBuffer(bufferTarget(target), uint32(b))
}

func componentType(t gfx.ComponentType) uint32 {
	switch t {
	case gfx.Short:
		return gl.SHORT
	case gfx.UnsignedShort:
		return gl.UNSIGNED_SHORT
	case gfx.Byte:
		return gl.BYTE
	case gfx.UnsignedByte:
		return gl.UNSIGNED_BYTE
	default:
		return gl.FLOAT
	}
}

func (d *Device) VertexAttribute(slot uint32, size int, typ gfx.ComponentType, normalized bool, stride, offset int) {
	gl.EnableVertexAttribArray(slot)
	d.enabled[slot] = true
	gl.VertexAttribPointerWithOffset(slot, int32(size), componentType(typ), normalized, int32(stride), uintptr(offset))
}

func (d *Device) DrawIndexed(mode gfx.Primitive, count int, typ gfx.IndexType, byteOffset int) {
	var m uint32
	switch mode {
	case gfx.TriangleStrip:
		m = gl.TRIANGLE_STRIP
	case gfx.Lines:
		m = gl.LINES
	case gfx.Points:
		m = gl.POINTS
	default:
		m = gl.TRIANGLES
	}
	var t uint32 = gl.UNSIGNED_SHORT
	if typ == gfx.Uint32 {
		t = gl.UNSIGNED_INT
	}
	gl.DrawElementsWithOffset(m, int32(count), t, uintptr(byteOffset))
}

func blendFactor(f gfx.BlendFactor) uint32 {
	switch f {
	case gfx.Zero:
		return gl.ZERO
	case gfx.SrcColor:
		return gl.SRC_COLOR
	case gfx.OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case gfx.SrcAlpha:
		return gl.SRC_ALPHA
	case gfx.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	default:
		return gl.ONE
	}
}

func (d *Device) SetBlend(state gfx.BlendState) {
	if !state.Enabled {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(blendFactor(state.Src), blendFactor(state.Dst))
}

func (d *Device) SetDepthFunc(f gfx.DepthFunc) {
	switch f {
	case gfx.Less:
		gl.DepthFunc(gl.LESS)
	case gfx.Always:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LEQUAL)
	}
}

func (d *Device) SetViewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) BindTexture(unit int, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) Uniform1i(loc gfx.Location, v int32) {
	if loc != gfx.NoLocation {
		gl.Uniform1i(int32(loc), v)
	}
}

func (d *Device) Uniform1f(loc gfx.Location, v float32) {
	if loc != gfx.NoLocation {
		gl.Uniform1f(int32(loc), v)
	}
}

func (d *Device) Uniform2f(loc gfx.Location, v mgl32.Vec2) {
	if loc != gfx.NoLocation {
		gl.Uniform2f(int32(loc), v[0], v[1])
	}
}

func (d *Device) Uniform3f(loc gfx.Location, v mgl32.Vec3) {
	if loc != gfx.NoLocation {
		gl.Uniform3f(int32(loc), v[0], v[1], v[2])
	}
}

func (d *Device) Uniform4f(loc gfx.Location, v mgl32.Vec4) {
	if loc != gfx.NoLocation {
		gl.Uniform4f(int32(loc), v[0], v[1], v[2], v[3])
	}
}

func (d *Device) UniformMatrix4(loc gfx.Location, m mgl32.Mat4) {
	if loc != gfx.NoLocation {
		gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
	}
}

var _ gfx.Device = (*Device)(nil)
