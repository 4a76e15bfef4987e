// Package gfxtest provides an in-memory gfx.Device that records every call.
package gfxtest

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/gekko3d/sylva/rt/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call.
type Call struct {
	Op      string
	Program gfx.Program // program in use when the call was made
	Uniform string      // uniform name for Uniform* calls
	Args    []any
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(c.Op)
	if c.Uniform != "" {
		fmt.Fprintf(&b, "[%s]", c.Uniform)
	}
	if len(c.Args) > 0 {
		fmt.Fprintf(&b, "%v", c.Args)
	}
	return b.String()
}

// Recorder is a gfx.Device that keeps its calls for inspection.
// FailCompile, when non-empty, makes CreateProgram fail for any vertex
// source containing it.
type Recorder struct {
	Calls       []Call
	FailCompile string

	next      uint32
	current   gfx.Program
	buffers   map[gfx.Buffer]bool
	textures  map[gfx.Texture]bool
	programs  map[gfx.Program]bool
	uniforms  map[gfx.Location]string
	nextLoc   gfx.Location
	attribute map[gfx.Program]map[string]uint32
}

func NewRecorder() *Recorder {
	return &Recorder{
		buffers:   make(map[gfx.Buffer]bool),
		textures:  make(map[gfx.Texture]bool),
		programs:  make(map[gfx.Program]bool),
		uniforms:  make(map[gfx.Location]string),
		attribute: make(map[gfx.Program]map[string]uint32),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Program: r.current, Args: args})
}

func (r *Recorder) recordUniform(op string, loc gfx.Location, v any) {
	if loc == gfx.NoLocation {
		return
	}
	r.Calls = append(r.Calls, Call{Op: op, Program: r.current, Uniform: r.uniforms[loc], Args: []any{v}})
}

// Reset forgets recorded calls but keeps the resource tables.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Ops returns the recorded op names, in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the calls of op, in order.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// UniformUploads counts uploads of the named uniform while p was in use.
func (r *Recorder) UniformUploads(p gfx.Program, name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Program == p && c.Uniform == name {
			n++
		}
	}
	return n
}

// AttributeSlots returns the attribute bindings p was created with.
func (r *Recorder) AttributeSlots(p gfx.Program) map[string]uint32 {
	return r.attribute[p]
}

// Live reports the number of buffers, textures and programs not yet deleted.
func (r *Recorder) Live() (buffers, textures, programs int) {
	return len(r.buffers), len(r.textures), len(r.programs)
}

// LivePrograms returns the handles of programs not yet deleted, sorted.
func (r *Recorder) LivePrograms() []gfx.Program {
	out := make([]gfx.Program, 0, len(r.programs))
	for p := range r.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) CreateBuffer(target gfx.BufferTarget, data []byte) (gfx.Buffer, error) {
	b := gfx.Buffer(r.handle())
	r.buffers[b] = true
	r.record("CreateBuffer", target, len(data))
	return b, nil
}

func (r *Recorder) DeleteBuffer(b gfx.Buffer) {
	delete(r.buffers, b)
	r.record("DeleteBuffer", b)
}

func (r *Recorder) CreateTexture(img *image.RGBA, params gfx.TextureParams) (gfx.Texture, error) {
	if img == nil {
		return 0, fmt.Errorf("gfxtest: nil image")
	}
	t := gfx.Texture(r.handle())
	r.textures[t] = true
	r.record("CreateTexture", img.Bounds().Dx(), img.Bounds().Dy(), params)
	return t, nil
}

func (r *Recorder) DeleteTexture(t gfx.Texture) {
	delete(r.textures, t)
	r.record("DeleteTexture", t)
}

func (r *Recorder) CreateProgram(vs, fs string, attributes map[string]uint32) (gfx.Program, error) {
	if r.FailCompile != "" && strings.Contains(vs, r.FailCompile) {
		r.record("CreateProgram", "failed")
		return 0, &gfx.CompileError{Stage: gfx.VertexStage, Log: "0:1: syntax error"}
	}
	p := gfx.Program(r.handle())
	r.programs[p] = true
	slots := make(map[string]uint32, len(attributes))
	for k, v := range attributes {
		slots[k] = v
	}
	r.attribute[p] = slots
	r.record("CreateProgram", p)
	return p, nil
}

func (r *Recorder) DeleteProgram(p gfx.Program) {
	delete(r.programs, p)
	r.record("DeleteProgram", p)
}

func (r *Recorder) UniformLocation(p gfx.Program, name string) gfx.Location {
	loc := r.nextLoc
	r.nextLoc++
	r.uniforms[loc] = name
	return loc
}

func (r *Recorder) UseProgram(p gfx.Program) {
	r.current = p
	r.record("UseProgram", p)
}

func (r *Recorder) BindBuffer(target gfx.BufferTarget, b gfx.Buffer) {
	r.record("BindBuffer", target, b)
}

func (r *Recorder) VertexAttribute(slot uint32, size int, typ gfx.ComponentType, normalized bool, stride, offset int) {
	r.record("VertexAttribute", slot, size, typ, normalized, stride, offset)
}

func (r *Recorder) DrawIndexed(mode gfx.Primitive, count int, typ gfx.IndexType, byteOffset int) {
	r.record("DrawIndexed", mode, count, typ, byteOffset)
}

func (r *Recorder) SetBlend(state gfx.BlendState) { r.record("SetBlend", state) }

func (r *Recorder) SetDepthFunc(f gfx.DepthFunc) { r.record("SetDepthFunc", f) }

func (r *Recorder) SetViewport(x, y, width, height int) {
	r.record("SetViewport", x, y, width, height)
}

func (r *Recorder) Clear(color mgl32.Vec4) { r.record("Clear", color) }

func (r *Recorder) BindTexture(unit int, t gfx.Texture) { r.record("BindTexture", unit, t) }

func (r *Recorder) Uniform1i(loc gfx.Location, v int32)       { r.recordUniform("Uniform1i", loc, v) }
func (r *Recorder) Uniform1f(loc gfx.Location, v float32)     { r.recordUniform("Uniform1f", loc, v) }
func (r *Recorder) Uniform2f(loc gfx.Location, v mgl32.Vec2)  { r.recordUniform("Uniform2f", loc, v) }
func (r *Recorder) Uniform3f(loc gfx.Location, v mgl32.Vec3)  { r.recordUniform("Uniform3f", loc, v) }
func (r *Recorder) Uniform4f(loc gfx.Location, v mgl32.Vec4)  { r.recordUniform("Uniform4f", loc, v) }
func (r *Recorder) UniformMatrix4(loc gfx.Location, m mgl32.Mat4) {
	r.recordUniform("UniformMatrix4", loc, m)
}

var _ gfx.Device = (*Recorder)(nil)
