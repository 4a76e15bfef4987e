package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

type window struct {
	glfw  *glfw.Window
	title string

	// Camera driven by input. Units match sylva.App.SetView.
	center     mgl64.Vec2
	rotation   float64
	resolution float64

	dragging bool
	lastX    float64
	lastY    float64
}

// newWindow opens a window with a current OpenGL 4.1 core context. Must be
// called on the locked main thread.
func newWindow(width, height int, title string) (*window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &window{glfw: win, title: title}
	win.SetScrollCallback(w.onScroll)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(w.onCursorPos)
	return w, nil
}

func (w *window) close() {
	w.glfw.Destroy()
	glfw.Terminate()
}

// size returns the window size in screen coordinates and the ratio of
// framebuffer pixels to screen coordinates.
func (w *window) size() (width, height int, pixelRatio float64) {
	width, height = w.glfw.GetSize()
	fw, _ := w.glfw.GetFramebufferSize()
	pixelRatio = 1
	if width > 0 && fw > 0 {
		pixelRatio = float64(fw) / float64(width)
	}
	return width, height, pixelRatio
}

// poll processes pending events and the keyboard state for a frame of dt
// seconds.
func (w *window) poll(dt float64) {
	glfw.PollEvents()
	if w.glfw.GetKey(glfw.KeyEscape) == glfw.Press {
		w.glfw.SetShouldClose(true)
	}

	const rotateSpeed = 45 // degrees per second
	if w.glfw.GetKey(glfw.KeyQ) == glfw.Press {
		w.rotation += rotateSpeed * dt
	}
	if w.glfw.GetKey(glfw.KeyE) == glfw.Press {
		w.rotation -= rotateSpeed * dt
	}

	// Pan speed is a fixed number of screen pixels per second.
	step := 400 * w.resolution * dt
	var d mgl64.Vec2
	if w.glfw.GetKey(glfw.KeyW) == glfw.Press || w.glfw.GetKey(glfw.KeyUp) == glfw.Press {
		d[1] += step
	}
	if w.glfw.GetKey(glfw.KeyS) == glfw.Press || w.glfw.GetKey(glfw.KeyDown) == glfw.Press {
		d[1] -= step
	}
	if w.glfw.GetKey(glfw.KeyD) == glfw.Press || w.glfw.GetKey(glfw.KeyRight) == glfw.Press {
		d[0] += step
	}
	if w.glfw.GetKey(glfw.KeyA) == glfw.Press || w.glfw.GetKey(glfw.KeyLeft) == glfw.Press {
		d[0] -= step
	}
	w.pan(d)
}

// pan moves the center by d given in screen axes.
func (w *window) pan(d mgl64.Vec2) {
	r := mgl64.DegToRad(-w.rotation)
	w.center = w.center.Add(mgl64.Rotate2D(r).Mul2x1(d))
}

func (w *window) onScroll(_ *glfw.Window, _, yoff float64) {
	if yoff > 0 {
		w.resolution /= 1.1
	} else if yoff < 0 {
		w.resolution *= 1.1
	}
}

func (w *window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	w.dragging = action == glfw.Press
	w.lastX, w.lastY = w.glfw.GetCursorPos()
}

func (w *window) onCursorPos(_ *glfw.Window, x, y float64) {
	if !w.dragging {
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	// Screen Y grows downward; dragging moves the map with the cursor.
	w.pan(mgl64.Vec2{-dx * w.resolution, dy * w.resolution})
}
