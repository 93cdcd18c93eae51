package platform

import (
	"runtime"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// glfwBackend holds the GLFW window and the input state latched once per frame.
type glfwBackend struct {
	window *glfw.Window
	screen *Screen

	// pending is written by GLFW callbacks, keys is the copy latched by UpdateKeyboard.
	pending [common.KeyCount]bool
	keys    [common.KeyCount]bool

	captured     bool
	buttonDown   bool
	lastX, lastY float64
	dx, dy       float32
	resetMouse   bool

	onResize func(width, height int)
	onKey    func(key common.Key)
}

var _ Backend = &glfwBackend{}

// newGLFWBackend creates the GLFW window with input callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newGLFWBackend(cfg *windowConfig) (*glfwBackend, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "platform: initialize GLFW")
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(cfg.width, cfg.height, cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "platform: create GLFW window")
	}

	maxW, maxH := glfw.DontCare, glfw.DontCare
	if cfg.maxWidth > 0 && cfg.maxHeight > 0 {
		maxW, maxH = cfg.maxWidth, cfg.maxHeight
	}
	win.SetSizeLimits(cfg.minWidth, cfg.minHeight, maxW, maxH)

	// Framebuffer size differs from window size on high-DPI displays; the surface needs pixels.
	fbWidth, fbHeight := win.GetFramebufferSize()
	b := &glfwBackend{
		window:     win,
		screen:     NewScreen(fbWidth, fbHeight),
		resetMouse: true,
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := common.Key(key)
		if !k.Valid() {
			return
		}
		switch action {
		case glfw.Press:
			b.pending[k] = true
			if b.onKey != nil {
				b.onKey(k)
			}
		case glfw.Repeat:
			b.pending[k] = true
		case glfw.Release:
			b.pending[k] = false
		}
	})

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		b.resize(width, height)
	})

	return b, nil
}

func (b *glfwBackend) resize(width, height int) {
	// Minimized windows report a zero size; keep the last usable one.
	if width <= 0 || height <= 0 {
		return
	}
	if width == b.screen.Width() && height == b.screen.Height() {
		return
	}
	b.screen.Resize(width, height)
	if b.onResize != nil {
		b.onResize(width, height)
	}
}

func (b *glfwBackend) ProcessEvents() bool {
	glfw.PollEvents()
	return !b.window.ShouldClose()
}

func (b *glfwBackend) UpdateWindow() {
	b.resize(b.window.GetFramebufferSize())
}

func (b *glfwBackend) UpdateKeyboard() {
	b.keys = b.pending
}

func (b *glfwBackend) UpdateMouse() {
	b.buttonDown = b.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press ||
		b.window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press

	x, y := b.window.GetCursorPos()
	if b.resetMouse {
		b.lastX, b.lastY = x, y
		b.resetMouse = false
	}
	b.dx, b.dy = float32(x-b.lastX), float32(y-b.lastY)
	b.lastX, b.lastY = x, y
}

func (b *glfwBackend) IsKeyPressed(key common.Key) bool {
	if !key.Valid() {
		return false
	}
	return b.keys[key]
}

func (b *glfwBackend) IsButtonPressed() bool {
	return b.buttonDown
}

func (b *glfwBackend) Mouse() (float32, float32) {
	if !b.captured {
		return 0, 0
	}
	return b.dx, b.dy
}

func (b *glfwBackend) CaptureMouse() bool {
	if !b.captured {
		b.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		b.captured = true
		b.resetMouse = true
	}
	return b.captured
}

func (b *glfwBackend) ReleaseMouse() {
	if b.captured {
		b.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		b.captured = false
	}
}

func (b *glfwBackend) Screen() *Screen {
	return b.screen
}

func (b *glfwBackend) SetResizeCallback(callback func(width, height int)) {
	b.onResize = callback
}

func (b *glfwBackend) SetKeyCallback(callback func(key common.Key)) {
	b.onKey = callback
}

// SurfaceDescriptor uses the wgpuglfw bridge, which has per-platform implementations.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (b *glfwBackend) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if b.window == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(b.window)
}

func (b *glfwBackend) Close() error {
	if b.window == nil {
		return errors.New("platform: window is not open")
	}
	b.window.SetShouldClose(true)
	b.window.Destroy()
	b.window = nil
	glfw.Terminate()
	return nil
}
