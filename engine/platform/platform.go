// Package platform abstracts the window and input devices consumed by the frame loop.
package platform

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// BackendType identifies the platform implementation.
type BackendType int

const (
	// BackendTypeGLFW selects the GLFW window backend.
	BackendTypeGLFW BackendType = iota
)

// Backend provides the window, keyboard and mouse.
type Backend interface {
	// ProcessEvents polls pending window events.
	//
	// Returns:
	//   - bool: false once the window was asked to close
	ProcessEvents() bool

	// UpdateWindow refreshes the window size, notifying the screen when it changed.
	UpdateWindow()

	// UpdateKeyboard latches the key state seen by IsKeyPressed for this frame.
	UpdateKeyboard()

	// UpdateMouse latches the mouse motion and button state for this frame.
	UpdateMouse()

	// IsKeyPressed reports whether key was down when the keyboard was last updated.
	//
	// Parameters:
	//   - key: the key to test
	//
	// Returns:
	//   - bool: true if the key is held
	IsKeyPressed(key common.Key) bool

	// IsButtonPressed reports whether any mouse button is held.
	IsButtonPressed() bool

	// Mouse returns the cursor motion of the last frame in pixels.
	//
	// Returns:
	//   - float32: horizontal delta
	//   - float32: vertical delta
	Mouse() (dx, dy float32)

	// CaptureMouse hides and locks the cursor so that Mouse reports relative motion.
	//
	// Returns:
	//   - bool: true if the mouse is captured after the call
	CaptureMouse() bool

	// ReleaseMouse restores the cursor.
	ReleaseMouse()

	// Screen returns the drawable size of the window.
	Screen() *Screen

	// SetResizeCallback sets the function called after the screen size changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function called on every key press.
	//
	// Parameters:
	//   - callback: function receiving the pressed key
	SetKeyCallback(callback func(key common.Key))

	// SurfaceDescriptor returns the descriptor the graphics backend presents to.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform specific surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close destroys the window.
	//
	// Returns:
	//   - error: error if the window was not open
	Close() error
}

// NewBackend creates and opens the platform window.
//
// Parameters:
//   - backendType: the implementation to create
//   - options: functional options configuring the window
//
// Returns:
//   - Backend: the platform backend
//   - error: error if the window could not be created
func NewBackend(backendType BackendType, options ...BackendOption) (Backend, error) {
	cfg := &windowConfig{
		title:     "GDT",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 200,
	}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, errors.Errorf("platform: invalid window size %dx%d", cfg.width, cfg.height)
	}

	switch backendType {
	case BackendTypeGLFW:
		return newGLFWBackend(cfg)
	default:
		return newGLFWBackend(cfg)
	}
}
