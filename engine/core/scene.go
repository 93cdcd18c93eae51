package core

import "github.com/go-gl/mathgl/mgl32"

// Scene is one screen of the application. The engine calls Update then Render once per frame.
type Scene interface {
	// Update advances the simulation: drivers, physics and animation.
	//
	// Parameters:
	//   - ctx: the frame context
	//
	// Returns:
	//   - error: error terminating the frame loop
	Update(ctx *Context) error

	// Render records the frame's draw calls.
	//
	// Parameters:
	//   - ctx: the frame context
	//
	// Returns:
	//   - error: error terminating the frame loop
	Render(ctx *Context) error

	// OnScreenResize is called after the screen size changed.
	//
	// Parameters:
	//   - ctx: the frame context
	OnScreenResize(ctx *Context)
}

// SceneFactory builds a scene once the backends are up.
type SceneFactory func(ctx *Context) (Scene, error)

// EmptyScene clears the screen and does nothing else.
type EmptyScene struct {
	// Color is the clear color.
	Color mgl32.Vec4
}

var _ Scene = &EmptyScene{}

func (s *EmptyScene) Update(ctx *Context) error {
	return nil
}

func (s *EmptyScene) Render(ctx *Context) error {
	ctx.Graphics.BindFramebuffer(ctx.Graphics.ScreenBuffer())
	ctx.Graphics.Clear(s.Color)
	return nil
}

func (s *EmptyScene) OnScreenResize(ctx *Context) {}
