// Package camera holds the point of view entities scenes render from.
package camera

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/driver"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection selects how a camera maps view space to clip space.
type Projection int

const (
	// Perspective projects with a half horizontal field of view.
	Perspective Projection = iota

	// Ortho2D spans x from -scale to scale; y follows the screen ratio.
	Ortho2D

	// PixelPerfect spans x from -width/2 to width/2 and y from -height/2 to height/2.
	PixelPerfect
)

// String returns the projection name.
func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Ortho2D:
		return "ortho2d"
	case PixelPerfect:
		return "pixel-perfect"
	default:
		return "unknown"
	}
}

// Camera is a point of view whose projection follows the screen size.
// Its drivable state is the embedded driver.Pov, so any point of view driver can move it.
type Camera struct {
	driver.Pov

	projection Projection
	fov        float32
	near       float32
	far        float32
	scale      float32

	width, height int
	screen        *platform.Screen
}

var (
	_ entity.Entity             = &Camera{}
	_ entity.Drivable           = &Camera{}
	_ platform.ScreenSubscriber = &Camera{}
)

// NewCamera creates a camera and subscribes it to the screen of ctx, which sets the
// projection immediately. Without a screen the projection is built for a square viewport.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the camera
//
// Returns:
//   - *Camera: the camera
func NewCamera(ctx *core.Context, options ...CameraBuilderOption) *Camera {
	c := &Camera{
		Pov:        driver.Pov{Proj: mgl32.Ident4()},
		projection: Perspective,
		fov:        0.28,
		near:       0.1,
		far:        1024,
		scale:      4,
	}
	for _, option := range options {
		option(c)
	}

	if ctx != nil {
		c.screen = ctx.Screen()
	}
	if c.screen != nil {
		c.screen.Subscribe(c)
	} else {
		c.OnScreenResize(1, 1)
	}
	return c
}

// NewCamera2D creates an orthographic camera spanning x in [-4, 4].
func NewCamera2D(ctx *core.Context, options ...CameraBuilderOption) *Camera {
	return NewCamera(ctx, append([]CameraBuilderOption{WithProjection(Ortho2D), WithFov(0.95)}, options...)...)
}

// NewCamera2DPP creates an orthographic camera with one unit per pixel.
func NewCamera2DPP(ctx *core.Context, options ...CameraBuilderOption) *Camera {
	return NewCamera(ctx, append([]CameraBuilderOption{WithProjection(PixelPerfect), WithFov(0.95)}, options...)...)
}

func (c *Camera) IsEntity() {}

// Drivable returns the camera's *driver.Pov.
func (c *Camera) Drivable() any {
	return &c.Pov
}

// OnScreenResize rebuilds the projection for the new size.
func (c *Camera) OnScreenResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.rebuild()
}

func (c *Camera) rebuild() {
	ratio := float32(c.height) / float32(c.width)
	switch c.projection {
	case Ortho2D:
		c.Proj = common.Ortho(-c.scale, c.scale, -c.scale*ratio, c.scale*ratio, c.near, c.far)
	case PixelPerfect:
		w, h := float32(c.width)/2, float32(c.height)/2
		c.Proj = common.Ortho(-w, w, -h, h, c.near, c.far)
	default:
		c.Proj = common.Perspective(c.fov, c.near, c.far, ratio)
	}
}

// View returns the world to view transform of the current position and target.
func (c *Camera) View() mgl32.Mat4 {
	return common.ViewLookAt(c.Pos, c.Tgt, common.Up)
}

// ViewProjection returns Proj * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Proj.Mul4(c.View())
}

// Projection returns the projection kind.
func (c *Camera) Projection() Projection {
	return c.projection
}

// Fov returns the half horizontal field of view in radians.
func (c *Camera) Fov() float32 {
	return c.fov
}

// SetFov sets the half horizontal field of view and rebuilds the projection.
func (c *Camera) SetFov(fov float32) {
	c.fov = fov
	c.refresh()
}

// Near returns the near clipping plane distance.
func (c *Camera) Near() float32 {
	return c.near
}

// Far returns the far clipping plane distance.
func (c *Camera) Far() float32 {
	return c.far
}

// SetClip sets the clipping plane distances and rebuilds the projection.
func (c *Camera) SetClip(near, far float32) {
	c.near, c.far = near, far
	c.refresh()
}

// Size returns the viewport size of the last resize.
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

func (c *Camera) refresh() {
	if c.width > 0 && c.height > 0 {
		c.rebuild()
	}
}

// Close unsubscribes the camera from the screen.
func (c *Camera) Close() error {
	if c.screen != nil {
		c.screen.Unsubscribe(c)
		c.screen = nil
	}
	return nil
}
