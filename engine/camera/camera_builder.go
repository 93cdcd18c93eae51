package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*Camera)

// WithProjection sets the camera's projection kind.
//
// Parameters:
//   - p: the projection kind
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *Camera) {
		c.projection = p
	}
}

// WithFov sets the camera's half horizontal field of view in radians.
//
// Parameters:
//   - fov: half field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *Camera) {
		c.fov = fov
	}
}

// WithClip sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.near, c.far = near, far
	}
}

// WithScale sets the half width of an Ortho2D camera.
//
// Parameters:
//   - scale: the half width in world units
//
// Returns:
//   - CameraBuilderOption: a function that sets the scale
func WithScale(scale float32) CameraBuilderOption {
	return func(c *Camera) {
		c.scale = scale
	}
}

// WithLookAt sets the initial position and target.
//
// Parameters:
//   - pos: the camera position
//   - tgt: the point the camera looks at
//
// Returns:
//   - CameraBuilderOption: a function that sets the position and target
func WithLookAt(pos, tgt mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.Pos, c.Tgt = pos, tgt
	}
}
