package driver

import "github.com/go-gl/mathgl/mgl32"

type fpsConfig struct {
	gravity         mgl32.Vec3
	up              mgl32.Vec3
	height          float32
	radius          float32
	mass            float32
	groundThreshold float32
	impulseScale    float32
	jumpImpulse     float32
}

func defaultFPSConfig() *fpsConfig {
	return &fpsConfig{
		gravity:         mgl32.Vec3{0, -100, 0},
		up:              mgl32.Vec3{0, 1, 0},
		height:          1,
		radius:          3,
		mass:            1,
		groundThreshold: 3,
		impulseScale:    3,
		jumpImpulse:     50,
	}
}

// FPSOption is a functional option for configuring an FPSDriver.
type FPSOption func(*fpsConfig)

// WithFPSGravity sets the gravity applied to the body.
//
// Parameters:
//   - g: the gravity vector
//
// Returns:
//   - FPSOption: option function to apply
func WithFPSGravity(g mgl32.Vec3) FPSOption {
	return func(c *fpsConfig) {
		c.gravity = g
	}
}

// WithFPSUp sets the up vector of the view.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - FPSOption: option function to apply
func WithFPSUp(up mgl32.Vec3) FPSOption {
	return func(c *fpsConfig) {
		c.up = up
	}
}

// WithEyeHeight sets the eye offset above the body center.
//
// Parameters:
//   - h: the eye height
//
// Returns:
//   - FPSOption: option function to apply
func WithEyeHeight(h float32) FPSOption {
	return func(c *fpsConfig) {
		c.height = h
	}
}

// WithBodyRadius sets the radius of the sphere body.
//
// Parameters:
//   - r: the radius
//
// Returns:
//   - FPSOption: option function to apply
func WithBodyRadius(r float32) FPSOption {
	return func(c *fpsConfig) {
		c.radius = r
	}
}

// WithGroundThreshold sets the ray distance under which the body counts as grounded.
//
// Parameters:
//   - d: the distance, 3 by default
//
// Returns:
//   - FPSOption: option function to apply
func WithGroundThreshold(d float32) FPSOption {
	return func(c *fpsConfig) {
		c.groundThreshold = d
	}
}

// WithImpulseScale sets the multiplier of dolly, truck and jet impulses.
//
// Parameters:
//   - s: the scale, 3 by default
//
// Returns:
//   - FPSOption: option function to apply
func WithImpulseScale(s float32) FPSOption {
	return func(c *fpsConfig) {
		c.impulseScale = s
	}
}

// WithJumpImpulse sets the strength of a jump.
//
// Parameters:
//   - j: the impulse length, 50 by default
//
// Returns:
//   - FPSOption: option function to apply
func WithJumpImpulse(j float32) FPSOption {
	return func(c *fpsConfig) {
		c.jumpImpulse = j
	}
}
