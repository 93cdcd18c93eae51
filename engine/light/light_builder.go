package light

import "github.com/go-gl/mathgl/mgl32"

type LightBuilderOption func(*Light)

// WithAttenuation sets the linear and quadratic attenuation factors.
//
// Parameters:
//   - linear: the linear factor
//   - quadratic: the quadratic factor
//
// Returns:
//   - LightBuilderOption: a function that sets the attenuation
func WithAttenuation(linear, quadratic float32) LightBuilderOption {
	return func(l *Light) {
		l.Linear, l.Quadratic = linear, quadratic
	}
}

// WithColor overrides the light color.
//
// Parameters:
//   - color: the RGB color
//
// Returns:
//   - LightBuilderOption: a function that sets the color
func WithColor(color mgl32.Vec3) LightBuilderOption {
	return func(l *Light) {
		l.Color = color
	}
}
