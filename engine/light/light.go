// Package light holds the point lights consumed by the deferred lighting pass.
package light

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the number of light slots of the lighting pass.
const MaxLights = 32

const (
	// DefaultLinear is the linear attenuation factor of new lights.
	DefaultLinear float32 = 0.001

	// DefaultQuadratic is the quadratic attenuation factor of new lights.
	DefaultQuadratic float32 = 0.0002
)

// Light is a point light attenuated by 1 / (1 + Linear*d + Quadratic*d*d).
type Light struct {
	Pos       mgl32.Vec3
	Color     mgl32.Vec3
	Linear    float32
	Quadratic float32
}

// NewLight creates a light at pos with the given color.
//
// Parameters:
//   - pos: the world position
//   - color: the RGB color
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the light
func NewLight(pos, color mgl32.Vec3, options ...LightBuilderOption) Light {
	l := Light{Pos: pos, Color: color, Linear: DefaultLinear, Quadratic: DefaultQuadratic}
	for _, option := range options {
		option(&l)
	}
	return l
}

// Randomize creates a light at a random position in [0, x) * [0, y) * [0, z) with a
// random color whose components lie in [0.5, 1).
//
// Parameters:
//   - x, y, z: per-axis upper bounds of the position
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the light
func Randomize(x, y, z float32, options ...LightBuilderOption) Light {
	color := common.RandomVec3(0.5, 0.5, 0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
	return NewLight(common.RandomVec3(x, y, z), color, options...)
}

// Off creates a black light at a random position, occupying a slot without lighting anything.
//
// Parameters:
//   - x, y, z: per-axis upper bounds of the position
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the light
func Off(x, y, z float32, options ...LightBuilderOption) Light {
	return NewLight(common.RandomVec3(x, y, z), mgl32.Vec3{}, options...)
}

// Attenuation returns the intensity factor at distance d.
func (l Light) Attenuation(d float32) float32 {
	return 1 / (1 + l.Linear*d + l.Quadratic*d*d)
}
