package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, DefaultLinear, l.Linear)
	assert.Equal(t, DefaultQuadratic, l.Quadratic)
	assert.Equal(t, float32(1), l.Attenuation(0))
}

func TestRandomizeBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		l := Randomize(10, 20, 30)
		for axis, hi := range []float32{10, 20, 30} {
			assert.GreaterOrEqual(t, l.Pos[axis], float32(0))
			assert.Less(t, l.Pos[axis], hi)
			assert.GreaterOrEqual(t, l.Color[axis], float32(0.5))
			assert.LessOrEqual(t, l.Color[axis], float32(1))
		}
	}
}

func TestOffIsBlack(t *testing.T) {
	l := Off(5, 5, 5, WithAttenuation(0.1, 0.01))
	assert.Equal(t, mgl32.Vec3{}, l.Color)
	assert.Equal(t, float32(0.1), l.Linear)
	assert.InDelta(t, 1.0/(1+1+1), l.Attenuation(10), 1e-6)
}
