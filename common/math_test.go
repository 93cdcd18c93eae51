package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = float32(1e-4)

func TestViewLookAtMovesEyeToOrigin(t *testing.T) {
	pos := mgl32.Vec3{10, 0, -20}
	view := ViewLookAt(pos, mgl32.Vec3{}, Up)

	eye := view.Mul4x1(pos.Vec4(1))
	assert.InDelta(t, 0, eye.X(), 1e-4)
	assert.InDelta(t, 0, eye.Y(), 1e-4)
	assert.InDelta(t, 0, eye.Z(), 1e-4)

	tgt := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Less(t, tgt.Z(), float32(0))
}

func TestTranslationAndPosition(t *testing.T) {
	m := Translation(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, Position(m))
}

func TestEulerRotationOrder(t *testing.T) {
	v := mgl32.Vec3{0.3, -0.7, 1.1}
	want := mgl32.HomogRotate3DZ(v.Z()).Mul4(mgl32.HomogRotate3DY(v.Y())).Mul4(mgl32.HomogRotate3DX(v.X()))
	assert.True(t, want.ApproxEqualThreshold(EulerRotation(v), tol))
	assert.True(t, want.ApproxEqualThreshold(EulerQuat(v).Mat4(), tol))
}

func TestQuatDualRoundTrip(t *testing.T) {
	m := Translation(mgl32.Vec3{4, -2, 7}).Mul4(mgl32.HomogRotate3DY(0.8))
	real, dual := QuatDual(m)

	assert.True(t, real.Mat4().ApproxEqualThreshold(mgl32.HomogRotate3DY(0.8), tol))

	// t = 2 * dual * conjugate(real)
	tq := dual.Scale(2).Mul(real.Conjugate())
	assert.InDelta(t, 4, tq.V.X(), 1e-4)
	assert.InDelta(t, -2, tq.V.Y(), 1e-4)
	assert.InDelta(t, 7, tq.V.Z(), 1e-4)
	assert.InDelta(t, 0, tq.W, 1e-4)
}

func TestSlerpEndpoints(t *testing.T) {
	a := mgl32.QuatRotate(0.2, mgl32.Vec3{0, 1, 0})
	b := mgl32.QuatRotate(1.4, mgl32.Vec3{1, 0, 0})

	assert.True(t, Slerp(a, b, 0).ApproxEqualThreshold(a, tol))
	assert.True(t, Slerp(a, b, 1).ApproxEqualThreshold(b, tol))
	assert.InDelta(t, 1, Slerp(a, b, 0.5).Len(), 1e-4)
}

func TestPerspectiveUsesHalfAngle(t *testing.T) {
	p := Perspective(math32.Pi/4, 0.1, 100, 1)
	// half angle of 45 degrees means a 90 degree frustum, so x = z maps to the edge.
	clip := p.Mul4x1(mgl32.Vec4{10, 0, -10, 1})
	assert.InDelta(t, 1, clip.X()/clip.W(), 1e-4)
}

func TestMat4sToFloats(t *testing.T) {
	out := Mat4sToFloats([]mgl32.Mat4{mgl32.Ident4(), Translation(mgl32.Vec3{1, 2, 3})})
	assert.Len(t, out, 32)
	assert.Equal(t, float32(1), out[0])
	assert.Equal(t, []float32{1, 2, 3, 1}, out[28:32])
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestKeyValid(t *testing.T) {
	assert.True(t, KeyW.Valid())
	assert.True(t, KeyRightShift.Valid())
	assert.False(t, KeyUnknown.Valid())
}
