package animation

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoBones = []Bone{{Name: "root", Parent: -1}, {Name: "tip", Parent: 0}}

func pose(rootX float32, rootYaw float32) *Frame {
	return NewFrame(
		[]int{-1, 0},
		[]mgl32.Vec3{{rootX, 0, 0}, {0, 0, 1}},
		[]mgl32.Quat{mgl32.QuatRotate(rootYaw, mgl32.Vec3{0, 1, 0}), mgl32.QuatIdent()},
	)
}

func restSkeleton() *Skeleton {
	return NewSkeleton(twoBones, pose(0, 0))
}

func assertFrameEqual(t *testing.T, want, got *Frame) {
	t.Helper()
	require.Equal(t, want.NumBones(), got.NumBones())
	for i := 0; i < want.NumBones(); i++ {
		assert.True(t, want.Positions[i].ApproxEqualThreshold(got.Positions[i], 1e-4), "bone %d position", i)
		assert.True(t, want.Rotations[i].ApproxEqualThreshold(got.Rotations[i], 1e-4), "bone %d rotation", i)
	}
}

type bones struct {
	reals, duals []mgl32.Vec4
}

func (b *bones) SetBones(reals, duals []mgl32.Vec4) {
	b.reals, b.duals = reals, duals
}

func TestBoneTransformComposesParentChain(t *testing.T) {
	f := pose(1, math32.Pi/2)
	tip := common.Position(f.BoneTransform(1))
	assert.True(t, mgl32.Vec3{2, 0, 0}.ApproxEqualThreshold(tip, 1e-5), "got %v", tip)

	assert.False(t, f.Baked())
	f.Bake()
	first := append([]mgl32.Mat4(nil), f.Transforms()...)
	f.Bake()
	assert.Equal(t, first, f.Transforms())
	assert.True(t, mgl32.Ident4().ApproxEqualThreshold(f.Transforms()[1].Mul4(f.Inverses()[1]), 1e-5))
}

func TestInterpolateBoundaries(t *testing.T) {
	f0, f1 := pose(0, 0), pose(4, math32.Pi/3)
	assertFrameEqual(t, f0, Interpolate(f0, f1, 0))
	assertFrameEqual(t, f1, Interpolate(f0, f1, 1))

	mid := Interpolate(f0, f1, 0.5)
	assert.InDelta(t, 2, mid.Positions[0].X(), 1e-5)
	assert.True(t, mid.Baked())
}

func TestAnimationLoopWraps(t *testing.T) {
	s := restSkeleton()
	frames := []*Frame{pose(0, 0), pose(1, 0.2), pose(3, 0.4)}
	a := NewAnimation(s, frames, true)
	n := float32(len(frames))

	for _, dt := range []float32{0, 0.01, 0.03} {
		a.Reset()
		a.Update(dt)
		early := a.CurrentFrame()
		a.Reset()
		a.Update(n/FrameRate + dt)
		assertFrameEqual(t, early, a.CurrentFrame())
	}

	// Past the last key frame a loop blends back toward the first.
	a.Reset()
	a.Update(2.5 / FrameRate)
	assert.InDelta(t, 1.5, a.CurrentFrame().Positions[0].X(), 1e-4)
}

func TestAnimationWithoutLoopHoldsLastFrame(t *testing.T) {
	frames := []*Frame{pose(0, 0), pose(1, 0), pose(2, 0)}
	a := NewAnimation(restSkeleton(), frames, false)
	a.Update(10)
	assert.Same(t, frames[2], a.CurrentFrame())
	assert.Equal(t, float32(3)/FrameRate, a.Duration())
}

func TestAnimixerSaturates(t *testing.T) {
	s := restSkeleton()
	m := NewAnimixer(s)
	a := NewAnimation(s, []*Frame{pose(0, 0)}, true)
	b := NewAnimation(s, []*Frame{pose(1, 0)}, true)
	c := NewAnimation(s, []*Frame{pose(2, 0)}, true)

	assert.True(t, m.Play(a, 0))
	assert.True(t, m.Play(b, 1))
	c.Update(5)
	assert.False(t, m.Play(c, 1))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, float32(5), c.Time(), "an ignored animation is not rewound")
}

func TestAnimixerCrossFadeCompletes(t *testing.T) {
	s := restSkeleton()
	m := NewAnimixer(s)
	a := NewAnimation(s, []*Frame{pose(0, 0)}, true)
	b := NewAnimation(s, []*Frame{pose(4, 0)}, true)
	m.Play(a, 0)
	m.Play(b, 1)

	m.Advance(0.25)
	assert.Equal(t, 2, m.Len())
	f, err := m.Blended()
	require.NoError(t, err)
	assert.InDelta(t, 1, f.Positions[0].X(), 1e-5)

	require.NoError(t, m.Update(&core.Context{Elapsed: 0.75}))
	assert.Equal(t, 1, m.Len())
	f, err = m.Blended()
	require.NoError(t, err)
	assert.InDelta(t, 4, f.Positions[0].X(), 1e-5)

	// A fade without duration replaces the base on the next update.
	m.Play(a, 0)
	m.Advance(0.01)
	assert.Equal(t, 1, m.Len())
	f, _ = m.Blended()
	assert.InDelta(t, 0, f.Positions[0].X(), 1e-5)
}

func TestAnimixerBind(t *testing.T) {
	s := restSkeleton()
	m := NewAnimixer(s)
	var got bones
	assert.ErrorIs(t, m.Bind(nil, &got), ErrNoStrips)

	m.Play(NewAnimation(s, []*Frame{pose(2, 0)}, true), 0)
	require.NoError(t, m.Bind(nil, &got))
	require.Len(t, got.reals, 2)
	for i := range got.reals {
		assert.True(t, mgl32.Vec4{0, 0, 0, 1}.ApproxEqualThreshold(got.reals[i], 1e-5))
		assert.True(t, mgl32.Vec4{1, 0, 0, 0}.ApproxEqualThreshold(got.duals[i], 1e-5), "bone %d dual %v", i, got.duals[i])
	}
}

func TestDualQuatsRoundTrip(t *testing.T) {
	rest := pose(0, 0)
	moved := pose(3, math32.Pi/4)
	reals, duals := DualQuats(moved, rest)

	for j := range reals {
		real := mgl32.Quat{W: reals[j][3], V: reals[j].Vec3()}
		dual := mgl32.Quat{W: duals[j][3], V: duals[j].Vec3()}
		// translation = 2 * dual * conjugate(real)
		tr := dual.Scale(2).Mul(real.Conjugate()).V
		want := moved.Transforms()[j].Mul4(rest.Inverses()[j])
		assert.True(t, common.Position(want).ApproxEqualThreshold(tr, 1e-4), "bone %d", j)
		assert.InDelta(t, 1, real.Len(), 1e-5)
	}
}
