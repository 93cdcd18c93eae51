// Package animation blends skeletal animations and converts poses to dual quaternions
// for skinning.
package animation

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Bone is one joint of a skeleton. Parent is -1 for roots.
type Bone struct {
	Name   string
	Parent int
}

// Skeleton is a bone hierarchy and its rest pose.
type Skeleton struct {
	Bones []Bone
	Rest  *Frame
}

// NewSkeleton builds a skeleton and bakes its rest pose.
//
// Parameters:
//   - bones: the bones, parents defined before their children are referenced
//   - rest: the rest pose
//
// Returns:
//   - *Skeleton: the skeleton
func NewSkeleton(bones []Bone, rest *Frame) *Skeleton {
	if rest == nil {
		panic("animation: NewSkeleton requires a rest frame")
	}
	rest.Bake()
	return &Skeleton{Bones: bones, Rest: rest}
}

// NumBones returns the bone count.
func (s *Skeleton) NumBones() int {
	return len(s.Bones)
}

// Frame is one pose: a local position and rotation per bone.
// Baking computes the world transform of every bone and its inverse.
type Frame struct {
	Parents   []int
	Positions []mgl32.Vec3
	Rotations []mgl32.Quat

	transforms []mgl32.Mat4
	inverses   []mgl32.Mat4
	baked      bool
}

// NewFrame creates an unbaked frame.
func NewFrame(parents []int, positions []mgl32.Vec3, rotations []mgl32.Quat) *Frame {
	return &Frame{Parents: parents, Positions: positions, Rotations: rotations}
}

// NumBones returns the bone count.
func (f *Frame) NumBones() int {
	return len(f.Parents)
}

// BoneTransform composes the world transform of bone i from its parent chain:
// parent * T(position) * R(rotation), the identity standing in for a root's parent.
func (f *Frame) BoneTransform(i int) mgl32.Mat4 {
	m := common.Translation(f.Positions[i]).Mul4(f.Rotations[i].Mat4())
	if p := f.Parents[i]; p >= 0 {
		return f.BoneTransform(p).Mul4(m)
	}
	return m
}

// Bake computes every bone transform and its inverse. Baking twice gives the same result.
func (f *Frame) Bake() {
	n := f.NumBones()
	f.transforms = make([]mgl32.Mat4, n)
	f.inverses = make([]mgl32.Mat4, n)
	for i := 0; i < n; i++ {
		f.transforms[i] = f.BoneTransform(i)
		f.inverses[i] = f.transforms[i].Inv()
	}
	f.baked = true
}

// Baked reports whether Bake ran.
func (f *Frame) Baked() bool {
	return f.baked
}

// Transforms returns the baked world transforms, baking first if needed.
func (f *Frame) Transforms() []mgl32.Mat4 {
	if !f.baked {
		f.Bake()
	}
	return f.transforms
}

// Inverses returns the inverses of the baked world transforms, baking first if needed.
func (f *Frame) Inverses() []mgl32.Mat4 {
	if !f.baked {
		f.Bake()
	}
	return f.inverses
}

// Interpolate blends two frames of the same skeleton: positions are interpolated
// linearly and rotations along the shortest arc. The result is baked.
//
// Parameters:
//   - f0: the frame at t = 0
//   - f1: the frame at t = 1
//   - t: the blend factor
//
// Returns:
//   - *Frame: the blended frame
func Interpolate(f0, f1 *Frame, t float32) *Frame {
	n := f0.NumBones()
	out := &Frame{
		Parents:   f0.Parents,
		Positions: make([]mgl32.Vec3, n),
		Rotations: make([]mgl32.Quat, n),
	}
	for i := 0; i < n; i++ {
		out.Positions[i] = common.Lerp(f0.Positions[i], f1.Positions[i], t)
		out.Rotations[i] = common.Slerp(f0.Rotations[i], f1.Rotations[i], t)
	}
	out.Bake()
	return out
}

// DualQuats converts every bone of a posed frame to the dual quaternion of
// pose * inverse(rest), packed as (x, y, z, w) for upload.
//
// Parameters:
//   - pose: the animated frame
//   - rest: the skeleton rest frame
//
// Returns:
//   - []mgl32.Vec4: the rotation parts
//   - []mgl32.Vec4: the translation parts
func DualQuats(pose, rest *Frame) ([]mgl32.Vec4, []mgl32.Vec4) {
	transforms, inverses := pose.Transforms(), rest.Inverses()
	n := min(len(transforms), len(inverses))
	reals := make([]mgl32.Vec4, n)
	duals := make([]mgl32.Vec4, n)
	for j := 0; j < n; j++ {
		real, dual := common.QuatDual(transforms[j].Mul4(inverses[j]))
		reals[j] = common.QuatVec4(real)
		duals[j] = common.QuatVec4(dual)
	}
	return reals, duals
}
