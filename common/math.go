package common

import (
	"math/rand/v2"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world up axis used by every look-at transform in the engine.
var Up = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ViewLookAt builds a view matrix positioned at pos looking at tgt.
// Matrices are column-major with the translation in column 3 and are uploaded to the GPU as stored.
//
// Parameters:
//   - pos: eye position in world space
//   - tgt: point the eye looks at
//   - up: up vector defining the roll of the view
//
// Returns:
//   - mgl32.Mat4: the world-to-view transform
func ViewLookAt(pos, tgt, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(pos, tgt, up)
}

// Translation builds a pure translation matrix.
//
// Parameters:
//   - v: the translation
//
// Returns:
//   - mgl32.Mat4: the translation matrix
func Translation(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v.X(), v.Y(), v.Z())
}

// Position extracts the translation component of a transform.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - mgl32.Vec3: the translation stored in column 3
func Position(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// Perspective builds a perspective projection from a half horizontal field of view.
// ratio is height divided by width, so the vertical extent is ratio times the horizontal one.
//
// Parameters:
//   - fov: half of the horizontal field of view in radians
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//   - ratio: viewport height / width
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fov, near, far, ratio float32) mgl32.Mat4 {
	if ratio <= 0 {
		ratio = 1
	}
	fovy := 2 * math32.Atan(ratio*math32.Tan(fov))
	return mgl32.Perspective(fovy, 1/ratio, near, far)
}

// Ortho builds an orthographic projection.
//
// Parameters:
//   - left, right, bottom, top: the view volume extents
//   - near, far: clipping plane distances
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Ortho(left, right, bottom, top, near, far)
}

// EulerRotation builds a rotation matrix from euler angles applied as Rz * Ry * Rx.
//
// Parameters:
//   - v: rotation around the x, y and z axes in radians
//
// Returns:
//   - mgl32.Mat4: the rotation matrix
func EulerRotation(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(v.Z()).
		Mul4(mgl32.HomogRotate3DY(v.Y())).
		Mul4(mgl32.HomogRotate3DX(v.X()))
}

// EulerQuat is the quaternion form of EulerRotation.
//
// Parameters:
//   - v: rotation around the x, y and z axes in radians
//
// Returns:
//   - mgl32.Quat: the normalized rotation quaternion
func EulerQuat(v mgl32.Vec3) mgl32.Quat {
	return mgl32.Mat4ToQuat(EulerRotation(v)).Normalize()
}

// QuatDual decomposes a rigid transform into a unit dual quaternion.
// The real part is the rotation; the dual part is 0.5 * t * real where t is the pure quaternion of the translation.
//
// Parameters:
//   - m: a rotation + translation transform (no scale)
//
// Returns:
//   - mgl32.Quat: the real (rotation) part
//   - mgl32.Quat: the dual (translation) part
func QuatDual(m mgl32.Mat4) (mgl32.Quat, mgl32.Quat) {
	real := mgl32.Mat4ToQuat(m).Normalize()
	t := mgl32.Quat{W: 0, V: Position(m)}
	dual := t.Mul(real).Scale(0.5)
	return real, dual
}

// QuatVec4 packs a quaternion as (x, y, z, w) for shader upload.
//
// Parameters:
//   - q: the quaternion
//
// Returns:
//   - mgl32.Vec4: the packed quaternion
func QuatVec4(q mgl32.Quat) mgl32.Vec4 {
	return mgl32.Vec4{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}

// Slerp interpolates two rotations along the shortest arc.
// t = 0 returns a and t = 1 returns b (or its antipode when the shortest arc requires it).
//
// Parameters:
//   - a: start rotation
//   - b: end rotation
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	dot := a.Dot(b)
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > 0.9995 {
		return mgl32.Quat{
			W: a.W + (b.W-a.W)*t,
			V: a.V.Add(b.V.Sub(a.V).Mul(t)),
		}.Normalize()
	}
	theta := math32.Acos(dot)
	sinTheta := math32.Sin(theta)
	wa := math32.Sin((1-t)*theta) / sinTheta
	wb := math32.Sin(t*theta) / sinTheta
	return a.Scale(wa).Add(b.Scale(wb))
}

// Lerp linearly interpolates two vectors.
//
// Parameters:
//   - a: start value
//   - b: end value
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * t
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// RandomVec3 returns a vector with components uniformly distributed in [0, x), [0, y), [0, z).
//
// Parameters:
//   - x, y, z: per-axis upper bounds
//
// Returns:
//   - mgl32.Vec3: the random vector
func RandomVec3(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{rand.Float32() * x, rand.Float32() * y, rand.Float32() * z}
}

// Mat4sToFloats flattens matrices into a contiguous float slice in storage order.
//
// Parameters:
//   - ms: the matrices
//
// Returns:
//   - []float32: 16 floats per matrix
func Mat4sToFloats(ms []mgl32.Mat4) []float32 {
	out := make([]float32, 0, len(ms)*16)
	for _, m := range ms {
		out = append(out, m[:]...)
	}
	return out
}
