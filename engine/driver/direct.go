package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DirectDriver composes a transform from explicit translation, rotation and scale.
// Every setter recomputes the transform immediately.
type DirectDriver struct {
	transform   *mgl32.Mat4
	translation mgl32.Vec3
	rotation    mgl32.Mat4
	scale       mgl32.Vec3
}

var _ Driver = &DirectDriver{}

// NewDirectDriver binds a direct driver to a transform and resets it.
//
// Parameters:
//   - transform: the transform slot to write
//
// Returns:
//   - *DirectDriver: the driver
func NewDirectDriver(transform *mgl32.Mat4) *DirectDriver {
	if transform == nil {
		panic("driver: NewDirectDriver requires a transform")
	}
	d := &DirectDriver{transform: transform}
	d.Reset()
	return d
}

// Direct builds direct drivers for any content.
func Direct() Factory[*DirectDriver] {
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*DirectDriver, error) {
		return NewDirectDriver(transform), nil
	}
}

// Update writes T * R * S.
func (d *DirectDriver) Update() {
	*d.transform = common.Translation(d.translation).
		Mul4(d.rotation).
		Mul4(mgl32.Scale3D(d.scale.X(), d.scale.Y(), d.scale.Z()))
}

func (d *DirectDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	d.transform = transform
	d.Update()
}

// Reset clears translation and rotation and sets a unit scale.
func (d *DirectDriver) Reset() {
	d.translation = mgl32.Vec3{}
	d.rotation = mgl32.Ident4()
	d.scale = mgl32.Vec3{1, 1, 1}
	d.Update()
}

// Rotate sets the rotation from euler angles.
func (d *DirectDriver) Rotate(euler mgl32.Vec3) {
	d.rotation = common.EulerRotation(euler)
	d.Update()
}

// RotateQuat sets the rotation from a quaternion.
func (d *DirectDriver) RotateQuat(q mgl32.Quat) {
	d.rotation = q.Normalize().Mat4()
	d.Update()
}

// LookAt sets the rotation to the view transform from pos to tgt.
func (d *DirectDriver) LookAt(pos, tgt, up mgl32.Vec3) {
	d.rotation = lookAt(pos, tgt, up)
	d.Update()
}

func (d *DirectDriver) Scale(v mgl32.Vec3) {
	d.scale = v
	d.Update()
}

func (d *DirectDriver) Translate(v mgl32.Vec3) {
	d.translation = v
	d.Update()
}

// Direct returns the driven transform slot.
func (d *DirectDriver) Direct() *mgl32.Mat4 {
	return d.transform
}
