package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Pov is a point of view: where a camera is, what it looks at and how it projects.
type Pov struct {
	Pos  mgl32.Vec3
	Tgt  mgl32.Vec3
	Proj mgl32.Mat4
}

// PovInitializer is the initial position and target of a point of view driver.
type PovInitializer struct {
	Pos mgl32.Vec3
	Tgt mgl32.Vec3
}

// DefaultPov looks at the origin from (50, 50, 50).
func DefaultPov(int) PovInitializer {
	return PovInitializer{Pos: mgl32.Vec3{50, 50, 50}}
}

// PovLookAt initializes every slot looking from pos to tgt.
func PovLookAt(pos, tgt mgl32.Vec3) func(int) PovInitializer {
	return func(int) PovInitializer {
		return PovInitializer{Pos: pos, Tgt: tgt}
	}
}

// PovDriver moves a point of view with camera verbs.
type PovDriver interface {
	Driver

	// Dolly moves along the view direction.
	Dolly(d float32)

	// Truck moves sideways.
	Truck(d float32)

	// Follow turns the view by yaw a1 and pitch a2.
	Follow(a1, a2 float32)

	// Pan turns the view by yaw a1.
	Pan(a1 float32)

	Jump()
	Stop()

	// Pedestal moves vertically relative to the view.
	Pedestal(d float32)

	// Transform returns the current view transform.
	Transform() mgl32.Mat4
}

func povOf(drivable any) (*Pov, error) {
	p, ok := drivable.(*Pov)
	if !ok || p == nil {
		return nil, errors.Errorf("driver: drivable %T is not a *Pov", drivable)
	}
	return p, nil
}

// viewDir is the normalized direction from pos to tgt.
func viewDir(p *Pov) mgl32.Vec3 {
	return normalize(p.Tgt.Sub(p.Pos))
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

func lookAt(pos, tgt, up mgl32.Vec3) mgl32.Mat4 {
	return common.ViewLookAt(pos, tgt, up)
}
