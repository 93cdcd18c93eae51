package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/go-gl/mathgl/mgl32"
)

// HoverDriver flies a point of view without physics.
type HoverDriver struct {
	transform *mgl32.Mat4
	pov       *Pov
}

var _ PovDriver = &HoverDriver{}

// NewHoverDriver binds a hover driver to a transform and a point of view.
//
// Parameters:
//   - transform: the transform slot receiving the view transform
//   - pov: the point of view to move
//   - init: the initial position and target
//
// Returns:
//   - *HoverDriver: the driver
func NewHoverDriver(transform *mgl32.Mat4, pov *Pov, init PovInitializer) *HoverDriver {
	if transform == nil || pov == nil {
		panic("driver: NewHoverDriver requires a transform and a pov")
	}
	pov.Pos, pov.Tgt = init.Pos, init.Tgt
	d := &HoverDriver{transform: transform, pov: pov}
	d.retransform()
	return d
}

// Hover builds hover drivers for content whose drivable state is a *Pov.
//
// Parameters:
//   - init: the initializer per slot, nil means DefaultPov
//
// Returns:
//   - Factory[*HoverDriver]: the factory
func Hover(init func(int) PovInitializer) Factory[*HoverDriver] {
	if init == nil {
		init = DefaultPov
	}
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*HoverDriver, error) {
		pov, err := povOf(drivable)
		if err != nil {
			return nil, err
		}
		return NewHoverDriver(transform, pov, init(index)), nil
	}
}

func (d *HoverDriver) retransform() {
	*d.transform = lookAt(d.pov.Pos, d.pov.Tgt, common.Up)
}

// move shifts both position and target.
func (d *HoverDriver) move(v mgl32.Vec3) {
	d.pov.Pos = d.pov.Pos.Add(v)
	d.pov.Tgt = d.pov.Tgt.Add(v)
	d.retransform()
}

func (d *HoverDriver) Update() {
	d.retransform()
}

func (d *HoverDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	d.transform = transform
	d.retransform()
}

func (d *HoverDriver) Dolly(dist float32) {
	d.move(viewDir(d.pov).Mul(dist))
}

func (d *HoverDriver) Truck(dist float32) {
	side := normalize(viewDir(d.pov).Cross(common.Up))
	d.move(side.Mul(dist))
}

func (d *HoverDriver) Follow(a1, a2 float32) {
	dir := viewDir(d.pov)
	dir[1] -= a2
	side := normalize(dir.Cross(common.Up))
	dir = normalize(dir.Add(side.Mul(-a1)))
	d.pov.Tgt = d.pov.Pos.Add(dir)
	d.retransform()
}

func (d *HoverDriver) Pan(a1 float32) {
	dir := viewDir(d.pov)
	side := normalize(dir.Cross(common.Up))
	dir = normalize(dir.Add(side.Mul(-a1)))
	d.pov.Tgt = d.pov.Pos.Add(dir)
	d.retransform()
}

func (d *HoverDriver) Jump() {}

func (d *HoverDriver) Stop() {}

// Pedestal moves along the view direction crossed with the z axis.
func (d *HoverDriver) Pedestal(dist float32) {
	side := normalize(viewDir(d.pov).Cross(mgl32.Vec3{0, 0, 1}))
	d.move(side.Mul(dist))
}

func (d *HoverDriver) Transform() mgl32.Mat4 {
	return *d.transform
}
