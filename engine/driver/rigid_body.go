package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// RigidBodyInitializer is the initial pose of a rigid body.
type RigidBodyInitializer struct {
	Pos mgl32.Vec3
	Rot mgl32.Quat
}

// RigidBodyDriver copies the simulated pose of a physics body into its transform.
// The transform is owned by the simulation; game code moves it through the body.
type RigidBodyDriver struct {
	transform *mgl32.Mat4
	body      physics.Body
}

var _ Driver = &RigidBodyDriver{}

// NewRigidBodyDriver creates a body from a collidable and binds it to a transform.
//
// Parameters:
//   - ctx: the frame context providing the physics backend
//   - transform: the transform slot to write
//   - shaped: supplies the shape and mass
//   - init: the initial pose
//
// Returns:
//   - *RigidBodyDriver: the driver
func NewRigidBodyDriver(ctx *core.Context, transform *mgl32.Mat4, shaped entity.Collidable, init RigidBodyInitializer) *RigidBodyDriver {
	if ctx == nil || ctx.Physics == nil {
		panic("driver: NewRigidBodyDriver requires a physics backend")
	}
	if transform == nil || shaped == nil {
		panic("driver: NewRigidBodyDriver requires a transform and a collidable")
	}
	rot := init.Rot
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	d := &RigidBodyDriver{
		transform: transform,
		body:      ctx.Physics.MakeRigidBody(shaped.Shape(), init.Pos, rot, shaped.Mass()),
	}
	*transform = common.Translation(init.Pos)
	return d
}

// RigidBody builds rigid body drivers for content whose drivable state is collidable.
//
// Parameters:
//   - init: the initial pose per slot
//
// Returns:
//   - Factory[*RigidBodyDriver]: the factory
func RigidBody(init func(int) RigidBodyInitializer) Factory[*RigidBodyDriver] {
	if init == nil {
		panic("driver: RigidBody requires an initializer")
	}
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*RigidBodyDriver, error) {
		shaped, ok := drivable.(entity.Collidable)
		if !ok {
			return nil, errors.Errorf("driver: drivable %T is not collidable", drivable)
		}
		return NewRigidBodyDriver(ctx, transform, shaped, init(index)), nil
	}
}

// Body returns the physics body.
func (d *RigidBodyDriver) Body() physics.Body {
	return d.body
}

func (d *RigidBodyDriver) Update() {
	d.body.UpdateTransform(d.transform)
}

// Reuse teleports the body to the position of the re-placed transform.
func (d *RigidBodyDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	pos := common.Position(*transform)
	d.body.Reposition(pos)
	d.transform = transform
	*transform = common.Translation(pos)
}
