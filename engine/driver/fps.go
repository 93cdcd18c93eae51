package driver

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// groundRays are the horizontal offsets of the downward rays testing for ground.
var groundRays = [5][2]float32{{0, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

// groundRayLength is how far below the body the ground rays reach.
const groundRayLength = 10000

// FPSDriver walks a point of view on a physics sphere. Steering and jumping only work
// while the body stands on something.
type FPSDriver struct {
	cfg       *fpsConfig
	transform *mgl32.Mat4
	pov       *Pov
	shape     physics.Shape
	body      physics.Body
}

var _ PovDriver = &FPSDriver{}

// NewFPSDriver creates the sphere body and binds the driver to a transform and a point of view.
//
// Parameters:
//   - ctx: the frame context providing the physics backend
//   - transform: the transform slot receiving the view transform
//   - pov: the point of view to move
//   - init: the initial position and target
//   - options: functional options configuring the driver
//
// Returns:
//   - *FPSDriver: the driver
func NewFPSDriver(ctx *core.Context, transform *mgl32.Mat4, pov *Pov, init PovInitializer, options ...FPSOption) *FPSDriver {
	if ctx == nil || ctx.Physics == nil {
		panic("driver: NewFPSDriver requires a physics backend")
	}
	if transform == nil || pov == nil {
		panic("driver: NewFPSDriver requires a transform and a pov")
	}
	cfg := defaultFPSConfig()
	for _, opt := range options {
		opt(cfg)
	}

	pov.Pos, pov.Tgt = init.Pos, init.Tgt
	d := &FPSDriver{cfg: cfg, transform: transform, pov: pov}
	d.shape = ctx.Physics.MakeSphereShape(cfg.radius)
	d.body = ctx.Physics.MakeRigidBody(d.shape, pov.Pos, mgl32.QuatIdent(), cfg.mass)
	d.body.SetGravity(cfg.gravity)
	d.body.SetActorParams()
	d.retransform()
	return d
}

// FPS builds fps drivers for content whose drivable state is a *Pov.
//
// Parameters:
//   - init: the initializer per slot, nil means DefaultPov
//   - options: functional options applied to every driver
//
// Returns:
//   - Factory[*FPSDriver]: the factory
func FPS(init func(int) PovInitializer, options ...FPSOption) Factory[*FPSDriver] {
	if init == nil {
		init = DefaultPov
	}
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*FPSDriver, error) {
		pov, err := povOf(drivable)
		if err != nil {
			return nil, err
		}
		return NewFPSDriver(ctx, transform, pov, init(index), options...), nil
	}
}

// Body returns the physics body.
func (d *FPSDriver) Body() physics.Body {
	return d.body
}

func (d *FPSDriver) Up() mgl32.Vec3 {
	return d.cfg.up
}

func (d *FPSDriver) SetUp(up mgl32.Vec3) {
	d.cfg.up = up
}

func (d *FPSDriver) Gravity() mgl32.Vec3 {
	return d.cfg.gravity
}

func (d *FPSDriver) SetGravity(g mgl32.Vec3) {
	d.cfg.gravity = g
	d.body.SetGravity(g)
}

// Height returns the eye offset above the body center.
func (d *FPSDriver) Height() float32 {
	return d.cfg.height
}

func (d *FPSDriver) retransform() {
	p, t := d.pov.Pos, d.pov.Tgt
	p[1] += d.cfg.height
	t[1] += d.cfg.height
	*d.transform = lookAt(p, t, d.cfg.up)
}

// IsOnObject casts five rays against gravity from above the body and reports whether
// any of them hits something closer than the ground threshold.
func (d *FPSDriver) IsOnObject() bool {
	for _, off := range groundRays {
		if d.groundHit(off[0], off[1]) {
			return true
		}
	}
	return false
}

func (d *FPSDriver) groundHit(x, z float32) bool {
	g := normalize(d.cfg.gravity).Mul(-1)
	offset := mgl32.Vec3{x, 0, z}
	from := d.pov.Pos.Add(g.Mul(d.cfg.radius)).Add(offset)
	to := d.pov.Pos.Sub(g.Mul(groundRayLength)).Add(offset)
	dist, ok := d.body.NearestCollision(from, to)
	return ok && dist < d.cfg.groundThreshold
}

func (d *FPSDriver) Update() {
	dir := viewDir(d.pov)
	d.pov.Pos = d.body.Pos()
	d.pov.Tgt = d.pov.Pos.Add(dir)
	d.retransform()
}

func (d *FPSDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	d.transform = transform
	d.retransform()
}

func (d *FPSDriver) Dolly(dist float32) {
	if !d.IsOnObject() {
		return
	}
	dir := viewDir(d.pov)
	dir[1] = 0
	d.body.Impulse(dir.Mul(dist * d.cfg.impulseScale))
}

func (d *FPSDriver) Truck(dist float32) {
	if !d.IsOnObject() {
		return
	}
	side := normalize(viewDir(d.pov).Cross(d.cfg.up))
	side[1] = 0
	d.body.Impulse(side.Mul(dist * d.cfg.impulseScale))
}

// Jet pushes along the view direction, grounded or not.
func (d *FPSDriver) Jet(dist float32) {
	d.body.Impulse(viewDir(d.pov).Mul(dist * d.cfg.impulseScale))
}

// JetDir pushes along dir, grounded or not.
func (d *FPSDriver) JetDir(dir mgl32.Vec3, dist float32) {
	d.body.Impulse(dir.Mul(dist * d.cfg.impulseScale))
}

func (d *FPSDriver) Jump() {
	if !d.IsOnObject() {
		return
	}
	d.body.Impulse(normalize(d.cfg.gravity).Mul(-d.cfg.jumpImpulse))
}

func (d *FPSDriver) Stop() {
	if !d.IsOnObject() {
		return
	}
	d.body.Stop()
}

func (d *FPSDriver) Follow(a1, a2 float32) {
	dir := viewDir(d.pov)
	dir = dir.Add(d.cfg.up.Mul(-a2))
	side := normalize(dir.Cross(d.cfg.up))
	dir = normalize(dir.Add(side.Mul(-a1)))
	d.pov.Tgt = d.pov.Pos.Add(dir)
	d.retransform()
}

func (d *FPSDriver) Pan(a1 float32) {}

func (d *FPSDriver) Pedestal(dist float32) {}

func (d *FPSDriver) Transform() mgl32.Mat4 {
	return *d.transform
}
