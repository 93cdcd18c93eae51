package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitDriver keeps a point of view on a sphere around its target.
// Dolly zooms, Truck and Pan orbit horizontally, Pedestal orbits vertically.
type OrbitDriver struct {
	transform *mgl32.Mat4
	pov       *Pov
	cfg       *orbitConfig
}

var _ PovDriver = &OrbitDriver{}

// NewOrbitDriver binds an orbit driver to a transform and a point of view.
// The initializer's target is the orbit center; its position is replaced by the
// spherical coordinates of the options.
//
// Parameters:
//   - transform: the transform slot receiving the view transform
//   - pov: the point of view to move
//   - init: the orbit center
//   - options: functional options configuring the orbit
//
// Returns:
//   - *OrbitDriver: the driver
func NewOrbitDriver(transform *mgl32.Mat4, pov *Pov, init PovInitializer, options ...OrbitOption) *OrbitDriver {
	if transform == nil || pov == nil {
		panic("driver: NewOrbitDriver requires a transform and a pov")
	}
	cfg := defaultOrbitConfig()
	for _, option := range options {
		option(cfg)
	}
	pov.Tgt = init.Tgt
	d := &OrbitDriver{transform: transform, pov: pov, cfg: cfg}
	d.setRadius(cfg.radius)
	d.setElevation(cfg.elevation)
	d.place()
	return d
}

// Orbit builds orbit drivers for content whose drivable state is a *Pov.
//
// Parameters:
//   - init: the initializer per slot, nil means DefaultPov
//   - options: functional options shared by every driver
//
// Returns:
//   - Factory[*OrbitDriver]: the factory
func Orbit(init func(int) PovInitializer, options ...OrbitOption) Factory[*OrbitDriver] {
	if init == nil {
		init = DefaultPov
	}
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*OrbitDriver, error) {
		pov, err := povOf(drivable)
		if err != nil {
			return nil, err
		}
		return NewOrbitDriver(transform, pov, init(index), options...), nil
	}
}

// place recomputes the position from the spherical coordinates.
func (d *OrbitDriver) place() {
	c := d.cfg
	cosElev, sinElev := math32.Cos(c.elevation), math32.Sin(c.elevation)
	offset := mgl32.Vec3{
		c.radius * cosElev * math32.Sin(c.azimuth),
		c.radius * sinElev,
		c.radius * cosElev * math32.Cos(c.azimuth),
	}
	d.pov.Pos = d.pov.Tgt.Add(offset)
	*d.transform = lookAt(d.pov.Pos, d.pov.Tgt, common.Up)
}

func (d *OrbitDriver) setRadius(r float32) {
	d.cfg.radius = mgl32.Clamp(r, d.cfg.minRadius, d.cfg.maxRadius)
}

func (d *OrbitDriver) setElevation(e float32) {
	d.cfg.elevation = mgl32.Clamp(e, d.cfg.minElevation, d.cfg.maxElevation)
}

// Update places the point of view again, following target changes made by others.
func (d *OrbitDriver) Update() {
	d.place()
}

func (d *OrbitDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	d.transform = transform
	d.place()
}

// Dolly moves toward the target by dist zoom steps.
func (d *OrbitDriver) Dolly(dist float32) {
	d.setRadius(d.cfg.radius - dist*d.cfg.zoomSpeed)
	d.place()
}

// Truck orbits horizontally by dist orbit steps.
func (d *OrbitDriver) Truck(dist float32) {
	d.cfg.azimuth += dist * d.cfg.orbitSpeed
	d.place()
}

// Follow turns the orbit by azimuth a1 and elevation a2.
func (d *OrbitDriver) Follow(a1, a2 float32) {
	d.cfg.azimuth += a1
	d.setElevation(d.cfg.elevation + a2)
	d.place()
}

// Pan turns the orbit by azimuth a1.
func (d *OrbitDriver) Pan(a1 float32) {
	d.cfg.azimuth += a1
	d.place()
}

func (d *OrbitDriver) Jump() {}

func (d *OrbitDriver) Stop() {}

// Pedestal orbits vertically by dist orbit steps.
func (d *OrbitDriver) Pedestal(dist float32) {
	d.setElevation(d.cfg.elevation + dist*d.cfg.orbitSpeed)
	d.place()
}

// Radius returns the distance from the target.
func (d *OrbitDriver) Radius() float32 {
	return d.cfg.radius
}

// Angles returns the azimuth and elevation in radians.
func (d *OrbitDriver) Angles() (azimuth, elevation float32) {
	return d.cfg.azimuth, d.cfg.elevation
}

func (d *OrbitDriver) Transform() mgl32.Mat4 {
	return *d.transform
}
