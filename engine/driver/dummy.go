package driver

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DummyDriver keeps its transform at the identity.
type DummyDriver struct {
	transform *mgl32.Mat4
}

var _ Driver = &DummyDriver{}

// NewDummyDriver binds a dummy driver to a transform.
func NewDummyDriver(transform *mgl32.Mat4) *DummyDriver {
	if transform == nil {
		panic("driver: NewDummyDriver requires a transform")
	}
	return &DummyDriver{transform: transform}
}

// Dummy builds dummy drivers for any content.
func Dummy() Factory[*DummyDriver] {
	return func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (*DummyDriver, error) {
		return NewDummyDriver(transform), nil
	}
}

func (d *DummyDriver) Update() {
	*d.transform = mgl32.Ident4()
}

func (d *DummyDriver) Reuse(ctx *core.Context, transform *mgl32.Mat4) {
	d.transform = transform
}

func (d *DummyDriver) Transform() mgl32.Mat4 {
	return *d.transform
}
