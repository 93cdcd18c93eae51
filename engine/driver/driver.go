// Package driver holds the per-frame controllers that mutate instance transforms and the
// driven container that owns one controller per instance.
package driver

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Driver controls one instance transform.
type Driver interface {
	// Update recomputes the bound transform. It runs once per frame before drawing.
	Update()

	// Reuse rebinds the driver to a transform that was placed again.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - transform: the re-placed transform slot
	Reuse(ctx *core.Context, transform *mgl32.Mat4)
}

// Factory builds the driver of instance slot index.
//
// Parameters:
//   - ctx: the frame context
//   - transform: the transform slot the driver owns
//   - drivable: the drivable state of the content, nil if it has none
//   - index: the instance slot
//
// Returns:
//   - D: the driver
//   - error: error if the drivable state does not suit the driver
type Factory[D Driver] func(ctx *core.Context, transform *mgl32.Mat4, drivable any, index int) (D, error)

type reusable interface {
	Reuse(placement instancing.Placement) error
}

// Driven owns instanced content and one driver per instance.
type Driven[C any, D Driver] struct {
	content    *entity.Container[C]
	transforms entity.Transformable
	drivable   any
	drivers    []D
	facets     entity.Facets
}

var _ entity.Holder = &Driven[struct{}, *DummyDriver]{}

// NewDriven takes ownership of content, whose transforms should be at the origin, and
// builds one driver per instance slot.
//
// Parameters:
//   - ctx: the frame context
//   - content: instanced content providing the transformable facet
//   - factory: builds the driver of each slot
//
// Returns:
//   - *Driven[C, D]: the driven container
//   - error: error from the factory
func NewDriven[C any, D Driver](ctx *core.Context, content *C, factory Factory[D]) (*Driven[C, D], error) {
	if factory == nil {
		panic("driver: NewDriven requires a factory")
	}
	d := &Driven[C, D]{
		content:    entity.NewContainer(content),
		transforms: entity.MustTransformable(content),
	}
	if dr, ok := entity.DrivableOf(content); ok {
		d.drivable = dr.Drivable()
	}
	d.drivers = make([]D, d.transforms.Size())
	for i := range d.drivers {
		drv, err := factory(ctx, d.transforms.At(i), d.drivable, i)
		if err != nil {
			return nil, errors.Wrapf(err, "driver: build driver %d", i)
		}
		d.drivers[i] = drv
	}
	d.facets = entity.Resolve(d)
	return d, nil
}

// Update runs every driver, then updates the content.
func (d *Driven[C, D]) Update(ctx *core.Context) error {
	for _, drv := range d.drivers {
		drv.Update()
	}
	if u, ok := entity.Find[entity.Updatable](d.content); ok {
		return u.Update(ctx)
	}
	return nil
}

// Reuse places the content transforms again and re-anchors every driver to its slot.
// Drivers are kept.
//
// Parameters:
//   - ctx: the frame context
//   - placement: the new transform per slot, nil means Origin
//
// Returns:
//   - error: *instancing.PlacementError if some placements failed
func (d *Driven[C, D]) Reuse(ctx *core.Context, placement instancing.Placement) error {
	var err error
	if r, ok := entity.Find[reusable](d.content); ok {
		err = r.Reuse(placement)
	}
	for i, drv := range d.drivers {
		drv.Reuse(ctx, d.transforms.At(i))
	}
	return err
}

func (d *Driven[C, D]) Content() any {
	return d.content
}

// Facets returns the facets resolved at construction.
func (d *Driven[C, D]) Facets() entity.Facets {
	return d.facets
}

// Driver returns the driver of slot index.
func (d *Driven[C, D]) Driver(index int) D {
	return d.drivers[index]
}

// Drivers returns every driver in slot order.
func (d *Driven[C, D]) Drivers() []D {
	return d.drivers
}

// DrivablePtr returns the owned content.
func (d *Driven[C, D]) DrivablePtr() *C {
	return d.content.Get()
}

// Drivable returns the drivable state shared by the drivers, nil if the content has none.
func (d *Driven[C, D]) Drivable() any {
	return d.drivable
}

// Close releases the owned content.
func (d *Driven[C, D]) Close() error {
	return d.content.Close()
}
