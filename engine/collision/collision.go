// Package collision wraps drawable entities in proxies that give them a physics shape,
// so a driver.RigidBody factory can simulate them.
package collision

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Bounded content reports the half extents of its bounding box.
type Bounded interface {
	Bounds() mgl32.Vec3
}

// Rounded content reports the radius of its bounding sphere.
type Rounded interface {
	Radius() float32
}

// proxy is the collidable part shared by the box and sphere proxies.
type proxy struct {
	shape physics.Shape
	mass  float32
}

func (p *proxy) Shape() physics.Shape {
	return p.shape
}

func (p *proxy) Mass() float32 {
	return p.mass
}

func physicsOf(ctx *core.Context, fn string) physics.Backend {
	if ctx == nil || ctx.Physics == nil {
		panic("collision: " + fn + " requires a physics backend")
	}
	return ctx.Physics
}

// BoxProxy owns an entity and collides as the entity's bounding box. It is its own
// drivable state; drawable and animatable lookups reach the content.
type BoxProxy[T any] struct {
	*entity.Container[T]
	proxy
}

var (
	_ entity.Collidable = &BoxProxy[struct{}]{}
	_ entity.Drivable   = &BoxProxy[struct{}]{}
	_ entity.Holder     = &BoxProxy[struct{}]{}
)

// NewBoxProxy takes ownership of content and makes a box shape of its bounds.
//
// Parameters:
//   - ctx: the frame context providing the physics backend
//   - mass: the body mass, 0 for static bodies
//   - content: the entity, which must implement Bounded
//
// Returns:
//   - *BoxProxy[T]: the proxy
func NewBoxProxy[T any](ctx *core.Context, mass float32, content *T) *BoxProxy[T] {
	ph := physicsOf(ctx, "NewBoxProxy")
	b, ok := entity.Find[Bounded](content)
	if !ok {
		panic(errors.Wrapf(entity.ErrMissingFacet, "collision: NewBoxProxy requires bounds, got %T", content))
	}
	return &BoxProxy[T]{
		Container: entity.NewContainer(content),
		proxy:     proxy{shape: ph.MakeBoxShape(b.Bounds()), mass: mass},
	}
}

// Drivable returns the proxy itself, the collidable a rigid body driver binds to.
func (p *BoxProxy[T]) Drivable() any {
	return p
}

// Facets resolves the facets of the proxy, not only those of its content.
func (p *BoxProxy[T]) Facets() entity.Facets {
	return entity.Resolve(p)
}

// SphereProxy owns an entity and collides as a sphere of the entity's radius.
type SphereProxy[T any] struct {
	*entity.Container[T]
	proxy
}

var (
	_ entity.Collidable = &SphereProxy[struct{}]{}
	_ entity.Drivable   = &SphereProxy[struct{}]{}
	_ entity.Holder     = &SphereProxy[struct{}]{}
)

// NewSphereProxy takes ownership of content and makes a sphere shape of its radius.
//
// Parameters:
//   - ctx: the frame context providing the physics backend
//   - mass: the body mass, 0 for static bodies
//   - content: the entity, which must implement Rounded
//
// Returns:
//   - *SphereProxy[T]: the proxy
func NewSphereProxy[T any](ctx *core.Context, mass float32, content *T) *SphereProxy[T] {
	ph := physicsOf(ctx, "NewSphereProxy")
	r, ok := entity.Find[Rounded](content)
	if !ok {
		panic(errors.Wrapf(entity.ErrMissingFacet, "collision: NewSphereProxy requires a radius, got %T", content))
	}
	return &SphereProxy[T]{
		Container: entity.NewContainer(content),
		proxy:     proxy{shape: ph.MakeSphereShape(r.Radius()), mass: mass},
	}
}

// Drivable returns the proxy itself.
func (p *SphereProxy[T]) Drivable() any {
	return p
}

// Facets resolves the facets of the proxy, not only those of its content.
func (p *SphereProxy[T]) Facets() entity.Facets {
	return entity.Resolve(p)
}
