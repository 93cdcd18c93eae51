package entity

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingFacet is the panic value cause of Must* lookups on content lacking the facet.
var ErrMissingFacet = errors.New("entity: missing facet")

// Find walks the holder chain of v and returns the first level implementing F.
//
// Parameters:
//   - v: an entity or container
//
// Returns:
//   - F: the facet
//   - bool: false if no level implements F
func Find[F any](v any) (F, bool) {
	for v != nil {
		if f, ok := v.(F); ok {
			return f, true
		}
		h, ok := v.(Holder)
		if !ok {
			break
		}
		v = h.Content()
	}
	var zero F
	return zero, false
}

// Must is Find that panics with ErrMissingFacet when the facet is absent.
func Must[F any](v any) F {
	f, ok := Find[F](v)
	if !ok {
		var zero *F
		panic(errors.Wrapf(ErrMissingFacet, "%T does not provide %s", v, fmt.Sprintf("%T", zero)[1:]))
	}
	return f
}

// EntityOf returns the innermost Entity of a holder chain.
func EntityOf(v any) (Entity, bool) {
	var found Entity
	for v != nil {
		if e, ok := v.(Entity); ok {
			found = e
		}
		h, ok := v.(Holder)
		if !ok {
			break
		}
		v = h.Content()
	}
	return found, found != nil
}

func DrawableOf(v any) (Drawable, bool) {
	return Find[Drawable](v)
}

func DrivableOf(v any) (Drivable, bool) {
	return Find[Drivable](v)
}

func AnimatableOf(v any) (Animatable, bool) {
	return Find[Animatable](v)
}

func CollidableOf(v any) (Collidable, bool) {
	return Find[Collidable](v)
}

func TransformableOf(v any) (Transformable, bool) {
	return Find[Transformable](v)
}

func MustDrawable(v any) Drawable {
	return Must[Drawable](v)
}

func MustDrivable(v any) Drivable {
	return Must[Drivable](v)
}

func MustAnimatable(v any) Animatable {
	return Must[Animatable](v)
}

func MustCollidable(v any) Collidable {
	return Must[Collidable](v)
}

func MustTransformable(v any) Transformable {
	return Must[Transformable](v)
}

// DrivableAs resolves the drivable facet of v and asserts its state to P.
//
// Parameters:
//   - v: an entity or container
//
// Returns:
//   - P: the drivable state
//   - bool: false if v has no drivable facet or its state is not a P
func DrivableAs[P any](v any) (P, bool) {
	var zero P
	d, ok := DrivableOf(v)
	if !ok {
		return zero, false
	}
	p, ok := d.Drivable().(P)
	return p, ok
}

// Facets holds the facets resolved from one value. Absent facets are nil.
type Facets struct {
	Drawable      Drawable
	Drivable      Drivable
	Animatable    Animatable
	Collidable    Collidable
	Transformable Transformable
}

// Resolve looks up every facet of v once.
//
// Parameters:
//   - v: an entity or container
//
// Returns:
//   - Facets: the resolved facets
func Resolve(v any) Facets {
	var f Facets
	f.Drawable, _ = DrawableOf(v)
	f.Drivable, _ = DrivableOf(v)
	f.Animatable, _ = AnimatableOf(v)
	f.Collidable, _ = CollidableOf(v)
	f.Transformable, _ = TransformableOf(v)
	return f
}
