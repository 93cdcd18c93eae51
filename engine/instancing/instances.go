// Package instancing groups a fixed number of transforms with the entity they place.
package instancing

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/pkg/errors"
)

// Instances places count copies of one entity. All instances share the entity's
// surfaces and material, which is what allows a single instanced draw.
type Instances[T any] struct {
	*Transforms

	holder  entity.Holder
	content *T
	facets  entity.Facets
}

var _ entity.Holder = &Instances[struct{}]{}

// NewInstances takes ownership of content and allocates count transforms for it.
// The content is built by the caller before the transforms, so the transforms never
// outlive a failed entity.
//
// Parameters:
//   - ctx: the frame context
//   - count: the number of instances, at least 1
//   - content: the entity shared by every instance
//   - placement: the initial transform per instance, nil means Origin
//
// Returns:
//   - *Instances[T]: the instances, nil only if allocation failed
//   - error: allocation error or *PlacementError
func NewInstances[T any](ctx *core.Context, count int, content *T, placement Placement) (*Instances[T], error) {
	return newInstances(ctx, count, entity.NewContainer(content), content, placement)
}

// NewInstance is NewInstances with a single instance.
func NewInstance[T any](ctx *core.Context, content *T, placement Placement) (*Instances[T], error) {
	return NewInstances(ctx, 1, content, placement)
}

func newInstances[T any](ctx *core.Context, count int, holder entity.Holder, content *T, placement Placement) (*Instances[T], error) {
	t, err := NewTransforms(ctx, count, placement)
	if t == nil {
		return nil, err
	}
	in := &Instances[T]{Transforms: t, holder: holder, content: content}
	in.facets = entity.Resolve(in)
	return in, err
}

func (in *Instances[T]) Content() any {
	return in.holder
}

// Get returns the typed entity.
func (in *Instances[T]) Get() *T {
	return in.content
}

// Facets returns the facets resolved at construction.
func (in *Instances[T]) Facets() entity.Facets {
	return in.facets
}

// Update advances the entity if it is updatable, then uploads the transforms.
func (in *Instances[T]) Update(ctx *core.Context) error {
	if u, ok := entity.Find[entity.Updatable](in.holder); ok {
		if err := u.Update(ctx); err != nil {
			return err
		}
	}
	return errors.Wrap(in.Transforms.Update(ctx), "instancing: upload transforms")
}

// Close releases an owned entity.
func (in *Instances[T]) Close() error {
	if c, ok := in.holder.(entity.Closer); ok {
		return c.Close()
	}
	return nil
}

// References places count copies of an entity owned elsewhere.
type References[T any] struct {
	*Instances[T]
}

// NewReferences allocates count transforms for a borrowed entity.
//
// Parameters:
//   - ctx: the frame context
//   - count: the number of instances, at least 1
//   - content: the borrowed entity
//   - placement: the initial transform per instance, nil means Origin
//
// Returns:
//   - *References[T]: the references, nil only if allocation failed
//   - error: allocation error or *PlacementError
func NewReferences[T any](ctx *core.Context, count int, content *T, placement Placement) (*References[T], error) {
	in, err := newInstances(ctx, count, entity.NewRef(content), content, placement)
	if in == nil {
		return nil, err
	}
	return &References[T]{Instances: in}, err
}

// Update uploads the transforms. The borrowed entity is advanced by its owner, once per
// frame however many references share it.
func (r *References[T]) Update(ctx *core.Context) error {
	return errors.Wrap(r.Transforms.Update(ctx), "instancing: upload transforms")
}

// NewReference is NewReferences with a single instance.
func NewReference[T any](ctx *core.Context, content *T, placement Placement) (*References[T], error) {
	return NewReferences(ctx, 1, content, placement)
}
