package entity

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moon struct {
	closed bool
}

func (m *moon) IsEntity() {}

func (m *moon) DrawInstances(ctx *core.Context, target DrawTarget, buf *graphics.InstanceBuffer, count int) {
}

func (m *moon) Close() error {
	m.closed = true
	return nil
}

type pov struct {
	pos mgl32.Vec3
}

func (p *pov) IsEntity() {}

func (p *pov) Drivable() any {
	return p
}

type rig struct{}

func (r *rig) Bind(ctx *core.Context, target BoneTarget) error {
	return nil
}

type crate struct{}

func (c *crate) Shape() physics.Shape {
	return nil
}

func (c *crate) Mass() float32 {
	return 1
}

type slots struct {
	m []mgl32.Mat4
}

func (s *slots) Size() int {
	return len(s.m)
}

func (s *slots) At(i int) *mgl32.Mat4 {
	return &s.m[i]
}

func (s *slots) Buffer() *graphics.InstanceBuffer {
	return nil
}

// nest wraps v in depth containers alternating owned and borrowed holders.
func nest(v any, depth int) any {
	for i := 0; i < depth; i++ {
		if i%2 == 0 {
			v = &wrapper{inner: v}
		} else {
			v = NewContainer(&wrapper{inner: v})
		}
	}
	return v
}

type wrapper struct {
	inner any
}

func (w *wrapper) Content() any {
	return w.inner
}

func TestFacetForwardingAcrossDepths(t *testing.T) {
	cases := []struct {
		name    string
		content any
		want    Facets
	}{
		{"drawable", &moon{}, Facets{Drawable: &moon{}}},
		{"drivable", &pov{}, Facets{Drivable: &pov{}}},
		{"animatable", &rig{}, Facets{Animatable: &rig{}}},
		{"collidable", &crate{}, Facets{Collidable: &crate{}}},
		{"transformable", &slots{}, Facets{Transformable: &slots{}}},
	}

	for _, tc := range cases {
		for depth := 0; depth <= 3; depth++ {
			got := Resolve(nest(tc.content, depth))
			assert.Equal(t, tc.want.Drawable != nil, got.Drawable != nil, "%s depth %d drawable", tc.name, depth)
			assert.Equal(t, tc.want.Drivable != nil, got.Drivable != nil, "%s depth %d drivable", tc.name, depth)
			assert.Equal(t, tc.want.Animatable != nil, got.Animatable != nil, "%s depth %d animatable", tc.name, depth)
			assert.Equal(t, tc.want.Collidable != nil, got.Collidable != nil, "%s depth %d collidable", tc.name, depth)
			assert.Equal(t, tc.want.Transformable != nil, got.Transformable != nil, "%s depth %d transformable", tc.name, depth)
		}
	}
}

func TestForwardedFacetIsInnerContent(t *testing.T) {
	m := &moon{}
	d, ok := DrawableOf(nest(m, 3))
	require.True(t, ok)
	assert.Same(t, m, d)

	e, ok := EntityOf(nest(m, 2))
	require.True(t, ok)
	assert.Same(t, m, e)
}

func TestDrivableAs(t *testing.T) {
	p := &pov{pos: mgl32.Vec3{1, 2, 3}}
	got, ok := DrivableAs[*pov](NewRef(p))
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = DrivableAs[*crate](NewRef(p))
	assert.False(t, ok)

	_, ok = DrivableAs[*pov](NewContainer(&moon{}))
	assert.False(t, ok)
}

func TestMustPanicsOnMissingFacet(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrMissingFacet))
		assert.Contains(t, err.Error(), "entity.Animatable")
	}()
	MustAnimatable(NewContainer(&moon{}))
}

func TestContainerOwnsAndRefBorrows(t *testing.T) {
	owned := &moon{}
	c := NewContainer(owned)
	assert.NotNil(t, c.Facets().Drawable)
	assert.Nil(t, c.Facets().Drivable)
	require.NoError(t, c.Close())
	assert.True(t, owned.closed)

	borrowed := &moon{}
	r := NewRef(borrowed)
	assert.Same(t, borrowed, r.Get())
	assert.False(t, borrowed.closed)

	assert.Panics(t, func() { NewContainer[moon](nil) })
}
