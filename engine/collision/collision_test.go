package collision

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/driver"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crate struct {
	closed bool
}

func (c *crate) IsEntity() {}

func (c *crate) DrawInstances(ctx *core.Context, target entity.DrawTarget, buf *graphics.InstanceBuffer, count int) {
}

func (c *crate) Bounds() mgl32.Vec3 {
	return mgl32.Vec3{1, 2, 3}
}

func (c *crate) Close() error {
	c.closed = true
	return nil
}

type ball struct{}

func (b *ball) IsEntity() {}

func (b *ball) Radius() float32 {
	return 5
}

func TestBoxProxy(t *testing.T) {
	h := enginetest.New(640, 480)
	c := &crate{}
	p := NewBoxProxy(h.Ctx, 2, c)

	assert.Equal(t, physics.ShapeBox, p.Shape().Kind())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, p.Shape().HalfExtents())
	assert.Equal(t, float32(2), p.Mass())
	assert.Same(t, c, p.Get())

	f := p.Facets()
	assert.NotNil(t, f.Drawable)
	assert.NotNil(t, f.Collidable)
	assert.NotNil(t, f.Drivable)
	assert.Nil(t, f.Animatable)

	d, ok := entity.DrawableOf(p)
	require.True(t, ok)
	assert.Same(t, c, d)

	require.NoError(t, p.Close())
	assert.True(t, c.closed)
}

func TestSphereProxy(t *testing.T) {
	h := enginetest.New(640, 480)
	p := NewSphereProxy(h.Ctx, 0, &ball{})

	assert.Equal(t, physics.ShapeSphere, p.Shape().Kind())
	assert.Equal(t, float32(5), p.Shape().Radius())
	assert.Equal(t, float32(0), p.Mass())
	_, ok := entity.DrawableOf(p)
	assert.False(t, ok)
}

func TestProxyRequiresShape(t *testing.T) {
	h := enginetest.New(640, 480)
	assert.Panics(t, func() { NewBoxProxy(h.Ctx, 1, &ball{}) })
	assert.Panics(t, func() { NewSphereProxy(h.Ctx, 1, &crate{}) })
	assert.Panics(t, func() { NewBoxProxy(&core.Context{}, 1, &crate{}) })
}

func TestRigidBodyPool(t *testing.T) {
	h := enginetest.New(640, 480)
	crates, err := instancing.NewInstances(h.Ctx, 200, NewBoxProxy(h.Ctx, 2, &crate{}), nil)
	require.NoError(t, err)

	pool, err := driver.NewDriven(h.Ctx, crates, driver.RigidBody(func(i int) driver.RigidBodyInitializer {
		return driver.RigidBodyInitializer{Pos: common.RandomVec3(100, 400, 100).Add(mgl32.Vec3{0, 333, 0})}
	}))
	require.NoError(t, err)
	require.Len(t, h.Physics.Bodies, 200)
	for _, b := range h.Physics.Bodies {
		assert.Equal(t, float32(2), b.Mass)
		assert.Equal(t, physics.ShapeBox, b.Shape.Kind())
	}

	h.Physics.Bodies[7].Position = mgl32.Vec3{1, 2, 3}
	require.NoError(t, pool.Update(h.Ctx))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, common.Position(*crates.At(7)))

	_, ok := entity.DrawableOf(pool)
	assert.True(t, ok)
}
