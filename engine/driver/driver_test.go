package driver

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eye struct {
	pov Pov
}

func (e *eye) IsEntity() {}

func (e *eye) Drivable() any {
	return &e.pov
}

type box struct {
	shape physics.Shape
}

func (b *box) Drivable() any {
	return b
}

func (b *box) Shape() physics.Shape {
	return b.shape
}

func (b *box) Mass() float32 {
	return 2
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v got %v", want, got)
}

func newEye(t *testing.T, h *enginetest.Harness, count int) *instancing.Instances[eye] {
	in, err := instancing.NewInstances(h.Ctx, count, &eye{}, instancing.Origin)
	require.NoError(t, err)
	return in
}

func TestHoverVerbs(t *testing.T) {
	var m mgl32.Mat4
	pov := &Pov{}
	d := NewHoverDriver(&m, pov, PovInitializer{Pos: mgl32.Vec3{0, 0, 10}})
	assert.Equal(t, common.ViewLookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, common.Up), m)

	d.Dolly(2)
	assertVec(t, mgl32.Vec3{0, 0, 8}, pov.Pos)
	assertVec(t, mgl32.Vec3{0, 0, -2}, pov.Tgt)

	// Looking down -z, the side vector is dir x up = +x.
	d.Truck(1)
	assertVec(t, mgl32.Vec3{1, 0, 8}, pov.Pos)
	assertVec(t, mgl32.Vec3{1, 0, -2}, pov.Tgt)

	d.Follow(0, 0)
	assertVec(t, mgl32.Vec3{1, 0, 7}, pov.Tgt)
	d.Pan(0.5)
	assert.Less(t, pov.Tgt.X(), float32(1))
	assert.InDelta(t, 1, pov.Tgt.Sub(pov.Pos).Len(), 1e-5)

	before := *pov
	d.Jump()
	d.Stop()
	assert.Equal(t, before, *pov)
	assert.Equal(t, common.ViewLookAt(pov.Pos, pov.Tgt, common.Up), d.Transform())
}

func TestHoverFactoryRequiresPov(t *testing.T) {
	h := enginetest.New(800, 600)
	in, err := instancing.NewInstance(h.Ctx, &box{}, nil)
	require.NoError(t, err)
	_, err = NewDriven(h.Ctx, in, Hover(nil))
	assert.Error(t, err)
}

func TestFPSGroundedGating(t *testing.T) {
	h := enginetest.New(800, 600)
	var m mgl32.Mat4
	pov := &Pov{}
	d := NewFPSDriver(h.Ctx, &m, pov, PovInitializer{Pos: mgl32.Vec3{0, 10, 0}, Tgt: mgl32.Vec3{0, 10, -1}})

	require.Len(t, h.Physics.Bodies, 1)
	body := h.Physics.Bodies[0]
	assert.Equal(t, float32(3), body.Shape.Radius())
	assert.Equal(t, mgl32.Vec3{0, -100, 0}, body.Gravity)
	assert.True(t, body.Actor)

	// Airborne: nothing below.
	d.Dolly(1)
	d.Truck(1)
	d.Jump()
	d.Stop()
	assert.Empty(t, body.Impulses)
	assert.Zero(t, body.Stops)
	assert.Len(t, body.Rays, 4*5)
	assertVec(t, mgl32.Vec3{0, 13, 0}, body.Rays[0].From)
	assertVec(t, mgl32.Vec3{1, 13, 1}, body.Rays[1].From)
	assertVec(t, mgl32.Vec3{0, -9990, 0}, body.Rays[0].To)

	// A hit beyond the threshold is still airborne.
	body.Hit, body.Distance = true, 3
	d.Jump()
	assert.Empty(t, body.Impulses)

	d.Jet(1)
	require.Len(t, body.Impulses, 1)
	assertVec(t, mgl32.Vec3{0, 0, -3}, body.Impulses[0])

	body.Distance = 2.99
	d.Dolly(1)
	d.Jump()
	d.Stop()
	require.Len(t, body.Impulses, 3)
	assertVec(t, mgl32.Vec3{0, 0, -3}, body.Impulses[1])
	assertVec(t, mgl32.Vec3{0, 50, 0}, body.Impulses[2])
	assert.Equal(t, 1, body.Stops)
}

func TestFPSUpdateFollowsBody(t *testing.T) {
	h := enginetest.New(800, 600)
	var m mgl32.Mat4
	pov := &Pov{}
	d := NewFPSDriver(h.Ctx, &m, pov, PovInitializer{Pos: mgl32.Vec3{0, 10, 0}, Tgt: mgl32.Vec3{0, 10, -5}},
		WithGroundThreshold(5), WithEyeHeight(2))
	body := h.Physics.Bodies[0]
	body.Position = mgl32.Vec3{4, 0, 0}

	d.Update()
	assertVec(t, mgl32.Vec3{4, 0, 0}, pov.Pos)
	assertVec(t, mgl32.Vec3{4, 0, -1}, pov.Tgt)
	assert.Equal(t, common.ViewLookAt(mgl32.Vec3{4, 2, 0}, mgl32.Vec3{4, 2, -1}, common.Up), m)
	assert.Equal(t, float32(2), d.Height())

	body.Hit, body.Distance = true, 4
	d.Jump()
	assert.Len(t, body.Impulses, 1)

	d.SetGravity(mgl32.Vec3{0, 0, -10})
	assert.Equal(t, mgl32.Vec3{0, 0, -10}, body.Gravity)
}

func TestDirectComposesTRS(t *testing.T) {
	var m mgl32.Mat4
	d := NewDirectDriver(&m)
	assert.Equal(t, mgl32.Ident4(), m)

	d.Translate(mgl32.Vec3{1, 2, 3})
	d.Rotate(mgl32.Vec3{0, math32.Pi / 2, 0})
	d.Scale(mgl32.Vec3{2, 2, 2})

	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(math32.Pi / 2)).Mul4(mgl32.Scale3D(2, 2, 2))
	assert.True(t, want.ApproxEqualThreshold(m, 1e-5))

	// The unit x axis is scaled, turned to -z and moved.
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, mgl32.Vec3{1, 2, 1}, p)

	d.Reset()
	assert.Equal(t, mgl32.Ident4(), *d.Direct())
}

func TestDrivenUpdatesAndReuses(t *testing.T) {
	h := enginetest.New(800, 600)
	eyes := newEye(t, h, 3)
	dr, err := NewDriven(h.Ctx, eyes, Hover(PovLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})))
	require.NoError(t, err)

	assert.Len(t, dr.Drivers(), 3)
	assert.Same(t, eyes, dr.DrivablePtr())
	assert.Same(t, &eyes.Get().pov, dr.Drivable())
	assert.NotNil(t, dr.Facets().Transformable)

	dr.Driver(0).Dolly(1)
	require.NoError(t, dr.Update(h.Ctx))
	assert.Equal(t, 1, h.Graphics.Uploads)
	want := common.ViewLookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, -1}, common.Up)
	for i := 0; i < 3; i++ {
		assert.True(t, want.ApproxEqualThreshold(*eyes.At(i), 1e-5))
	}

	first := dr.Driver(0)
	require.NoError(t, dr.Reuse(h.Ctx, instancing.At(mgl32.Vec3{9, 9, 9})))
	assert.Same(t, first, dr.Driver(0))
	assert.True(t, want.ApproxEqualThreshold(*eyes.At(2), 1e-5), "hover drivers re-anchor to their pov")
}

func TestRigidBodyDriver(t *testing.T) {
	h := enginetest.New(800, 600)
	b := &box{shape: h.Physics.MakeBoxShape(mgl32.Vec3{1, 1, 1})}
	crates, err := instancing.NewInstances(h.Ctx, 2, b, nil)
	require.NoError(t, err)

	dr, err := NewDriven(h.Ctx, crates, RigidBody(func(i int) RigidBodyInitializer {
		return RigidBodyInitializer{Pos: mgl32.Vec3{float32(i), 10, 0}}
	}))
	require.NoError(t, err)
	require.Len(t, h.Physics.Bodies, 2)
	assert.Equal(t, float32(2), h.Physics.Bodies[1].Mass)
	assert.Equal(t, mgl32.Vec3{1, 10, 0}, common.Position(*crates.At(1)))

	h.Physics.Bodies[0].Position = mgl32.Vec3{0, 5, 0}
	require.NoError(t, dr.Update(h.Ctx))
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, common.Position(*crates.At(0)))

	require.NoError(t, dr.Reuse(h.Ctx, instancing.At(mgl32.Vec3{0, 50, 0})))
	assert.Equal(t, []mgl32.Vec3{{0, 50, 0}}, h.Physics.Bodies[1].Repositions)
	assert.Equal(t, mgl32.Vec3{0, 50, 0}, common.Position(*crates.At(1)))

	_, err = NewDriven(h.Ctx, newEye(t, h, 1), RigidBody(func(int) RigidBodyInitializer { return RigidBodyInitializer{} }))
	assert.Error(t, err)
}

type recorder struct {
	HoverDriver
	calls []string
}

func (r *recorder) Dolly(d float32) {
	if d > 0 {
		r.calls = append(r.calls, "dolly+")
	} else {
		r.calls = append(r.calls, "dolly-")
	}
}
func (r *recorder) Truck(d float32)       { r.calls = append(r.calls, "truck") }
func (r *recorder) Jump()                 { r.calls = append(r.calls, "jump") }
func (r *recorder) Stop()                 { r.calls = append(r.calls, "stop") }
func (r *recorder) Follow(a1, a2 float32) { r.calls = append(r.calls, "follow") }

func TestWSADController(t *testing.T) {
	h := enginetest.New(800, 600)
	c := NewWSADController()
	r := &recorder{}

	c.Update(h.Ctx, r)
	assert.Equal(t, []string{"stop"}, r.calls)

	r.calls = nil
	h.Platform.Keys[common.KeyW] = true
	h.Platform.Keys[common.KeySpace] = true
	h.Platform.Button = true
	h.Platform.DX, h.Platform.DY = 10, 5
	c.Update(h.Ctx, r)
	assert.Equal(t, []string{"jump", "dolly+", "follow"}, r.calls)
	assert.True(t, c.MouseActive())

	r.calls = nil
	h.Platform.Keys = map[common.Key]bool{common.KeyEsc: true}
	h.Platform.Button = false
	c.Update(h.Ctx, r)
	assert.Equal(t, []string{"stop"}, r.calls)
	assert.False(t, c.MouseActive())
	assert.False(t, h.Platform.Captured)
}


func TestOrbitDriver(t *testing.T) {
	var m mgl32.Mat4
	pov := &Pov{}
	d := NewOrbitDriver(&m, pov, PovInitializer{Tgt: mgl32.Vec3{1, 0, 0}},
		WithOrbitRadius(10), WithOrbitAngles(0, 0.1), WithRadiusBounds(5, 20))

	assert.InDelta(t, 10, pov.Pos.Sub(pov.Tgt).Len(), 1e-4)
	assert.Equal(t, common.ViewLookAt(pov.Pos, pov.Tgt, common.Up), m)

	d.Dolly(1)
	assert.Equal(t, float32(5), d.Radius())
	d.Dolly(-10)
	assert.Equal(t, float32(20), d.Radius())

	d.Follow(math32.Pi/2, 10)
	az, el := d.Angles()
	assert.InDelta(t, math32.Pi/2, az, 1e-5)
	assert.InDelta(t, math32.Pi/2-0.1, el, 1e-5)

	pov.Tgt = mgl32.Vec3{}
	d.Update()
	assert.InDelta(t, 20, pov.Pos.Len(), 1e-3)
}

func TestOrbitFactory(t *testing.T) {
	h := enginetest.New(100, 100)
	dr, err := NewDriven(h.Ctx, newEye(t, h, 1), Orbit(PovLookAt(mgl32.Vec3{}, mgl32.Vec3{0, 5, 0}), WithOrbitRadius(30)))
	require.NoError(t, err)
	assert.InDelta(t, 30, dr.Driver(0).pov.Pos.Sub(mgl32.Vec3{0, 5, 0}).Len(), 1e-3)
}
