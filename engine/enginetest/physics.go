package enginetest

import (
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape is a fake collision shape.
type Shape struct {
	kind   physics.ShapeKind
	half   mgl32.Vec3
	radius float32
}

var _ physics.Shape = &Shape{}

func (s *Shape) Kind() physics.ShapeKind { return s.kind }
func (s *Shape) HalfExtents() mgl32.Vec3 { return s.half }
func (s *Shape) Radius() float32 { return s.radius }

// Ray is one recorded NearestCollision query.
type Ray struct {
	From, To mgl32.Vec3
}

// Body is a fake rigid body recording impulses and serving a scripted ray distance.
type Body struct {
	Shape    physics.Shape
	Mass     float32
	Rot      mgl32.Quat
	Position mgl32.Vec3
	Vel      mgl32.Vec3
	Gravity  mgl32.Vec3

	// Distance and Hit answer every NearestCollision.
	Distance float32
	Hit      bool

	Impulses    []mgl32.Vec3
	Stops       int
	Rays        []Ray
	Actor       bool
	Repositions []mgl32.Vec3
}

var _ physics.Body = &Body{}

func (b *Body) UpdateTransform(m *mgl32.Mat4) {
	*m = mgl32.Translate3D(b.Position.X(), b.Position.Y(), b.Position.Z()).Mul4(b.Rot.Mat4())
}

func (b *Body) SetGravity(g mgl32.Vec3) {
	b.Gravity = g
}

func (b *Body) SetActorParams() {
	b.Actor = true
}

func (b *Body) Stop() {
	b.Stops++
	b.Vel = mgl32.Vec3{}
}

func (b *Body) Impulse(v mgl32.Vec3) {
	b.Impulses = append(b.Impulses, v)
	b.Vel = b.Vel.Add(v)
}

func (b *Body) NearestCollision(from, to mgl32.Vec3) (float32, bool) {
	b.Rays = append(b.Rays, Ray{From: from, To: to})
	return b.Distance, b.Hit
}

func (b *Body) Pos() mgl32.Vec3 {
	return b.Position
}

func (b *Body) Reposition(pos mgl32.Vec3) {
	b.Position = pos
	b.Repositions = append(b.Repositions, pos)
}

func (b *Body) Velocity() mgl32.Vec3 {
	return b.Vel
}

// Physics is a fake physics backend keeping every created body.
type Physics struct {
	Bodies  []*Body
	Walls   []*Body
	Updates []float32
}

var _ physics.Backend = &Physics{}

func (p *Physics) MakeBoxShape(halfExtents mgl32.Vec3) physics.Shape {
	return &Shape{kind: physics.ShapeBox, half: halfExtents, radius: halfExtents.Len()}
}

func (p *Physics) MakeSphereShape(r float32) physics.Shape {
	return &Shape{kind: physics.ShapeSphere, half: mgl32.Vec3{r, r, r}, radius: r}
}

func (p *Physics) MakeRigidBody(shape physics.Shape, pos mgl32.Vec3, rot mgl32.Quat, mass float32) physics.Body {
	b := &Body{Shape: shape, Mass: mass, Rot: rot, Position: pos}
	p.Bodies = append(p.Bodies, b)
	return b
}

func (p *Physics) MakeWall(normal, pos mgl32.Vec3) physics.Body {
	b := &Body{Shape: &Shape{kind: physics.ShapePlane}, Rot: mgl32.QuatIdent(), Position: pos}
	p.Walls = append(p.Walls, b)
	return b
}

func (p *Physics) LaseNormal(from, to mgl32.Vec3) (mgl32.Vec3, bool) {
	return mgl32.Vec3{-1, -1, -1}, false
}

func (p *Physics) LasePos(from, to mgl32.Vec3) (mgl32.Vec3, bool) {
	return mgl32.Vec3{-1, -1, -1}, false
}

func (p *Physics) Update(elapsed float32) {
	p.Updates = append(p.Updates, elapsed)
}
