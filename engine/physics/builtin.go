package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// contactSlop is the penetration left uncorrected so resting contacts stay touching.
	contactSlop = 0.01

	defaultRestitution = 0.1
	defaultFriction    = 0.4
)

type shape struct {
	kind   ShapeKind
	half   mgl32.Vec3
	radius float32
}

var _ Shape = &shape{}

func (s *shape) Kind() ShapeKind {
	return s.kind
}

func (s *shape) HalfExtents() mgl32.Vec3 {
	return s.half
}

func (s *shape) Radius() float32 {
	return s.radius
}

type body struct {
	world *world
	shape *shape

	pos mgl32.Vec3
	rot mgl32.Quat
	vel mgl32.Vec3

	invMass     float32
	gravity     mgl32.Vec3
	ownGravity  bool
	restitution float32
	friction    float32

	// normal is set for walls only.
	normal mgl32.Vec3
}

var _ Body = &body{}

type world struct {
	gravity     mgl32.Vec3
	fixedStep   float32
	maxSubSteps int

	bodies      []*body
	walls       []*body
	accumulator float32
}

var _ Backend = &world{}

func (w *world) MakeBoxShape(halfExtents mgl32.Vec3) Shape {
	return &shape{kind: ShapeBox, half: halfExtents, radius: halfExtents.Len()}
}

func (w *world) MakeSphereShape(r float32) Shape {
	return &shape{kind: ShapeSphere, half: mgl32.Vec3{r, r, r}, radius: r}
}

func (w *world) MakeRigidBody(s Shape, pos mgl32.Vec3, rot mgl32.Quat, mass float32) Body {
	if s == nil {
		panic("physics: MakeRigidBody requires a shape")
	}
	sh, ok := s.(*shape)
	if !ok {
		sh = &shape{kind: s.Kind(), half: s.HalfExtents(), radius: s.Radius()}
	}
	b := &body{
		world:       w,
		shape:       sh,
		pos:         pos,
		rot:         rot.Normalize(),
		restitution: defaultRestitution,
		friction:    defaultFriction,
	}
	if mass > 0 {
		b.invMass = 1 / mass
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *world) MakeWall(normal, pos mgl32.Vec3) Body {
	b := &body{
		world:    w,
		shape:    &shape{kind: ShapePlane},
		pos:      pos,
		rot:      mgl32.QuatIdent(),
		normal:   normal.Normalize(),
		friction: defaultFriction,
	}
	w.walls = append(w.walls, b)
	return b
}

func (w *world) LaseNormal(from, to mgl32.Vec3) (mgl32.Vec3, bool) {
	hit, ok := w.raycast(from, to, nil)
	if !ok {
		return mgl32.Vec3{-1, -1, -1}, false
	}
	return hit.normal, true
}

func (w *world) LasePos(from, to mgl32.Vec3) (mgl32.Vec3, bool) {
	hit, ok := w.raycast(from, to, nil)
	if !ok {
		return mgl32.Vec3{-1, -1, -1}, false
	}
	return hit.point, true
}

// Update advances the world in fixed sub steps. Time beyond maxSubSteps is dropped.
func (w *world) Update(elapsed float32) {
	if elapsed <= 0 {
		return
	}
	w.accumulator += elapsed
	steps := 0
	for w.accumulator >= w.fixedStep && steps < w.maxSubSteps {
		w.step(w.fixedStep)
		w.accumulator -= w.fixedStep
		steps++
	}
	if steps == w.maxSubSteps {
		w.accumulator = min(w.accumulator, w.fixedStep)
	}
}

func (w *world) step(dt float32) {
	for _, b := range w.bodies {
		if b.invMass == 0 {
			continue
		}
		g := w.gravity
		if b.ownGravity {
			g = b.gravity
		}
		b.vel = b.vel.Add(g.Mul(dt))
		b.pos = b.pos.Add(b.vel.Mul(dt))
	}

	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			if a.invMass == 0 && b.invMass == 0 {
				continue
			}
			if n, depth, ok := contact(a, b); ok {
				resolve(a, b, n, depth)
			}
		}
		if a.invMass == 0 {
			continue
		}
		for _, wall := range w.walls {
			resolveWall(a, wall)
		}
	}
}

// extent returns the half size of the body's world space bounding box.
func (b *body) extent() mgl32.Vec3 {
	if b.shape.kind == ShapeSphere {
		return b.shape.half
	}
	m := b.rot.Mat4()
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += math32.Abs(m.At(i, j)) * b.shape.half[j]
		}
	}
	return out
}

// supportDepth is the distance from the body center to its farthest point against normal n.
func (b *body) supportDepth(n mgl32.Vec3) float32 {
	if b.shape.kind == ShapeSphere {
		return b.shape.radius
	}
	e := b.extent()
	return math32.Abs(n.X())*e.X() + math32.Abs(n.Y())*e.Y() + math32.Abs(n.Z())*e.Z()
}

// contact returns the normal pointing from a to b and the penetration depth.
func contact(a, b *body) (mgl32.Vec3, float32, bool) {
	if a.shape.kind == ShapeSphere && b.shape.kind == ShapeSphere {
		d := b.pos.Sub(a.pos)
		dist := d.Len()
		depth := a.shape.radius + b.shape.radius - dist
		if depth <= 0 {
			return mgl32.Vec3{}, 0, false
		}
		if dist < 1e-6 {
			return mgl32.Vec3{0, 1, 0}, depth, true
		}
		return d.Mul(1 / dist), depth, true
	}
	if a.shape.kind == ShapeSphere {
		n, depth, ok := sphereBox(a, b)
		return n, depth, ok
	}
	if b.shape.kind == ShapeSphere {
		n, depth, ok := sphereBox(b, a)
		return n.Mul(-1), depth, ok
	}
	return boxBox(a, b)
}

func sphereBox(s, box *body) (mgl32.Vec3, float32, bool) {
	e := box.extent()
	lo, hi := box.pos.Sub(e), box.pos.Add(e)
	closest := mgl32.Vec3{
		mgl32.Clamp(s.pos.X(), lo.X(), hi.X()),
		mgl32.Clamp(s.pos.Y(), lo.Y(), hi.Y()),
		mgl32.Clamp(s.pos.Z(), lo.Z(), hi.Z()),
	}
	d := closest.Sub(s.pos)
	dist := d.Len()
	if dist >= s.shape.radius {
		return mgl32.Vec3{}, 0, false
	}
	if dist > 1e-6 {
		return d.Mul(1 / dist), s.shape.radius - dist, true
	}
	// Center inside the box: push out along the shallowest axis.
	n, depth, _ := boxBox(s, box)
	return n, depth + s.shape.radius, true
}

func boxBox(a, b *body) (mgl32.Vec3, float32, bool) {
	ea, eb := a.extent(), b.extent()
	d := b.pos.Sub(a.pos)
	best := float32(math32.MaxFloat32)
	var n mgl32.Vec3
	for i := 0; i < 3; i++ {
		overlap := ea[i] + eb[i] - math32.Abs(d[i])
		if overlap <= 0 {
			return mgl32.Vec3{}, 0, false
		}
		if overlap < best {
			best = overlap
			n = mgl32.Vec3{}
			n[i] = 1
			if d[i] < 0 {
				n[i] = -1
			}
		}
	}
	return n, best, true
}

func resolve(a, b *body, n mgl32.Vec3, depth float32) {
	total := a.invMass + b.invMass
	if total == 0 {
		return
	}
	if correction := depth - contactSlop; correction > 0 {
		a.pos = a.pos.Sub(n.Mul(correction * a.invMass / total))
		b.pos = b.pos.Add(n.Mul(correction * b.invMass / total))
	}

	rel := b.vel.Sub(a.vel)
	vn := rel.Dot(n)
	if vn >= 0 {
		return
	}
	e := min(a.restitution, b.restitution)
	j := -(1 + e) * vn / total
	a.vel = a.vel.Sub(n.Mul(j * a.invMass))
	b.vel = b.vel.Add(n.Mul(j * b.invMass))

	rel = b.vel.Sub(a.vel)
	tangent := rel.Sub(n.Mul(rel.Dot(n)))
	if tl := tangent.Len(); tl > 1e-6 {
		mu := (a.friction + b.friction) / 2
		jt := min(tl/total, mu*j)
		t := tangent.Mul(1 / tl)
		a.vel = a.vel.Add(t.Mul(jt * a.invMass))
		b.vel = b.vel.Sub(t.Mul(jt * b.invMass))
	}
}

func resolveWall(b, wall *body) {
	n := wall.normal
	dist := n.Dot(b.pos.Sub(wall.pos)) - 1 - b.supportDepth(n)
	if dist >= 0 {
		return
	}
	if correction := -dist - contactSlop; correction > 0 {
		b.pos = b.pos.Add(n.Mul(correction))
	}
	vn := b.vel.Dot(n)
	if vn >= 0 {
		return
	}
	normalVel := n.Mul(vn)
	tangent := b.vel.Sub(normalVel)
	b.vel = tangent.Sub(normalVel.Mul(b.restitution))

	// Coulomb friction bounded by the normal impulse.
	if tl := tangent.Len(); tl > 1e-6 {
		drop := min(tl, (b.friction+wall.friction)/2*(-vn)*(1+b.restitution))
		b.vel = b.vel.Sub(tangent.Mul(drop / tl))
	}
}

func (b *body) UpdateTransform(m *mgl32.Mat4) {
	*m = mgl32.Translate3D(b.pos.X(), b.pos.Y(), b.pos.Z()).Mul4(b.rot.Mat4())
}

func (b *body) SetGravity(g mgl32.Vec3) {
	b.gravity = g
	b.ownGravity = true
}

func (b *body) SetActorParams() {
	b.rot = mgl32.QuatIdent()
	b.restitution = 0
}

func (b *body) Stop() {
	b.Impulse(b.vel.Mul(-1))
}

func (b *body) Impulse(v mgl32.Vec3) {
	b.vel = b.vel.Add(v.Mul(b.invMass))
}

func (b *body) NearestCollision(from, to mgl32.Vec3) (float32, bool) {
	hit, ok := b.world.raycast(from, to, b)
	if !ok {
		return 0, false
	}
	return b.pos.Y() - hit.point.Y(), true
}

func (b *body) Pos() mgl32.Vec3 {
	return b.pos
}

func (b *body) Reposition(pos mgl32.Vec3) {
	b.pos = pos
	b.rot = mgl32.QuatIdent()
	b.vel = mgl32.Vec3{}
}

func (b *body) Velocity() mgl32.Vec3 {
	return b.vel
}
