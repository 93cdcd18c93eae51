package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type rayHit struct {
	t      float32
	point  mgl32.Vec3
	normal mgl32.Vec3
}

// raycast returns the closest hit on the segment from-to, skipping one body.
func (w *world) raycast(from, to mgl32.Vec3, skip *body) (rayHit, bool) {
	dir := to.Sub(from)
	best := rayHit{t: math32.MaxFloat32}
	found := false
	test := func(b *body) {
		if b == skip {
			return
		}
		var t float32
		var n mgl32.Vec3
		var ok bool
		switch b.shape.kind {
		case ShapeSphere:
			t, n, ok = raySphere(from, dir, b.pos, b.shape.radius)
		case ShapeBox:
			t, n, ok = rayBox(from, dir, b)
		case ShapePlane:
			t, n, ok = rayPlane(from, dir, b)
		}
		if ok && t < best.t {
			best = rayHit{t: t, point: from.Add(dir.Mul(t)), normal: n}
			found = true
		}
	}
	for _, b := range w.bodies {
		test(b)
	}
	for _, b := range w.walls {
		test(b)
	}
	return best, found
}

func raySphere(from, dir, center mgl32.Vec3, r float32) (float32, mgl32.Vec3, bool) {
	m := from.Sub(center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, mgl32.Vec3{}, false
	}
	b := m.Dot(dir)
	c := m.Dot(m) - r*r
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl32.Vec3{}, false
	}
	t := (-b - math32.Sqrt(disc)) / a
	if t < 0 {
		// Starting inside the sphere reports the exit point.
		t = (-b + math32.Sqrt(disc)) / a
	}
	if t < 0 || t > 1 {
		return 0, mgl32.Vec3{}, false
	}
	n := from.Add(dir.Mul(t)).Sub(center).Normalize()
	return t, n, true
}

// rayBox runs the slab test in the box's local frame.
func rayBox(from, dir mgl32.Vec3, b *body) (float32, mgl32.Vec3, bool) {
	inv := b.rot.Conjugate()
	o := inv.Rotate(from.Sub(b.pos))
	d := inv.Rotate(dir)
	h := b.shape.half

	tmin, tmax := float32(0), float32(1)
	axis, sign := -1, float32(0)
	for i := 0; i < 3; i++ {
		if math32.Abs(d[i]) < 1e-9 {
			if o[i] < -h[i] || o[i] > h[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (-h[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis, sign = i, s
		}
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, mgl32.Vec3{}, false
		}
	}
	var n mgl32.Vec3
	if axis >= 0 {
		n[axis] = sign
	}
	return tmin, b.rot.Rotate(n), true
}

func rayPlane(from, dir mgl32.Vec3, wall *body) (float32, mgl32.Vec3, bool) {
	n := wall.normal
	denom := n.Dot(dir)
	if math32.Abs(denom) < 1e-9 {
		return 0, mgl32.Vec3{}, false
	}
	t := (1 - n.Dot(from.Sub(wall.pos))) / denom
	if t < 0 || t > 1 {
		return 0, mgl32.Vec3{}, false
	}
	return t, n, true
}
