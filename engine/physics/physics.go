// Package physics defines the rigid body contract the engine consumes and a built-in
// implementation stepping sphere and box bodies against each other and infinite walls.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BackendType identifies the physics implementation.
type BackendType int

const (
	// BackendTypeBuiltin selects the built-in semi-implicit Euler simulation.
	BackendTypeBuiltin BackendType = iota
)

// ShapeKind classifies a collision shape.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapePlane
)

// Shape is a collision shape that rigid bodies are built from.
type Shape interface {
	// Kind returns the shape classification.
	Kind() ShapeKind

	// HalfExtents returns the half size of a box, or the radius on every axis for a sphere.
	HalfExtents() mgl32.Vec3

	// Radius returns the bounding sphere radius of the shape.
	Radius() float32
}

// Body is a simulated rigid body.
type Body interface {
	// UpdateTransform writes the simulated world transform of the body.
	//
	// Parameters:
	//   - m: destination transform, overwritten with rotation and translation
	UpdateTransform(m *mgl32.Mat4)

	// SetGravity overrides the world gravity for this body.
	//
	// Parameters:
	//   - g: gravity acceleration
	SetGravity(g mgl32.Vec3)

	// SetActorParams configures the body as a character: no rotation, no bounce, never sleeps.
	SetActorParams()

	// Stop applies the impulse cancelling the current velocity.
	Stop()

	// Impulse applies a central impulse.
	//
	// Parameters:
	//   - v: the impulse vector
	Impulse(v mgl32.Vec3)

	// NearestCollision casts a ray against the world, ignoring this body.
	//
	// Parameters:
	//   - from: ray start
	//   - to: ray end
	//
	// Returns:
	//   - float32: the height of the body above the closest hit point
	//   - bool: false when the ray hits nothing
	NearestCollision(from, to mgl32.Vec3) (float32, bool)

	// Pos returns the body position.
	Pos() mgl32.Vec3

	// Reposition teleports the body, resetting its rotation and velocity.
	//
	// Parameters:
	//   - pos: the new position
	Reposition(pos mgl32.Vec3)

	// Velocity returns the current linear velocity.
	Velocity() mgl32.Vec3
}

// Backend creates shapes and bodies and steps the simulation.
type Backend interface {
	// MakeBoxShape creates a box shape.
	//
	// Parameters:
	//   - halfExtents: half size on each axis
	//
	// Returns:
	//   - Shape: the box shape
	MakeBoxShape(halfExtents mgl32.Vec3) Shape

	// MakeSphereShape creates a sphere shape.
	//
	// Parameters:
	//   - r: the radius
	//
	// Returns:
	//   - Shape: the sphere shape
	MakeSphereShape(r float32) Shape

	// MakeRigidBody adds a dynamic body to the world.
	//
	// Parameters:
	//   - shape: the collision shape
	//   - pos: initial position
	//   - rot: initial rotation
	//   - mass: body mass, 0 for a static body
	//
	// Returns:
	//   - Body: the new body
	MakeRigidBody(shape Shape, pos mgl32.Vec3, rot mgl32.Quat, mass float32) Body

	// MakeWall adds an infinite static plane. The plane holds the points x with
	// normal·(x - pos) = 1.
	//
	// Parameters:
	//   - normal: plane normal
	//   - pos: plane origin
	//
	// Returns:
	//   - Body: the static wall body
	MakeWall(normal, pos mgl32.Vec3) Body

	// LaseNormal casts a ray and returns the surface normal at the closest hit.
	//
	// Parameters:
	//   - from: ray start
	//   - to: ray end
	//
	// Returns:
	//   - mgl32.Vec3: the hit normal
	//   - bool: false when the ray hits nothing
	LaseNormal(from, to mgl32.Vec3) (mgl32.Vec3, bool)

	// LasePos casts a ray and returns the closest hit point.
	//
	// Parameters:
	//   - from: ray start
	//   - to: ray end
	//
	// Returns:
	//   - mgl32.Vec3: the hit point
	//   - bool: false when the ray hits nothing
	LasePos(from, to mgl32.Vec3) (mgl32.Vec3, bool)

	// Update steps the simulation.
	//
	// Parameters:
	//   - elapsed: seconds since the previous step
	Update(elapsed float32)
}

// NewBackend creates a physics backend of the given type.
//
// Parameters:
//   - backendType: the implementation to create
//   - options: functional options configuring the world
//
// Returns:
//   - Backend: the physics backend
func NewBackend(backendType BackendType, options ...BackendOption) Backend {
	w := &world{
		gravity:     mgl32.Vec3{0, -10, 0},
		fixedStep:   1.0 / 60.0,
		maxSubSteps: 10,
	}
	for _, opt := range options {
		opt(w)
	}

	switch backendType {
	case BackendTypeBuiltin:
		return w
	default:
		return w
	}
}
