// Package entity defines the optional facets a game object may implement and the
// containers that forward them.
//
// A facet is an interface. A leaf entity implements the facets it supports; containers
// implement Holder and every lookup walks the holder chain until some level implements
// the facet. A facet is therefore reachable from any nesting depth iff every level in
// between either implements it or holds the next level.
package entity

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Entity marks a leaf game object such as an asset, a camera or a text.
type Entity interface {
	IsEntity()
}

// Holder is implemented by containers. Content returns the held value, which may be
// another Holder.
type Holder interface {
	Content() any
}

// DrawTarget receives the surfaces of a drawable. Pipelines implement it.
type DrawTarget interface {
	// SetMaterial binds the textures of following surfaces.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - mat: the material, nil binds the fallback textures
	SetMaterial(ctx *core.Context, mat material.Material)

	// DrawSurface issues one instanced draw.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - surface: the uploaded mesh
	//   - buf: the instance transforms
	//   - count: the number of instances to draw
	DrawSurface(ctx *core.Context, surface *graphics.Surface, buf *graphics.InstanceBuffer, count int)
}

// Drawable can issue its own draw calls against a pipeline.
type Drawable interface {
	// DrawInstances draws count instances of every surface with the transforms in buf.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - target: the pipeline receiving the surfaces
	//   - buf: the instance transforms
	//   - count: the number of instances
	DrawInstances(ctx *core.Context, target DrawTarget, buf *graphics.InstanceBuffer, count int)
}

// BoneTarget receives the skinning data of an animatable. Rigged pipelines implement it.
type BoneTarget interface {
	// SetBones uploads one dual quaternion per bone.
	//
	// Parameters:
	//   - reals: the rotation parts packed as (x, y, z, w)
	//   - duals: the translation parts packed as (x, y, z, w)
	SetBones(reals, duals []mgl32.Vec4)
}

// Animatable binds skeletal animation data before its drawable is drawn.
type Animatable interface {
	// Bind blends the active animations and uploads the bones.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - target: the pipeline receiving the bones
	//
	// Returns:
	//   - error: error if nothing is playing
	Bind(ctx *core.Context, target BoneTarget) error
}

// Drivable exposes the state a driver mutates, for example the camera point of view.
type Drivable interface {
	Drivable() any
}

// Collidable supplies what a physics body is built from.
type Collidable interface {
	// Shape returns the collision shape.
	Shape() physics.Shape

	// Mass returns the body mass; zero makes the body static.
	Mass() float32
}

// Transformable owns instance transforms in a graphics instance buffer.
type Transformable interface {
	// Size returns the number of transforms.
	Size() int

	// At returns the transform of slot i.
	At(i int) *mgl32.Mat4

	// Buffer returns the instance buffer holding the transforms.
	Buffer() *graphics.InstanceBuffer
}

// Updatable is implemented by content that advances per frame.
type Updatable interface {
	Update(ctx *core.Context) error
}
