// Package asset turns loaded models into drawable entities.
package asset

import (
	"log"
	"sync/atomic"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var nextID atomic.Uint64

// Asset is a drawable entity holding one uploaded surface per mesh of a model.
// It carries no placement; wrap it in instancing.Instances to put it in the world.
type Asset struct {
	id       uint64
	name     string
	surfaces []*graphics.Surface
	material material.Material
	lo, hi   mgl32.Vec3
	enabled  atomic.Bool
	debug    bool
}

var (
	_ entity.Entity   = &Asset{}
	_ entity.Drawable = &Asset{}
)

// NewAsset uploads every mesh of m.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - m: the loaded model
//   - options: functional options to configure the asset
//
// Returns:
//   - *Asset: the asset
//   - error: error if a mesh could not be uploaded
func NewAsset(ctx *core.Context, m *model.Model, options ...AssetBuilderOption) (*Asset, error) {
	if ctx == nil || ctx.Graphics == nil {
		panic("asset: NewAsset requires a graphics backend")
	}
	if m == nil {
		panic("asset: NewAsset requires a model")
	}
	a := &Asset{id: nextID.Add(1), name: m.Name}
	a.enabled.Store(true)
	for _, option := range options {
		option(a)
	}

	for i, mesh := range m.Meshes {
		s, err := ctx.Graphics.CreateSurface(mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "asset: upload mesh %d of %s", i, m.Name)
		}
		a.surfaces = append(a.surfaces, s)
		if len(mesh.Vertices) == 0 {
			continue
		}
		lo, hi := mesh.Bounds()
		for axis := 0; axis < 3; axis++ {
			a.lo[axis] = math32.Min(a.lo[axis], lo[axis])
			a.hi[axis] = math32.Max(a.hi[axis], hi[axis])
		}
	}
	if a.debug {
		log.Printf("asset: %s bounds are %v", a.name, a.Bounds())
	}
	return a, nil
}

func (a *Asset) IsEntity() {}

// DrawInstances binds the material then draws every surface count times.
func (a *Asset) DrawInstances(ctx *core.Context, target entity.DrawTarget, buf *graphics.InstanceBuffer, count int) {
	if !a.enabled.Load() {
		return
	}
	target.SetMaterial(ctx, a.material)
	for _, s := range a.surfaces {
		target.DrawSurface(ctx, s, buf, count)
	}
}

// ID returns the asset's unique identifier.
func (a *Asset) ID() uint64 {
	return a.id
}

func (a *Asset) Name() string {
	return a.name
}

// Surfaces returns the uploaded meshes in model order.
func (a *Asset) Surfaces() []*graphics.Surface {
	return a.surfaces
}

// Material returns the material bound before the surfaces are drawn, nil for the
// pipeline fallback.
func (a *Asset) Material() material.Material {
	return a.material
}

func (a *Asset) SetMaterial(mat material.Material) {
	a.material = mat
}

// Bounds returns the half extents of the box spanning the origin and every vertex.
func (a *Asset) Bounds() mgl32.Vec3 {
	return a.hi.Sub(a.lo).Mul(0.5)
}

// Radius returns the largest half extent.
func (a *Asset) Radius() float32 {
	b := a.Bounds()
	return math32.Max(b.X(), math32.Max(b.Y(), b.Z()))
}

// Rigged reports whether any surface carries bone weights.
func (a *Asset) Rigged() bool {
	for _, s := range a.surfaces {
		if s.Rigged {
			return true
		}
	}
	return false
}

func (a *Asset) Enabled() bool {
	return a.enabled.Load()
}

// SetEnabled toggles drawing.
func (a *Asset) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}
