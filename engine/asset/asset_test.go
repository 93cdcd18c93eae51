package asset

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type target struct {
	materials []material.Material
	surfaces  []*graphics.Surface
	counts    []int
}

func (t *target) SetMaterial(ctx *core.Context, mat material.Material) {
	t.materials = append(t.materials, mat)
}

func (t *target) DrawSurface(ctx *core.Context, s *graphics.Surface, buf *graphics.InstanceBuffer, count int) {
	t.surfaces = append(t.surfaces, s)
	t.counts = append(t.counts, count)
}

type bones struct {
	reals []mgl32.Vec4
}

func (b *bones) SetBones(reals, duals []mgl32.Vec4) {
	b.reals = reals
}

func meshAt(name string, positions ...mgl32.Vec3) *model.Mesh {
	m := &model.Mesh{Name: name}
	for _, p := range positions {
		m.Vertices = append(m.Vertices, model.Vertex{Position: p})
	}
	m.Triangles = []model.Triangle{{0, 1, 2}}
	return m
}

func crate() *model.Model {
	return &model.Model{
		Name: "crate",
		Meshes: []*model.Mesh{
			meshAt("lid", mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 4, 6}, mgl32.Vec3{1, 1, 1}),
			meshAt("body", mgl32.Vec3{-2, -1, -4}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}),
		},
	}
}

func TestAssetSurfacesAndBounds(t *testing.T) {
	h := enginetest.New(640, 480)
	a, err := NewAsset(h.Ctx, crate())
	require.NoError(t, err)

	require.Len(t, a.Surfaces(), 2)
	assert.Equal(t, "lid", a.Surfaces()[0].Label)
	assert.Equal(t, "crate", a.Name())
	assert.Equal(t, mgl32.Vec3{2, 2.5, 5}, a.Bounds())
	assert.Equal(t, float32(5), a.Radius())
	assert.False(t, a.Rigged())
}

func TestAssetBoundsSpanOrigin(t *testing.T) {
	h := enginetest.New(640, 480)
	a, err := NewAsset(h.Ctx, &model.Model{Meshes: []*model.Mesh{
		meshAt("far", mgl32.Vec3{10, 10, 10}, mgl32.Vec3{12, 14, 16}, mgl32.Vec3{11, 11, 11}),
	}})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{6, 7, 8}, a.Bounds())
}

func TestAssetDrawInstances(t *testing.T) {
	h := enginetest.New(640, 480)
	mat := material.NewMaterial(material.WithName("wood"))
	a, err := NewAsset(h.Ctx, crate(), WithMaterial(mat), WithName("box"))
	require.NoError(t, err)
	assert.Equal(t, "box", a.Name())

	in, err := instancing.NewInstances(h.Ctx, 4, a, nil)
	require.NoError(t, err)
	d, ok := entity.DrawableOf(in)
	require.True(t, ok)

	tg := &target{}
	d.DrawInstances(h.Ctx, tg, in.Buffer(), in.Size())
	assert.Equal(t, []material.Material{mat}, tg.materials)
	assert.Equal(t, a.Surfaces(), tg.surfaces)
	assert.Equal(t, []int{4, 4}, tg.counts)

	a.SetEnabled(false)
	tg = &target{}
	d.DrawInstances(h.Ctx, tg, in.Buffer(), in.Size())
	assert.Empty(t, tg.surfaces)
}

func TestAssetIDsAreUnique(t *testing.T) {
	h := enginetest.New(640, 480)
	a, err := NewAsset(h.Ctx, crate())
	require.NoError(t, err)
	b, err := NewAsset(h.Ctx, crate())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestAnimated(t *testing.T) {
	h := enginetest.New(640, 480)
	m := crate()
	for _, mesh := range m.Meshes {
		mesh.Rigged = true
		mesh.Weights = make([]model.Weights, len(mesh.Vertices))
	}
	a, err := NewAsset(h.Ctx, m)
	require.NoError(t, err)
	assert.True(t, a.Rigged())

	rest := animation.NewFrame([]int{-1}, []mgl32.Vec3{{}}, []mgl32.Quat{mgl32.QuatIdent()})
	skel := animation.NewSkeleton([]animation.Bone{{Name: "root", Parent: -1}}, rest)
	fox := NewAnimated(a, skel)

	b := &bones{}
	assert.ErrorIs(t, fox.Bind(h.Ctx, b), animation.ErrNoStrips)

	walk := animation.NewAnimation(skel, []*animation.Frame{rest}, true)
	require.True(t, fox.Play(walk, 0))
	require.NoError(t, fox.Update(h.Ctx))
	require.NoError(t, fox.Bind(h.Ctx, b))
	assert.Len(t, b.reals, 1)

	in, err := instancing.NewInstance(h.Ctx, fox, nil)
	require.NoError(t, err)
	f := in.Facets()
	assert.NotNil(t, f.Drawable)
	assert.NotNil(t, f.Animatable)
}
