package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/camera"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/light"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mesh struct {
	surface *graphics.Surface
	mat     material.Material
}

func (m *mesh) IsEntity() {}

func (m *mesh) DrawInstances(ctx *core.Context, target entity.DrawTarget, buf *graphics.InstanceBuffer, count int) {
	target.SetMaterial(ctx, m.mat)
	target.DrawSurface(ctx, m.surface, buf, count)
}

type skinned struct {
	mesh
	err   error
	binds int
}

func (s *skinned) Bind(ctx *core.Context, target entity.BoneTarget) error {
	if s.err != nil {
		return s.err
	}
	s.binds++
	target.SetBones([]mgl32.Vec4{{0, 0, 0, 1}}, []mgl32.Vec4{{}})
	return nil
}

func newCamera(t *testing.T, h *enginetest.Harness, pos mgl32.Vec3) *instancing.Instances[camera.Camera] {
	cam := camera.NewCamera(h.Ctx, camera.WithLookAt(pos, mgl32.Vec3{}))
	in, err := instancing.NewInstance(h.Ctx, cam, instancing.LookAt(pos, mgl32.Vec3{}))
	require.NoError(t, err)
	return in
}

func TestForwardDraw(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx)
	require.NoError(t, err)

	surf := &graphics.Surface{Label: "crate"}
	in, err := instancing.NewInstances(h.Ctx, 3, &mesh{surface: surf}, instancing.Origin)
	require.NoError(t, err)

	f.Use(h.Ctx).Draw(h.Ctx, in)

	require.Len(t, h.Graphics.Draws, 1)
	d := h.Graphics.Draws[0]
	assert.Equal(t, "forward", d.Program)
	assert.Same(t, surf, d.Surface)
	assert.Same(t, in.Buffer(), d.Buffer)
	assert.Equal(t, 3, d.Count)

	assert.Equal(t, [3]int{3, 18, 0}, h.Graphics.Attribs["forward.av4_position"])
	assert.Equal(t, [3]int{3, 18, 3}, h.Graphics.Attribs["forward.av3_normal"])
	assert.Equal(t, [3]int{3, 18, 6}, h.Graphics.Attribs["forward.av3_tangent"])
	assert.Equal(t, [3]int{2, 18, 12}, h.Graphics.Attribs["forward.av2_texcoord"])
	assert.Contains(t, h.Graphics.Attribs, "forward.am4_transform")
}

func TestForwardMaterialFallback(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx)
	require.NoError(t, err)

	diffuse := &graphics.Texture{Label: "wood"}
	f.SetMaterial(h.Ctx, material.NewMaterial(material.WithDiffuse(diffuse)))

	assert.Same(t, diffuse, h.Graphics.Textures["forward.tex_diffuse"])
	assert.Same(t, f.fallback.normal, h.Graphics.Textures["forward.tex_normal"])
	assert.Same(t, f.fallback.specular, h.Graphics.Textures["forward.tex_specular"])
}

func TestMeshPipelinesShareFallbacks(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx)
	require.NoError(t, err)
	g, err := NewGeom(h.Ctx)
	require.NoError(t, err)
	r, err := NewRiggedGeom(h.Ctx)
	require.NoError(t, err)

	assert.Same(t, f.fallback, g.fallback)
	assert.Same(t, f.fallback, r.fallback)
	assert.Equal(t, 3, h.Graphics.CreatedTextures)

	other := enginetest.New(800, 600)
	o, err := NewForward(other.Ctx)
	require.NoError(t, err)
	assert.NotSame(t, f.fallback, o.fallback)
	assert.Equal(t, 3, other.Graphics.CreatedTextures)
}

func TestFallbackFailureCompilesNothing(t *testing.T) {
	h := enginetest.New(800, 600)
	h.Graphics.TextureErr = errors.New("out of memory")

	_, err := NewForward(h.Ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback texture")
	assert.Zero(t, h.Graphics.CreatedPrograms)

	h.Graphics.TextureErr = nil
	_, err = NewForward(h.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Graphics.CreatedPrograms)
	assert.Equal(t, 3, h.Graphics.CreatedTextures)
}

func TestForwardSetCamera(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx)
	require.NoError(t, err)

	pos := mgl32.Vec3{10, 0, -20}
	cam := newCamera(t, h, pos)
	f.SetCamera(cam)

	view := common.ViewLookAt(pos, mgl32.Vec3{}, common.Up)
	assert.Equal(t, pos, h.Graphics.Uniforms["forward.uv3_eyepos"])
	assert.Equal(t, cam.Get().Proj.Mul4(view), h.Graphics.Uniforms["forward.um4_mvp"])
}

func TestSetCameraRequiresPov(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx)
	require.NoError(t, err)

	assert.Panics(t, func() { f.SetCamera(&mesh{}) })
}

func TestRiggedDrawBindsBones(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForwardRigged(h.Ctx)
	require.NoError(t, err)

	s := &skinned{mesh: mesh{surface: &graphics.Surface{Label: "bob", Rigged: true}}}
	in, err := instancing.NewInstance(h.Ctx, s, instancing.Origin)
	require.NoError(t, err)

	f.Use(h.Ctx).Draw(h.Ctx, in)
	assert.Equal(t, 1, s.binds)
	require.Len(t, h.Graphics.DrawsOf("forward_rigged"), 1)
	assert.Equal(t, []mgl32.Vec4{{0, 0, 0, 1}}, h.Graphics.Uniforms["forward_rigged.uv4_quat_reals"])
	assert.Equal(t, [3]int{3, 24, 18}, h.Graphics.Attribs["forward_rigged.av3_bindices"])
	assert.Equal(t, [3]int{3, 24, 21}, h.Graphics.Attribs["forward_rigged.av3_bweights"])
}

func TestRiggedDrawSkipsUnboundAnimatable(t *testing.T) {
	h := enginetest.New(800, 600)
	g, err := NewRiggedGeom(h.Ctx)
	require.NoError(t, err)

	s := &skinned{mesh: mesh{surface: &graphics.Surface{Rigged: true}}, err: errors.New("nothing playing")}
	in, err := instancing.NewInstance(h.Ctx, s, instancing.Origin)
	require.NoError(t, err)

	g.Use(h.Ctx).Draw(h.Ctx, in)
	assert.Empty(t, h.Graphics.Draws)
}

func TestStrideMismatchSkipsSurface(t *testing.T) {
	h := enginetest.New(800, 600)
	g, err := NewGeom(h.Ctx)
	require.NoError(t, err)

	in, err := instancing.NewInstance(h.Ctx, &mesh{surface: &graphics.Surface{Rigged: true}}, instancing.Origin)
	require.NoError(t, err)

	g.Use(h.Ctx).Draw(h.Ctx, in)
	assert.Empty(t, h.Graphics.Draws)
}

func TestGeomFogDensity(t *testing.T) {
	h := enginetest.New(800, 600)
	g, err := NewGeom(h.Ctx)
	require.NoError(t, err)

	g.Use(h.Ctx).SetFogDensity(0.002)
	assert.Equal(t, float32(0.002), h.Graphics.Uniforms["geom.fog_density"])
}

func TestLightSetLights(t *testing.T) {
	h := enginetest.New(800, 600)
	l, err := NewLight(h.Ctx)
	require.NoError(t, err)

	lights := []light.Light{
		light.NewLight(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 0, 0}),
		light.NewLight(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{0, 1, 0}, light.WithAttenuation(0.5, 0.25)),
	}
	require.NoError(t, l.Use(h.Ctx).SetLights(lights))

	u := h.Graphics.Uniforms
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, u["light.lights[0].position"])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, u["light.lights[1].color"])
	assert.Equal(t, float32(0.5), u["light.lights[1].linear"])
	assert.Equal(t, float32(0.25), u["light.lights[1].quadratic"])
	assert.Equal(t, float32(2), u["light.uf_light_count"])
}

func TestLightCap(t *testing.T) {
	h := enginetest.New(800, 600)
	l, err := NewLight(h.Ctx)
	require.NoError(t, err)

	lights := make([]light.Light, light.MaxLights+1)
	err = l.SetLights(lights)
	assert.ErrorIs(t, err, ErrTooManyLights)
	assert.NotContains(t, h.Graphics.Uniforms, "light.uf_light_count")

	assert.NoError(t, l.SetLights(lights[:light.MaxLights]))
}

func TestLightBindInput(t *testing.T) {
	h := enginetest.New(800, 600)
	l, err := NewLight(h.Ctx)
	require.NoError(t, err)

	gb, err := h.Graphics.CreateFramebuffer(graphics.FramebufferDescriptor{
		Label: "gbuffer",
		Attachments: []graphics.Attachment{
			{Name: AttachmentPosition}, {Name: AttachmentNormal}, {Name: AttachmentAlbedoSpec}, {Name: AttachmentFog},
		},
	})
	require.NoError(t, err)

	l.Use(h.Ctx).BindInput(gb)
	pos, _ := gb.Attachment(AttachmentPosition)
	fog, _ := gb.Attachment(AttachmentFog)
	assert.Same(t, pos, h.Graphics.Textures["light.s2d_position"])
	assert.Same(t, fog, h.Graphics.Textures["light.s2d_fog"])
}

func TestFXAAInput(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewFXAA(h.Ctx)
	require.NoError(t, err)

	bb, err := h.Graphics.CreateFramebuffer(graphics.FramebufferDescriptor{
		Label:       "backbuffer",
		Attachments: []graphics.Attachment{{Name: AttachmentColor}},
	})
	require.NoError(t, err)

	f.Use(h.Ctx).BindInput(bb).SetBufSize(800, 600)
	color, _ := bb.Attachment(AttachmentColor)
	assert.Same(t, color, h.Graphics.Textures["fxaa.s2d_buf"])
	assert.Equal(t, mgl32.Vec2{800, 600}, h.Graphics.Uniforms["fxaa.uv2_framebufsize"])
}

func TestTextScale(t *testing.T) {
	h := enginetest.New(800, 600)
	tp, err := NewText(h.Ctx)
	require.NoError(t, err)

	tp.SetScale(2)
	assert.InDelta(t, 0.25/20, h.Graphics.Uniforms["text.smoothing"], 1e-7)
	assert.InDelta(t, 0.1, h.Graphics.Uniforms["text.outline"], 1e-7)
}

func TestTextDraw(t *testing.T) {
	h := enginetest.New(800, 600)
	tp, err := NewText(h.Ctx)
	require.NoError(t, err)

	atlas := &graphics.Texture{Label: "atlas"}
	in, err := instancing.NewInstance(h.Ctx,
		&mesh{surface: &graphics.Surface{Label: "hello"}, mat: material.NewMaterial(material.WithDiffuse(atlas))},
		instancing.At(mgl32.Vec3{1, 2, 0}))
	require.NoError(t, err)

	tp.Use(h.Ctx).Draw(h.Ctx, in)
	require.Len(t, h.Graphics.Draws, 1)
	assert.Equal(t, 1, h.Graphics.Draws[0].Count)
	assert.Same(t, atlas, h.Graphics.Textures["text.tex"])
	assert.Equal(t, common.Translation(mgl32.Vec3{1, 2, 0}), h.Graphics.Uniforms["text.otr"])
}

func TestMissingNamesAreLogged(t *testing.T) {
	h := enginetest.New(800, 600)
	h.Graphics.Missing["fog_density"] = true

	g, err := NewGeom(h.Ctx)
	require.NoError(t, err)
	g.SetFogDensity(1)
	assert.NotContains(t, h.Graphics.Uniforms, "geom.fog_density")
}
