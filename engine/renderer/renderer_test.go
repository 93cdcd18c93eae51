package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/camera"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/driver"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/light"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crate struct {
	surface *graphics.Surface
}

func (c *crate) IsEntity() {}

func (c *crate) DrawInstances(ctx *core.Context, target entity.DrawTarget, buf *graphics.InstanceBuffer, count int) {
	target.SetMaterial(ctx, nil)
	target.DrawSurface(ctx, c.surface, buf, count)
}

func newCamera(t *testing.T, h *enginetest.Harness, pos, tgt mgl32.Vec3) *instancing.Instances[camera.Camera] {
	cam := camera.NewCamera(h.Ctx, camera.WithLookAt(pos, tgt))
	in, err := instancing.NewInstance(h.Ctx, cam, instancing.LookAt(pos, tgt))
	require.NoError(t, err)
	return in
}

func TestRenderPass(t *testing.T) {
	h := enginetest.New(640, 480)
	screen := h.Graphics.ScreenBuffer()

	NewRenderPass(h.Ctx).Target(screen).Clear().Cull(true)
	assert.Equal(t, []string{"screen"}, h.Graphics.Bound)
	assert.Equal(t, []string{"screen"}, h.Graphics.Clears)
	assert.True(t, h.Graphics.Culling)

	fxaa, err := pipeline.NewFXAA(h.Ctx)
	require.NoError(t, err)
	_, err = pipeline.NewGeom(h.Ctx)
	require.NoError(t, err)

	got := Filter(NewRenderPass(h.Ctx), fxaa)
	assert.Same(t, fxaa, got)
	got.SetBufSize(1, 2)
	assert.Equal(t, mgl32.Vec2{1, 2}, h.Graphics.Uniforms["fxaa.uv2_framebufsize"])
}

func TestBuffersFollowScreen(t *testing.T) {
	h := enginetest.New(640, 480)
	gb, err := NewGBuffer(h.Ctx)
	require.NoError(t, err)
	bb, err := NewBackBuffer(h.Ctx)
	require.NoError(t, err)

	assert.Equal(t, 640, gb.Width())
	for _, name := range []string{pipeline.AttachmentPosition, pipeline.AttachmentNormal, pipeline.AttachmentAlbedoSpec, pipeline.AttachmentFog} {
		_, ok := gb.Attachment(name)
		assert.True(t, ok, name)
	}
	_, ok := bb.Attachment(pipeline.AttachmentColor)
	assert.True(t, ok)

	h.Platform.Resize(1024, 768)
	assert.Equal(t, 1024, gb.Width())
	assert.Equal(t, 768, bb.Height())
	tex, _ := gb.Attachment(pipeline.AttachmentNormal)
	assert.Equal(t, uint32(1024), tex.Width)

	require.NoError(t, gb.Close())
	h.Platform.Resize(800, 600)
	assert.Equal(t, 1024, gb.Width())
	assert.Equal(t, 800, bb.Width())
}

func TestDeferredRecord(t *testing.T) {
	h := enginetest.New(640, 480)
	d, err := NewDeferred(h.Ctx)
	require.NoError(t, err)

	crates, err := instancing.NewInstances(h.Ctx, 200, &crate{surface: &graphics.Surface{Label: "crate"}},
		func(int) (mgl32.Mat4, error) {
			return common.Translation(common.RandomVec3(100, 400, 100)), nil
		})
	require.NoError(t, err)
	cam := newCamera(t, h, mgl32.Vec3{-100, 0, -100}, mgl32.Vec3{0, 100, 0})

	lights := make([]light.Light, 32)
	for i := range lights {
		lights[i] = light.Randomize(300, 400, 300)
	}
	require.NoError(t, d.Configure(h.Ctx, func(geom *pipeline.Geom, rigged *pipeline.RiggedGeom, l *pipeline.Light) error {
		return l.Use(h.Ctx).SetLights(lights)
	}))
	assert.Equal(t, float32(32), h.Graphics.Uniforms["light.uf_light_count"])

	h.Graphics.Reset()
	err = d.Record(h.Ctx, func(geom *pipeline.Geom, rigged *pipeline.RiggedGeom, l *pipeline.Light) error {
		geom.SetCamera(cam).Draw(h.Ctx, crates)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"gbuffer", "backbuffer", "screen"}, h.Graphics.Bound)
	assert.Equal(t, []string{"gbuffer", "backbuffer", "screen"}, h.Graphics.Clears)
	assert.Equal(t, []string{"light", "fxaa"}, h.Graphics.Quads)
	assert.Equal(t, []enginetest.DepthCopy{{From: "gbuffer", To: "screen"}}, h.Graphics.DepthCopies)

	require.Len(t, h.Graphics.Draws, 1)
	assert.Equal(t, "gbuffer", h.Graphics.Draws[0].Target)
	assert.Equal(t, "geom", h.Graphics.Draws[0].Program)
	assert.Equal(t, 200, h.Graphics.Draws[0].Count)

	pos, _ := d.GBuffer().Attachment(pipeline.AttachmentPosition)
	color, _ := d.BackBuffer().Attachment(pipeline.AttachmentColor)
	assert.Same(t, pos, h.Graphics.Textures["light.s2d_position"])
	assert.Same(t, color, h.Graphics.Textures["fxaa.s2d_buf"])
	assert.Equal(t, mgl32.Vec2{640, 480}, h.Graphics.Uniforms["fxaa.uv2_framebufsize"])
}

func TestDeferredWithoutFXAA(t *testing.T) {
	h := enginetest.New(640, 480)
	d, err := NewDeferred(h.Ctx, WithFXAA(false), WithFogDensity(0.01))
	require.NoError(t, err)
	assert.Nil(t, d.BackBuffer())
	assert.Equal(t, float32(0.01), h.Graphics.Uniforms["geom.fog_density"])
	assert.Equal(t, float32(0.01), h.Graphics.Uniforms["geom_rigged.fog_density"])

	h.Graphics.Reset()
	require.NoError(t, d.Record(h.Ctx, func(*pipeline.Geom, *pipeline.RiggedGeom, *pipeline.Light) error { return nil }))
	assert.Equal(t, []string{"gbuffer", "screen"}, h.Graphics.Bound)
	assert.Equal(t, []string{"light"}, h.Graphics.Quads)
	assert.Len(t, h.Graphics.DepthCopies, 1)
}

func TestDeferredCommandError(t *testing.T) {
	h := enginetest.New(640, 480)
	d, err := NewDeferred(h.Ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	h.Graphics.Reset()
	err = d.Record(h.Ctx, func(*pipeline.Geom, *pipeline.RiggedGeom, *pipeline.Light) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.Graphics.Quads)
	assert.Empty(t, h.Graphics.DepthCopies)
}

func TestForwardEndToEnd(t *testing.T) {
	h := enginetest.New(800, 600)
	f, err := NewForward(h.Ctx, WithClearColor(mgl32.Vec4{0, 0, 0, 1}))
	require.NoError(t, err)

	surf := &graphics.Surface{Label: "zombie"}
	zombie, err := instancing.NewInstance(h.Ctx, &crate{surface: surf}, instancing.Origin)
	require.NoError(t, err)
	eye := mgl32.Vec3{10, 0, -20}
	placed, err := instancing.NewInstance(h.Ctx, camera.NewCamera(h.Ctx), instancing.Origin)
	require.NoError(t, err)
	cam, err := driver.NewDriven(h.Ctx, placed, driver.Hover(driver.PovLookAt(eye, mgl32.Vec3{})))
	require.NoError(t, err)

	// The frame update must rewrite the view transform from the point of view.
	*placed.At(0) = mgl32.Ident4()
	h.Graphics.Reset()
	require.NoError(t, cam.Update(h.Ctx))
	require.NoError(t, zombie.Update(h.Ctx))
	assert.Equal(t, 2, h.Graphics.Uploads)

	err = f.Record(h.Ctx, func(fw *pipeline.Forward, rigged *pipeline.ForwardRigged) error {
		fw.SetCamera(cam.DrivablePtr()).Draw(h.Ctx, zombie)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"screen"}, h.Graphics.Bound)
	assert.True(t, h.Graphics.Culling)
	require.Len(t, h.Graphics.Draws, 1)
	d := h.Graphics.Draws[0]
	assert.Equal(t, "forward", d.Program)
	assert.Equal(t, 1, d.Count)
	assert.Same(t, surf, d.Surface)

	view := common.ViewLookAt(eye, mgl32.Vec3{}, common.Up)
	assert.Equal(t, view, *placed.At(0))
	assert.Equal(t, placed.Get().Proj.Mul4(view), h.Graphics.Uniforms["forward.um4_mvp"])
	assert.Equal(t, eye, h.Graphics.Uniforms["forward.uv3_eyepos"])
}
