package pipeline

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/driver"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// fallback holds the textures bound when a material lacks a map.
type fallback struct {
	diffuse, normal, specular *graphics.Texture
}

var (
	fallbackMu sync.Mutex
	fallbacks  = make(map[graphics.Backend]*fallback)
)

// fallbackOf returns the fallback textures of the context backend, creating them on first
// use. Every mesh pipeline of a backend shares one set; Close of the backend releases it.
func fallbackOf(ctx *core.Context) (*fallback, error) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()

	if f, ok := fallbacks[ctx.Graphics]; ok {
		return f, nil
	}
	f, err := newFallback(ctx)
	if err != nil {
		return nil, err
	}
	fallbacks[ctx.Graphics] = f
	return f, nil
}

func newFallback(ctx *core.Context) (*fallback, error) {
	f := &fallback{}
	for _, t := range []struct {
		dst  **graphics.Texture
		data common.TextureData
	}{
		{&f.diffuse, common.SolidTexture(255, 255, 255, 255)},
		{&f.normal, common.SolidTexture(128, 128, 255, 255)},
		{&f.specular, common.SolidTexture(0, 0, 0, 255)},
	} {
		tex, err := ctx.Graphics.CreateTexture(t.data)
		if err != nil {
			return nil, errors.Wrap(err, "pipeline: create fallback texture")
		}
		*t.dst = tex
	}
	return f, nil
}

// surfaceInputs are the material samplers and vertex attributes shared by the mesh pipelines.
type surfaceInputs struct {
	*Pipeline
	fallback *fallback
	rigged   bool

	diffuse, normal, specular graphics.Location

	position, nor, tangent, texcoord graphics.Location
	bindices, bweights               graphics.Location
	transform                        graphics.Location
}

var _ entity.DrawTarget = &surfaceInputs{}

func newSurfaceInputs(ctx *core.Context, name string, rigged bool, options []PipelineBuilderOption) (*surfaceInputs, error) {
	// Before the program, so a texture failure leaves nothing compiled.
	fb, err := fallbackOf(ctx)
	if err != nil {
		return nil, err
	}
	p, err := New(ctx, name, options...)
	if err != nil {
		return nil, err
	}
	s := &surfaceInputs{
		Pipeline: p,
		fallback: fb,
		rigged:   rigged,
		diffuse:  p.AddSampler("tex_diffuse"),
		normal:   p.AddSampler("tex_normal"),
		specular: p.AddSampler("tex_specular"),
		position: p.AddAttrib("av4_position"),
		nor:      p.AddAttrib("av3_normal"),
		tangent:  p.AddAttrib("av3_tangent"),
		texcoord: p.AddAttrib("av2_texcoord"),
		bindices: graphics.NoLocation,
		bweights: graphics.NoLocation,

		transform: p.AddAttrib("am4_transform"),
	}
	if rigged {
		s.bindices = p.AddAttrib("av3_bindices")
		s.bweights = p.AddAttrib("av3_bweights")
	}
	s.SetMaterial(ctx, nil)
	return s, nil
}

// SetMaterial binds the material maps; missing maps bind the fallback textures.
func (s *surfaceInputs) SetMaterial(ctx *core.Context, mat material.Material) {
	d, n, sp := s.fallback.diffuse, s.fallback.normal, s.fallback.specular
	if mat != nil {
		if t := mat.Diffuse(); t != nil {
			d = t
		}
		if t := mat.Normal(); t != nil {
			n = t
		}
		if t := mat.Specular(); t != nil {
			sp = t
		}
	}
	s.BindSampler(s.diffuse, d)
	s.BindSampler(s.normal, n)
	s.BindSampler(s.specular, sp)
}

func (s *surfaceInputs) bindVertexAttribs() {
	stride := model.Stride
	if s.rigged {
		stride = model.RiggedStride
	}
	s.BindFloatAttrib(s.position, 3, stride, model.OffsetPosition)
	s.BindFloatAttrib(s.nor, 3, stride, model.OffsetNormal)
	s.BindFloatAttrib(s.tangent, 3, stride, model.OffsetTangent)
	s.BindFloatAttrib(s.texcoord, 2, stride, model.OffsetUV)
	if s.rigged {
		s.BindFloatAttrib(s.bindices, 3, stride, model.OffsetBoneIDs)
		s.BindFloatAttrib(s.bweights, 3, stride, model.OffsetBoneWeights)
	}
}

// DisableAll removes every vertex attribute of the pipeline from the layout.
func (s *surfaceInputs) DisableAll() {
	for _, loc := range []graphics.Location{s.position, s.nor, s.tangent, s.texcoord, s.bindices, s.bweights, s.transform} {
		s.DisableAttrib(loc)
	}
}

// DrawSurface draws count instances of surface. A static surface drawn by a rigged
// pipeline, or the reverse, is skipped because the vertex strides differ.
func (s *surfaceInputs) DrawSurface(ctx *core.Context, surface *graphics.Surface, buf *graphics.InstanceBuffer, count int) {
	if surface == nil || count <= 0 {
		return
	}
	if surface.Rigged != s.rigged {
		log.Printf("pipeline: %s skips surface %s (rigged %t)", s.name, surface.Label, surface.Rigged)
		return
	}
	s.bindVertexAttribs()
	s.BindInstancesData(s.transform, buf)
	s.gfx.DrawInstanced(surface, buf, count)
}

// boneInputs are the dual quaternion uniforms of the rigged pipelines.
type boneInputs struct {
	p            *Pipeline
	reals, duals graphics.Location
}

var _ entity.BoneTarget = &boneInputs{}

func newBoneInputs(p *Pipeline) boneInputs {
	return boneInputs{p: p, reals: p.AddUniform("uv4_quat_reals"), duals: p.AddUniform("uv4_quat_duals")}
}

func (b *boneInputs) SetBones(reals, duals []mgl32.Vec4) {
	b.p.BindVec4ArrayUniform(b.reals, reals)
	b.p.BindVec4ArrayUniform(b.duals, duals)
}

// drawEntity draws every instance of what. With bones set the animatable facet is bound
// first; an animatable that fails to bind is logged and skipped.
func drawEntity(ctx *core.Context, target entity.DrawTarget, bones entity.BoneTarget, what any) {
	d, ok := entity.DrawableOf(what)
	if !ok {
		log.Printf("pipeline: %T is not drawable", what)
		return
	}
	tr, ok := entity.TransformableOf(what)
	if !ok {
		log.Printf("pipeline: %T has no transforms", what)
		return
	}
	if bones != nil {
		if a, ok := entity.AnimatableOf(what); ok {
			if err := a.Bind(ctx, bones); err != nil {
				log.Printf("pipeline: skip %T: %v", what, err)
				return
			}
		}
	}
	d.DrawInstances(ctx, target, tr.Buffer(), tr.Size())
}

// viewOf returns the point of view of a camera instance and its view transform in slot 0.
func viewOf(camera any) (*driver.Pov, mgl32.Mat4) {
	pov, ok := entity.DrivableAs[*driver.Pov](camera)
	if !ok {
		panic(errors.Errorf("pipeline: SetCamera requires a point of view, got %T", camera))
	}
	view := common.ViewLookAt(pov.Pos, pov.Tgt, common.Up)
	if tr, ok := entity.TransformableOf(camera); ok && tr.Size() > 0 {
		view = *tr.At(0)
	}
	return pov, view
}
