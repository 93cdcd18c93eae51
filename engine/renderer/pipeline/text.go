package pipeline

import (
	"log"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// textSpread is the distance field spread of the font atlases in pixels.
	textSpread  = 10
	textOutline = 1
)

// Text draws signed distance field glyph quads.
type Text struct {
	*Pipeline

	tex                                 graphics.Location
	mvp, otr, smoothing, outline, color graphics.Location
	position, texcoord                  graphics.Location
}

var _ entity.DrawTarget = &Text{}

// NewText compiles the "text" program. Scale 1 and opaque white are bound initially.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *Text: the pipeline, in use
//   - error: error if the program fails to compile
func NewText(ctx *core.Context, options ...PipelineBuilderOption) (*Text, error) {
	p, err := New(ctx, "text", options...)
	if err != nil {
		return nil, err
	}
	t := &Text{
		Pipeline:  p,
		tex:       p.AddSampler("tex"),
		mvp:       p.AddUniform("mvp"),
		otr:       p.AddUniform("otr"),
		smoothing: p.AddUniform("smoothing"),
		outline:   p.AddUniform("outline"),
		color:     p.AddUniform("color"),
		position:  p.AddAttrib("av4_position"),
		texcoord:  p.AddAttrib("av2_texcoord"),
	}
	t.SetScale(1)
	t.SetColor(mgl32.Vec4{1, 1, 1, 1})
	t.SetTransform(mgl32.Ident4())
	return t, nil
}

// Use selects the program and returns the pipeline for chaining.
func (t *Text) Use(ctx *core.Context) *Text {
	t.Pipeline.Use(ctx)
	return t
}

// SetMaterial binds the diffuse map of mat as the glyph atlas.
func (t *Text) SetMaterial(ctx *core.Context, mat material.Material) {
	if mat == nil {
		return
	}
	t.BindSampler(t.tex, mat.Diffuse())
}

// DrawSurface draws a glyph quad mesh once; text is not instanced.
func (t *Text) DrawSurface(ctx *core.Context, surface *graphics.Surface, buf *graphics.InstanceBuffer, count int) {
	if surface == nil {
		return
	}
	t.BindFloatAttrib(t.position, 3, model.Stride, model.OffsetPosition)
	t.BindFloatAttrib(t.texcoord, 2, model.Stride, model.OffsetUV)
	t.gfx.DrawInstanced(surface, nil, 1)
}

// Draw draws a text entity. Slot 0 of its transforms, if any, positions the text.
func (t *Text) Draw(ctx *core.Context, what any) *Text {
	d, ok := entity.DrawableOf(what)
	if !ok {
		log.Printf("pipeline: %T is not drawable", what)
		return t
	}
	if tr, ok := entity.TransformableOf(what); ok && tr.Size() > 0 {
		t.SetTransform(*tr.At(0))
	}
	d.DrawInstances(ctx, t, nil, 1)
	return t
}

// SetCamera binds proj * view of a camera instance.
func (t *Text) SetCamera(camera any) *Text {
	pov, view := viewOf(camera)
	t.BindMat4Uniform(t.mvp, pov.Proj.Mul4(view))
	return t
}

func (t *Text) SetModelView(mvp mgl32.Mat4) *Text {
	t.BindMat4Uniform(t.mvp, mvp)
	return t
}

// SetTransform places the text in the world.
func (t *Text) SetTransform(otr mgl32.Mat4) *Text {
	t.BindMat4Uniform(t.otr, otr)
	return t
}

func (t *Text) SetColor(color mgl32.Vec4) *Text {
	t.BindVec4Uniform(t.color, color)
	return t
}

// SetScale derives edge smoothing and outline width from the on-screen scale of the font.
func (t *Text) SetScale(scale float32) *Text {
	if scale <= 0 {
		scale = 1
	}
	t.BindFloatUniform(t.smoothing, 0.25/(textSpread*scale))
	t.BindFloatUniform(t.outline, (textOutline*scale)/(textSpread*scale))
	return t
}
