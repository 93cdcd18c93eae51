package pipeline

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// AttachmentColor is the back-buffer attachment the FXAA pass reads.
const AttachmentColor = "color"

// FXAA anti-aliases a color buffer onto the bound target.
type FXAA struct {
	*Pipeline
	buf, size graphics.Location
}

// NewFXAA compiles the "fxaa" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *FXAA: the pipeline, in use
//   - error: error if the program fails to compile
func NewFXAA(ctx *core.Context, options ...PipelineBuilderOption) (*FXAA, error) {
	p, err := New(ctx, "fxaa", options...)
	if err != nil {
		return nil, err
	}
	return &FXAA{Pipeline: p, buf: p.AddSampler("s2d_buf"), size: p.AddUniform("uv2_framebufsize")}, nil
}

// Use selects the program and returns the pipeline for chaining.
func (f *FXAA) Use(ctx *core.Context) *FXAA {
	f.Pipeline.Use(ctx)
	return f
}

// BindInput samples the color attachment of a back buffer.
func (f *FXAA) BindInput(backBuffer graphics.Framebuffer) *FXAA {
	if tex, ok := backBuffer.Attachment(AttachmentColor); ok {
		f.BindSampler(f.buf, tex)
	}
	return f
}

// SetBufSize sets the input size in pixels.
func (f *FXAA) SetBufSize(width, height int) *FXAA {
	f.BindVec2Uniform(f.size, mgl32.Vec2{float32(width), float32(height)})
	return f
}
