package renderer

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultClearColor is the color Clear fills a target with.
var DefaultClearColor = mgl32.Vec4{0.9, 0.9, 0.9, 0}

// RenderPass directs following pipeline calls and draws to one framebuffer,
// either the screen or an off-screen buffer.
//
//	renderer.NewRenderPass(ctx).Target(ctx.Graphics.ScreenBuffer()).Clear()
type RenderPass struct {
	ctx   *core.Context
	color mgl32.Vec4
}

// NewRenderPass creates a render pass clearing to DefaultClearColor.
//
// Parameters:
//   - ctx: the frame context
//
// Returns:
//   - *RenderPass: the render pass
func NewRenderPass(ctx *core.Context) *RenderPass {
	if ctx == nil || ctx.Graphics == nil {
		panic("renderer: NewRenderPass requires a graphics backend")
	}
	return &RenderPass{ctx: ctx, color: DefaultClearColor}
}

// Target binds fb for following clears and draws.
func (r *RenderPass) Target(fb graphics.Framebuffer) *RenderPass {
	r.ctx.Graphics.BindFramebuffer(fb)
	return r
}

// Clear clears the target with the pass color.
func (r *RenderPass) Clear() *RenderPass {
	r.ctx.Graphics.Clear(r.color)
	return r
}

// ClearColor sets the pass color and clears the target with it.
func (r *RenderPass) ClearColor(color mgl32.Vec4) *RenderPass {
	r.color = color
	return r.Clear()
}

// Cull switches back face culling.
func (r *RenderPass) Cull(on bool) *RenderPass {
	if on {
		r.ctx.Graphics.CullOn()
	} else {
		r.ctx.Graphics.CullOff()
	}
	return r
}

// Usable is a pipeline whose Use returns itself for chaining.
type Usable[P any] interface {
	Use(ctx *core.Context) P
}

// Filter uses p on the pass and returns it, so filter pipelines chain off the pass.
//
//	renderer.Filter(pass.Target(bb).Clear(), fxaa).BindInput(bb)
//
// Parameters:
//   - r: the render pass
//   - p: the pipeline
//
// Returns:
//   - P: p, in use
func Filter[P Usable[P]](r *RenderPass, p P) P {
	return p.Use(r.ctx)
}
