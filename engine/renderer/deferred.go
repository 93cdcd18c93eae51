package renderer

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/pkg/errors"
)

// DeferredCommands issues a scene's geometry draws. Static entities are drawn with
// geom, rigged ones with rigged; light is the lighting pass, for eye position and lights.
// geom is in use when the callback starts; binds apply to the pipeline in use, so call
// Use before switching to another one.
type DeferredCommands func(geom *pipeline.Geom, rigged *pipeline.RiggedGeom, light *pipeline.Light) error

// Deferred renders geometry into a g-buffer, shades it with up to 32 point lights into
// a back buffer and filters that through FXAA onto the screen.
type Deferred struct {
	cfg *rendererConfig

	geom   *pipeline.Geom
	rigged *pipeline.RiggedGeom
	light  *pipeline.Light
	fxaa   *pipeline.FXAA

	gbuffer    *ScreenBuffer
	backBuffer *ScreenBuffer
}

// NewDeferred compiles the geometry, lighting and FXAA programs and allocates the
// g-buffer and back buffer at the screen size.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the renderer
//
// Returns:
//   - *Deferred: the renderer
//   - error: error if a program or framebuffer could not be created
func NewDeferred(ctx *core.Context, options ...RendererBuilderOption) (*Deferred, error) {
	cfg := defaultRendererConfig()
	for _, option := range options {
		option(cfg)
	}
	d := &Deferred{cfg: cfg}

	var err error
	if d.geom, err = pipeline.NewGeom(ctx, cfg.optionsOf("geom")...); err != nil {
		return nil, errors.Wrap(err, "renderer: deferred")
	}
	d.geom.SetFogDensity(cfg.fogDensity)
	if d.rigged, err = pipeline.NewRiggedGeom(ctx, cfg.optionsOf("geom_rigged")...); err != nil {
		return nil, errors.Wrap(err, "renderer: deferred")
	}
	d.rigged.SetFogDensity(cfg.fogDensity)
	if d.light, err = pipeline.NewLight(ctx, cfg.optionsOf("light")...); err != nil {
		return nil, errors.Wrap(err, "renderer: deferred")
	}
	if d.gbuffer, err = NewGBuffer(ctx); err != nil {
		return nil, err
	}
	if cfg.fxaa {
		if d.fxaa, err = pipeline.NewFXAA(ctx, cfg.optionsOf("fxaa")...); err != nil {
			d.Close()
			return nil, errors.Wrap(err, "renderer: deferred")
		}
		if d.backBuffer, err = NewBackBuffer(ctx); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// Configure hands the geometry and lighting pipelines to fn outside of any pass, for
// state that holds across frames such as the lights.
//
// Parameters:
//   - ctx: the frame context
//   - fn: the configuration callback
//
// Returns:
//   - error: the error returned by fn
func (d *Deferred) Configure(ctx *core.Context, fn DeferredCommands) error {
	return fn(d.geom.Use(ctx), d.rigged, d.light)
}

// Record runs the frame:
//  1. g-buffer: clear, cull on, cmds
//  2. back buffer: clear, lighting over the g-buffer
//  3. screen: clear, FXAA over the back buffer
//  4. depth copy from the g-buffer to the screen, for forward draws on top
//
// Without FXAA the lighting pass renders to the screen and step 3 is skipped.
func (d *Deferred) Record(ctx *core.Context, cmds DeferredCommands) error {
	screen := ctx.Graphics.ScreenBuffer()

	pass := d.pass(ctx).Target(d.gbuffer).Clear().Cull(true)
	if err := cmds(Filter(pass, d.geom), d.rigged, d.light); err != nil {
		return err
	}

	lit := screen
	if d.fxaa != nil {
		lit = d.backBuffer
	}
	Filter(d.pass(ctx).Target(lit).Clear(), d.light).BindInput(d.gbuffer).RenderQuad()

	if d.fxaa != nil {
		Filter(d.pass(ctx).Target(screen).Clear(), d.fxaa).
			BindInput(d.backBuffer).
			SetBufSize(d.backBuffer.Width(), d.backBuffer.Height()).
			RenderQuad()
	}

	ctx.Graphics.CopyDepth(d.gbuffer, screen)
	return nil
}

func (d *Deferred) pass(ctx *core.Context) *RenderPass {
	p := NewRenderPass(ctx)
	p.color = d.cfg.clearColor
	return p
}

// GBuffer returns the geometry buffer.
func (d *Deferred) GBuffer() *ScreenBuffer {
	return d.gbuffer
}

// BackBuffer returns the FXAA input, nil without FXAA.
func (d *Deferred) BackBuffer() *ScreenBuffer {
	return d.backBuffer
}

// Geom returns the static geometry pipeline.
func (d *Deferred) Geom() *pipeline.Geom {
	return d.geom
}

// RiggedGeom returns the skinned geometry pipeline.
func (d *Deferred) RiggedGeom() *pipeline.RiggedGeom {
	return d.rigged
}

// Light returns the lighting pipeline.
func (d *Deferred) Light() *pipeline.Light {
	return d.light
}

// Close unsubscribes the buffers from the screen.
func (d *Deferred) Close() error {
	if d.gbuffer != nil {
		d.gbuffer.Close()
	}
	if d.backBuffer != nil {
		d.backBuffer.Close()
	}
	return nil
}
