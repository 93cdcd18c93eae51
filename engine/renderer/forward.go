package renderer

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/pkg/errors"
)

// ForwardCommands issues a scene's draws. forward is in use when the callback starts.
type ForwardCommands func(forward *pipeline.Forward, rigged *pipeline.ForwardRigged) error

// Forward renders straight to the screen with a directional light.
type Forward struct {
	cfg *rendererConfig

	forward *pipeline.Forward
	rigged  *pipeline.ForwardRigged
}

// NewForward compiles the forward programs.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the renderer
//
// Returns:
//   - *Forward: the renderer
//   - error: error if a program could not be created
func NewForward(ctx *core.Context, options ...RendererBuilderOption) (*Forward, error) {
	cfg := defaultRendererConfig()
	for _, option := range options {
		option(cfg)
	}
	f := &Forward{cfg: cfg}

	var err error
	if f.forward, err = pipeline.NewForward(ctx, cfg.optionsOf("forward")...); err != nil {
		return nil, errors.Wrap(err, "renderer: forward")
	}
	f.forward.SetLightDirection(pipeline.DefaultLightDirection).SetAmbient(pipeline.DefaultAmbient)
	if f.rigged, err = pipeline.NewForwardRigged(ctx, cfg.optionsOf("forward_rigged")...); err != nil {
		return nil, errors.Wrap(err, "renderer: forward")
	}
	f.rigged.SetLightDirection(pipeline.DefaultLightDirection).SetAmbient(pipeline.DefaultAmbient)
	return f, nil
}

// Record targets the screen, clears it, turns culling on and runs cmds.
func (f *Forward) Record(ctx *core.Context, cmds ForwardCommands) error {
	pass := NewRenderPass(ctx).Target(ctx.Graphics.ScreenBuffer())
	pass.color = f.cfg.clearColor
	pass.Clear().Cull(true)
	return cmds(Filter(pass, f.forward), f.rigged)
}

// Pipeline returns the static forward pipeline.
func (f *Forward) Pipeline() *pipeline.Forward {
	return f.forward
}

// Rigged returns the skinned forward pipeline.
func (f *Forward) Rigged() *pipeline.ForwardRigged {
	return f.rigged
}

func (f *Forward) Close() error {
	return nil
}
