package renderer

import (
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

type rendererConfig struct {
	clearColor  mgl32.Vec4
	fxaa        bool
	fogDensity  float32
	pipelineOpt map[string][]pipeline.PipelineBuilderOption
}

func defaultRendererConfig() *rendererConfig {
	return &rendererConfig{
		clearColor:  DefaultClearColor,
		fxaa:        true,
		pipelineOpt: make(map[string][]pipeline.PipelineBuilderOption),
	}
}

func (c *rendererConfig) optionsOf(name string) []pipeline.PipelineBuilderOption {
	return c.pipelineOpt[name]
}

// RendererBuilderOption is a functional option applied to a renderer during construction.
type RendererBuilderOption func(*rendererConfig)

// WithClearColor sets the color every pass of the renderer clears to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that sets the clear color
func WithClearColor(color mgl32.Vec4) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.clearColor = color
	}
}

// WithFXAA switches the anti-aliasing filter of the deferred renderer. When off, the
// lighting pass renders to the screen directly and no back buffer is allocated.
//
// Parameters:
//   - on: true to filter through FXAA (default)
//
// Returns:
//   - RendererBuilderOption: a function that sets the filter
func WithFXAA(on bool) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.fxaa = on
	}
}

// WithFogDensity sets the initial fog density of the geometry pipelines.
//
// Parameters:
//   - density: the exponential fog density, 0 disables fog
//
// Returns:
//   - RendererBuilderOption: a function that sets the fog density
func WithFogDensity(density float32) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.fogDensity = density
	}
}

// WithPipelineSource replaces the built-in source of one of the renderer's programs,
// e.g. "geom" or "forward_rigged".
//
// Parameters:
//   - name: the program name
//   - source: the program source
//
// Returns:
//   - RendererBuilderOption: a function that sets the program source
func WithPipelineSource(name, source string) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.pipelineOpt[name] = append(c.pipelineOpt[name], pipeline.WithSource(source))
	}
}
