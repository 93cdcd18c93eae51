package engine

import (
	"time"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/audio"
	"github.com/Carmen-Shannon/gdt-go/engine/config"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfileInterval sets how often the profiler logs.
//
// Parameters:
//   - interval: the logging interval, 1 second by default
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfileInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if interval > 0 {
			e.profileInterval = interval
		}
	}
}

// WithDebug enables verbose logging in components reading core.Context.Debug.
//
// Parameters:
//   - debug: true to log
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDebug(debug bool) EngineBuilderOption {
	return func(e *engine) {
		e.debug = debug
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithScene registers a scene factory at the given key. The scene is built when Run starts.
//
// Parameters:
//   - key: the order of the scene, lower updates and renders first
//   - factory: the scene factory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, factory core.SceneFactory) EngineBuilderOption {
	return func(e *engine) {
		e.factories[key] = factory
	}
}

// WithPlatform uses the given platform backend instead of creating a GLFW window.
//
// Parameters:
//   - b: the platform backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPlatform(b platform.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.ctx.Platform = b
	}
}

// WithGraphics uses the given graphics backend instead of creating a WebGPU device.
//
// Parameters:
//   - b: the graphics backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGraphics(b graphics.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.ctx.Graphics = b
	}
}

// WithPhysics uses the given physics backend instead of the built-in one.
//
// Parameters:
//   - b: the physics backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPhysics(b physics.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.ctx.Physics = b
	}
}

// WithAudio uses the given audio backend instead of opening the speaker.
//
// Parameters:
//   - b: the audio backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAudio(b audio.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.ctx.Audio = b
	}
}

// WithPlatformOptions configures the platform backend the engine creates.
//
// Parameters:
//   - options: the platform options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPlatformOptions(options ...platform.BackendOption) EngineBuilderOption {
	return func(e *engine) {
		e.platformOptions = append(e.platformOptions, options...)
	}
}

// WithGraphicsOptions configures the graphics backend the engine creates.
//
// Parameters:
//   - options: the graphics options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGraphicsOptions(options ...graphics.BackendOption) EngineBuilderOption {
	return func(e *engine) {
		e.graphicsOptions = append(e.graphicsOptions, options...)
	}
}

// WithPhysicsOptions configures the physics backend the engine creates.
//
// Parameters:
//   - options: the physics options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPhysicsOptions(options ...physics.BackendOption) EngineBuilderOption {
	return func(e *engine) {
		e.physicsOptions = append(e.physicsOptions, options...)
	}
}

// WithAudioOptions configures the audio backend the engine creates.
//
// Parameters:
//   - options: the audio options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAudioOptions(options ...audio.BackendOption) EngineBuilderOption {
	return func(e *engine) {
		e.audioOptions = append(e.audioOptions, options...)
	}
}

// FromConfig translates a config into engine options. Settings owned by other components
// (FXAA, driver tuning, resource root) are read from the config by the scenes.
// An empty title or audio buffer falls back to the defaults.
//
// Parameters:
//   - cfg: the config
//
// Returns:
//   - []EngineBuilderOption: the options, to be passed to NewEngine
func FromConfig(cfg *config.Config) []EngineBuilderOption {
	def := config.Default()
	if cfg == nil {
		cfg = def
	}
	return []EngineBuilderOption{
		WithPlatformOptions(
			platform.WithTitle(common.Coalesce(cfg.Window.Title, def.Window.Title)),
			platform.WithSize(cfg.Window.Width, cfg.Window.Height),
		),
		WithGraphicsOptions(graphics.WithVSync(cfg.Window.VSync)),
		WithPhysicsOptions(
			physics.WithGravity(cfg.GravityVec()),
			physics.WithFixedStep(cfg.Physics.FixedStep),
		),
		WithAudioOptions(
			audio.WithSampleRate(cfg.Audio.SampleRate),
			audio.WithBufferMillis(common.Coalesce(cfg.Audio.BufferMillis, def.Audio.BufferMillis)),
		),
		WithProfiling(cfg.Profiling),
		WithProfileInterval(time.Duration(cfg.ProfileSeconds * float64(time.Second))),
		WithDebug(cfg.Debug),
	}
}
