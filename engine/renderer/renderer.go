// Package renderer orchestrates the pipelines of a frame: which framebuffer each pass
// targets, what it clears and which filter reads the previous pass.
package renderer

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
)

// Renderer records one frame. C is the command callback type, which receives the
// renderer's pipelines and issues the scene's draws against them.
type Renderer[C any] interface {
	// Record runs the renderer's passes around cmds.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - cmds: the scene's draw commands
	//
	// Returns:
	//   - error: the error returned by cmds
	Record(ctx *core.Context, cmds C) error

	// Close releases the renderer's screen subscriptions.
	//
	// Returns:
	//   - error: error if a resource could not be released
	Close() error
}

var (
	_ Renderer[DeferredCommands] = &Deferred{}
	_ Renderer[ForwardCommands]  = &Forward{}
)
