package renderer

import (
	"log"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/pkg/errors"
)

// ScreenBuffer is an off-screen framebuffer that follows the screen size.
type ScreenBuffer struct {
	graphics.Framebuffer
	screen *platform.Screen
}

var _ platform.ScreenSubscriber = &ScreenBuffer{}

func newScreenBuffer(ctx *core.Context, desc graphics.FramebufferDescriptor) (*ScreenBuffer, error) {
	if ctx == nil || ctx.Graphics == nil {
		panic("renderer: buffers require a graphics backend")
	}
	screen := ctx.Screen()
	if screen != nil {
		desc.Width, desc.Height = screen.Width(), screen.Height()
	} else {
		sb := ctx.Graphics.ScreenBuffer()
		desc.Width, desc.Height = sb.Width(), sb.Height()
	}
	fb, err := ctx.Graphics.CreateFramebuffer(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "renderer: create %s", desc.Label)
	}
	b := &ScreenBuffer{Framebuffer: fb, screen: screen}
	if screen != nil {
		screen.Subscribe(b)
	}
	return b, nil
}

// OnScreenResize reallocates the attachments at the new size.
func (b *ScreenBuffer) OnScreenResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == b.Width() && height == b.Height() {
		return
	}
	if err := b.Resize(width, height); err != nil {
		log.Printf("renderer: resize %s to %dx%d: %v", b.Label(), width, height, err)
	}
}

// Close unsubscribes the buffer from the screen.
func (b *ScreenBuffer) Close() error {
	if b.screen != nil {
		b.screen.Unsubscribe(b)
		b.screen = nil
	}
	return nil
}

// NewGBuffer creates the geometry buffer of deferred rendering: depth plus world
// positions and normals at 16 bits, albedo with specular and fog at 8 bits.
//
// Parameters:
//   - ctx: the frame context
//
// Returns:
//   - *ScreenBuffer: the g-buffer, labelled "gbuffer"
//   - error: error if the framebuffer could not be created
func NewGBuffer(ctx *core.Context) (*ScreenBuffer, error) {
	return newScreenBuffer(ctx, graphics.FramebufferDescriptor{
		Label: "gbuffer",
		Attachments: []graphics.Attachment{
			{Name: pipeline.AttachmentPosition, Format: graphics.AttachmentRGB16},
			{Name: pipeline.AttachmentNormal, Format: graphics.AttachmentRGB16},
			{Name: pipeline.AttachmentAlbedoSpec, Format: graphics.AttachmentRGBA},
			{Name: pipeline.AttachmentFog, Format: graphics.AttachmentRGBA},
		},
		Depth: true,
	})
}

// NewBackBuffer creates a depth and color buffer used as input of filter passes.
//
// Parameters:
//   - ctx: the frame context
//
// Returns:
//   - *ScreenBuffer: the back buffer, labelled "backbuffer"
//   - error: error if the framebuffer could not be created
func NewBackBuffer(ctx *core.Context) (*ScreenBuffer, error) {
	return newScreenBuffer(ctx, graphics.FramebufferDescriptor{
		Label:       "backbuffer",
		Attachments: []graphics.Attachment{{Name: pipeline.AttachmentColor, Format: graphics.AttachmentRGBA}},
		Depth:       true,
	})
}
