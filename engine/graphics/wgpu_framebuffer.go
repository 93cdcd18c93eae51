package graphics

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// wgpuTexture is the backend handle stored in Texture.Handle.
type wgpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *wgpuTexture) release() {
	if t == nil {
		return
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// wgpuFramebuffer is a render target backed by wgpu textures.
// The screen framebuffer has no owned color attachment; its view is the surface texture of the current frame.
type wgpuFramebuffer struct {
	backend     *wgpuBackend
	label       string
	width       int
	height      int
	attachments []Attachment
	colors      []*Texture
	depth       *wgpuTexture
	screen      bool

	// depthFrom is set by CopyDepth for the rest of the frame.
	depthFrom *wgpuFramebuffer

	// touched is set once a pass targeted the framebuffer in the current frame.
	touched bool
}

var _ Framebuffer = &wgpuFramebuffer{}

func (f *wgpuFramebuffer) Label() string {
	return f.label
}

func (f *wgpuFramebuffer) Width() int {
	return f.width
}

func (f *wgpuFramebuffer) Height() int {
	return f.height
}

func (f *wgpuFramebuffer) Attachment(name string) (*Texture, bool) {
	for i, a := range f.attachments {
		if a.Name == name {
			return f.colors[i], true
		}
	}
	return nil, false
}

func (f *wgpuFramebuffer) Resize(width, height int) error {
	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()

	return f.resize(width, height)
}

func (f *wgpuFramebuffer) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("framebuffer %s: invalid size %dx%d", f.label, width, height)
	}
	f.width, f.height = width, height
	if f.screen {
		f.backend.configureSurface(width, height)
	}
	return f.allocate()
}

// allocate (re)creates every attachment at the current size. Texture pointers handed out by
// Attachment stay valid; only their handles change.
func (f *wgpuFramebuffer) allocate() error {
	b := f.backend
	for i, a := range f.attachments {
		if f.colors[i] == nil {
			f.colors[i] = &Texture{Label: f.label + " " + a.Name}
		}
		if old, ok := f.colors[i].Handle.(*wgpuTexture); ok {
			old.release()
		}
		tex, err := b.createRenderTexture(f.label+" "+a.Name, f.width, f.height, attachmentFormat(a.Format), wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
		if err != nil {
			return err
		}
		f.colors[i].Handle = tex
		f.colors[i].Width = uint32(f.width)
		f.colors[i].Height = uint32(f.height)
	}

	f.depth.release()
	depth, err := b.createRenderTexture(f.label+" depth", f.width, f.height, wgpu.TextureFormatDepth24Plus, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	f.depth = depth
	return nil
}

// formats returns the color target formats in attachment order.
func (f *wgpuFramebuffer) formats() []wgpu.TextureFormat {
	if f.screen {
		return []wgpu.TextureFormat{f.backend.surfaceFormat}
	}
	out := make([]wgpu.TextureFormat, len(f.attachments))
	for i, a := range f.attachments {
		out[i] = attachmentFormat(a.Format)
	}
	return out
}

// colorViews returns the views rendered into by a pass on this framebuffer.
func (f *wgpuFramebuffer) colorViews() []*wgpu.TextureView {
	if f.screen {
		return []*wgpu.TextureView{f.backend.frameView}
	}
	out := make([]*wgpu.TextureView, len(f.colors))
	for i, c := range f.colors {
		out[i] = c.Handle.(*wgpuTexture).view
	}
	return out
}

func (f *wgpuFramebuffer) depthView() *wgpu.TextureView {
	if f.depthFrom != nil {
		return f.depthFrom.depth.view
	}
	return f.depth.view
}

func (f *wgpuFramebuffer) release() {
	for _, c := range f.colors {
		if c != nil {
			if h, ok := c.Handle.(*wgpuTexture); ok {
				h.release()
			}
		}
	}
	f.depth.release()
}

func attachmentFormat(format AttachmentFormat) wgpu.TextureFormat {
	switch format {
	case AttachmentRGB16:
		return wgpu.TextureFormatRGBA16Float
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}
