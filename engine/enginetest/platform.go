package enginetest

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
	"github.com/cogentcore/webgpu/wgpu"
)

// Platform is a fake platform serving scripted input.
type Platform struct {
	screen *platform.Screen

	Keys     map[common.Key]bool
	Button   bool
	DX, DY   float32
	Captured bool

	// Frames is the number of ProcessEvents calls answered true before answering false.
	// Zero never quits.
	Frames int
	polls  int

	onResize func(width, height int)
	onKey    func(key common.Key)
}

var _ platform.Backend = &Platform{}

// NewPlatform creates a fake platform with a screen of the given size.
func NewPlatform(width, height int) *Platform {
	return &Platform{screen: platform.NewScreen(width, height), Keys: make(map[common.Key]bool)}
}

// Press sets a key state and fires the key callback for presses.
func (p *Platform) Press(key common.Key, down bool) {
	p.Keys[key] = down
	if down && p.onKey != nil {
		p.onKey(key)
	}
}

// Resize changes the screen size and fires the resize callback.
func (p *Platform) Resize(width, height int) {
	p.screen.Resize(width, height)
	if p.onResize != nil {
		p.onResize(width, height)
	}
}

func (p *Platform) ProcessEvents() bool {
	p.polls++
	return p.Frames == 0 || p.polls <= p.Frames
}

func (p *Platform) UpdateWindow() {}
func (p *Platform) UpdateKeyboard() {}
func (p *Platform) UpdateMouse() {}

func (p *Platform) IsKeyPressed(key common.Key) bool {
	return p.Keys[key]
}

func (p *Platform) IsButtonPressed() bool {
	return p.Button
}

func (p *Platform) Mouse() (float32, float32) {
	if !p.Captured {
		return 0, 0
	}
	return p.DX, p.DY
}

func (p *Platform) CaptureMouse() bool {
	p.Captured = true
	return true
}

func (p *Platform) ReleaseMouse() {
	p.Captured = false
}

func (p *Platform) Screen() *platform.Screen {
	return p.screen
}

func (p *Platform) SetResizeCallback(callback func(width, height int)) {
	p.onResize = callback
}

func (p *Platform) SetKeyCallback(callback func(key common.Key)) {
	p.onKey = callback
}

func (p *Platform) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (p *Platform) Close() error {
	return nil
}
