package driver

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
)

// mouseSensitivity converts mouse deltas in pixels to follow angles.
const mouseSensitivity = 0.001

// WSADController maps keyboard and mouse input to point of view verbs.
type WSADController struct {
	// StopOnNothing stops the driver in frames without movement keys.
	StopOnNothing bool

	mouseActive bool
}

// NewWSADController creates a controller that stops when no key is held.
func NewWSADController() *WSADController {
	return &WSADController{StopOnNothing: true}
}

// MouseActive reports whether mouse motion steers the view.
func (c *WSADController) MouseActive() bool {
	return c.mouseActive
}

// Update reads the platform input of this frame and drives d.
//
// Parameters:
//   - ctx: the frame context providing the platform backend
//   - d: the driver to steer
func (c *WSADController) Update(ctx *core.Context, d PovDriver) {
	p := ctx.Platform
	pressed := false
	if p.IsKeyPressed(common.KeySpace) {
		d.Jump()
		pressed = true
	}
	if p.IsKeyPressed(common.KeyW) {
		d.Dolly(1)
		pressed = true
	}
	if p.IsKeyPressed(common.KeyS) {
		d.Dolly(-1)
		pressed = true
	}
	if p.IsKeyPressed(common.KeyD) {
		d.Truck(1)
		pressed = true
	}
	if p.IsKeyPressed(common.KeyA) {
		d.Truck(-1)
		pressed = true
	}
	if p.IsKeyPressed(common.KeyEsc) {
		c.mouseActive = false
		p.ReleaseMouse()
	}
	if p.IsButtonPressed() && p.CaptureMouse() {
		c.mouseActive = true
	}
	if !pressed && c.StopOnNothing {
		d.Stop()
	}

	dx, dy := p.Mouse()
	if c.mouseActive {
		d.Follow(-dx*mouseSensitivity, dy*mouseSensitivity)
	}
}
