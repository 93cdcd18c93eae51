// Package core holds the per-frame context threaded through every engine call, the scene
// contract and frame timing utilities.
package core

import (
	"github.com/Carmen-Shannon/gdt-go/engine/audio"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
)

// Context carries the frame time and the backends. It is created by the engine and passed
// by pointer to every scene, driver and pipeline call; only the frame loop goroutine uses it.
type Context struct {
	// Elapsed is the duration of the previous frame in seconds.
	Elapsed float32

	Platform platform.Backend
	Graphics graphics.Backend
	Physics  physics.Backend
	Audio    audio.Backend

	// Profiler collects named measurements. A nil profiler disables them.
	Profiler *Profiler

	// Debug enables verbose logging in components that support it.
	Debug bool

	quit bool
}

// Quit asks the frame loop to stop after the current frame.
func (c *Context) Quit() {
	c.quit = true
}

// Quitting reports whether Quit was called.
func (c *Context) Quitting() bool {
	return c.quit
}

// Measure returns the named measurement. Without a profiler the measurement is detached
// and only tracks its own average.
//
// Parameters:
//   - name: the measurement name
//
// Returns:
//   - *Measurement: the measurement to Begin and End
func (c *Context) Measure(name string) *Measurement {
	if c.Profiler == nil {
		return newMeasurement(name)
	}
	return c.Profiler.Measure(name)
}

// Screen returns the platform screen, or nil without a platform backend.
func (c *Context) Screen() *platform.Screen {
	if c.Platform == nil {
		return nil
	}
	return c.Platform.Screen()
}
