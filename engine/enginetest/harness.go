package enginetest

import "github.com/Carmen-Shannon/gdt-go/engine/core"

// Harness bundles a context with the fakes behind it.
type Harness struct {
	Ctx      *core.Context
	Graphics *Graphics
	Physics  *Physics
	Platform *Platform
	Audio    *Audio
}

// New creates a context backed by fresh fakes with a screen of the given size.
func New(width, height int) *Harness {
	h := &Harness{
		Graphics: NewGraphics(width, height),
		Physics:  &Physics{},
		Platform: NewPlatform(width, height),
		Audio:    NewAudio(),
	}
	h.Ctx = &core.Context{
		Elapsed:  1.0 / 60,
		Platform: h.Platform,
		Graphics: h.Graphics,
		Physics:  h.Physics,
		Audio:    h.Audio,
	}
	return h
}
