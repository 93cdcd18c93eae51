package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrTooManyLights is returned when more lights are set than the lighting pass has slots.
var ErrTooManyLights = errors.New("pipeline: too many lights")

// G-buffer attachment names read by the lighting pass.
const (
	AttachmentPosition   = "position"
	AttachmentNormal     = "normal"
	AttachmentAlbedoSpec = "albedospec"
	AttachmentFog        = "fog"
)

type lightSlot struct {
	pos, color, linear, quadratic graphics.Location
}

// Light shades the g-buffer with up to light.MaxLights point lights.
type Light struct {
	*Pipeline

	position, normal, albedoSpec, fog graphics.Location

	eye, count graphics.Location
	slots      [light.MaxLights]lightSlot
}

// NewLight compiles the "light" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *Light: the pipeline, in use
//   - error: error if the program fails to compile
func NewLight(ctx *core.Context, options ...PipelineBuilderOption) (*Light, error) {
	p, err := New(ctx, "light", options...)
	if err != nil {
		return nil, err
	}
	l := &Light{
		Pipeline:   p,
		position:   p.AddSampler("s2d_position"),
		normal:     p.AddSampler("s2d_normal"),
		albedoSpec: p.AddSampler("s2d_albedospec"),
		fog:        p.AddSampler("s2d_fog"),
		eye:        p.AddUniform("uv3_viewpos"),
		count:      p.AddUniform("uf_light_count"),
	}
	for i := range l.slots {
		prefix := fmt.Sprintf("lights[%d].", i)
		l.slots[i] = lightSlot{
			pos:       p.AddUniform(prefix + "position"),
			color:     p.AddUniform(prefix + "color"),
			linear:    p.AddUniform(prefix + "linear"),
			quadratic: p.AddUniform(prefix + "quadratic"),
		}
	}
	return l, nil
}

// Use selects the program and returns the pipeline for chaining.
func (l *Light) Use(ctx *core.Context) *Light {
	l.Pipeline.Use(ctx)
	return l
}

// BindInput samples the attachments of a g-buffer.
func (l *Light) BindInput(gbuffer graphics.Framebuffer) *Light {
	for _, in := range []struct {
		loc  graphics.Location
		name string
	}{
		{l.position, AttachmentPosition},
		{l.normal, AttachmentNormal},
		{l.albedoSpec, AttachmentAlbedoSpec},
		{l.fog, AttachmentFog},
	} {
		if tex, ok := gbuffer.Attachment(in.name); ok {
			l.BindSampler(in.loc, tex)
		}
	}
	return l
}

// SetLights uploads the lights into the first slots.
//
// Parameters:
//   - lights: at most light.MaxLights lights
//
// Returns:
//   - error: ErrTooManyLights if lights exceed the slots; nothing is uploaded then
func (l *Light) SetLights(lights []light.Light) error {
	if len(lights) > light.MaxLights {
		return errors.Wrapf(ErrTooManyLights, "%d lights, %d slots", len(lights), light.MaxLights)
	}
	for i, lt := range lights {
		s := l.slots[i]
		l.BindVec3Uniform(s.pos, lt.Pos)
		l.BindVec3Uniform(s.color, lt.Color)
		l.BindFloatUniform(s.linear, lt.Linear)
		l.BindFloatUniform(s.quadratic, lt.Quadratic)
	}
	l.BindFloatUniform(l.count, float32(len(lights)))
	return nil
}

func (l *Light) SetEyePos(eye mgl32.Vec3) *Light {
	l.BindVec3Uniform(l.eye, eye)
	return l
}
