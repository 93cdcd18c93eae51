// Package pipeline wraps the engine's shader programs. A pipeline resolves its samplers,
// uniforms and attributes once at construction and exposes typed setters for them.
package pipeline

import (
	"log"

	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/res"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Pipeline is a compiled program and the backend it was compiled on.
// Concrete pipelines embed it; every Bind call applies to the program selected by Use.
type Pipeline struct {
	name    string
	gfx     graphics.Backend
	program *graphics.Program
}

// New compiles the named built-in program, e.g. "forward".
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - name: the program name
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *Pipeline: the pipeline, already in use
//   - error: error if the source is missing or fails to compile
func New(ctx *core.Context, name string, options ...PipelineBuilderOption) (*Pipeline, error) {
	if ctx == nil || ctx.Graphics == nil {
		panic("pipeline: New requires a graphics backend")
	}
	cfg := &pipelineConfig{}
	for _, option := range options {
		option(cfg)
	}
	if cfg.source == "" {
		src, err := res.Shader(name)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: load %s", name)
		}
		cfg.source = src
	}
	program, err := ctx.Graphics.CreateProgram(graphics.ProgramResource{Name: name, Source: cfg.source})
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: compile %s", name)
	}
	p := &Pipeline{name: name, gfx: ctx.Graphics, program: program}
	p.Use(ctx)
	return p, nil
}

// Name returns the program name.
func (p *Pipeline) Name() string {
	return p.name
}

// Program returns the compiled program.
func (p *Pipeline) Program() *graphics.Program {
	return p.program
}

// Use selects the program for following binds and draws.
func (p *Pipeline) Use(ctx *core.Context) {
	ctx.Graphics.UseProgram(p.program)
}

func (p *Pipeline) resolved(kind, name string, loc graphics.Location) graphics.Location {
	if !loc.Valid() {
		log.Printf("pipeline: %s has no %s %s", p.name, kind, name)
	}
	return loc
}

// AddSampler resolves a texture sampler.
func (p *Pipeline) AddSampler(name string) graphics.Location {
	return p.resolved("sampler", name, p.gfx.SamplerLocation(p.program, name))
}

// AddUniform resolves a uniform.
func (p *Pipeline) AddUniform(name string) graphics.Location {
	return p.resolved("uniform", name, p.gfx.UniformLocation(p.program, name))
}

// AddAttrib resolves a vertex attribute.
func (p *Pipeline) AddAttrib(name string) graphics.Location {
	return p.resolved("attribute", name, p.gfx.AttribLocation(p.program, name))
}

func (p *Pipeline) BindSampler(loc graphics.Location, tex *graphics.Texture) {
	if tex != nil {
		p.gfx.BindTexture(loc, tex)
	}
}

func (p *Pipeline) BindFloatUniform(loc graphics.Location, v float32) {
	p.gfx.SetUniformFloat(loc, v)
}

func (p *Pipeline) BindVec2Uniform(loc graphics.Location, v mgl32.Vec2) {
	p.gfx.SetUniformVec2(loc, v)
}

func (p *Pipeline) BindVec3Uniform(loc graphics.Location, v mgl32.Vec3) {
	p.gfx.SetUniformVec3(loc, v)
}

func (p *Pipeline) BindVec4Uniform(loc graphics.Location, v mgl32.Vec4) {
	p.gfx.SetUniformVec4(loc, v)
}

func (p *Pipeline) BindMat4Uniform(loc graphics.Location, v mgl32.Mat4) {
	p.gfx.SetUniformMat4(loc, v)
}

func (p *Pipeline) BindVec4ArrayUniform(loc graphics.Location, v []mgl32.Vec4) {
	p.gfx.SetUniformVec4Array(loc, v)
}

// BindFloatAttrib describes a float attribute of the vertex stream, in floats.
func (p *Pipeline) BindFloatAttrib(loc graphics.Location, components, stride, offset int) {
	p.gfx.BindFloatAttrib(loc, components, stride, offset)
}

// BindInstancesData binds buf as the per-instance transform attribute.
func (p *Pipeline) BindInstancesData(loc graphics.Location, buf *graphics.InstanceBuffer) {
	p.gfx.BindInstances(loc, buf)
}

func (p *Pipeline) DisableAttrib(loc graphics.Location) {
	p.gfx.DisableAttrib(loc)
}

// RenderQuad draws a full screen quad with the program.
func (p *Pipeline) RenderQuad() {
	p.gfx.RenderQuad()
}
