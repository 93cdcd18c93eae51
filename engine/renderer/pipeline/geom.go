package pipeline

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

type geomUniforms struct {
	mvp, eye, fog graphics.Location
}

func newGeomUniforms(p *Pipeline) geomUniforms {
	return geomUniforms{
		mvp: p.AddUniform("um4_mvp"),
		eye: p.AddUniform("uv3_eyepos"),
		fog: p.AddUniform("fog_density"),
	}
}

// Geom writes static meshes into the g-buffer.
type Geom struct {
	*surfaceInputs
	u geomUniforms
}

// NewGeom compiles the "geom" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *Geom: the pipeline, in use
//   - error: error if the program fails to compile
func NewGeom(ctx *core.Context, options ...PipelineBuilderOption) (*Geom, error) {
	s, err := newSurfaceInputs(ctx, "geom", false, options)
	if err != nil {
		return nil, err
	}
	return &Geom{surfaceInputs: s, u: newGeomUniforms(s.Pipeline)}, nil
}

// Use selects the program and returns the pipeline for chaining.
func (g *Geom) Use(ctx *core.Context) *Geom {
	g.Pipeline.Use(ctx)
	return g
}

// Draw draws every instance of a drawable, transformable entity or container.
func (g *Geom) Draw(ctx *core.Context, what any) *Geom {
	drawEntity(ctx, g, nil, what)
	return g
}

// SetCamera binds proj * view of a camera instance.
func (g *Geom) SetCamera(camera any) *Geom {
	pov, view := viewOf(camera)
	g.BindVec3Uniform(g.u.eye, pov.Pos)
	g.BindMat4Uniform(g.u.mvp, pov.Proj.Mul4(view))
	return g
}

func (g *Geom) SetModelView(mvp mgl32.Mat4) *Geom {
	g.BindMat4Uniform(g.u.mvp, mvp)
	return g
}

// SetFogDensity sets the exponential fog density written to the fog attachment.
func (g *Geom) SetFogDensity(density float32) *Geom {
	g.BindFloatUniform(g.u.fog, density)
	return g
}

// RiggedGeom writes dual quaternion skinned meshes into the g-buffer.
type RiggedGeom struct {
	*surfaceInputs
	boneInputs
	u geomUniforms
}

// NewRiggedGeom compiles the "geom_rigged" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *RiggedGeom: the pipeline, in use
//   - error: error if the program fails to compile
func NewRiggedGeom(ctx *core.Context, options ...PipelineBuilderOption) (*RiggedGeom, error) {
	s, err := newSurfaceInputs(ctx, "geom_rigged", true, options)
	if err != nil {
		return nil, err
	}
	return &RiggedGeom{surfaceInputs: s, boneInputs: newBoneInputs(s.Pipeline), u: newGeomUniforms(s.Pipeline)}, nil
}

// Use selects the program and returns the pipeline for chaining.
func (g *RiggedGeom) Use(ctx *core.Context) *RiggedGeom {
	g.Pipeline.Use(ctx)
	return g
}

// Draw binds the animatable facet of what, then draws every instance.
func (g *RiggedGeom) Draw(ctx *core.Context, what any) *RiggedGeom {
	drawEntity(ctx, g, g, what)
	return g
}

// SetCamera binds proj * view of a camera instance.
func (g *RiggedGeom) SetCamera(camera any) *RiggedGeom {
	pov, view := viewOf(camera)
	g.BindVec3Uniform(g.u.eye, pov.Pos)
	g.BindMat4Uniform(g.u.mvp, pov.Proj.Mul4(view))
	return g
}

// SetFogDensity sets the exponential fog density written to the fog attachment.
func (g *RiggedGeom) SetFogDensity(density float32) *RiggedGeom {
	g.BindFloatUniform(g.u.fog, density)
	return g
}
