package pipeline

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultLightDirection is the directional light of the forward pipelines.
var DefaultLightDirection = mgl32.Vec3{-1, -2, -1}.Normalize()

// DefaultAmbient is the ambient term of the forward pipelines.
const DefaultAmbient float32 = 0.3

type forwardUniforms struct {
	mvp, eye, lightDir, ambient graphics.Location
}

func newForwardUniforms(p *Pipeline) forwardUniforms {
	u := forwardUniforms{
		mvp:      p.AddUniform("um4_mvp"),
		eye:      p.AddUniform("uv3_eyepos"),
		lightDir: p.AddUniform("uv3_light_direction"),
		ambient:  p.AddUniform("uf_ambient"),
	}
	p.BindVec3Uniform(u.lightDir, DefaultLightDirection)
	p.BindFloatUniform(u.ambient, DefaultAmbient)
	return u
}

// Forward shades static meshes with one directional light in a single pass.
type Forward struct {
	*surfaceInputs
	u forwardUniforms
}

// NewForward compiles the "forward" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *Forward: the pipeline, in use
//   - error: error if the program fails to compile
func NewForward(ctx *core.Context, options ...PipelineBuilderOption) (*Forward, error) {
	s, err := newSurfaceInputs(ctx, "forward", false, options)
	if err != nil {
		return nil, err
	}
	return &Forward{surfaceInputs: s, u: newForwardUniforms(s.Pipeline)}, nil
}

// Use selects the program and returns the pipeline for chaining.
func (f *Forward) Use(ctx *core.Context) *Forward {
	f.Pipeline.Use(ctx)
	return f
}

// Draw draws every instance of a drawable, transformable entity or container.
func (f *Forward) Draw(ctx *core.Context, what any) *Forward {
	drawEntity(ctx, f, nil, what)
	return f
}

// SetCamera binds the eye position and proj * view of a camera instance.
func (f *Forward) SetCamera(camera any) *Forward {
	pov, view := viewOf(camera)
	f.SetEyePos(pov.Pos)
	f.SetModelView(pov.Proj.Mul4(view))
	return f
}

func (f *Forward) SetModelView(mvp mgl32.Mat4) *Forward {
	f.BindMat4Uniform(f.u.mvp, mvp)
	return f
}

func (f *Forward) SetEyePos(eye mgl32.Vec3) *Forward {
	f.BindVec3Uniform(f.u.eye, eye)
	return f
}

// SetLightDirection sets the direction the light travels in.
func (f *Forward) SetLightDirection(dir mgl32.Vec3) *Forward {
	f.BindVec3Uniform(f.u.lightDir, dir)
	return f
}

func (f *Forward) SetAmbient(ambient float32) *Forward {
	f.BindFloatUniform(f.u.ambient, ambient)
	return f
}

// ForwardRigged is Forward for dual quaternion skinned meshes.
type ForwardRigged struct {
	*surfaceInputs
	boneInputs
	u forwardUniforms
}

// NewForwardRigged compiles the "forward_rigged" program.
//
// Parameters:
//   - ctx: the frame context
//   - options: functional options to configure the pipeline
//
// Returns:
//   - *ForwardRigged: the pipeline, in use
//   - error: error if the program fails to compile
func NewForwardRigged(ctx *core.Context, options ...PipelineBuilderOption) (*ForwardRigged, error) {
	s, err := newSurfaceInputs(ctx, "forward_rigged", true, options)
	if err != nil {
		return nil, err
	}
	return &ForwardRigged{
		surfaceInputs: s,
		boneInputs:    newBoneInputs(s.Pipeline),
		u:             newForwardUniforms(s.Pipeline),
	}, nil
}

// Use selects the program and returns the pipeline for chaining.
func (f *ForwardRigged) Use(ctx *core.Context) *ForwardRigged {
	f.Pipeline.Use(ctx)
	return f
}

// Draw binds the animatable facet of what, then draws every instance.
func (f *ForwardRigged) Draw(ctx *core.Context, what any) *ForwardRigged {
	drawEntity(ctx, f, f, what)
	return f
}

// SetCamera binds the eye position and proj * view of a camera instance.
func (f *ForwardRigged) SetCamera(camera any) *ForwardRigged {
	pov, view := viewOf(camera)
	f.BindVec3Uniform(f.u.eye, pov.Pos)
	f.BindMat4Uniform(f.u.mvp, pov.Proj.Mul4(view))
	return f
}

// SetLightDirection sets the direction the light travels in.
func (f *ForwardRigged) SetLightDirection(dir mgl32.Vec3) *ForwardRigged {
	f.BindVec3Uniform(f.u.lightDir, dir)
	return f
}

func (f *ForwardRigged) SetAmbient(ambient float32) *ForwardRigged {
	f.BindFloatUniform(f.u.ambient, ambient)
	return f
}
