package graphics

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/gdt-go/engine/graphics/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// vertexAttrib is an attribute layout recorded by BindFloatAttrib.
type vertexAttrib struct {
	format wgpu.VertexFormat
	offset uint64
}

// pipelineKey identifies one render pipeline variant of a program.
type pipelineKey struct {
	cull      bool
	blend     bool
	targets   string
	instanced bool
	layout    string
}

// wgpuProgram is the backend handle stored in Program.Handle.
type wgpuProgram struct {
	name       string
	reflection *shader.Reflection
	module     *wgpu.ShaderModule
	groups     []*wgpu.BindGroupLayout
	layout     *wgpu.PipelineLayout

	// uniforms is the CPU copy of the uniform block, copied into a fresh buffer at every draw.
	uniforms []byte

	uniformSlots []shader.Uniform
	samplerSlots []string
	attribSlots  []shader.Attribute

	textures map[string]*Texture
	attribs  map[uint32]vertexAttrib
	stride   uint64

	instances *InstanceBuffer

	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

func (p *wgpuProgram) uniformLocation(name string) Location {
	u, ok := p.reflection.Uniforms[name]
	if !ok {
		return NoLocation
	}
	for i, s := range p.uniformSlots {
		if s.Name == name {
			return Location(i)
		}
	}
	p.uniformSlots = append(p.uniformSlots, u)
	return Location(len(p.uniformSlots) - 1)
}

func (p *wgpuProgram) samplerLocation(name string) Location {
	res, ok := p.reflection.Resource(name)
	if !ok || res.Kind != shader.ResourceTexture {
		return NoLocation
	}
	for i, s := range p.samplerSlots {
		if s == name {
			return Location(i)
		}
	}
	p.samplerSlots = append(p.samplerSlots, name)
	return Location(len(p.samplerSlots) - 1)
}

func (p *wgpuProgram) attribLocation(name string) Location {
	a, ok := p.reflection.Attribute(name)
	if !ok {
		return NoLocation
	}
	for i, s := range p.attribSlots {
		if s.Name == name {
			return Location(i)
		}
	}
	p.attribSlots = append(p.attribSlots, a)
	return Location(len(p.attribSlots) - 1)
}

// writeUniform copies floats into the uniform block at the location's offset, clamped to the member size.
func (p *wgpuProgram) writeUniform(loc Location, values []float32) {
	if !loc.Valid() || int(loc) >= len(p.uniformSlots) {
		return
	}
	u := p.uniformSlots[loc]
	end := u.Offset + uint64(len(values))*4
	if limit := u.Offset + u.Size; end > limit {
		end = limit
	}
	for i, off := 0, u.Offset; off+4 <= end; i, off = i+1, off+4 {
		binary.LittleEndian.PutUint32(p.uniforms[off:], math.Float32bits(values[i]))
	}
}

// vertexLayouts returns the buffer layouts of the current attribute bindings.
// Slot 0 is the surface vertex stream, slot 1 the instance transforms.
func (p *wgpuProgram) vertexLayouts(instanced bool) []wgpu.VertexBufferLayout {
	var perVertex []wgpu.VertexAttribute
	var perInstance []wgpu.VertexAttribute
	for _, a := range p.reflection.Attributes {
		if a.Instance {
			if !instanced {
				continue
			}
			for c := 0; c < a.Columns; c++ {
				perInstance = append(perInstance, wgpu.VertexAttribute{
					Format:         wgpu.VertexFormatFloat32x4,
					Offset:         uint64(c * 16),
					ShaderLocation: a.Location + uint32(c),
				})
			}
			continue
		}
		if va, ok := p.attribs[a.Location]; ok {
			perVertex = append(perVertex, wgpu.VertexAttribute{
				Format:         va.format,
				Offset:         va.offset,
				ShaderLocation: a.Location,
			})
		}
	}
	if len(perVertex) == 0 && len(perInstance) == 0 {
		return nil
	}
	layouts := []wgpu.VertexBufferLayout{{
		ArrayStride: p.stride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  perVertex,
	}}
	if len(perInstance) > 0 {
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: 64,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes:  perInstance,
		})
	}
	return layouts
}

// layoutKey fingerprints the recorded attribute bindings.
func (p *wgpuProgram) layoutKey() string {
	var sb strings.Builder
	for _, a := range p.reflection.Attributes {
		if va, ok := p.attribs[a.Location]; ok {
			sb.WriteString(a.Name)
			sb.WriteByte(':')
			sb.WriteString(strconv.FormatUint(uint64(va.format), 10))
			sb.WriteByte('@')
			sb.WriteString(strconv.FormatUint(va.offset, 10))
			sb.WriteByte(';')
		}
	}
	sb.WriteString(strconv.FormatUint(p.stride, 10))
	return sb.String()
}

func (p *wgpuProgram) hasInstanceInput() bool {
	for _, a := range p.reflection.Attributes {
		if a.Instance {
			return true
		}
	}
	return false
}

func (p *wgpuProgram) release() {
	for _, pl := range p.pipelines {
		pl.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	for _, g := range p.groups {
		if g != nil {
			g.Release()
		}
	}
	if p.module != nil {
		p.module.Release()
	}
}

func mat4Floats(m mgl32.Mat4) []float32 {
	return m[:]
}
