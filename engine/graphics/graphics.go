package graphics

import (
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BackendType identifies the GPU backend implementation.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based graphics backend.
	BackendTypeWGPU BackendType = iota
)

// Location is a resolved uniform, sampler or attribute handle of a Program.
type Location int32

// NoLocation is returned when a name does not exist in a Program.
const NoLocation Location = -1

// Valid reports whether the location was resolved.
func (l Location) Valid() bool {
	return l >= 0
}

// AttachmentFormat is the pixel format of a framebuffer color attachment.
type AttachmentFormat int

const (
	// AttachmentRGBA is an 8-bit per channel color attachment.
	AttachmentRGBA AttachmentFormat = iota

	// AttachmentRGB16 is a 16-bit float attachment used for positions and normals.
	AttachmentRGB16
)

// Attachment names one color attachment of a framebuffer.
type Attachment struct {
	Name   string
	Format AttachmentFormat
}

// FramebufferDescriptor describes an off-screen render target.
type FramebufferDescriptor struct {
	// Label identifies the framebuffer in logs and GPU debuggers.
	Label string

	// Width and Height are the initial dimensions in pixels.
	Width, Height int

	// Attachments are the color attachments in fragment output order.
	Attachments []Attachment

	// Depth adds a depth attachment.
	Depth bool
}

// ProgramResource is the source of a shader program.
type ProgramResource struct {
	// Name identifies the program, e.g. "forward".
	Name string

	// Source is the program source in the backend's shading language.
	Source string
}

// InstanceBuffer holds the per-instance transforms of one instancing unit.
// The slice is owned by the buffer; UpdateInstanceBuffer uploads it.
type InstanceBuffer struct {
	// Label identifies the buffer.
	Label string

	// Transforms are the instance transforms, one per instance.
	Transforms []mgl32.Mat4

	// Handle is backend specific storage.
	Handle any
}

// Count returns the number of instance slots.
func (b *InstanceBuffer) Count() int {
	return len(b.Transforms)
}

// Surface is a mesh uploaded to the GPU.
type Surface struct {
	// Label identifies the surface.
	Label string

	// IndexCount is the number of indices drawn per instance.
	IndexCount int

	// Rigged reports whether the vertex stream carries bone weights.
	Rigged bool

	// Handle is backend specific storage.
	Handle any
}

// Texture is an image uploaded to the GPU, or a framebuffer attachment.
type Texture struct {
	Label         string
	Width, Height uint32
	Handle        any
}

// Program is a compiled shader program.
type Program struct {
	Name   string
	Handle any
}

// Framebuffer is a render target. The screen is a Framebuffer without named attachments.
type Framebuffer interface {
	// Label returns the framebuffer identifier.
	Label() string

	// Width returns the width in pixels.
	Width() int

	// Height returns the height in pixels.
	Height() int

	// Resize reallocates every attachment at the new size.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	//
	// Returns:
	//   - error: error if an attachment could not be reallocated
	Resize(width, height int) error

	// Attachment returns the named color attachment as a samplable texture.
	//
	// Parameters:
	//   - name: the attachment name
	//
	// Returns:
	//   - *Texture: the attachment texture
	//   - bool: false if no such attachment exists
	Attachment(name string) (*Texture, bool)
}

// Backend is the contract the engine core consumes from a GPU implementation.
// All calls happen on the frame loop goroutine. Uniform, texture and attribute calls
// apply to the program selected by the last UseProgram.
type Backend interface {
	// CreateInstanceBuffer allocates an instance buffer of count identity transforms.
	//
	// Parameters:
	//   - count: number of instance slots
	//
	// Returns:
	//   - *InstanceBuffer: the new buffer
	//   - error: error if GPU allocation fails
	CreateInstanceBuffer(count int) (*InstanceBuffer, error)

	// UpdateInstanceBuffer uploads the buffer's transforms.
	//
	// Parameters:
	//   - buf: the buffer to upload
	//
	// Returns:
	//   - error: error if the upload fails
	UpdateInstanceBuffer(buf *InstanceBuffer) error

	// CreateSurface uploads a mesh.
	//
	// Parameters:
	//   - mesh: the mesh to upload
	//
	// Returns:
	//   - *Surface: the uploaded surface
	//   - error: error if GPU allocation fails
	CreateSurface(mesh *model.Mesh) (*Surface, error)

	// CreateTexture uploads RGBA pixel data.
	//
	// Parameters:
	//   - data: the texture pixels
	//
	// Returns:
	//   - *Texture: the uploaded texture
	//   - error: error if GPU allocation fails
	CreateTexture(data common.TextureData) (*Texture, error)

	// CreateFramebuffer allocates an off-screen render target.
	//
	// Parameters:
	//   - desc: the framebuffer description
	//
	// Returns:
	//   - Framebuffer: the render target
	//   - error: error if GPU allocation fails
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)

	// ScreenBuffer returns the framebuffer presenting to the window.
	ScreenBuffer() Framebuffer

	// CreateProgram compiles a shader program.
	//
	// Parameters:
	//   - res: the program source
	//
	// Returns:
	//   - *Program: the compiled program
	//   - error: error if compilation or reflection fails
	CreateProgram(res ProgramResource) (*Program, error)

	// UniformLocation resolves a uniform by name, or NoLocation.
	UniformLocation(p *Program, name string) Location

	// SamplerLocation resolves a texture sampler by name, or NoLocation.
	SamplerLocation(p *Program, name string) Location

	// AttribLocation resolves a vertex attribute by name, or NoLocation.
	AttribLocation(p *Program, name string) Location

	// UpdateFrame starts a new frame.
	UpdateFrame() error

	// ClearScreen binds and clears the screen framebuffer.
	ClearScreen()

	// Present submits the frame and shows it.
	Present() error

	// Resize reconfigures the screen framebuffer.
	Resize(width, height int)

	// BindFramebuffer selects the render target of following clears and draws.
	BindFramebuffer(fb Framebuffer)

	// Clear clears the bound framebuffer's color and depth.
	Clear(color mgl32.Vec4)

	CullOn()
	CullOff()
	BlendOn()
	BlendOff()

	// UseProgram selects the program of following uniform, texture, attribute and draw calls.
	UseProgram(p *Program)

	SetUniformFloat(loc Location, v float32)
	SetUniformVec2(loc Location, v mgl32.Vec2)
	SetUniformVec3(loc Location, v mgl32.Vec3)
	SetUniformVec4(loc Location, v mgl32.Vec4)
	SetUniformMat4(loc Location, v mgl32.Mat4)
	SetUniformVec4Array(loc Location, v []mgl32.Vec4)

	// BindTexture binds a texture to a sampler location.
	BindTexture(loc Location, tex *Texture)

	// BindFloatAttrib describes a float vertex attribute of the surface vertex stream.
	//
	// Parameters:
	//   - loc: the attribute location
	//   - components: floats per attribute
	//   - stride: floats per vertex
	//   - offset: float offset of the attribute within a vertex
	BindFloatAttrib(loc Location, components, stride, offset int)

	// BindInstances binds an instance buffer as the per-instance transform attribute.
	BindInstances(loc Location, buf *InstanceBuffer)

	// DisableAttrib removes an attribute from the vertex layout.
	DisableAttrib(loc Location)

	// DrawInstanced draws count instances of a surface with the transforms in buf.
	DrawInstanced(surface *Surface, buf *InstanceBuffer, count int)

	// RenderQuad draws a full screen quad with the current program.
	RenderQuad()

	// CopyDepth makes the depth of from visible to following draws into to.
	CopyDepth(from, to Framebuffer)

	// Close releases every GPU resource.
	Close() error
}

// NewBackend creates a graphics backend of the given type.
//
// Parameters:
//   - backendType: the backend implementation to create
//   - options: functional options configuring the backend
//
// Returns:
//   - Backend: the graphics backend
//   - error: error if the device could not be initialized
func NewBackend(backendType BackendType, options ...BackendOption) (Backend, error) {
	cfg := &backendConfig{
		width:  1280,
		height: 720,
		vsync:  true,
	}
	for _, opt := range options {
		opt(cfg)
	}

	switch backendType {
	case BackendTypeWGPU:
		return newWGPUBackend(cfg)
	default:
		return newWGPUBackend(cfg)
	}
}
