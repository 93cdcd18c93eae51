// Package enginetest provides recording fakes of the engine backends.
package enginetest

import (
	"fmt"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Framebuffer is a fake render target.
type Framebuffer struct {
	label         string
	width, height int
	attachments   map[string]*graphics.Texture

	// Resizes counts Resize calls.
	Resizes int
}

var _ graphics.Framebuffer = &Framebuffer{}

func newFramebuffer(desc graphics.FramebufferDescriptor) *Framebuffer {
	fb := &Framebuffer{
		label:       desc.Label,
		width:       desc.Width,
		height:      desc.Height,
		attachments: make(map[string]*graphics.Texture),
	}
	for _, a := range desc.Attachments {
		fb.attachments[a.Name] = &graphics.Texture{Label: desc.Label + "." + a.Name}
	}
	fb.sizeAttachments()
	return fb
}

func (f *Framebuffer) sizeAttachments() {
	for _, t := range f.attachments {
		t.Width, t.Height = uint32(f.width), uint32(f.height)
	}
}

func (f *Framebuffer) Label() string {
	return f.label
}

func (f *Framebuffer) Width() int {
	return f.width
}

func (f *Framebuffer) Height() int {
	return f.height
}

func (f *Framebuffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("enginetest: invalid framebuffer size %dx%d", width, height)
	}
	f.width, f.height = width, height
	f.sizeAttachments()
	f.Resizes++
	return nil
}

func (f *Framebuffer) Attachment(name string) (*graphics.Texture, bool) {
	t, ok := f.attachments[name]
	return t, ok
}

// Draw is one recorded DrawInstanced call.
type Draw struct {
	Program string
	Target  string
	Surface *graphics.Surface
	Buffer  *graphics.InstanceBuffer
	Count   int
}

// DepthCopy is one recorded CopyDepth call.
type DepthCopy struct {
	From, To string
}

type program struct {
	names map[string]graphics.Location
	byLoc map[graphics.Location]string
}

// Graphics is a graphics backend recording every call. Every uniform, sampler and
// attribute name resolves unless listed in Missing.
type Graphics struct {
	screen *Framebuffer
	bound  graphics.Framebuffer
	prog   *graphics.Program

	programs map[*graphics.Program]*program

	// Missing names resolve to graphics.NoLocation.
	Missing map[string]bool

	// Bound lists the labels of BindFramebuffer calls in order.
	Bound []string
	// Clears lists the labels of cleared framebuffers in order.
	Clears []string
	Draws  []Draw
	// Quads lists the program names of RenderQuad calls in order.
	Quads       []string
	DepthCopies []DepthCopy
	Uploads     int
	Culling     bool
	Blending    bool
	Presents    int
	Frames      int

	// CreatedTextures and CreatedPrograms count successful creations.
	CreatedTextures int
	CreatedPrograms int
	// TextureErr fails every CreateTexture call when set.
	TextureErr error

	// Uniforms holds the last value per "program.name".
	Uniforms map[string]any
	// Textures holds the last texture per "program.sampler".
	Textures map[string]*graphics.Texture
	// Attribs holds the last attribute binding per "program.name" as {components, stride, offset}.
	Attribs map[string][3]int
}

var _ graphics.Backend = &Graphics{}

// NewGraphics creates a fake graphics backend with a screen of the given size.
func NewGraphics(width, height int) *Graphics {
	g := &Graphics{
		screen:   newFramebuffer(graphics.FramebufferDescriptor{Label: "screen", Width: width, Height: height}),
		programs: make(map[*graphics.Program]*program),
		Missing:  make(map[string]bool),
		Uniforms: make(map[string]any),
		Textures: make(map[string]*graphics.Texture),
		Attribs:  make(map[string][3]int),
	}
	g.bound = g.screen
	return g
}

// Reset clears the recorded calls.
func (g *Graphics) Reset() {
	g.Bound, g.Clears, g.Draws, g.Quads, g.DepthCopies = nil, nil, nil, nil, nil
	g.Uploads = 0
}

// DrawsOf returns the draws issued by the named program.
func (g *Graphics) DrawsOf(programName string) []Draw {
	var out []Draw
	for _, d := range g.Draws {
		if d.Program == programName {
			out = append(out, d)
		}
	}
	return out
}

func (g *Graphics) CreateInstanceBuffer(count int) (*graphics.InstanceBuffer, error) {
	buf := &graphics.InstanceBuffer{Label: fmt.Sprintf("instances-%d", count), Transforms: make([]mgl32.Mat4, count)}
	for i := range buf.Transforms {
		buf.Transforms[i] = mgl32.Ident4()
	}
	return buf, nil
}

func (g *Graphics) UpdateInstanceBuffer(buf *graphics.InstanceBuffer) error {
	g.Uploads++
	return nil
}

func (g *Graphics) CreateSurface(mesh *model.Mesh) (*graphics.Surface, error) {
	return &graphics.Surface{Label: mesh.Name, IndexCount: len(mesh.Triangles) * 3, Rigged: mesh.Rigged}, nil
}

func (g *Graphics) CreateTexture(data common.TextureData) (*graphics.Texture, error) {
	if g.TextureErr != nil {
		return nil, g.TextureErr
	}
	g.CreatedTextures++
	return &graphics.Texture{Width: data.Width, Height: data.Height}, nil
}

func (g *Graphics) CreateFramebuffer(desc graphics.FramebufferDescriptor) (graphics.Framebuffer, error) {
	return newFramebuffer(desc), nil
}

func (g *Graphics) ScreenBuffer() graphics.Framebuffer {
	return g.screen
}

func (g *Graphics) CreateProgram(res graphics.ProgramResource) (*graphics.Program, error) {
	p := &graphics.Program{Name: res.Name}
	g.CreatedPrograms++
	g.programs[p] = &program{names: make(map[string]graphics.Location), byLoc: make(map[graphics.Location]string)}
	return p, nil
}

func (g *Graphics) locate(p *graphics.Program, name string) graphics.Location {
	if g.Missing[name] {
		return graphics.NoLocation
	}
	pr := g.programs[p]
	if pr == nil {
		return graphics.NoLocation
	}
	if loc, ok := pr.names[name]; ok {
		return loc
	}
	loc := graphics.Location(len(pr.names))
	pr.names[name] = loc
	pr.byLoc[loc] = name
	return loc
}

func (g *Graphics) UniformLocation(p *graphics.Program, name string) graphics.Location {
	return g.locate(p, name)
}

func (g *Graphics) SamplerLocation(p *graphics.Program, name string) graphics.Location {
	return g.locate(p, name)
}

func (g *Graphics) AttribLocation(p *graphics.Program, name string) graphics.Location {
	return g.locate(p, name)
}

func (g *Graphics) UpdateFrame() error {
	g.Frames++
	return nil
}

func (g *Graphics) ClearScreen() {
	g.BindFramebuffer(g.screen)
	g.Clear(mgl32.Vec4{})
}

func (g *Graphics) Present() error {
	g.Presents++
	return nil
}

func (g *Graphics) Resize(width, height int) {
	_ = g.screen.Resize(width, height)
}

func (g *Graphics) BindFramebuffer(fb graphics.Framebuffer) {
	g.bound = fb
	g.Bound = append(g.Bound, fb.Label())
}

func (g *Graphics) Clear(color mgl32.Vec4) {
	g.Clears = append(g.Clears, g.bound.Label())
}

func (g *Graphics) CullOn() { g.Culling = true }
func (g *Graphics) CullOff() { g.Culling = false }
func (g *Graphics) BlendOn() { g.Blending = true }
func (g *Graphics) BlendOff() { g.Blending = false }

func (g *Graphics) UseProgram(p *graphics.Program) {
	g.prog = p
}

// key names a location of the current program.
func (g *Graphics) key(loc graphics.Location) string {
	if g.prog == nil {
		return fmt.Sprintf("?.%d", loc)
	}
	pr := g.programs[g.prog]
	if pr == nil {
		return fmt.Sprintf("%s.%d", g.prog.Name, loc)
	}
	return g.prog.Name + "." + pr.byLoc[loc]
}

func (g *Graphics) set(loc graphics.Location, v any) {
	if !loc.Valid() {
		return
	}
	g.Uniforms[g.key(loc)] = v
}

func (g *Graphics) SetUniformFloat(loc graphics.Location, v float32) { g.set(loc, v) }
func (g *Graphics) SetUniformVec2(loc graphics.Location, v mgl32.Vec2) { g.set(loc, v) }
func (g *Graphics) SetUniformVec3(loc graphics.Location, v mgl32.Vec3) { g.set(loc, v) }
func (g *Graphics) SetUniformVec4(loc graphics.Location, v mgl32.Vec4) { g.set(loc, v) }
func (g *Graphics) SetUniformMat4(loc graphics.Location, v mgl32.Mat4) { g.set(loc, v) }

func (g *Graphics) SetUniformVec4Array(loc graphics.Location, v []mgl32.Vec4) {
	g.set(loc, append([]mgl32.Vec4(nil), v...))
}

func (g *Graphics) BindTexture(loc graphics.Location, tex *graphics.Texture) {
	if loc.Valid() {
		g.Textures[g.key(loc)] = tex
	}
}

func (g *Graphics) BindFloatAttrib(loc graphics.Location, components, stride, offset int) {
	if loc.Valid() {
		g.Attribs[g.key(loc)] = [3]int{components, stride, offset}
	}
}

func (g *Graphics) BindInstances(loc graphics.Location, buf *graphics.InstanceBuffer) {
	if loc.Valid() {
		g.Attribs[g.key(loc)] = [3]int{16, 16, 0}
	}
}

func (g *Graphics) DisableAttrib(loc graphics.Location) {
	if loc.Valid() {
		delete(g.Attribs, g.key(loc))
	}
}

func (g *Graphics) DrawInstanced(surface *graphics.Surface, buf *graphics.InstanceBuffer, count int) {
	name := ""
	if g.prog != nil {
		name = g.prog.Name
	}
	g.Draws = append(g.Draws, Draw{Program: name, Target: g.bound.Label(), Surface: surface, Buffer: buf, Count: count})
}

func (g *Graphics) RenderQuad() {
	name := ""
	if g.prog != nil {
		name = g.prog.Name
	}
	g.Quads = append(g.Quads, name)
}

func (g *Graphics) CopyDepth(from, to graphics.Framebuffer) {
	g.DepthCopies = append(g.DepthCopies, DepthCopy{From: from.Label(), To: to.Label()})
}

func (g *Graphics) Close() error {
	return nil
}
