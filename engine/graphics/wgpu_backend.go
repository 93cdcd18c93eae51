package graphics

import (
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics/shader"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// wgpuSurface is the backend handle stored in Surface.Handle.
type wgpuSurface struct {
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	stride uint64
}

type wgpuBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode

	screen       *wgpuFramebuffer
	framebuffers []*wgpuFramebuffer
	sampler      *wgpu.Sampler
	white        *Texture

	// Frame state, valid between UpdateFrame and Present.
	encoder      *wgpu.CommandEncoder
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	pass         *wgpu.RenderPassEncoder
	target       *wgpuFramebuffer

	cull    bool
	blend   bool
	program *wgpuProgram

	// transient holds per draw GPU objects released after the frame is submitted.
	transient []func()

	// owned holds every long lived GPU object released by Close.
	owned []func()
}

var _ Backend = &wgpuBackend{}

func newWGPUBackend(cfg *backendConfig) (Backend, error) {
	if cfg.surfaceDescriptor == nil {
		return nil, errors.New("wgpu backend: a surface descriptor is required")
	}

	runtime.LockOSThread()
	b := &wgpuBackend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		cull:        true,
	}
	if cfg.vsync {
		b.presentMode = wgpu.PresentModeFifo
	}
	b.surface = b.instance.CreateSurface(cfg.surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, errors.Wrap(err, "wgpu backend: request adapter")
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "wgpu backend: request device")
	}
	b.device = device
	b.queue = device.GetQueue()

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shared Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "wgpu backend: create sampler")
	}

	b.white, err = b.createTexture(common.SolidTexture(255, 255, 255, 255))
	if err != nil {
		return nil, err
	}

	b.screen = &wgpuFramebuffer{backend: b, label: "screen", screen: true}
	b.framebuffers = append(b.framebuffers, b.screen)
	if err := b.screen.resize(cfg.width, cfg.height); err != nil {
		return nil, err
	}

	return b, nil
}

// configureSurface must be called with mu held.
func (b *wgpuBackend) configureSurface(width, height int) {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuBackend) createRenderTexture(label string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpuTexture, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create texture %s", label)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, errors.Wrapf(err, "create view %s", label)
	}
	return &wgpuTexture{texture: tex, view: view}, nil
}

func (b *wgpuBackend) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create buffer %s", label)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuBackend) CreateInstanceBuffer(count int) (*InstanceBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if count <= 0 {
		return nil, errors.Errorf("instance buffer: invalid count %d", count)
	}
	ib := &InstanceBuffer{
		Label:      "instances",
		Transforms: make([]mgl32.Mat4, count),
	}
	for i := range ib.Transforms {
		ib.Transforms[i] = mgl32.Ident4()
	}
	buf, err := b.createBuffer(ib.Label, common.SliceToBytes(ib.Transforms), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	ib.Handle = buf
	b.owned = append(b.owned, buf.Release)
	return ib, nil
}

func (b *wgpuBackend) UpdateInstanceBuffer(ib *InstanceBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := ib.Handle.(*wgpu.Buffer)
	if !ok {
		return errors.Errorf("instance buffer %s was not created by this backend", ib.Label)
	}
	b.queue.WriteBuffer(buf, 0, common.SliceToBytes(ib.Transforms))
	return nil
}

func (b *wgpuBackend) CreateSurface(mesh *model.Mesh) (*Surface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if mesh == nil {
		panic("graphics: nil mesh")
	}
	indices := mesh.Indices()
	if len(indices) == 0 {
		return nil, errors.Errorf("surface %s: mesh has no triangles", mesh.Name)
	}
	vertex, err := b.createBuffer(mesh.Name+" Vertex Buffer", common.SliceToBytes(mesh.Floats()), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	index, err := b.createBuffer(mesh.Name+" Index Buffer", common.SliceToBytes(indices), wgpu.BufferUsageIndex)
	if err != nil {
		vertex.Release()
		return nil, err
	}
	b.owned = append(b.owned, vertex.Release, index.Release)

	return &Surface{
		Label:      mesh.Name,
		IndexCount: len(indices),
		Rigged:     mesh.Rigged,
		Handle:     &wgpuSurface{vertex: vertex, index: index, stride: uint64(mesh.Stride() * 4)},
	}, nil
}

func (b *wgpuBackend) CreateTexture(data common.TextureData) (*Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.createTexture(data)
}

func (b *wgpuBackend) createTexture(data common.TextureData) (*Texture, error) {
	if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
		return nil, errors.Errorf("texture: invalid data %dx%d with %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	tex, err := b.createRenderTexture("texture", int(data.Width), int(data.Height), wgpu.TextureFormatRGBA8Unorm, wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
	b.owned = append(b.owned, tex.release)
	return &Texture{Label: "texture", Width: data.Width, Height: data.Height, Handle: tex}, nil
}

func (b *wgpuBackend) CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fb := &wgpuFramebuffer{
		backend:     b,
		label:       desc.Label,
		attachments: append([]Attachment(nil), desc.Attachments...),
		colors:      make([]*Texture, len(desc.Attachments)),
	}
	if err := fb.resize(desc.Width, desc.Height); err != nil {
		return nil, err
	}
	b.framebuffers = append(b.framebuffers, fb)
	b.owned = append(b.owned, fb.release)
	return fb, nil
}

func (b *wgpuBackend) ScreenBuffer() Framebuffer {
	return b.screen
}

func (b *wgpuBackend) CreateProgram(res ProgramResource) (*Program, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reflection, err := shader.Reflect(res.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", res.Name)
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: res.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: res.Source,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "program %s: compile", res.Name)
	}

	p := &wgpuProgram{
		name:       res.Name,
		reflection: reflection,
		module:     module,
		uniforms:   make([]byte, reflection.UniformSize),
		textures:   make(map[string]*Texture),
		attribs:    make(map[uint32]vertexAttrib),
		pipelines:  make(map[pipelineKey]*wgpu.RenderPipeline),
	}

	groups := reflection.Groups()
	maxGroup := -1
	for g := range groups {
		maxGroup = max(maxGroup, int(g))
	}
	p.groups = make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := range p.groups {
		desc, ok := groups[uint32(g)]
		if !ok {
			desc = wgpu.BindGroupLayoutDescriptor{Label: "empty group"}
		}
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			p.release()
			return nil, errors.Wrapf(err, "program %s: bind group layout %d", res.Name, g)
		}
		p.groups[g] = layout
	}

	p.layout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            res.Name,
		BindGroupLayouts: p.groups,
	})
	if err != nil {
		p.release()
		return nil, errors.Wrapf(err, "program %s: pipeline layout", res.Name)
	}

	b.owned = append(b.owned, p.release)
	return &Program{Name: res.Name, Handle: p}, nil
}

func programOf(p *Program) *wgpuProgram {
	if p == nil {
		return nil
	}
	wp, _ := p.Handle.(*wgpuProgram)
	return wp
}

func (b *wgpuBackend) UniformLocation(p *Program, name string) Location {
	if wp := programOf(p); wp != nil {
		return wp.uniformLocation(name)
	}
	return NoLocation
}

func (b *wgpuBackend) SamplerLocation(p *Program, name string) Location {
	if wp := programOf(p); wp != nil {
		return wp.samplerLocation(name)
	}
	return NoLocation
}

func (b *wgpuBackend) AttribLocation(p *Program, name string) Location {
	if wp := programOf(p); wp != nil {
		return wp.attribLocation(name)
	}
	return NoLocation
}

func (b *wgpuBackend) UpdateFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameTexture != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return errors.Wrap(err, "acquire surface texture")
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return errors.Wrap(err, "create surface view")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return errors.Wrap(err, "create command encoder")
	}

	b.frameTexture = surfaceTexture
	b.frameView = view
	b.encoder = encoder
	b.target = b.screen
	for _, fb := range b.framebuffers {
		fb.touched = false
		fb.depthFrom = nil
	}
	return nil
}

func (b *wgpuBackend) ClearScreen() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bindFramebuffer(b.screen)
	b.clear(mgl32.Vec4{0, 0, 0, 1})
}

func (b *wgpuBackend) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameTexture == nil {
		return nil
	}
	b.endPass()

	commandBuffer, err := b.encoder.Finish(nil)
	b.encoder.Release()
	b.encoder = nil
	if err != nil {
		b.releaseFrame()
		return errors.Wrap(err, "finish frame")
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	b.releaseFrame()
	return nil
}

func (b *wgpuBackend) releaseFrame() {
	for _, release := range b.transient {
		release()
	}
	b.transient = b.transient[:0]
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameTexture != nil {
		b.frameTexture.Release()
		b.frameTexture = nil
	}
}

func (b *wgpuBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.screen.resize(width, height); err != nil {
		log.Printf("graphics: resize screen: %v", err)
	}
}

func (b *wgpuBackend) BindFramebuffer(fb Framebuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bindFramebuffer(fb)
}

func (b *wgpuBackend) bindFramebuffer(fb Framebuffer) {
	target, ok := fb.(*wgpuFramebuffer)
	if !ok || target == nil {
		panic("graphics: framebuffer was not created by this backend")
	}
	if target == b.target && b.pass != nil {
		return
	}
	b.endPass()
	b.target = target
}

func (b *wgpuBackend) Clear(color mgl32.Vec4) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clear(color)
}

func (b *wgpuBackend) clear(color mgl32.Vec4) {
	b.endPass()
	if b.target != nil {
		b.target.depthFrom = nil
	}
	if err := b.beginPass(&color); err != nil {
		log.Printf("graphics: clear %s: %v", b.target.label, err)
	}
}

// beginPass opens a render pass on the current target. A nil clear color loads the previous contents.
func (b *wgpuBackend) beginPass(clear *mgl32.Vec4) error {
	if b.encoder == nil {
		return errors.New("no frame in progress")
	}
	if b.target == nil {
		b.target = b.screen
	}

	loadOp := wgpu.LoadOpLoad
	var clearValue wgpu.Color
	if clear != nil {
		loadOp = wgpu.LoadOpClear
		clearValue = wgpu.Color{R: float64(clear[0]), G: float64(clear[1]), B: float64(clear[2]), A: float64(clear[3])}
	}
	views := b.target.colorViews()
	colors := make([]wgpu.RenderPassColorAttachment, len(views))
	for i, v := range views {
		colors[i] = wgpu.RenderPassColorAttachment{
			View:       v,
			LoadOp:     loadOp,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearValue,
		}
	}

	depthLoad := wgpu.LoadOpLoad
	if b.target.depthFrom == nil && (clear != nil || !b.target.touched) {
		depthLoad = wgpu.LoadOpClear
	}
	b.pass = b.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: colors,
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.target.depthView(),
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	b.target.touched = true
	return nil
}

func (b *wgpuBackend) endPass() {
	if b.pass == nil {
		return
	}
	b.pass.End()
	b.pass.Release()
	b.pass = nil
}

func (b *wgpuBackend) CullOn()   { b.mu.Lock(); b.cull = true; b.mu.Unlock() }
func (b *wgpuBackend) CullOff()  { b.mu.Lock(); b.cull = false; b.mu.Unlock() }
func (b *wgpuBackend) BlendOn()  { b.mu.Lock(); b.blend = true; b.mu.Unlock() }
func (b *wgpuBackend) BlendOff() { b.mu.Lock(); b.blend = false; b.mu.Unlock() }

func (b *wgpuBackend) UseProgram(p *Program) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.program = programOf(p)
}

func (b *wgpuBackend) setUniform(loc Location, values []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.program == nil {
		return
	}
	b.program.writeUniform(loc, values)
}

func (b *wgpuBackend) SetUniformFloat(loc Location, v float32) {
	b.setUniform(loc, []float32{v})
}

func (b *wgpuBackend) SetUniformVec2(loc Location, v mgl32.Vec2) {
	b.setUniform(loc, v[:])
}

func (b *wgpuBackend) SetUniformVec3(loc Location, v mgl32.Vec3) {
	b.setUniform(loc, v[:])
}

func (b *wgpuBackend) SetUniformVec4(loc Location, v mgl32.Vec4) {
	b.setUniform(loc, v[:])
}

func (b *wgpuBackend) SetUniformMat4(loc Location, v mgl32.Mat4) {
	b.setUniform(loc, mat4Floats(v))
}

func (b *wgpuBackend) SetUniformVec4Array(loc Location, v []mgl32.Vec4) {
	floats := make([]float32, 0, len(v)*4)
	for _, e := range v {
		floats = append(floats, e[:]...)
	}
	b.setUniform(loc, floats)
}

func (b *wgpuBackend) BindTexture(loc Location, tex *Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.program
	if p == nil || !loc.Valid() || int(loc) >= len(p.samplerSlots) {
		return
	}
	p.textures[p.samplerSlots[loc]] = tex
}

func (b *wgpuBackend) BindFloatAttrib(loc Location, components, stride, offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.program
	if p == nil || !loc.Valid() || int(loc) >= len(p.attribSlots) {
		return
	}
	a := p.attribSlots[loc]
	p.attribs[a.Location] = vertexAttrib{
		format: shader.FloatFormat(components),
		offset: uint64(offset * 4),
	}
	p.stride = uint64(stride * 4)
}

func (b *wgpuBackend) BindInstances(loc Location, buf *InstanceBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.program
	if p == nil || !loc.Valid() || int(loc) >= len(p.attribSlots) {
		return
	}
	p.instances = buf
}

func (b *wgpuBackend) DisableAttrib(loc Location) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.program
	if p == nil || !loc.Valid() || int(loc) >= len(p.attribSlots) {
		return
	}
	a := p.attribSlots[loc]
	if a.Instance {
		p.instances = nil
		return
	}
	delete(p.attribs, a.Location)
}

func (b *wgpuBackend) DrawInstanced(surface *Surface, buf *InstanceBuffer, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := surface.Handle.(*wgpuSurface)
	if !ok || count <= 0 {
		return
	}
	p := b.program
	if p == nil {
		log.Printf("graphics: draw %s without a program", surface.Label)
		return
	}
	if buf == nil {
		buf = p.instances
	}
	instanced := p.hasInstanceInput()
	if instanced && buf == nil {
		log.Printf("graphics: draw %s with program %s: no instance buffer bound", surface.Label, p.name)
		return
	}
	if p.stride == 0 {
		p.stride = s.stride
	}

	if err := b.prepareDraw(p, instanced, false); err != nil {
		log.Printf("graphics: draw %s with program %s: %v", surface.Label, p.name, err)
		return
	}
	b.pass.SetVertexBuffer(0, s.vertex, 0, wgpu.WholeSize)
	if instanced {
		b.pass.SetVertexBuffer(1, buf.Handle.(*wgpu.Buffer), 0, wgpu.WholeSize)
	}
	b.pass.SetIndexBuffer(s.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.pass.DrawIndexed(uint32(surface.IndexCount), uint32(count), 0, 0, 0)
}

func (b *wgpuBackend) RenderQuad() {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.program
	if p == nil {
		log.Printf("graphics: render quad without a program")
		return
	}
	if err := b.prepareDraw(p, false, true); err != nil {
		log.Printf("graphics: render quad with program %s: %v", p.name, err)
		return
	}
	b.pass.Draw(4, 1, 0, 0)
}

// prepareDraw opens a pass if needed, then sets the pipeline and this draw's bind groups.
func (b *wgpuBackend) prepareDraw(p *wgpuProgram, instanced, quad bool) error {
	if b.pass == nil {
		if err := b.beginPass(nil); err != nil {
			return err
		}
	}
	pl, err := b.pipelineFor(p, instanced, quad)
	if err != nil {
		return err
	}
	b.pass.SetPipeline(pl)

	for g, layout := range p.groups {
		group, err := b.bindGroup(p, uint32(g), layout)
		if err != nil {
			return err
		}
		b.pass.SetBindGroup(uint32(g), group, nil)
	}
	return nil
}

// bindGroup builds the bind group of one draw from the program's current uniform block and textures.
func (b *wgpuBackend) bindGroup(p *wgpuProgram, group uint32, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
	var entries []wgpu.BindGroupEntry
	for _, res := range p.reflection.Resources {
		if res.Group != group {
			continue
		}
		entry := wgpu.BindGroupEntry{Binding: res.Binding}
		switch res.Kind {
		case shader.ResourceBuffer:
			data := p.uniforms
			if len(data) == 0 {
				data = make([]byte, 16)
			}
			buf, err := b.createBuffer(p.name+" uniforms", data, wgpu.BufferUsageUniform)
			if err != nil {
				return nil, err
			}
			b.transient = append(b.transient, buf.Release)
			entry.Buffer = buf
			entry.Size = wgpu.WholeSize
		case shader.ResourceTexture:
			tex := p.textures[res.Name]
			if tex == nil {
				tex = b.white
			}
			h, ok := tex.Handle.(*wgpuTexture)
			if !ok {
				h = b.white.Handle.(*wgpuTexture)
			}
			entry.TextureView = h.view
		case shader.ResourceSampler:
			entry.Sampler = b.sampler
		}
		entries = append(entries, entry)
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.name,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bind group %d", group)
	}
	b.transient = append(b.transient, bg.Release)
	return bg, nil
}

func (b *wgpuBackend) pipelineFor(p *wgpuProgram, instanced, quad bool) (*wgpu.RenderPipeline, error) {
	formats := b.target.formats()
	if n := p.reflection.Targets; n < len(formats) {
		formats = formats[:n]
	}
	var fkey []byte
	for _, f := range formats {
		fkey = append(fkey, byte(f), byte(f>>8))
	}
	key := pipelineKey{
		cull:      b.cull && !quad,
		blend:     b.blend,
		targets:   string(fkey),
		instanced: instanced,
	}
	if quad {
		key.layout = "quad"
	} else {
		key.layout = p.layoutKey()
	}
	if pl, ok := p.pipelines[key]; ok {
		return pl, nil
	}

	targets := make([]wgpu.ColorTargetState, len(formats))
	for i, f := range formats {
		targets[i] = wgpu.ColorTargetState{
			Format:    f,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if key.blend {
			targets[i].Blend = &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorSrcAlpha,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
				Alpha: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
			}
		}
	}

	topology := wgpu.PrimitiveTopologyTriangleList
	depthCompare := wgpu.CompareFunctionLess
	depthWrite := true
	var buffers []wgpu.VertexBufferLayout
	if quad {
		topology = wgpu.PrimitiveTopologyTriangleStrip
		depthCompare = wgpu.CompareFunctionAlways
		depthWrite = false
	} else {
		buffers = p.vertexLayouts(instanced)
	}
	cullMode := wgpu.CullModeNone
	if key.cull {
		cullMode = wgpu.CullModeBack
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.name + " Render Pipeline",
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: p.reflection.VertexEntry,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: p.reflection.FragmentEntry,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: depthWrite,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create pipeline for %s", p.name)
	}
	p.pipelines[key] = created
	return created, nil
}

func (b *wgpuBackend) CopyDepth(from, to Framebuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok1 := from.(*wgpuFramebuffer)
	dst, ok2 := to.(*wgpuFramebuffer)
	if !ok1 || !ok2 {
		panic("graphics: framebuffer was not created by this backend")
	}
	if src.width != dst.width || src.height != dst.height {
		log.Printf("graphics: copy depth %s -> %s: size mismatch %dx%d vs %dx%d", src.label, dst.label, src.width, src.height, dst.width, dst.height)
		return
	}
	b.endPass()
	dst.depthFrom = src
}

func (b *wgpuBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.endPass()
	if b.encoder != nil {
		b.encoder.Release()
		b.encoder = nil
	}
	b.releaseFrame()
	for i := len(b.owned) - 1; i >= 0; i-- {
		b.owned[i]()
	}
	b.owned = nil
	b.screen.release()
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	runtime.UnlockOSThread()
	return nil
}
