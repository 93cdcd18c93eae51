// Package shader reflects WGSL programs: vertex inputs, the uniform block layout and the
// texture bindings are extracted from the source so that pipelines can address them by name.
package shader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// UniformGroup and TextureGroup are the bind group indices every program uses.
// Group 0 binding 0 holds the uniform block; group 1 holds texture and sampler pairs.
const (
	UniformGroup = 0
	TextureGroup = 1
)

// SamplerSuffix names the sampler paired with a texture binding.
const SamplerSuffix = "_sampler"

// ResourceKind classifies a module-scope binding.
type ResourceKind int

const (
	ResourceBuffer ResourceKind = iota
	ResourceTexture
	ResourceSampler
)

// Attribute is a vertex input of the program.
type Attribute struct {
	// Name is the input name. Matrix inputs split over four vec4 columns named name_0..name_3
	// are reported once under the base name.
	Name string

	// Location is the shader location of the input, or of its first column.
	Location uint32

	// Format is the declared format of the input (of one column for matrices).
	Format wgpu.VertexFormat

	// Columns is 4 for matrix inputs and 1 otherwise.
	Columns int

	// Instance reports whether the input steps per instance.
	Instance bool
}

// Uniform is one addressable member of the uniform block.
type Uniform struct {
	Name   string
	Offset uint64
	Size   uint64
}

// Resource is a module-scope binding.
type Resource struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    ResourceKind
	Entry   wgpu.BindGroupLayoutEntry
}

// Reflection is everything a backend needs to know about a program's interface.
type Reflection struct {
	VertexEntry   string
	FragmentEntry string

	// Targets is the number of fragment color outputs.
	Targets int

	Attributes []Attribute

	// Uniforms addresses block members by name. Struct array members are
	// flattened to name[i].field.
	Uniforms map[string]Uniform

	// UniformSize is the byte size of the uniform block, 0 when the program has none.
	UniformSize uint64

	Resources []Resource
}

// Reflect parses a WGSL module holding one vertex and one fragment entry point.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - *Reflection: the program interface
//   - error: error if an entry point is missing or the uniform block cannot be laid out
func Reflect(source string) (*Reflection, error) {
	cleaned := stripComments(source)
	structs := parseStructs(cleaned)
	layouts := structLayouts(structs)
	byName := make(map[string]wgslStruct, len(structs))
	for _, s := range structs {
		byName[s.name] = s
	}

	r := &Reflection{Uniforms: make(map[string]Uniform)}

	vm := vertexEntryRegex.FindStringSubmatch(cleaned)
	if vm == nil {
		return nil, errors.New("shader: no @vertex entry point")
	}
	r.VertexEntry = vm[1]

	fm := fragmentEntryRegex.FindStringSubmatch(cleaned)
	if fm == nil {
		return nil, errors.New("shader: no @fragment entry point")
	}
	r.FragmentEntry = fm[1]
	r.Targets = 1
	if out, ok := byName[fm[2]]; ok {
		r.Targets = 0
		for _, f := range out.fields {
			if f.location >= 0 {
				r.Targets++
			}
		}
	}

	for _, s := range structs {
		if isVertexInput(s) {
			r.Attributes = append(r.Attributes, vertexAttributes(s)...)
		}
	}
	sort.Slice(r.Attributes, func(i, j int) bool { return r.Attributes[i].Location < r.Attributes[j].Location })

	for _, m := range resourceRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		res := Resource{
			Name:    m[4],
			Group:   uint32(group),
			Binding: uint32(binding),
		}
		res.Kind, res.Entry = classify(uint32(binding), strings.TrimSpace(m[3]), strings.TrimSpace(m[5]))
		if res.Kind == ResourceBuffer && group == UniformGroup && binding == 0 {
			typeName := strings.TrimSpace(m[5])
			block, ok := byName[typeName]
			if !ok {
				return nil, errors.Errorf("shader: uniform block type %s is not a struct", typeName)
			}
			size, err := flattenUniforms(r.Uniforms, "", 0, block, byName, layouts)
			if err != nil {
				return nil, err
			}
			r.UniformSize = roundUp(16, size)
			res.Entry.Buffer.MinBindingSize = r.UniformSize
		}
		r.Resources = append(r.Resources, res)
	}

	return r, nil
}

// Attribute looks up a vertex input by name.
func (r *Reflection) Attribute(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Resource looks up a binding by name.
func (r *Reflection) Resource(name string) (Resource, bool) {
	for _, res := range r.Resources {
		if res.Name == name {
			return res, true
		}
	}
	return Resource{}, false
}

// Groups returns the bind group layout descriptors keyed by group index, entries sorted by binding.
func (r *Reflection) Groups() map[uint32]wgpu.BindGroupLayoutDescriptor {
	entries := make(map[uint32][]wgpu.BindGroupLayoutEntry)
	for _, res := range r.Resources {
		entries[res.Group] = append(entries[res.Group], res.Entry)
	}
	out := make(map[uint32]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, e := range entries {
		sort.Slice(e, func(i, j int) bool { return e[i].Binding < e[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("group %d", g),
			Entries: e,
		}
	}
	return out
}

// isVertexInput reports whether a struct carries only @location members.
// Vertex outputs mix @location with @builtin(position) and are excluded.
func isVertexInput(s wgslStruct) bool {
	located := false
	for _, f := range s.fields {
		if f.builtin {
			return false
		}
		if f.location >= 0 {
			located = true
		}
	}
	return located && !strings.HasSuffix(s.name, "Output")
}

func vertexAttributes(s wgslStruct) []Attribute {
	instance := strings.HasPrefix(s.name, "Instance")
	var out []Attribute
	columns := make(map[string]int)
	for _, f := range s.fields {
		vf, ok := vertexFormats[f.typeName]
		if !ok || f.location < 0 {
			continue
		}
		base, col, isColumn := matrixColumn(f.name)
		if isColumn {
			idx, seen := columns[base]
			if !seen {
				columns[base] = len(out)
				out = append(out, Attribute{Name: base, Location: uint32(f.location), Format: vf.format, Columns: 1, Instance: instance})
				continue
			}
			out[idx].Columns++
			if uint32(f.location) < out[idx].Location || col == 0 {
				out[idx].Location = uint32(f.location)
			}
			continue
		}
		out = append(out, Attribute{Name: f.name, Location: uint32(f.location), Format: vf.format, Columns: 1, Instance: instance})
	}
	return out
}

// matrixColumn splits am4_transform_2 into ("am4_transform", 2). Only names with the am4 prefix qualify.
func matrixColumn(name string) (string, int, bool) {
	if !strings.HasPrefix(name, "am4_") {
		return "", 0, false
	}
	i := strings.LastIndexByte(name, '_')
	col, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return "", 0, false
	}
	return name[:i], col, true
}

func classify(binding uint32, addressSpace, typeName string) (ResourceKind, wgpu.BindGroupLayoutEntry) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		return ResourceBuffer, entry
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		return ResourceSampler, entry
	case strings.HasPrefix(typeName, "texture_depth_2d"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		return ResourceTexture, entry
	default:
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		return ResourceTexture, entry
	}
}

// resolveLayout resolves primitives, known structs and fixed size arrays.
func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	if elem, n, ok := arrayType(typeName); ok {
		el, ok := resolveLayout(elem, known)
		if !ok {
			return typeLayout{}, false
		}
		stride := arrayStride(el)
		return typeLayout{uint64(n) * stride, roundUp(16, el.align)}, true
	}
	return typeLayout{}, false
}

// arrayStride follows the uniform address space rule that array elements are 16 byte aligned.
func arrayStride(el typeLayout) uint64 {
	return roundUp(roundUp(16, el.align), el.size)
}

func structLayout(s wgslStruct, known map[string]typeLayout) (typeLayout, bool) {
	offset, maxAlign := uint64(0), uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayout{roundUp(maxAlign, offset), maxAlign}, true
}

// structLayouts resolves struct layouts until no further progress, so nested structs may appear in any order.
func structLayouts(structs []wgslStruct) map[string]typeLayout {
	known := make(map[string]typeLayout, len(structs))
	pending := append([]wgslStruct(nil), structs...)
	for len(pending) > 0 {
		next := pending[:0]
		for _, s := range pending {
			if l, ok := structLayout(s, known); ok {
				known[s.name] = l
			} else {
				next = append(next, s)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return known
}

// flattenUniforms records every member of block at base and returns the end offset of the block.
func flattenUniforms(out map[string]Uniform, prefix string, base uint64, block wgslStruct, structs map[string]wgslStruct, known map[string]typeLayout) (uint64, error) {
	offset := uint64(0)
	for _, f := range block.fields {
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return 0, errors.Errorf("shader: cannot lay out uniform %s%s of type %s", prefix, f.name, f.typeName)
		}
		offset = roundUp(l.align, offset)
		name := prefix + f.name
		out[name] = Uniform{Name: name, Offset: base + offset, Size: l.size}

		if inner, ok := structs[f.typeName]; ok {
			if _, err := flattenUniforms(out, name+".", base+offset, inner, structs, known); err != nil {
				return 0, err
			}
		}
		if elem, n, ok := arrayType(f.typeName); ok {
			el, _ := resolveLayout(elem, known)
			stride := arrayStride(el)
			for i := 0; i < n; i++ {
				elemName := name + "[" + strconv.Itoa(i) + "]"
				elemOffset := base + offset + uint64(i)*stride
				out[elemName] = Uniform{Name: elemName, Offset: elemOffset, Size: el.size}
				if inner, ok := structs[elem]; ok {
					if _, err := flattenUniforms(out, elemName+".", elemOffset, inner, structs, known); err != nil {
						return 0, err
					}
				}
			}
		}
		offset += l.size
	}
	return offset, nil
}
