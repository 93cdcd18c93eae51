package loader

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackend reads glTF 2.0 documents, both .gltf JSON and .glb binaries.
// Only triangle primitives are imported; skinned meshes use the first 4 joint influences
// of a vertex, packed down to model.MaxInfluences.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackend{}
}

// decode opens the document from disk when the path is known so external buffers resolve.
func (b *gltfLoaderBackend) decode(src source) (*gltf.Document, error) {
	if src.path != "" {
		doc, err := gltf.Open(src.path)
		if err != nil {
			return nil, errors.Wrapf(err, "gltf %s", src.name)
		}
		return doc, nil
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(src.r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "gltf %s", src.name)
	}
	return doc, nil
}

func (b *gltfLoaderBackend) Model(src source) (*model.Model, error) {
	doc, err := b.decode(src)
	if err != nil {
		return nil, err
	}

	m := &model.Model{Name: src.name}
	for mi, mesh := range doc.Meshes {
		var skin *gltfSkin
		if si, ok := gltfSkinOfMesh(doc, mi); ok {
			if skin, err = readGLTFSkin(doc, si); err != nil {
				return nil, errors.Wrapf(err, "gltf %s mesh %d", src.name, mi)
			}
		}
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				log.Printf("loader: %s mesh %d primitive %d is not a triangle list, skipped", src.name, mi, pi)
				continue
			}
			name := mesh.Name
			if name == "" {
				name = fmt.Sprintf("%s.%d", src.name, mi)
			}
			if len(mesh.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", name, pi)
			}
			out, err := readGLTFPrimitive(doc, prim, skin, name)
			if err != nil {
				return nil, errors.Wrapf(err, "gltf %s mesh %s", src.name, name)
			}
			out.Texture = gltfBaseColorURI(doc, prim, src.path)
			m.Meshes = append(m.Meshes, out)
		}
	}
	if len(m.Meshes) == 0 {
		return nil, errors.Errorf("gltf %s: no triangle meshes", src.name)
	}
	return m, nil
}

func (b *gltfLoaderBackend) Skeleton(src source) (*animation.Skeleton, error) {
	doc, err := b.decode(src)
	if err != nil {
		return nil, err
	}
	if len(doc.Skins) == 0 {
		return nil, errors.Errorf("gltf %s: no skins", src.name)
	}
	skin, err := readGLTFSkin(doc, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf %s", src.name)
	}
	return animation.NewSkeleton(skin.bones, skin.rest), nil
}

func (b *gltfLoaderBackend) Frames(src source, clip string) ([]*animation.Frame, error) {
	doc, err := b.decode(src)
	if err != nil {
		return nil, err
	}
	if len(doc.Skins) == 0 {
		return nil, errors.Errorf("gltf %s: no skins", src.name)
	}
	skin, err := readGLTFSkin(doc, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf %s", src.name)
	}
	anim, err := gltfFindAnimation(doc, clip)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf %s", src.name)
	}
	frames, err := sampleGLTFAnimation(doc, anim, skin)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf %s animation %q", src.name, anim.Name)
	}
	return frames, nil
}

func readGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, skin *gltfSkin, name string) (*model.Mesh, error) {
	pi, ok := gltfAttribute(prim, gltf.POSITION)
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[pi], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}

	var normals [][3]float32
	if i, ok := gltfAttribute(prim, gltf.NORMAL); ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[i], nil); err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
	}
	var uvs [][2]float32
	if i, ok := gltfAttribute(prim, gltf.TEXCOORD_0); ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[i], nil); err != nil {
			return nil, errors.Wrap(err, "read texture coordinates")
		}
	}

	mesh := &model.Mesh{Name: name, Vertices: make([]model.Vertex, len(positions))}
	for i, p := range positions {
		v := model.Vertex{Position: mgl32.Vec3(p), Color: model.DefaultColor}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			// glTF addresses the top-left texel at v = 0, decoded textures put row 0 at the bottom.
			v.UV = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		mesh.Vertices[i] = v
	}

	var indices []uint32
	if i, ok := gltfIndex(prim.Indices); ok {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[i], nil); err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		t := model.Triangle{indices[i], indices[i+1], indices[i+2]}
		if int(max(t[0], t[1], t[2])) >= len(positions) {
			return nil, errors.Errorf("triangle %d indexes past %d vertices", i/3, len(positions))
		}
		mesh.Triangles = append(mesh.Triangles, t)
	}

	if skin != nil {
		if err := readGLTFWeights(doc, prim, skin, mesh); err != nil {
			return nil, err
		}
	}

	if normals == nil {
		mesh.GenerateNormals()
	}
	if uvs != nil {
		mesh.GenerateTangents()
	} else {
		mesh.GenerateOrthogonalTangents()
	}
	return mesh, nil
}

func readGLTFWeights(doc *gltf.Document, prim *gltf.Primitive, skin *gltfSkin, mesh *model.Mesh) error {
	ji, okj := gltfAttribute(prim, gltf.JOINTS_0)
	wi, okw := gltfAttribute(prim, gltf.WEIGHTS_0)
	if !okj || !okw {
		return nil
	}
	joints, err := modeler.ReadJoints(doc, doc.Accessors[ji], nil)
	if err != nil {
		return errors.Wrap(err, "read joints")
	}
	weights, err := modeler.ReadWeights(doc, doc.Accessors[wi], nil)
	if err != nil {
		return errors.Wrap(err, "read weights")
	}

	mesh.Rigged = true
	mesh.Weights = make([]model.Weights, len(mesh.Vertices))
	unnormalized := 0
	for v := range mesh.Weights {
		if v >= len(joints) || v >= len(weights) {
			break
		}
		links := make([]link, 0, 4)
		for k := 0; k < 4; k++ {
			if weights[v][k] == 0 {
				continue
			}
			bone, ok := skin.remap[int(joints[v][k])]
			if !ok {
				return errors.Errorf("vertex %d references joint %d outside the skin", v, joints[v][k])
			}
			links = append(links, link{bone: bone, weight: weights[v][k]})
		}
		w, ok := fitWeights(heaviestFirst(links))
		if !ok {
			unnormalized++
		}
		mesh.Weights[v] = w
	}
	if unnormalized > 0 {
		log.Printf("loader: %s has %d vertices whose weights do not sum to 1", mesh.Name, unnormalized)
	}
	return nil
}

// gltfBaseColorURI resolves the image file of the primitive's base color texture, empty
// when the image is embedded or absent.
func gltfBaseColorURI(doc *gltf.Document, prim *gltf.Primitive, path string) string {
	mi, ok := gltfIndex(prim.Material)
	if !ok || mi >= len(doc.Materials) {
		return ""
	}
	pbr := doc.Materials[mi].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return ""
	}
	ti, ok := gltfIndex(pbr.BaseColorTexture.Index)
	if !ok || ti >= len(doc.Textures) {
		return ""
	}
	ii, ok := gltfIndex(doc.Textures[ti].Source)
	if !ok || ii >= len(doc.Images) {
		return ""
	}
	img := doc.Images[ii]
	if img.URI == "" || img.IsEmbeddedResource() {
		return ""
	}
	if path == "" {
		return img.URI
	}
	return filepath.Join(filepath.Dir(path), img.URI)
}

func gltfAttribute(prim *gltf.Primitive, name string) (int, bool) {
	v, ok := prim.Attributes[name]
	if !ok {
		return 0, false
	}
	return gltfIndex(v)
}

// gltfIndex reads an optional or required document index field.
func gltfIndex(v any) (int, bool) {
	switch x := v.(type) {
	case *uint32:
		if x == nil {
			return 0, false
		}
		return int(*x), true
	case *int:
		if x == nil {
			return 0, false
		}
		return *x, true
	case uint32:
		return int(x), true
	case int:
		return x, true
	}
	return 0, false
}
