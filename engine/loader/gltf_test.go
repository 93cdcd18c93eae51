package loader

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGLB(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}

	dir := t.TempDir()
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")))

	l := NewLoader(WithRoot(dir))
	m, err := l.LoadModel("tri.glb")
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	require.Len(t, m.Meshes, 1)

	mesh := m.Meshes[0]
	assert.Equal(t, "tri", mesh.Name)
	assert.False(t, mesh.Rigged)
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []model.Triangle{{0, 1, 2}}, mesh.Triangles)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Vertices[0].Normal)

	_, err = l.LoadSkeleton("tri.glb")
	assert.Error(t, err)
	_, err = l.LoadAnimation("tri.glb#Walk")
	assert.Error(t, err)
}

func TestGLTFSkinOrdersParentsFirst(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "armature", Children: []uint32{1}},
			{Name: "hip", Children: []uint32{2}, Translation: [3]float32{0, 1, 0}},
			{Name: "knee", Translation: [3]float32{0, 0, 1}},
		},
		Skins: []*gltf.Skin{{Joints: []uint32{2, 1}}},
	}

	s, err := readGLTFSkin(doc, 0)
	require.NoError(t, err)
	assert.Equal(t, []animation.Bone{{Name: "hip", Parent: -1}, {Name: "knee", Parent: 0}}, s.bones)
	assert.Equal(t, map[int]int{0: 1, 1: 0}, s.remap)
	assert.Equal(t, []int{1, 2}, s.nodes)

	assert.Equal(t, mgl32.Vec3{0, 1, 0}, s.rest.Positions[0])
	assert.Equal(t, mgl32.QuatIdent(), s.rest.Rotations[1])
	knee := s.rest.Transforms()[1]
	assert.True(t, mgl32.Vec3{0, 1, 1}.ApproxEqual(knee.Col(3).Vec3()))
}

func TestGLTFTrackSampling(t *testing.T) {
	fr := animation.NewFrame([]int{-1}, []mgl32.Vec3{{}}, []mgl32.Quat{mgl32.QuatIdent()})
	tr := gltfTrack{
		path:   gltf.TRSTranslation,
		interp: gltf.InterpolationLinear,
		times:  []float32{0, 1},
		vec3s:  [][3]float32{{0, 0, 0}, {2, 0, 0}},
	}

	tr.apply(fr, 0.5)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, fr.Positions[0])
	tr.apply(fr, 3)
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, fr.Positions[0])

	tr.interp = gltf.InterpolationStep
	tr.apply(fr, 0.5)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, fr.Positions[0])

	tr.interp = gltf.InterpolationCubicSpline
	tr.vec3s = [][3]float32{{9, 9, 9}, {0, 0, 0}, {9, 9, 9}, {9, 9, 9}, {4, 0, 0}, {9, 9, 9}}
	tr.apply(fr, 0.25)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, fr.Positions[0])

	rot := gltfTrack{
		path:   gltf.TRSRotation,
		interp: gltf.InterpolationLinear,
		times:  []float32{0, 1},
		vec4s:  [][4]float32{{0, 0, 0, 1}, {0, 0, 1, 0}},
	}
	rot.apply(fr, 1)
	want := mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 0, 1})
	assert.True(t, fr.Rotations[0].OrientationEqualThreshold(want, 1e-5))
}
