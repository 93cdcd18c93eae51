package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, UV: mgl32.Vec2{0, 0}, Color: DefaultColor},
			{Position: mgl32.Vec3{1, 0, 0}, UV: mgl32.Vec2{1, 0}, Color: DefaultColor},
			{Position: mgl32.Vec3{1, 1, 0}, UV: mgl32.Vec2{1, 1}, Color: DefaultColor},
			{Position: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0, 1}, Color: DefaultColor},
		},
		Triangles: []Triangle{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestFloatsLayout(t *testing.T) {
	m := quad()
	m.Vertices[2].Normal = mgl32.Vec3{0, 0, 1}

	out := m.Floats()
	require.Len(t, out, 4*Stride)
	v := out[2*Stride : 3*Stride]
	assert.Equal(t, []float32{1, 1, 0}, v[OffsetPosition:OffsetPosition+3])
	assert.Equal(t, []float32{0, 0, 1}, v[OffsetNormal:OffsetNormal+3])
	assert.Equal(t, []float32{1, 1}, v[OffsetUV:OffsetUV+2])
	assert.Equal(t, []float32{1, 1, 1, 1}, v[OffsetColor:OffsetColor+4])
}

func TestFloatsRigged(t *testing.T) {
	m := quad()
	m.Rigged = true
	m.Weights = make([]Weights, 4)
	m.Weights[1] = Weights{BoneIDs: [3]float32{2, 5, 0}, BoneWeights: [3]float32{0.25, 0.75, 0}}

	out := m.Floats()
	require.Len(t, out, 4*RiggedStride)
	v := out[RiggedStride : 2*RiggedStride]
	assert.Equal(t, []float32{2, 5, 0}, v[OffsetBoneIDs:OffsetBoneIDs+3])
	assert.Equal(t, []float32{0.25, 0.75, 0}, v[OffsetBoneWeights:OffsetBoneWeights+3])
}

func TestGenerateNormalsAndTangents(t *testing.T) {
	m := quad()
	m.GenerateNormals()
	m.GenerateTangents()
	for _, v := range m.Vertices {
		assert.True(t, v.Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}))
		assert.True(t, v.Tangent.ApproxEqual(mgl32.Vec3{1, 0, 0}))
		assert.True(t, v.Binormal.ApproxEqual(mgl32.Vec3{0, 1, 0}))
	}
}

func TestBounds(t *testing.T) {
	a := quad()
	b := quad()
	for i := range b.Vertices {
		b.Vertices[i].Position = b.Vertices[i].Position.Add(mgl32.Vec3{0, 0, -3})
	}
	model := &Model{Meshes: []*Mesh{a, b}}
	lo, hi := model.Bounds()
	assert.Equal(t, mgl32.Vec3{0, 0, -3}, lo)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, hi)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, a.Indices())
}

func TestGenerateTexcoordsCylinder(t *testing.T) {
	m := quad()
	m.GenerateTexcoordsCylinder()
	assert.InDelta(t, 0, m.Vertices[0].UV.Y(), 1e-6)
	assert.InDelta(t, 1, m.Vertices[2].UV.Y(), 1e-6)
}
