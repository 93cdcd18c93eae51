package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultColor is the vertex color assigned by loaders that carry none.
var DefaultColor = mgl32.Vec4{1, 1, 1, 1}

// Floats interleaves the mesh vertices into a GPU vertex stream.
// Static meshes emit Stride floats per vertex, rigged meshes RiggedStride.
//
// Returns:
//   - []float32: the interleaved vertex data
func (m *Mesh) Floats() []float32 {
	stride := m.Stride()
	out := make([]float32, len(m.Vertices)*stride)
	for i, v := range m.Vertices {
		p := out[i*stride:]
		copy(p[OffsetPosition:], v.Position[:])
		copy(p[OffsetNormal:], v.Normal[:])
		copy(p[OffsetTangent:], v.Tangent[:])
		copy(p[OffsetBinormal:], v.Binormal[:])
		copy(p[OffsetUV:], v.UV[:])
		copy(p[OffsetColor:], v.Color[:])
		if m.Rigged && i < len(m.Weights) {
			copy(p[OffsetBoneIDs:], m.Weights[i].BoneIDs[:])
			copy(p[OffsetBoneWeights:], m.Weights[i].BoneWeights[:])
		}
	}
	return out
}

// Stride returns the float count per vertex of the mesh stream.
func (m *Mesh) Stride() int {
	if m.Rigged {
		return RiggedStride
	}
	return Stride
}

// Indices flattens the triangle list.
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the mesh.
//
// Returns:
//   - mgl32.Vec3: the minimum corner
//   - mgl32.Vec3: the maximum corner
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo := m.Vertices[0].Position
	hi := lo
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = math32.Min(lo[a], v.Position[a])
			hi[a] = math32.Max(hi[a], v.Position[a])
		}
	}
	return lo, hi
}

// GenerateNormals replaces every vertex normal with the normalized sum of its face normals.
func (m *Mesh) GenerateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl32.Vec3{}
	}
	for _, t := range m.Triangles {
		n := faceNormal(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]])
		for _, idx := range t {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = normalize(m.Vertices[i].Normal)
	}
}

// GenerateTangents derives tangents and binormals from the texture coordinate gradients of each face.
func (m *Mesh) GenerateTangents() {
	m.accumulateTangents(func(a, b, c Vertex) (mgl32.Vec3, mgl32.Vec3) {
		return faceTangent(a, b, c), faceBinormal(a, b, c)
	})
}

// GenerateOrthogonalTangents derives a tangent frame orthogonal to each face normal.
func (m *Mesh) GenerateOrthogonalTangents() {
	m.accumulateTangents(func(a, b, c Vertex) (mgl32.Vec3, mgl32.Vec3) {
		n := faceNormal(a, b, c)
		t := normalize(faceBinormal(a, b, c).Cross(n))
		return t, normalize(t.Cross(n))
	})
}

// GenerateTexcoordsCylinder assigns texture coordinates by projecting the mesh onto a y-aligned cylinder.
func (m *Mesh) GenerateTexcoordsCylinder() {
	if len(m.Vertices) == 0 {
		return
	}
	unwrap := mgl32.Vec2{1, 0}
	minH, maxH := math32.Inf(1), math32.Inf(-1)
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		minH = math32.Min(minH, p.Y())
		maxH = math32.Max(maxH, p.Y())
		proj := mgl32.Vec2{p.X(), p.Z()}
		if proj.Len() > 0 {
			proj = proj.Normalize()
		}
		m.Vertices[i].UV = mgl32.Vec2{(proj.Dot(unwrap) + 1) / 8, p.Y()}
	}
	scale := maxH - minH
	if scale == 0 {
		scale = 1
	}
	for i := range m.Vertices {
		m.Vertices[i].UV[1] /= scale
	}
}

func (m *Mesh) accumulateTangents(face func(a, b, c Vertex) (mgl32.Vec3, mgl32.Vec3)) {
	for i := range m.Vertices {
		m.Vertices[i].Tangent = mgl32.Vec3{}
		m.Vertices[i].Binormal = mgl32.Vec3{}
	}
	for _, t := range m.Triangles {
		tan, bin := face(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]])
		for _, idx := range t {
			m.Vertices[idx].Tangent = m.Vertices[idx].Tangent.Add(tan)
			m.Vertices[idx].Binormal = m.Vertices[idx].Binormal.Add(bin)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Tangent = normalize(m.Vertices[i].Tangent)
		m.Vertices[i].Binormal = normalize(m.Vertices[i].Binormal)
	}
}

func faceNormal(a, b, c Vertex) mgl32.Vec3 {
	return normalize(b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)))
}

// faceGradients returns the position edges and the reciprocal uv determinant of a face.
func faceGradients(a, b, c Vertex) (e1, e2 mgl32.Vec3, s1, s2, t1, t2, r float32) {
	e1 = b.Position.Sub(a.Position)
	e2 = c.Position.Sub(a.Position)
	s1, s2 = b.UV.X()-a.UV.X(), c.UV.X()-a.UV.X()
	t1, t2 = b.UV.Y()-a.UV.Y(), c.UV.Y()-a.UV.Y()
	det := s1*t2 - s2*t1
	if det == 0 {
		return e1, e2, s1, s2, t1, t2, 0
	}
	return e1, e2, s1, s2, t1, t2, 1 / det
}

func faceTangent(a, b, c Vertex) mgl32.Vec3 {
	e1, e2, _, _, t1, t2, r := faceGradients(a, b, c)
	return normalize(e1.Mul(t2).Sub(e2.Mul(t1)).Mul(r))
}

func faceBinormal(a, b, c Vertex) mgl32.Vec3 {
	e1, e2, s1, s2, _, _, r := faceGradients(a, b, c)
	return normalize(e2.Mul(s1).Sub(e1.Mul(s2)).Mul(r))
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// Bounds returns the axis-aligned box enclosing every mesh of the model.
//
// Returns:
//   - mgl32.Vec3: the minimum corner
//   - mgl32.Vec3: the maximum corner
func (m *Model) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	var lo, hi mgl32.Vec3
	first := true
	for _, mesh := range m.Meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}
		mlo, mhi := mesh.Bounds()
		if first {
			lo, hi, first = mlo, mhi, false
			continue
		}
		for a := 0; a < 3; a++ {
			lo[a] = math32.Min(lo[a], mlo[a])
			hi[a] = math32.Max(hi[a], mhi[a])
		}
	}
	return lo, hi
}

// Rigged reports whether any mesh of the model is skinned.
func (m *Model) Rigged() bool {
	for _, mesh := range m.Meshes {
		if mesh.Rigged {
			return true
		}
	}
	return false
}

// GenerateNormals regenerates the normals of every mesh.
func (m *Model) GenerateNormals() {
	for _, mesh := range m.Meshes {
		mesh.GenerateNormals()
	}
}

// GenerateTangents regenerates the tangents of every mesh.
func (m *Model) GenerateTangents() {
	for _, mesh := range m.Meshes {
		mesh.GenerateTangents()
	}
}
