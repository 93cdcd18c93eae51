package model

import "github.com/go-gl/mathgl/mgl32"

// Vertex layout offsets in floats within the interleaved vertex stream.
const (
	OffsetPosition = 0
	OffsetNormal   = 3
	OffsetTangent  = 6
	OffsetBinormal = 9
	OffsetUV       = 12
	OffsetColor    = 14

	// OffsetBoneIDs and OffsetBoneWeights only exist in rigged streams.
	OffsetBoneIDs     = 18
	OffsetBoneWeights = 21

	// Stride is the float count of a static vertex.
	Stride = 18

	// RiggedStride is the float count of a skinned vertex.
	RiggedStride = 24
)

// MaxInfluences is the number of bones that may affect one vertex.
const MaxInfluences = 3

// Vertex is a single mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	Binormal mgl32.Vec3
	UV       mgl32.Vec2
	Color    mgl32.Vec4
}

// Weights holds the bone influences of one vertex. Unused slots carry weight 0.
type Weights struct {
	BoneIDs     [MaxInfluences]float32
	BoneWeights [MaxInfluences]float32
}

// Triangle indexes three vertices of a Mesh.
type Triangle [3]uint32

// Mesh is a triangle list with optional per-vertex skinning weights.
// When Rigged is true, Weights has exactly one entry per vertex.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices.
	Vertices []Vertex

	// Triangles index into Vertices.
	Triangles []Triangle

	// Weights are the skinning weights, parallel to Vertices.
	Weights []Weights

	// Rigged reports whether the mesh is skinned to a skeleton.
	Rigged bool

	// Texture is the diffuse texture path referenced by the source file, if any.
	Texture string
}

// Model is a set of meshes loaded from one file.
type Model struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all meshes of the model.
	Meshes []*Mesh
}
