package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crateSMD = `version 1
nodes
  0 "root" -1
end
skeleton
time 0
  0 0 0 0 0 0 0
end
triangles
crate.png
0 0 0 0 0 0 1 0 0
0 1 0 0 0 0 1 1 0
0 0 1 0 0 0 1 0 1
crate.png
0 0 0 0 0 0 1 0 0
0 0 1 0 0 0 1 0 1
0 0 0 1 0 0 1 1 1
end
`

const skinSMD = `version 1
nodes
  0 "pelvis" -1
  1 "spine" 0
end
skeleton
time 0
  0 0 0 0 0 0 0
  1 0 1 0 0 0 0
time 1
  1 0 2 0 0 0 1.5707964
end
triangles
skin.png
0 0 0 0 0 0 1 0 0 4 0 0.4 1 0.4 0 0.1 1 0.1
1 1 0 0 0 0 1 1 0 1 1 1.0
0 0 1 0 0 0 1 0 1 2 0 0.5 1 0.5
end
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadStaticSMD(t *testing.T) {
	dir := writeFiles(t, map[string]string{"crate.smd": crateSMD})
	l := NewLoader(WithRoot(dir))

	m, err := l.LoadModel("crate.smd")
	require.NoError(t, err)
	assert.Equal(t, "crate", m.Name)
	require.Len(t, m.Meshes, 1)

	mesh := m.Meshes[0]
	assert.False(t, mesh.Rigged)
	assert.Nil(t, mesh.Weights)
	assert.Equal(t, "crate.png", mesh.Texture)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []model.Triangle{{0, 1, 2}, {0, 2, 3}}, mesh.Triangles)
	assert.Equal(t, model.DefaultColor, mesh.Vertices[0].Color)

	again, err := l.LoadModel("crate.smd")
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Same(t, m, l.Get("crate.smd"))
	assert.Len(t, l.Models(), 1)
}

func TestLoadRiggedSMD(t *testing.T) {
	dir := writeFiles(t, map[string]string{"skin.smd": skinSMD})
	l := NewLoader(WithRoot(dir))

	m, err := l.LoadModel("skin.smd")
	require.NoError(t, err)
	mesh := m.Meshes[0]
	require.True(t, mesh.Rigged)
	require.Len(t, mesh.Weights, 3)

	w := mesh.Weights[0]
	assert.Equal(t, [3]float32{0, 1, 0}, w.BoneIDs)
	assert.InDelta(t, 0.4+0.1*0.4/0.9, w.BoneWeights[0], 1e-5)
	assert.InDelta(t, 0.4+0.1*0.4/0.9, w.BoneWeights[1], 1e-5)
	assert.InDelta(t, 0.1+0.1*0.1/0.9, w.BoneWeights[2], 1e-5)

	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Weights[1].BoneIDs)
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Weights[1].BoneWeights)

	skel, err := l.LoadSkeleton("skin.smd")
	require.NoError(t, err)
	require.Equal(t, 2, skel.NumBones())
	assert.Equal(t, "pelvis", skel.Bones[0].Name)
	assert.Equal(t, 0, skel.Bones[1].Parent)
	assert.True(t, skel.Rest.Baked())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, skel.Rest.Positions[1])

	frames, err := l.LoadAnimation("skin.smd")
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, frames[1].Positions[0])
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, frames[1].Positions[1])
	want := common.EulerQuat(mgl32.Vec3{0, 0, math32.Pi / 2})
	assert.True(t, frames[1].Rotations[1].ApproxEqualThreshold(want, 1e-5))
	assert.Equal(t, []int{-1, 0}, frames[1].Parents)
}

func TestSMDErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"open.smd":    "version 1\nnodes\n0 \"root\" -1\n",
		"unknown.smd": "version 1\nbones\nend\n",
		"number.smd":  "nodes\n0 \"root\" x\nend\n",
		"partial.smd": "nodes\n0 \"root\" -1\nend\ntriangles\nm\n0 0 0 0 0 0 1 0 0\nend\n",
		"empty.smd":   "version 1\n",
		"crate.obj":   "",
	})
	l := NewLoader(WithRoot(dir))

	for _, name := range []string{"open.smd", "unknown.smd", "number.smd", "partial.smd", "empty.smd", "missing.smd"} {
		_, err := l.LoadModel(name)
		assert.Error(t, err, name)
	}
	_, err := l.LoadSkeleton("empty.smd")
	assert.Error(t, err)

	_, err = l.LoadModel("crate.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadModelReader(t *testing.T) {
	l := NewLoader()
	m, err := l.LoadModelReader("box.smd", strings.NewReader(crateSMD))
	require.NoError(t, err)
	assert.Equal(t, "box", m.Name)
	assert.Same(t, m, l.Get("box.smd"))
}

func TestLoadTexture(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), 2, 3)
	l := NewLoader(WithRoot(dir))

	tex, err := l.LoadTexture("red.png")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(3), tex.Height)
	// The top-left pixel of the image is stored in the last row.
	row := (3 - 1) * 2 * 4
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[row:row+4])

	_, err = l.LoadTexture("missing.png")
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{"crate.smd": crateSMD, "skin.smd": skinSMD})
	writePNG(t, filepath.Join(dir, "red.png"), 1, 1)
	l := NewLoader(WithRoot(dir), WithWorkers(2))

	require.NoError(t, l.LoadAll("crate.smd", "skin.smd", "red.png"))
	assert.NotNil(t, l.Get("crate.smd"))
	assert.NotNil(t, l.Get("skin.smd"))

	err := l.LoadAll("crate.smd", "missing.smd", "red.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
}

func TestFitWeights(t *testing.T) {
	w, ok := fitWeights([]link{{bone: 2, weight: 1}})
	assert.True(t, ok)
	assert.Equal(t, [3]float32{2, 0, 0}, w.BoneIDs)

	_, ok = fitWeights([]link{{bone: 0, weight: 0.3}})
	assert.False(t, ok)

	sorted := heaviestFirst([]link{{0, 0.1}, {1, 0.6}, {2, 0.3}})
	assert.Equal(t, []link{{1, 0.6}, {2, 0.3}, {0, 0.1}}, sorted)
}
