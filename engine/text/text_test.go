package text

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/enginetest"
	"github.com/Carmen-Shannon/gdt-go/engine/instancing"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = `3
32 0 0 0 0 0 0 10 20
65 0 0 8 16 1 2 12 20
66 20 0 8 16 0 0 10 20
1
65 66 -2
`

func atlas() common.TextureData {
	return common.TextureData{Pixels: make([]byte, 100*100*4), Width: 100, Height: 100}
}

func newFont(t *testing.T, h *enginetest.Harness, src string) *Font {
	t.Helper()
	f, err := NewFont(h.Ctx, "sdf", atlas(), strings.NewReader(src))
	require.NoError(t, err)
	return f
}

func TestFontParse(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, table)

	a := f.Glyph('A')
	assert.Equal(t, mgl32.Vec2{12, 12}, a.Pos)
	assert.Equal(t, mgl32.Vec2{8, 16}, a.Dim)
	assert.Equal(t, mgl32.Vec2{1, 2}, a.Offset)
	assert.Equal(t, mgl32.Vec2{12, 20}, a.OrigDim)

	assert.Equal(t, float32(-2), f.Kerning('A', 'B'))
	assert.Equal(t, float32(0), f.Kerning('B', 'A'))

	assert.False(t, f.HasGlyph('Z'))
	assert.Equal(t, Glyph{}, f.Glyph('Z'))

	require.NotNil(t, f.Atlas())
	assert.Same(t, f.Atlas(), f.Material().Diffuse())
	w, hh := f.AtlasSize()
	assert.Equal(t, float32(100), w)
	assert.Equal(t, float32(100), hh)
}

func TestFontWithoutKerning(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, "1\n32 0 0 0 0 0 0 10 20\n")
	assert.True(t, f.HasGlyph(' '))
	assert.Equal(t, float32(0), f.Kerning(' ', ' '))
}

func TestFontMalformed(t *testing.T) {
	h := enginetest.New(640, 480)
	_, err := NewFont(h.Ctx, "bad", atlas(), strings.NewReader("2\n32 0 0 0 0 0 0 10 20\n"))
	assert.Error(t, err)

	_, err = NewFont(h.Ctx, "bad", atlas(), strings.NewReader("1\n32 0 0 x 0 0 0 10 20\n"))
	assert.Error(t, err)

	_, err = NewFont(h.Ctx, "empty", atlas(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, table)
	m := Layout(f, "AB", DefaultLineSpacing)

	require.Len(t, m.Vertices, 8)
	require.Len(t, m.Triangles, 4)
	assert.Equal(t, [3]uint32{4, 6, 7}, [3]uint32(m.Triangles[3]))

	a := m.Vertices[:4]
	assert.Equal(t, mgl32.Vec3{1, 2, 0.01}, a[0].Position)
	assert.Equal(t, mgl32.Vec3{9, 18, 0.01}, a[2].Position)
	assert.InDelta(t, 0.12, a[0].UV.X(), 1e-6)
	assert.InDelta(t, 0.72, a[0].UV.Y(), 1e-6)
	assert.InDelta(t, 0.20, a[2].UV.X(), 1e-6)
	assert.InDelta(t, 0.88, a[2].UV.Y(), 1e-6)

	b := m.Vertices[4]
	assert.Equal(t, float32(12), b.Position.X())
	assert.Equal(t, float32(4), b.Position.Y())
	assert.InDelta(t, 0.02, b.Position.Z(), 1e-6)
}

func TestLayoutKerningAndLines(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, table)

	m := Layout(f, "ABA", DefaultLineSpacing)
	require.Len(t, m.Vertices, 12)
	// A advances 11, B advances 10 then kerns by -2, the last A offsets by 1.
	assert.Equal(t, float32(12+8+1), m.Vertices[8].Position.X())

	m = Layout(f, "A\nA", DefaultLineSpacing)
	require.Len(t, m.Vertices, 8)
	assert.Equal(t, float32(1), m.Vertices[4].Position.X())
	assert.Equal(t, float32(-30+2), m.Vertices[4].Position.Y())

	m = Layout(f, "A\nA", 2)
	assert.Equal(t, float32(-40+2), m.Vertices[4].Position.Y())
}

func TestTextDraw(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, table)
	txt, err := NewText(h.Ctx, f, "AB", WithLabel("hello"))
	require.NoError(t, err)
	require.NotNil(t, txt.Surface())
	assert.Equal(t, "hello", txt.Surface().Label)
	assert.Equal(t, 12, txt.Surface().IndexCount)

	tp, err := pipeline.NewText(h.Ctx)
	require.NoError(t, err)
	placed, err := instancing.NewInstance(h.Ctx, txt, instancing.At(mgl32.Vec3{5, 0, 0}))
	require.NoError(t, err)
	tp.Draw(h.Ctx, placed)

	draws := h.Graphics.DrawsOf("text")
	require.Len(t, draws, 1)
	assert.Same(t, txt.Surface(), draws[0].Surface)
	assert.Equal(t, 1, draws[0].Count)
	assert.Same(t, f.Atlas(), h.Graphics.Textures["text.tex"])
	assert.Equal(t, common.Translation(mgl32.Vec3{5, 0, 0}), h.Graphics.Uniforms["text.otr"])
}

func TestSetTextEmpty(t *testing.T) {
	h := enginetest.New(640, 480)
	f := newFont(t, h, table)
	txt, err := NewText(h.Ctx, f, "A")
	require.NoError(t, err)

	require.NoError(t, txt.SetText(h.Ctx, ""))
	assert.Nil(t, txt.Surface())
	assert.Equal(t, "", txt.String())

	tp, err := pipeline.NewText(h.Ctx)
	require.NoError(t, err)
	tp.Draw(h.Ctx, txt)
	assert.Empty(t, h.Graphics.DrawsOf("text"))
}
