// Package text lays out signed distance field glyph quads from a font atlas.
package text

import (
	"bufio"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bmfont"
	"github.com/pkg/errors"
)

// atlasPadding is the distance field border the font generator leaves around every glyph.
const atlasPadding = 12

// Space is the glyph whose height sets the line spacing.
const Space = ' '

// Glyph locates one character in the atlas, in pixels.
type Glyph struct {
	// Pos is the top-left corner of the glyph in the atlas.
	Pos mgl32.Vec2

	// Dim is the glyph's drawn width and height.
	Dim mgl32.Vec2

	// Offset is the pen offset applied before the glyph is drawn.
	Offset mgl32.Vec2

	// OrigDim is the full advance width and line height of the glyph.
	OrigDim mgl32.Vec2
}

type kerningPair struct {
	first, second rune
}

// Font holds a glyph atlas and the metrics needed to lay text out over it.
// One font is usually shared by every text of a scene.
type Font struct {
	name     string
	atlas    *graphics.Texture
	material material.Material
	width    float32
	height   float32
	glyphs   map[rune]Glyph
	kerning  map[kerningPair]float32
}

// LoadFont reads "<prefix>.png" and "<prefix>.fnt" and uploads the atlas.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - prefix: the resource path without extension, e.g. "res/fonts/sdf"
//
// Returns:
//   - *Font: the font
//   - error: error if either file cannot be read or parsed
func LoadFont(ctx *core.Context, prefix string) (*Font, error) {
	atlas, err := common.DecodeTextureFile(prefix + ".png")
	if err != nil {
		return nil, errors.Wrap(err, "text: font atlas")
	}
	f, err := os.Open(prefix + ".fnt")
	if err != nil {
		return nil, errors.Wrapf(err, "text: open font %s", prefix)
	}
	defer f.Close()
	return NewFont(ctx, prefix, atlas, f)
}

// NewFont parses a glyph table in the engine font format and uploads atlas.
// The format is whitespace separated: a glyph count followed by "c x y w h xoff yoff ow oh"
// rows, then an optional kerning pair count followed by "c1 c2 k" rows.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - name: the font name used in logs
//   - atlas: the decoded atlas image
//   - r: the glyph table
//
// Returns:
//   - *Font: the font
//   - error: error if the table is malformed or the atlas upload fails
func NewFont(ctx *core.Context, name string, atlas common.TextureData, r io.Reader) (*Font, error) {
	if ctx == nil || ctx.Graphics == nil {
		panic("text: NewFont requires a graphics backend")
	}
	f := &Font{name: name, glyphs: map[rune]Glyph{}, kerning: map[kerningPair]float32{}}
	if err := f.parse(r); err != nil {
		return nil, errors.Wrapf(err, "text: font %s", name)
	}
	if err := f.upload(ctx, atlas); err != nil {
		return nil, err
	}
	return f, nil
}

// NewBMFont builds a font from an AngelCode BMFont descriptor. Glyph positions are taken
// as is; the atlas must be the descriptor's first page.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - name: the font name used in logs
//   - atlas: the decoded page image
//   - descriptor: the raw .fnt descriptor
//
// Returns:
//   - *Font: the font
//   - error: error if the descriptor cannot be parsed or the atlas upload fails
func NewBMFont(ctx *core.Context, name string, atlas common.TextureData, descriptor []byte) (*Font, error) {
	if ctx == nil || ctx.Graphics == nil {
		panic("text: NewBMFont requires a graphics backend")
	}
	bmf, err := bmfont.NewFontFromBuf(descriptor)
	if err != nil {
		return nil, errors.Wrapf(err, "text: bmfont %s", name)
	}
	if len(bmf.Pages) > 1 {
		log.Printf("text: bmfont %s has %d pages, only the first is used", name, len(bmf.Pages))
	}

	f := &Font{name: name, glyphs: map[rune]Glyph{}, kerning: map[kerningPair]float32{}}
	base := float32(bmf.Common.Base)
	for i := range bmf.Chars {
		c := &bmf.Chars[i]
		f.glyphs[rune(c.Id)] = Glyph{
			Pos:     mgl32.Vec2{float32(c.X), float32(c.Y)},
			Dim:     mgl32.Vec2{float32(c.Width), float32(c.Height)},
			Offset:  mgl32.Vec2{float32(c.Xoffset), float32(c.Yoffset)},
			OrigDim: mgl32.Vec2{float32(c.Xadvance) + float32(c.Xoffset), base},
		}
	}
	if err := f.upload(ctx, atlas); err != nil {
		return nil, err
	}
	if w, h := float32(bmf.Common.ScaleW), float32(bmf.Common.ScaleH); w > 0 && h > 0 {
		f.width, f.height = w, h
	}
	return f, nil
}

func (f *Font) upload(ctx *core.Context, atlas common.TextureData) error {
	tex, err := ctx.Graphics.CreateTexture(atlas)
	if err != nil {
		return errors.Wrapf(err, "text: upload atlas of %s", f.name)
	}
	tex.Label = f.name
	f.atlas = tex
	f.width, f.height = float32(atlas.Width), float32(atlas.Height)
	f.material = material.NewMaterial(material.WithName(f.name), material.WithDiffuse(tex))
	return nil
}

func (f *Font) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func() (float64, bool, error) {
		if !sc.Scan() {
			return 0, false, sc.Err()
		}
		v, err := strconv.ParseFloat(sc.Text(), 32)
		if err != nil {
			return 0, false, errors.Wrapf(err, "bad number %q", sc.Text())
		}
		return v, true, nil
	}
	row := func(n int) ([]float32, error) {
		out := make([]float32, n)
		for i := range out {
			v, ok, err := next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, io.ErrUnexpectedEOF
			}
			out[i] = float32(v)
		}
		return out, nil
	}

	n, ok, err := next()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("missing glyph count")
	}
	for i := 0; i < int(n); i++ {
		v, err := row(9)
		if err != nil {
			return errors.Wrapf(err, "glyph %d", i)
		}
		f.glyphs[rune(v[0])] = Glyph{
			Pos:     mgl32.Vec2{v[1] + atlasPadding, v[2] + atlasPadding},
			Dim:     mgl32.Vec2{v[3], v[4]},
			Offset:  mgl32.Vec2{v[5], v[6]},
			OrigDim: mgl32.Vec2{v[7], v[8]},
		}
	}

	n, ok, err = next()
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("text: font %s does not have kerning pairs", f.name)
		return nil
	}
	for i := 0; i < int(n); i++ {
		v, err := row(3)
		if err != nil {
			return errors.Wrapf(err, "kerning pair %d", i)
		}
		f.kerning[kerningPair{rune(v[0]), rune(v[1])}] = v[2]
	}
	return nil
}

// Glyph returns the metrics of c. A missing glyph is logged and the zero glyph returned.
func (f *Font) Glyph(c rune) Glyph {
	g, ok := f.glyphs[c]
	if !ok {
		log.Printf("text: font %s has no glyph %q", f.name, c)
	}
	return g
}

// HasGlyph reports whether c is in the glyph table.
func (f *Font) HasGlyph(c rune) bool {
	_, ok := f.glyphs[c]
	return ok
}

// Kerning returns the spacing adjustment between c1 followed by c2, 0 if the pair is unknown.
func (f *Font) Kerning(c1, c2 rune) float32 {
	return f.kerning[kerningPair{c1, c2}]
}

func (f *Font) Name() string {
	return f.name
}

// Atlas returns the uploaded glyph atlas.
func (f *Font) Atlas() *graphics.Texture {
	return f.atlas
}

// AtlasSize returns the atlas width and height in pixels.
func (f *Font) AtlasSize() (float32, float32) {
	return f.width, f.height
}

// Material returns the material binding the atlas as the diffuse map.
func (f *Font) Material() material.Material {
	return f.material
}

// ReadBMFont reads a BMFont descriptor and its first page image from disk.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - descriptor: path of the .fnt descriptor
//   - page: path of the page image
//
// Returns:
//   - *Font: the font
//   - error: error if a file cannot be read or parsed
func ReadBMFont(ctx *core.Context, descriptor, page string) (*Font, error) {
	raw, err := os.ReadFile(descriptor)
	if err != nil {
		return nil, errors.Wrapf(err, "text: open bmfont %s", descriptor)
	}
	atlas, err := common.DecodeTextureFile(page)
	if err != nil {
		return nil, errors.Wrap(err, "text: bmfont page")
	}
	return NewBMFont(ctx, descriptor, atlas, raw)
}
