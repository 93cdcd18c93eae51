package text

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultLineSpacing is the line advance in multiples of the space glyph height.
const DefaultLineSpacing = 1.5

// glyphDepth separates consecutive glyph quads so overlapping edges sort stably.
const glyphDepth = 0.01

// Text is a drawable string laid out over a font atlas.
// It is meant for pipeline.Text, which binds the font atlas through the font material.
type Text struct {
	font        *Font
	label       string
	content     string
	lineSpacing float32
	mesh        *model.Mesh
	surface     *graphics.Surface
}

var (
	_ entity.Entity   = &Text{}
	_ entity.Drawable = &Text{}
)

// NewText lays content out with font and uploads the quads.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - font: the font to lay out with
//   - content: the string, "\n" starts a new line
//   - options: functional options to configure the text
//
// Returns:
//   - *Text: the text
//   - error: error if the quads could not be uploaded
func NewText(ctx *core.Context, font *Font, content string, options ...TextBuilderOption) (*Text, error) {
	if font == nil {
		panic("text: NewText requires a font")
	}
	t := &Text{
		font:        font,
		label:       "text-" + uuid.NewString(),
		lineSpacing: DefaultLineSpacing,
	}
	for _, option := range options {
		option(t)
	}
	if err := t.SetText(ctx, content); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Text) IsEntity() {}

// DrawInstances binds the font material and draws the quads. Text is positioned by the
// pipeline transform, so buf and count are passed through untouched.
func (t *Text) DrawInstances(ctx *core.Context, target entity.DrawTarget, buf *graphics.InstanceBuffer, count int) {
	if t.surface == nil {
		return
	}
	target.SetMaterial(ctx, t.font.Material())
	target.DrawSurface(ctx, t.surface, buf, count)
}

// SetText replaces the string and uploads the new layout. An empty layout draws nothing.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - content: the new string
//
// Returns:
//   - error: error if the quads could not be uploaded
func (t *Text) SetText(ctx *core.Context, content string) error {
	if ctx == nil || ctx.Graphics == nil {
		panic("text: SetText requires a graphics backend")
	}
	mesh := Layout(t.font, content, t.lineSpacing)
	mesh.Name = t.label
	var surface *graphics.Surface
	if len(mesh.Triangles) > 0 {
		s, err := ctx.Graphics.CreateSurface(mesh)
		if err != nil {
			return errors.Wrapf(err, "text: upload %q", content)
		}
		surface = s
	}
	t.content, t.mesh, t.surface = content, mesh, surface
	return nil
}

// String returns the laid out string.
func (t *Text) String() string {
	return t.content
}

func (t *Text) Font() *Font {
	return t.font
}

// Mesh returns the quad mesh of the current layout.
func (t *Text) Mesh() *model.Mesh {
	return t.mesh
}

// Surface returns the uploaded quads, nil for an empty layout.
func (t *Text) Surface() *graphics.Surface {
	return t.surface
}

// Layout builds one textured quad per glyph of content, left to right from the origin.
// Each glyph sits glyphDepth in front of the previous one. A newline moves the pen down by
// lineSpacing times the space glyph height and back to x = 0.
//
// Parameters:
//   - font: the font supplying glyph metrics
//   - content: the string to lay out
//   - lineSpacing: line advance in multiples of the space glyph height
//
// Returns:
//   - *model.Mesh: the quads, four vertices and two triangles per glyph
func Layout(font *Font, content string, lineSpacing float32) *model.Mesh {
	mesh := &model.Mesh{}
	aw, ah := font.AtlasSize()
	if aw == 0 || ah == 0 {
		aw, ah = 1, 1
	}

	var x, y, z float32
	prev, first := rune(0), true
	for _, c := range content {
		if c == '\n' {
			y -= font.Glyph(Space).OrigDim.Y() * lineSpacing
			x = 0
			continue
		}
		z += glyphDepth
		g := font.Glyph(c)
		offv := g.OrigDim.Y() - g.Dim.Y() - g.Offset.Y()
		x += g.Offset.X()

		u0, u1 := g.Pos.X()/aw, (g.Pos.X()+g.Dim.X())/aw
		v0, v1 := 1-(g.Pos.Y()+g.Dim.Y())/ah, 1-g.Pos.Y()/ah
		corners := [4]struct{ pos, uv mgl32.Vec2 }{
			{mgl32.Vec2{x, y + offv}, mgl32.Vec2{u0, v0}},
			{mgl32.Vec2{x + g.Dim.X(), y + offv}, mgl32.Vec2{u1, v0}},
			{mgl32.Vec2{x + g.Dim.X(), y + g.Dim.Y() + offv}, mgl32.Vec2{u1, v1}},
			{mgl32.Vec2{x, y + g.Dim.Y() + offv}, mgl32.Vec2{u0, v1}},
		}
		base := uint32(len(mesh.Vertices))
		for _, corner := range corners {
			mesh.Vertices = append(mesh.Vertices, model.Vertex{
				Position: corner.pos.Vec3(z),
				Normal:   mgl32.Vec3{0, 0, 1},
				UV:       corner.uv,
				Color:    model.DefaultColor,
			})
		}
		mesh.Triangles = append(mesh.Triangles,
			model.Triangle{base, base + 1, base + 2},
			model.Triangle{base, base + 2, base + 3},
		)

		x += g.OrigDim.X() - g.Offset.X()
		if !first {
			x += font.Kerning(prev, c)
		}
		prev, first = c, false
	}
	return mesh
}
