package instancing

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Transforms owns a fixed number of instance transforms in a graphics instance buffer.
type Transforms struct {
	buf *graphics.InstanceBuffer
}

var _ entity.Transformable = &Transforms{}

// NewTransforms allocates count transforms and places them.
// When some placements fail the transforms are still returned, with the failed slots
// at the identity, together with a *PlacementError.
//
// Parameters:
//   - ctx: the frame context providing the graphics backend
//   - count: the number of slots, at least 1
//   - placement: the initial transform per slot, nil means Origin
//
// Returns:
//   - *Transforms: the transforms, nil only if the buffer could not be allocated
//   - error: allocation or placement error
func NewTransforms(ctx *core.Context, count int, placement Placement) (*Transforms, error) {
	if count < 1 {
		panic("instancing: NewTransforms requires a positive count")
	}
	buf, err := ctx.Graphics.CreateInstanceBuffer(count)
	if err != nil {
		return nil, errors.Wrap(err, "instancing: create instance buffer")
	}
	if len(buf.Transforms) != count {
		buf.Transforms = make([]mgl32.Mat4, count)
	}
	t := &Transforms{buf: buf}
	return t, t.Reuse(placement)
}

// Reuse places every slot again without reallocating.
//
// Parameters:
//   - placement: the transform per slot, nil means Origin
//
// Returns:
//   - error: *PlacementError if some placements failed
func (t *Transforms) Reuse(placement Placement) error {
	if placement == nil {
		placement = Origin
	}
	var perr *PlacementError
	for i := range t.buf.Transforms {
		m, err := place(placement, i)
		if err != nil {
			if perr == nil {
				perr = &PlacementError{}
			}
			perr.Indices = append(perr.Indices, i)
			perr.Errs = append(perr.Errs, err)
		}
		t.buf.Transforms[i] = m
	}
	if perr != nil {
		return perr
	}
	return nil
}

// SetRange overwrites the slots in [begin, end) with f. The range is clamped to the slots.
func (t *Transforms) SetRange(f func(index int) mgl32.Mat4, begin, end int) {
	begin = max(begin, 0)
	end = min(end, len(t.buf.Transforms))
	for i := begin; i < end; i++ {
		t.buf.Transforms[i] = f(i)
	}
}

// Update uploads the transforms.
func (t *Transforms) Update(ctx *core.Context) error {
	return ctx.Graphics.UpdateInstanceBuffer(t.buf)
}

func (t *Transforms) Size() int {
	return len(t.buf.Transforms)
}

func (t *Transforms) At(i int) *mgl32.Mat4 {
	return &t.buf.Transforms[i]
}

// All returns the backing slice.
func (t *Transforms) All() []mgl32.Mat4 {
	return t.buf.Transforms
}

func (t *Transforms) Buffer() *graphics.InstanceBuffer {
	return t.buf
}
