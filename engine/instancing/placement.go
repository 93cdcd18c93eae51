package instancing

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Placement computes the initial transform of instance slot index.
type Placement func(index int) (mgl32.Mat4, error)

// Origin places every instance at the identity transform.
func Origin(int) (mgl32.Mat4, error) {
	return mgl32.Ident4(), nil
}

// At places every instance at pos.
//
// Parameters:
//   - pos: the world position
//
// Returns:
//   - Placement: the placement
func At(pos mgl32.Vec3) Placement {
	return func(int) (mgl32.Mat4, error) {
		return common.Translation(pos), nil
	}
}

// LookAt places every instance at the view transform looking from pos to tgt.
//
// Parameters:
//   - pos: the eye position
//   - tgt: the target position
//
// Returns:
//   - Placement: the placement
func LookAt(pos, tgt mgl32.Vec3) Placement {
	return func(int) (mgl32.Mat4, error) {
		return common.ViewLookAt(pos, tgt, common.Up), nil
	}
}

// PlacementError reports the slots whose placement failed. Those slots hold the identity.
type PlacementError struct {
	Indices []int
	Errs    []error
}

func (e *PlacementError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = fmt.Sprintf("slot %d: %v", e.Indices[i], err)
	}
	return fmt.Sprintf("instancing: %d placements failed: %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e *PlacementError) Unwrap() []error {
	return e.Errs
}

// place runs p for one slot, turning a panic into an error.
func place(p Placement, index int) (m mgl32.Mat4, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = mgl32.Ident4(), fmt.Errorf("placement panicked: %v", r)
		}
	}()
	m, err = p(index)
	if err != nil {
		return mgl32.Ident4(), err
	}
	return m, nil
}
