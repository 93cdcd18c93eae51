package asset

import (
	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
)

// Animated is a rigged asset skinned by its own animixer. Instances of it share one
// pose; use one Animated per independently animated character.
type Animated struct {
	*Asset
	*animation.Animixer
}

var (
	_ entity.Drawable   = &Animated{}
	_ entity.Animatable = &Animated{}
	_ entity.Updatable  = &Animated{}
)

// NewAnimated pairs a rigged asset with a mixer over skeleton.
//
// Parameters:
//   - a: the asset
//   - skeleton: the skeleton the asset is weighted to
//
// Returns:
//   - *Animated: the animated asset
func NewAnimated(a *Asset, skeleton *animation.Skeleton) *Animated {
	if a == nil {
		panic("asset: NewAnimated requires an asset")
	}
	return &Animated{Asset: a, Animixer: animation.NewAnimixer(skeleton)}
}
