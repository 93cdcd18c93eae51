package loader

import (
	"sort"

	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/chewxy/math32"
)

// weightTolerance is how far a vertex weight sum may stray from 1 before it is reported.
const weightTolerance = 1e-5

// link is one bone influence of a vertex.
type link struct {
	bone   int
	weight float32
}

// fitWeights packs the first model.MaxInfluences links of a vertex. The weight of any
// further link is spread over the kept ones in proportion to their own weight.
//
// Parameters:
//   - links: the influences in file order
//
// Returns:
//   - model.Weights: the packed influences
//   - bool: false if the packed weights do not sum to 1
func fitWeights(links []link) (model.Weights, bool) {
	var w model.Weights
	var total, excess float32
	for i, l := range links {
		if i < model.MaxInfluences {
			w.BoneIDs[i] = float32(l.bone)
			w.BoneWeights[i] = l.weight
			total += l.weight
			continue
		}
		excess += l.weight
	}
	if excess > 0 && total > 0 {
		kept := total
		for i := range w.BoneWeights {
			w.BoneWeights[i] += excess * (w.BoneWeights[i] / kept)
		}
		total = sum(w.BoneWeights)
	}
	return w, math32.Abs(total-1) <= weightTolerance
}

// heaviestFirst orders links by descending weight so fitWeights keeps the strongest ones.
func heaviestFirst(links []link) []link {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].weight > links[j].weight
	})
	return links
}

func sum(v [model.MaxInfluences]float32) float32 {
	var s float32
	for _, x := range v {
		s += x
	}
	return s
}
