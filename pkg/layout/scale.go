package layout

import (
	"math"

	"github.com/matzehuels/sankey/pkg/flow"
)

// ComputeScale returns the flow-to-pixel factor shared by the whole diagram.
//
// For each layer the factor that makes it exactly fill the available height
// is
//
//	(height - 2*border - separation*(n-1)) / sum(flow)
//
// and the global scale is the smallest of these, so no layer overflows.
// Layers whose total flow is zero are skipped; they render as zero-height
// boxes and do not take part in the minimum. When no layer has positive
// flow, or the canvas is too small to fit the separations, ComputeScale
// returns 0.
func ComputeScale(g *flow.Graph, layers [][]flow.NodeID, height, border, separation float64) float64 {
	scale := math.Inf(1)
	for _, layer := range layers {
		total := 0.0
		for _, id := range layer {
			total += g.Flow(id)
		}
		if total <= 0 {
			continue
		}
		available := height - 2*border - separation*float64(len(layer)-1)
		scale = min(scale, available/total)
	}
	if math.IsInf(scale, 1) || scale < 0 {
		return 0
	}
	return scale
}
