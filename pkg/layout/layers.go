package layout

import "github.com/matzehuels/sankey/pkg/flow"

// AssignLayers partitions the graph's nodes into left-to-right layers.
//
// AssignLayers is a breadth-first topological sort (Kahn's algorithm). The
// first layer holds every node without incoming edges, in handle order. For
// each node of the current layer, in order, each outgoing edge (in creation
// order) decrements its target's in-degree; a target reaching zero joins the
// next layer. The loop stops when the next layer is empty. A node's layer
// index is therefore the length of the longest path reaching it, and every
// edge goes from a strictly earlier layer to a strictly later one.
//
// # Cycles
//
// Nodes on a cycle, and everything downstream of one, never reach in-degree
// zero. AssignLayers returns a *[flow.CycleError] listing them rather than a
// partial layering.
//
// # Performance
//
// Time complexity is O(V + E). An empty graph yields no layers.
func AssignLayers(g *flow.Graph) ([][]flow.NodeID, error) {
	edges := g.Edges()
	inDegree := make([]int, g.NodeCount())
	outgoing := make([][]int, g.NodeCount())
	for i, e := range edges {
		outgoing[e.From] = append(outgoing[e.From], i)
		inDegree[e.To]++
	}

	var next []flow.NodeID
	for id, degree := range inDegree {
		if degree == 0 {
			next = append(next, flow.NodeID(id))
		}
	}

	var layers [][]flow.NodeID
	placed := 0
	for len(next) > 0 {
		current := next
		layers = append(layers, current)
		placed += len(current)
		next = nil

		for _, id := range current {
			for _, ei := range outgoing[id] {
				target := edges[ei].To
				inDegree[target]--
				if inDegree[target] == 0 {
					next = append(next, target)
				}
			}
		}
	}

	if placed < g.NodeCount() {
		var unplaced []flow.NodeID
		for id, degree := range inDegree {
			if degree > 0 {
				unplaced = append(unplaced, flow.NodeID(id))
			}
		}
		return nil, &flow.CycleError{Unplaced: unplaced, Cycles: flow.FindCycles(g)}
	}
	return layers, nil
}

// LayerIndex maps every node handle to the index of its layer. Handles not
// present in layers map to -1.
func LayerIndex(layers [][]flow.NodeID, nodeCount int) []int {
	idx := make([]int, nodeCount)
	for i := range idx {
		idx[i] = -1
	}
	for i, layer := range layers {
		for _, id := range layer {
			idx[id] = i
		}
	}
	return idx
}
