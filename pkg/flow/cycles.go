package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel wrapped by [CycleError]. Test for it with
// errors.Is.
var ErrCycle = errors.New("cycle detected")

// CycleError reports nodes that could not be placed into layers because
// they sit on, or downstream of, a directed cycle.
type CycleError struct {
	// Unplaced lists every node left without a layer, in handle order.
	Unplaced []NodeID
	// Cycles lists the node sequences of the cycles found, each starting at
	// the node where the cycle was entered.
	Cycles [][]NodeID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Unplaced))
	for i, id := range e.Unplaced {
		ids[i] = fmt.Sprint(int(id))
	}
	return fmt.Sprintf("%v, unplaced nodes: {%s}", ErrCycle, strings.Join(ids, ", "))
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// adjacency returns the targets of each node's outgoing edges in edge
// creation order.
func (g *Graph) adjacency() [][]NodeID {
	adj := make([][]NodeID, len(g.nodes))
	for _, e := range g.edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// FindCycles returns the directed cycles reachable by a depth-first search
// that visits nodes in handle order and edges in creation order. Each back
// edge yields one cycle. A self-loop is reported as a single-node cycle.
// FindCycles returns nil for an acyclic graph.
func FindCycles(g *Graph) [][]NodeID {
	const (
		white = iota
		gray
		black
	)

	adj := g.adjacency()
	color := make([]int, len(g.nodes))
	var stack []NodeID
	var cycles [][]NodeID

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range adj[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == child {
						cycles = append(cycles, append([]NodeID(nil), stack[i:]...))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for id := range g.nodes {
		if color[id] == white {
			dfs(NodeID(id))
		}
	}
	return cycles
}
