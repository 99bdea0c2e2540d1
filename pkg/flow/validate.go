package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced is the sentinel wrapped by [ImbalanceError].
var ErrUnbalanced = errors.New("unbalanced graph")

// balanceTolerance absorbs floating-point drift from summing edge values.
const balanceTolerance = 1e-9

// Imbalance describes one node whose edges overdraw it.
type Imbalance struct {
	Node            NodeID
	Label           string
	RemainingInput  float64
	RemainingOutput float64
}

// ImbalanceError lists every node with negative remaining input or output.
type ImbalanceError struct {
	Nodes []Imbalance
}

func (e *ImbalanceError) Error() string {
	parts := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		name := n.Label
		if name == "" {
			name = fmt.Sprintf("#%d", int(n.Node))
		}
		parts[i] = fmt.Sprintf("%s (remaining input %g, remaining output %g)", name, n.RemainingInput, n.RemainingOutput)
	}
	return fmt.Sprintf("%v: %s", ErrUnbalanced, strings.Join(parts, "; "))
}

// Unwrap returns ErrUnbalanced.
func (e *ImbalanceError) Unwrap() error { return ErrUnbalanced }

// Validate reports nodes with a fixed value whose incident edges exceed that
// value, i.e. whose remaining input or remaining output is negative. It
// returns nil for a balanced graph and an *ImbalanceError otherwise.
//
// Nodes without a fixed value are sized by max(input, output) and can never
// overflow their box. Positive remaining flow is not an error either: an
// unfinished graph lays out fine, it just leaves part of a box without
// ribbons.
func (g *Graph) Validate() error {
	var bad []Imbalance
	for _, n := range g.nodes {
		if n.Value == nil {
			continue
		}
		in, out := n.RemainingInput(), n.RemainingOutput()
		if in < -balanceTolerance || out < -balanceTolerance {
			bad = append(bad, Imbalance{
				Node:            n.ID,
				Label:           n.Label,
				RemainingInput:  in,
				RemainingOutput: out,
			})
		}
	}
	if len(bad) > 0 {
		return &ImbalanceError{Nodes: bad}
	}
	return nil
}
