package flow

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From handle
	// was not produced by this graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To handle
	// was not produced by this graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNegativeValue is returned by [Graph.AddEdge] when the edge value is
	// below zero.
	ErrNegativeValue = errors.New("edge value must not be negative")

	// ErrInvalidValue is returned by [Graph.AddEdge] when the edge value is
	// NaN or infinite.
	ErrInvalidValue = errors.New("edge value must be a finite number")
)

// NodeID is the stable handle of a node within one [Graph]. A handle is an
// index into the graph that issued it; [Graph.AddEdge] rejects handles out of
// range, but a handle from another graph that happens to be in range refers
// to the receiver's node with that index.
type NodeID int

// Node is a vertex of the flow graph.
//
// Value is the node's fixed flow. When nil, flow is inferred from the
// incident edges. The running input and output totals are maintained by
// [Graph.AddEdge] and cannot be set directly.
type Node struct {
	ID    NodeID
	Value *float64
	Label string
	Color string

	currentInput  float64
	currentOutput float64
}

// Fixed returns a pointer to v for use as [Node.Value].
func Fixed(v float64) *float64 { return &v }

// HasValue reports whether the node carries a fixed value.
func (n Node) HasValue() bool { return n.Value != nil }

// CurrentInput is the sum of the values of all edges ending at the node.
func (n Node) CurrentInput() float64 { return n.currentInput }

// CurrentOutput is the sum of the values of all edges leaving the node.
func (n Node) CurrentOutput() float64 { return n.currentOutput }

// RequiredInput is the fixed value if set, otherwise the current output.
func (n Node) RequiredInput() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return n.currentOutput
}

// RequiredOutput is the fixed value if set, otherwise the current input.
func (n Node) RequiredOutput() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return n.currentInput
}

// RemainingInput is how much more input the node needs to be balanced.
func (n Node) RemainingInput() float64 { return n.RequiredInput() - n.currentInput }

// RemainingOutput is how much more output the node needs to be balanced.
func (n Node) RemainingOutput() float64 { return n.RequiredOutput() - n.currentOutput }

// Flow is the quantity the node moves through the diagram, rendered as the
// height of its box.
func (n Node) Flow() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return math.Max(n.currentInput, n.currentOutput)
}

// clone returns a copy of n that does not share its Value with n.
func (n Node) clone() Node {
	if n.Value != nil {
		v := *n.Value
		n.Value = &v
	}
	return n
}

// Edge carries Value units of flow from one node to another.
type Edge struct {
	From  NodeID
	To    NodeID
	Value float64
	Label string
	Color string
}

// Graph is an arena of nodes and edges.
//
// The zero value is an empty graph ready to use. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	nodes []Node
	edges []Edge
}

// New creates an empty graph.
func New() *Graph { return &Graph{} }

// AddNode appends a node and returns its handle. The ID and running totals of
// n are ignored. AddNode always succeeds.
func (g *Graph) AddNode(n Node) NodeID {
	id := NodeID(len(g.nodes))
	n.ID = id
	n.currentInput, n.currentOutput = 0, 0
	g.nodes = append(g.nodes, n.clone())
	return id
}

// AddEdge appends an edge and adds its value to the source's current output
// and the target's current input.
//
// AddEdge returns ErrUnknownSourceNode or ErrUnknownTargetNode when a handle
// does not belong to this graph, ErrInvalidValue for NaN or infinite values
// and ErrNegativeValue for values below zero. The graph is unchanged when an
// error is returned.
//
// Self-loops are accepted here; the layout engine rejects them as cycles.
func (g *Graph) AddEdge(e Edge) error {
	if !g.has(e.From) {
		return ErrUnknownSourceNode
	}
	if !g.has(e.To) {
		return ErrUnknownTargetNode
	}
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return ErrInvalidValue
	}
	if e.Value < 0 {
		return ErrNegativeValue
	}
	g.edges = append(g.edges, e)
	g.nodes[e.From].currentOutput += e.Value
	g.nodes[e.To].currentInput += e.Value
	return nil
}

func (g *Graph) has(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }

// Node returns a copy of the node with the given handle.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if !g.has(id) {
		return Node{}, false
	}
	return g.nodes[id].clone(), true
}

// Nodes returns a copy of all nodes in handle order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.clone()
	}
	return nodes
}

// Edges returns a copy of all edges in creation order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the indices (into [Graph.Edges]) of the edges leaving id,
// in creation order.
func (g *Graph) Outgoing(id NodeID) []int {
	var out []int
	for i, e := range g.edges {
		if e.From == id {
			out = append(out, i)
		}
	}
	return out
}

// Incoming returns the indices (into [Graph.Edges]) of the edges ending at
// id, in creation order.
func (g *Graph) Incoming(id NodeID) []int {
	var in []int
	for i, e := range g.edges {
		if e.To == id {
			in = append(in, i)
		}
	}
	return in
}

// InDegree returns the number of edges ending at id.
func (g *Graph) InDegree(id NodeID) int {
	n := 0
	for _, e := range g.edges {
		if e.To == id {
			n++
		}
	}
	return n
}

// Sources returns the handles of nodes without incoming edges, in handle order.
func (g *Graph) Sources() []NodeID {
	hasInput := make([]bool, len(g.nodes))
	for _, e := range g.edges {
		hasInput[e.To] = true
	}
	var ids []NodeID
	for i, in := range hasInput {
		if !in {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// lookup returns the node for id, or the zero Node if id is unknown.
func (g *Graph) lookup(id NodeID) Node {
	n, _ := g.Node(id)
	return n
}

// Value returns the node's fixed value and whether one is set.
func (g *Graph) Value(id NodeID) (float64, bool) {
	n, ok := g.Node(id)
	if !ok || n.Value == nil {
		return 0, false
	}
	return *n.Value, true
}

// CurrentInput returns [Node.CurrentInput] for id, or 0 if id is unknown.
func (g *Graph) CurrentInput(id NodeID) float64 { return g.lookup(id).CurrentInput() }

// CurrentOutput returns [Node.CurrentOutput] for id, or 0 if id is unknown.
func (g *Graph) CurrentOutput(id NodeID) float64 { return g.lookup(id).CurrentOutput() }

// RequiredInput returns [Node.RequiredInput] for id, or 0 if id is unknown.
func (g *Graph) RequiredInput(id NodeID) float64 { return g.lookup(id).RequiredInput() }

// RequiredOutput returns [Node.RequiredOutput] for id, or 0 if id is unknown.
func (g *Graph) RequiredOutput(id NodeID) float64 { return g.lookup(id).RequiredOutput() }

// RemainingInput returns [Node.RemainingInput] for id, or 0 if id is unknown.
func (g *Graph) RemainingInput(id NodeID) float64 { return g.lookup(id).RemainingInput() }

// RemainingOutput returns [Node.RemainingOutput] for id, or 0 if id is unknown.
func (g *Graph) RemainingOutput(id NodeID) float64 { return g.lookup(id).RemainingOutput() }

// Flow returns [Node.Flow] for id, or 0 if id is unknown.
func (g *Graph) Flow(id NodeID) float64 { return g.lookup(id).Flow() }

// Clone returns a deep copy of the graph. Handles remain valid in the copy.
func (g *Graph) Clone() *Graph {
	return &Graph{
		nodes: g.Nodes(),
		edges: slices.Clone(g.edges),
	}
}
