// Package flow provides the flow graph that Sankey diagrams are laid out from.
//
// # Overview
//
// A flow graph is a set of nodes, each moving some quantity ("flow"), and a
// set of directed edges, each carrying a portion of one node's flow to
// another node. Nodes live in an arena and are addressed by [NodeID] handles
// that are assigned monotonically and never reused. Edges store the handles of
// their endpoints; adjacency is recomputed from the edge list whenever it is
// needed, so the graph never holds pointer cycles.
//
// # Building a Graph
//
// Create a graph with [New], add nodes with [Graph.AddNode] and connect them
// with [Graph.AddEdge]:
//
//	g := flow.New()
//	salary := g.AddNode(flow.Node{Value: flow.Fixed(50000), Label: "Salary"})
//	income := g.AddNode(flow.Node{Label: "Income"})
//	_ = g.AddEdge(flow.Edge{From: salary, To: income, Value: g.RemainingOutput(salary)})
//
// A node either carries a fixed value or infers its flow from its incident
// edges. Every accepted edge adds its value to the source's current output
// and the target's current input in the same call; there is no other way to
// change those totals.
//
// # Derived Quantities
//
// For a node with fixed value v, or with running totals in and out:
//
//   - RequiredInput  = v if set, else out
//   - RequiredOutput = v if set, else in
//   - RemainingInput = RequiredInput - in
//   - RemainingOutput = RequiredOutput - out
//   - Flow = v if set, else max(in, out)
//
// Callers use the remaining quantities to balance a graph while building it,
// and [Graph.Validate] reports any node whose edges overdraw it.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built, any number of
// goroutines may read it, which is what the layout engine does.
package flow
