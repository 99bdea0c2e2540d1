// Package layout computes Sankey diagram geometry from a flow graph.
//
// # Overview
//
// A layout pass runs five steps over a finished [flow.Graph]:
//
//  1. Flow: every node's flow is read from the graph (fixed value, or the
//     larger of its input and output totals).
//  2. Layering: [AssignLayers] partitions nodes into left-to-right layers so
//     that every edge crosses strictly forward.
//  3. Scale: [ComputeScale] finds the single flow-to-pixel factor that lets
//     the most crowded layer exactly fill the canvas height.
//  4. Coordinates: each node gets a box (x, y, width, height) and each edge
//     claims a span of its source's output side and its target's input side.
//  5. Ribbons: [RibbonPath] turns the two spans into a closed cubic-bezier
//     outline.
//
// The result is a [Layout] value. Building is pure: the graph is only read,
// and building twice yields identical layouts.
//
// # Building a Layout
//
//	l, err := layout.Build(g, 1920, 1080,
//	    layout.WithBorder(40),
//	    layout.WithNumberFormat(func(v float64) string { return fmt.Sprintf("£%.0f", v) }),
//	)
//
// # Options
//
//   - [WithNodeSeparation]: vertical gap between boxes in a layer (default height/50)
//   - [WithNodeWidth]: box width (default width/100)
//   - [WithFontSize]: label size used by renderers (default height/50)
//   - [WithBorder]: margin around the diagram (default height/10)
//   - [WithNumberFormat]: value formatter for labels (default plain decimal)
//   - [WithStrict]: fail when a fixed-value node is overdrawn by its edges
//
// # Drawing Order
//
// Renderers draw node boxes first, then ribbons from [Layout.RibbonsByDepth]
// (widest first, so thin flows stay visible on top), then node labels.
//
// # Cycles
//
// A graph with a directed cycle cannot be layered. [Build] and
// [AssignLayers] return a [flow.CycleError] naming the nodes that could not
// be placed instead of silently dropping them.
package layout
