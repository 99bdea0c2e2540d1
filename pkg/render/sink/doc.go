// Package sink provides output format renderers for Sankey layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: standalone vector document with hover labels on ribbons
//   - PNG: raster image drawn with fogleman/gg and the Go Regular font
//   - JSON: geometry export for external tools
//   - DOT: Graphviz node-link view of the underlying flow graph
//
// # Drawing Order
//
// Every visual sink draws node boxes first, then ribbons in
// [layout.Layout.RibbonsByDepth] order (widest underneath), then node
// labels, so labels are never covered by a ribbon.
//
// # SVG Output
//
//	svg := sink.RenderSVG(l, sink.WithTitle("Income"), sink.WithBackground("#fff"))
//
// Default node and ribbon fills live in an embedded stylesheet; elements
// with their own color carry an inline style override. Colors are passed
// through as written, so any CSS color works.
//
// # PNG Output
//
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//
// PNG colors may be CSS hex notation (#RGB, #RGBA, #RRGGBB, #RRGGBBAA) or an
// SVG color name such as "steelblue"; see [ParseColor]. Each side of the
// scaled image is limited to 16384 pixels.
//
// # DOT Output
//
// [ToDOT] works on the flow graph rather than the layout, which makes it
// useful for debugging graphs that fail to lay out (for example, cyclic
// ones). [RenderDOT] renders the DOT source to SVG or PNG in-process.
//
// [layout.Layout]: github.com/matzehuels/sankey/pkg/layout.Layout
package sink
