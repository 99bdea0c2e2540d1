// Package render groups the output drivers for Sankey layouts.
//
// The drivers live in [sink]. They consume a computed layout and never
// change it, so one layout can be rendered to any number of formats:
//
//	l, _ := layout.Build(g, 1200, 800)
//	svg := sink.RenderSVG(l)
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//	js, err := sink.RenderJSON(l)
//
// The DOT driver is the exception: it reads the flow graph instead of the
// layout, so it can draw graphs that fail to lay out.
//
//	dot := sink.ToDOT(g, sink.DOTOptions{})
//	svg, err := sink.RenderDOT(ctx, dot, "svg")
//
// [sink]: github.com/matzehuels/sankey/pkg/render/sink
package render
