// Package pkg provides the libraries behind the sankey command.
//
// # Overview
//
// Sankey turns a directed flow graph into a layered Sankey diagram: nodes
// are stacked in columns and connected by ribbons whose thickness is
// proportional to the flow they carry.
//
// # Architecture
//
// The data flow through sankey:
//
//	JSON/YAML graph document
//	         ↓
//	    [io] package (decode ids, infer omitted edge values)
//	         ↓
//	    [flow] package (nodes, edges, running flow totals)
//	         ↓
//	    [layout] package (layers, scale, coordinates, ribbon paths)
//	         ↓
//	    [render/sink] package (SVG, PNG, JSON, DOT)
//
// [pipeline] strings the stages together and caches their results through
// [cache]. [config] holds the diagram style loaded from TOML files, and
// [errors] classifies failures for the CLI and the HTTP API.
//
// # Quick Start
//
//	g := flow.New()
//	wages := g.AddNode(flow.Node{Value: flow.Fixed(60), Label: "Wages"})
//	income := g.AddNode(flow.Node{Label: "Income"})
//	_ = g.AddEdge(flow.Edge{From: wages, To: income, Value: 60})
//
//	l, err := layout.Build(g, 800, 400)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(l)
//
// # Main Packages
//
// [flow] - The flow graph. Node handles are assigned in creation order and
// never reused; every edge updates its endpoints' input and output totals.
//
// [layout] - Kahn layering, the global flow-to-pixel scale, node boxes,
// ribbon anchors and cubic ribbon paths. [layout.Build] is pure.
//
// [render/sink] - Output drivers. Boxes are drawn first, ribbons widest
// first, labels last.
//
// [io] - Graph documents in JSON or YAML.
//
// [pipeline] - Load, layout and render, with per-stage caching. Shared by the
// CLI and the HTTP server.
//
// [cache] - File, Redis and null caches behind one interface.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -short ./...       # Skip tests that dial the network or run Graphviz
//	go test -run Example       # Examples only
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/flow
// [layout]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/layout
// [layout.Build]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/layout#Build
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/observability
package pkg
