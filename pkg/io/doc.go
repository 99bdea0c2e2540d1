// Package io reads and writes flow graph documents in JSON and YAML.
//
// # Format
//
// A document has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "salary", "value": 50000, "label": "Salary", "color": "#F66F"},
//	    {"id": "income", "label": "Income"}
//	  ],
//	  "edges": [
//	    {"from": "salary", "to": "income"}
//	  ]
//	}
//
// The YAML form uses the same keys.
//
// # Node Fields
//
// Required:
//   - id: Unique string identifier, referenced by edges
//
// Optional:
//   - value: Fixed flow. When omitted the flow is inferred from the edges.
//   - label: Display text
//   - color: Box fill, any CSS color (hex for PNG output)
//
// # Edge Fields
//
// Required:
//   - from, to: Node ids
//
// Optional:
//   - value: Flow carried. When omitted the edge takes "the rest": the
//     source's positive remaining output, else the target's positive
//     remaining input, else 0. Since remaining quantities depend on the
//     edges already added, edge order in the file matters for omitted values.
//   - label: Shown on hover in SVG output
//   - color: Ribbon fill
//
// # Import and Export
//
// Use [Import] to read a file (format chosen by extension) or [Read] for any
// io.Reader. [Export] and [Write] are the inverse; they always write explicit
// edge values.
//
//	g, err := io.Import("examples/tax.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	l, err := layout.Build(g.Graph, 1024, 768)
//
// # Layout Export
//
// This package handles the logical graph only. For computed geometry use
// the JSON sink in [render/sink].
//
// [render/sink]: github.com/matzehuels/sankey/pkg/render/sink
package io
