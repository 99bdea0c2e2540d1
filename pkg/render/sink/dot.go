package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
)

// DOTOptions configures node-link rendering of a flow graph.
type DOTOptions struct {
	// NumberFormat renders flow values in labels. Defaults to [layout.FormatPlain].
	NumberFormat layout.NumberFormat

	// MaxPenWidth is the stroke width of the largest edge. Smaller edges are
	// scaled proportionally. Defaults to 8.
	MaxPenWidth float64
}

// ToDOT converts a flow graph to Graphviz DOT for a node-link debug view.
// Nodes are laid out left to right with their flow in the label, and edge
// stroke width follows edge value.
func ToDOT(g *flow.Graph, opts DOTOptions) string {
	format := opts.NumberFormat
	if format == nil {
		format = layout.FormatPlain
	}
	maxPen := opts.MaxPenWidth
	if maxPen <= 0 {
		maxPen = 8
	}

	maxValue := 0.0
	for _, e := range g.Edges() {
		maxValue = max(maxValue, e.Value)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, format))}
		if !n.HasValue() {
			attrs = append(attrs, `style="rounded,filled,dashed"`)
		}
		if n.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", dotColor(n.Color)))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		pen := 1.0
		if maxValue > 0 {
			pen = max(1, maxPen*e.Value/maxValue)
		}
		label := format(e.Value)
		if e.Label != "" {
			label = e.Label + "\n" + label
		}
		attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("penwidth=%.2f", pen)}
		if e.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", dotColor(e.Color)))
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n flow.Node, format layout.NumberFormat) string {
	name := n.Label
	if name == "" {
		name = fmt.Sprintf("#%d", n.ID)
	}
	return name + "\n" + format(n.Flow())
}

// dotColor converts CSS colors to the #RRGGBBAA form Graphviz accepts.
// Unknown colors pass through for Graphviz to resolve.
func dotColor(c string) string {
	rgba, err := ParseColor(c)
	if err != nil {
		return c
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A)
}

// RenderDOT renders DOT source with Graphviz. Supported formats are "svg",
// "png" and "dot" (which returns the source unchanged).
func RenderDOT(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
