package sink

import (
	"encoding/json"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	paths  bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONPaths includes each ribbon's SVG path data.
func WithJSONPaths() JSONOption { return func(r *jsonRenderer) { r.paths = true } }

type jsonOutput struct {
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Scale   float64         `json:"scale"`
	Style   jsonStyle       `json:"style"`
	Layers  [][]flow.NodeID `json:"layers"`
	Nodes   []jsonNode      `json:"nodes"`
	Ribbons []jsonRibbon    `json:"ribbons"`
}

type jsonStyle struct {
	NodeSeparation float64 `json:"node_separation"`
	NodeWidth      float64 `json:"node_width"`
	FontSize       float64 `json:"font_size"`
	Border         float64 `json:"border"`
}

type jsonNode struct {
	ID     flow.NodeID `json:"id"`
	Layer  int         `json:"layer"`
	Index  int         `json:"index"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Flow   float64     `json:"flow"`
	Color  string      `json:"color"`
	Label  string      `json:"label,omitempty"`
	Text   string      `json:"text"`
}

type jsonRibbon struct {
	Edge      int         `json:"edge"`
	From      flow.NodeID `json:"from"`
	To        flow.NodeID `json:"to"`
	Value     float64     `json:"value"`
	Thickness float64     `json:"thickness"`
	Source    jsonSpan    `json:"source"`
	Target    jsonSpan    `json:"target"`
	Color     string      `json:"color"`
	Label     string      `json:"label,omitempty"`
	Text      string      `json:"text"`
	Path      string      `json:"path,omitempty"`
}

type jsonSpan struct {
	X      float64 `json:"x"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// RenderJSON exports the layout geometry as JSON for external tools. Nodes
// are listed by handle and ribbons in edge creation order; consumers that
// draw should sort ribbons by descending value.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  l.Width,
		Height: l.Height,
		Scale:  l.Scale,
		Style: jsonStyle{
			NodeSeparation: l.Style.NodeSeparation,
			NodeWidth:      l.Style.NodeWidth,
			FontSize:       l.Style.FontSize,
			Border:         l.Style.Border,
		},
		Layers:  l.Layers,
		Nodes:   make([]jsonNode, 0, len(l.Nodes)),
		Ribbons: make([]jsonRibbon, 0, len(l.Ribbons)),
	}
	if out.Layers == nil {
		out.Layers = [][]flow.NodeID{}
	}

	for _, n := range l.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID: n.ID, Layer: n.Layer, Index: n.Index,
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
			Flow: n.Flow, Color: n.Color, Label: n.Label, Text: n.ValueText,
		})
	}
	for _, rb := range l.Ribbons {
		jr := jsonRibbon{
			Edge: rb.Edge, From: rb.From, To: rb.To,
			Value: rb.Value, Thickness: rb.Thickness,
			Source: jsonSpan{X: rb.FromX, Top: rb.FromTop, Bottom: rb.FromBottom},
			Target: jsonSpan{X: rb.ToX, Top: rb.ToTop, Bottom: rb.ToBottom},
			Color:  rb.Color, Label: rb.Label, Text: rb.ValueText,
		}
		if r.paths {
			jr.Path = rb.Path.String()
		}
		out.Ribbons = append(out.Ribbons, jr)
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
