package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
)

// ComputeLayout lays out g on the canvas and style in opts.
func ComputeLayout(g *flow.Graph, opts Options) (layout.Layout, error) {
	opts.SetDefaults()
	return layout.Build(g, opts.Width, opts.Height, opts.LayoutOptions()...)
}

// MarshalLayout encodes a layout for caching.
func MarshalLayout(l layout.Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout decodes a layout written by [MarshalLayout].
func UnmarshalLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}
