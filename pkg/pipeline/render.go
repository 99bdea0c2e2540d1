package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
	"github.com/matzehuels/sankey/pkg/render/sink"
)

// Render produces every format in opts.Formats. The graph is needed only
// for the DOT and Graphviz formats.
func Render(ctx context.Context, l layout.Layout, g *flow.Graph, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, l, g, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat produces a single format.
func RenderFormat(ctx context.Context, l layout.Layout, g *flow.Graph, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(l, sink.WithTitle(opts.Title), sink.WithBackground(opts.Background))
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.PNGScale)}
		if opts.Background != "" {
			pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
		}
		if opts.NoLabels {
			pngOpts = append(pngOpts, sink.WithoutLabels())
		}
		data, err = sink.RenderPNG(l, pngOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(l, sink.WithJSONIndent(), sink.WithJSONPaths())
	case FormatDOT, FormatGraphviz, FormatGraphvizPNG:
		if g == nil {
			return nil, fmt.Errorf("render %s: graph required", format)
		}
		dot := sink.ToDOT(g, sink.DOTOptions{NumberFormat: opts.Formatter()})
		out := "dot"
		switch format {
		case FormatGraphviz:
			out = "svg"
		case FormatGraphvizPNG:
			out = "png"
		}
		data, err = sink.RenderDOT(ctx, dot, out)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
