// Package pipeline runs the load → layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: decode a JSON or YAML graph document into a flow graph
//  2. Layout: compute the Sankey geometry with [layout.Build]
//  3. Render: write SVG, PNG, JSON, DOT or Graphviz (SVG or PNG) output
//
// A [Runner] caches the layout by the hash of the graph and the layout
// options, and each artifact by the hash of the layout and the render
// options. Loading is never cached; decoding a document is cheaper than
// hashing it twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Config: config.Default()}
//	result, err := runner.Execute(ctx, data, graphio.FormatJSON, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
)

// Output formats.
const (
	FormatSVG         = "svg"
	FormatPNG         = "png"
	FormatJSON        = "json"
	FormatDOT         = "dot"
	FormatGraphviz    = "graphviz"
	FormatGraphvizPNG = "graphviz-png"
)

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return ".graphviz.svg"
	case FormatGraphvizPNG:
		return ".graphviz.png"
	}
	return "." + format
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatPNG, FormatGraphvizPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Options configures a pipeline run. The embedded style is the same one
// loaded from TOML files.
type Options struct {
	config.Config

	// Source names the input in logs, e.g. a file path.
	Source string

	// Refresh skips cache reads. Results are still written.
	Refresh bool

	Logger *log.Logger
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Graph     *graphio.Graph
	GraphHash string
	Layout    layout.Layout

	// Artifacts is keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayerCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact was cached
}

// SetDefaults fills zero fields from [config.Default].
func (o *Options) SetDefaults() {
	def := config.Default()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if len(o.Formats) == 0 {
		o.Formats = def.Formats
	}
	if o.PNGScale == 0 {
		o.PNGScale = def.PNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates the style.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// LayoutKeyOpts returns the cache key inputs of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:          o.Width,
		Height:         o.Height,
		NumberFormat:   o.NumberFormat,
		Strict:         o.Strict,
		NodeSeparation: o.NodeSeparation,
		NodeWidth:      o.NodeWidth,
		FontSize:       o.FontSize,
		Border:         o.Border,
	}
}

// ArtifactKeyOpts returns the cache key inputs of rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Title = o.Title
		k.Background = o.Background
	case FormatPNG:
		k.Background = o.Background
		k.Scale = o.PNGScale
		k.NoLabels = o.NoLabels
	case FormatDOT, FormatGraphviz, FormatGraphvizPNG:
		k.NumberFormat = o.NumberFormat
	}
	return k
}
