package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/flow"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
)

const budgetJSON = `{
  "nodes": [
    {"id": "salary", "value": 60, "label": "Salary"},
    {"id": "bonus", "value": 20, "label": "Bonus"},
    {"id": "income", "label": "Income"},
    {"id": "spent", "label": "Spent"},
    {"id": "saved", "label": "Saved"}
  ],
  "edges": [
    {"from": "salary", "to": "income"},
    {"from": "bonus", "to": "income"},
    {"from": "income", "to": "spent", "value": 50},
    {"from": "income", "to": "saved"}
  ]
}`

const budgetYAML = `
nodes:
  - {id: salary, value: 60, label: Salary}
  - {id: bonus, value: 20, label: Bonus}
  - {id: income, label: Income}
  - {id: spent, label: Spent}
  - {id: saved, label: Saved}
edges:
  - {from: salary, to: income}
  - {from: bonus, to: income}
  - {from: income, to: spent, value: 50}
  - {from: income, to: saved}
`

// memCache is an in-memory cache.Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// failingCache fails every operation.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cache.ErrUnavailable
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrUnavailable
}
func (failingCache) Delete(context.Context, string) error { return cache.ErrUnavailable }
func (failingCache) Close() error                         { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testOptions(formats ...string) Options {
	c := config.Default()
	c.Width, c.Height = 400, 200
	c.Formats = formats
	return Options{Config: c, Source: "budget", Logger: quietLogger()}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), []byte(budgetJSON), graphio.FormatJSON, testOptions("svg", "json", "dot"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 5 || res.Stats.EdgeCount != 4 || res.Stats.LayerCount != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if got := res.Graph.Flow(2); got != 80 {
		t.Errorf("income flow = %v, want 80", got)
	}
	if len(res.GraphHash) != 64 {
		t.Errorf("GraphHash = %q", res.GraphHash)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(res.Artifacts["svg"]), []byte("<?xml")) {
		t.Error("svg artifact missing XML header")
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"ribbons"`)) {
		t.Error("json artifact missing ribbons")
	}
	if !bytes.Contains(res.Artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact missing digraph")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("null cache reported hits: %+v", res.CacheInfo)
	}
}

func TestExecuteCaches(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	opts := testOptions("svg", "png")

	first, err := r.Execute(ctx, []byte(budgetJSON), graphio.FormatJSON, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if c.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (layout, svg, png)", c.sets)
	}

	second, err := r.Execute(ctx, []byte(budgetYAML), graphio.FormatYAML, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("the same graph in YAML should hash like its JSON form")
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
	if first.Layout.Scale != second.Layout.Scale || len(second.Layout.Ribbons) != 4 {
		t.Error("cached layout differs from computed layout")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, []byte(budgetJSON), graphio.FormatJSON, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache reads")
	}
}

func TestExecuteCacheKeysFollowOptions(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, []byte(budgetJSON), graphio.FormatJSON, testOptions("svg")); err != nil {
		t.Fatal(err)
	}
	opts := testOptions("svg")
	border := 0.0
	opts.Border = &border
	res, err := r.Execute(ctx, []byte(budgetJSON), graphio.FormatJSON, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("a different border must not reuse the cached layout")
	}
	if res.Layout.Style.Border != 0 {
		t.Errorf("Border = %v, want 0", res.Layout.Style.Border)
	}
}

func TestExecuteBrokenCache(t *testing.T) {
	r := NewRunner(failingCache{}, nil, quietLogger())
	res, err := r.Execute(context.Background(), []byte(budgetJSON), graphio.FormatJSON, testOptions("svg"))
	if err != nil {
		t.Fatalf("a failing cache should not fail the run: %v", err)
	}
	if len(res.Artifacts["svg"]) == 0 {
		t.Error("missing svg artifact")
	}
}

func TestExecuteErrors(t *testing.T) {
	cyclic := `{"nodes":[{"id":"a","value":1},{"id":"b"}],"edges":[{"from":"a","to":"b","value":1},{"from":"b","to":"a","value":1}]}`
	tests := []struct {
		name   string
		data   string
		format graphio.Format
		opts   Options
		target error
	}{
		{"malformed", `{"nodes": [`, graphio.FormatJSON, testOptions("svg"), graphio.ErrMalformed},
		{"unknown node", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, graphio.FormatJSON, testOptions("svg"), graphio.ErrUnknownNode},
		{"cycle", cyclic, graphio.FormatJSON, testOptions("svg"), flow.ErrCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), []byte(tt.data), tt.format, tt.opts)
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), []byte(budgetJSON), graphio.FormatJSON, testOptions("gif")); err == nil {
		t.Error("expected error for unsupported format")
	}

	opts := testOptions("png")
	opts.PNGScale = 1e7
	if _, err := r.Execute(context.Background(), []byte(budgetJSON), graphio.FormatJSON, opts); err == nil {
		t.Error("expected error for an oversized PNG")
	}
}

func TestRenderPNGWithoutLabels(t *testing.T) {
	l := testLayout(t)
	labeled, err := RenderFormat(context.Background(), l, nil, FormatPNG, testOptions("png"))
	if err != nil {
		t.Fatalf("RenderFormat: %v", err)
	}
	opts := testOptions("png")
	opts.NoLabels = true
	bare, err := RenderFormat(context.Background(), l, nil, FormatPNG, opts)
	if err != nil {
		t.Fatalf("RenderFormat(no labels): %v", err)
	}
	if bytes.Equal(labeled, bare) {
		t.Error("NoLabels should change the PNG")
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, quietLogger()).Execute(ctx, []byte(budgetJSON), graphio.FormatJSON, testOptions("svg"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}
	if opts.Width != config.DefaultWidth || opts.Height != config.DefaultHeight {
		t.Errorf("size = %vx%v", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.PNGScale != 2 || opts.Logger == nil {
		t.Errorf("PNGScale = %v, Logger = %v", opts.PNGScale, opts.Logger)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := testOptions("svg")
	opts.Title = "Budget"
	opts.NumberFormat = "%.1f"

	if k := opts.ArtifactKeyOpts(FormatSVG); k.Title != "Budget" || k.Scale != 0 {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Title != "" || k.Scale != 2 {
		t.Errorf("png key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatDOT); k.NumberFormat != "%.1f" {
		t.Errorf("dot key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatGraphvizPNG); k.NumberFormat != "%.1f" || k.Scale != 0 {
		t.Errorf("graphviz-png key = %+v", k)
	}

	opts.NoLabels = true
	if k := opts.ArtifactKeyOpts(FormatPNG); !k.NoLabels {
		t.Errorf("png key = %+v, want NoLabels", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.NoLabels {
		t.Errorf("svg key = %+v, NoLabels only applies to png", k)
	}
}

func TestExtensionAndContentType(t *testing.T) {
	tests := []struct {
		format, ext, contentType string
	}{
		{FormatSVG, ".svg", "image/svg+xml"},
		{FormatPNG, ".png", "image/png"},
		{FormatJSON, ".json", "application/json"},
		{FormatDOT, ".dot", "text/vnd.graphviz"},
		{FormatGraphviz, ".graphviz.svg", "image/svg+xml"},
		{FormatGraphvizPNG, ".graphviz.png", "image/png"},
	}
	for _, tt := range tests {
		if got := Extension(tt.format); got != tt.ext {
			t.Errorf("Extension(%q) = %q, want %q", tt.format, got, tt.ext)
		}
		if got := ContentType(tt.format); got != tt.contentType {
			t.Errorf("ContentType(%q) = %q, want %q", tt.format, got, tt.contentType)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g, err := Load(context.Background(), []byte(budgetJSON), graphio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	l, err := ComputeLayout(g.Graph, testOptions("svg"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := MarshalLayout(back)
	if !bytes.Equal(data, again) {
		t.Error("layout does not survive a cache round trip")
	}
	if back.Ribbons[0].Path.String() != l.Ribbons[0].Path.String() {
		t.Error("ribbon path changed in round trip")
	}

	if _, err := UnmarshalLayout([]byte("{")); err == nil {
		t.Error("expected error for truncated layout")
	}
}

func TestRenderFormatUnsupported(t *testing.T) {
	_, err := RenderFormat(context.Background(), testLayout(t), nil, "pdf", testOptions("svg"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v", err)
	}
	if _, err := RenderFormat(context.Background(), testLayout(t), nil, FormatDOT, testOptions("dot")); err == nil {
		t.Error("dot without a graph should fail")
	}
}

func TestRenderGraphviz(t *testing.T) {
	if testing.Short() {
		t.Skip("runs graphviz")
	}
	g, err := Load(context.Background(), []byte(budgetJSON), graphio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderFormat(context.Background(), testLayout(t), g.Graph, FormatGraphviz, testOptions("graphviz"))
	if err != nil {
		t.Fatalf("RenderFormat: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("graphviz output is not SVG")
	}
}

func TestRenderGraphvizPNG(t *testing.T) {
	if testing.Short() {
		t.Skip("runs graphviz")
	}
	g, err := Load(context.Background(), []byte(budgetJSON), graphio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderFormat(context.Background(), testLayout(t), g.Graph, FormatGraphvizPNG, testOptions(FormatGraphvizPNG))
	if err != nil {
		t.Fatalf("RenderFormat: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("graphviz-png output is not PNG")
	}
}

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	g, err := Load(context.Background(), []byte(budgetJSON), graphio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	l, err := ComputeLayout(g.Graph, testOptions("svg"))
	if err != nil {
		t.Fatal(err)
	}
	return l
}
