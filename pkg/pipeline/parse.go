package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/sankey/pkg/cache"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/observability"
)

// Load decodes a graph document.
func Load(ctx context.Context, data []byte, format graphio.Format) (*graphio.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return graphio.Read(bytes.NewReader(data), format)
}

// GraphHash returns the hash of g's canonical JSON form, so the same graph
// written as JSON or YAML hashes equally.
func GraphHash(g *graphio.Graph) (string, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

func (r *Runner) load(ctx context.Context, data []byte, format graphio.Format, opts Options) (*graphio.Graph, string, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()

	g, err := Load(ctx, data, format)
	var hash string
	if err == nil {
		hash, err = GraphHash(g)
	}
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Source, 0, 0, time.Since(start), err)
		return nil, "", err
	}
	hooks.OnLoadComplete(ctx, opts.Source, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	return g, hash, nil
}
