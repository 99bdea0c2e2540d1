package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/flow"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
	"github.com/matzehuels/sankey/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads the graph document in data, lays it out and renders every
// requested format.
func (r *Runner) Execute(ctx context.Context, data []byte, format graphio.Format, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	loadStart := time.Now()
	g, hash, err := r.load(ctx, data, format, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.GraphHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Debug("loaded graph",
		"source", opts.Source,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, g.Graph, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LayerCount = len(l.Layers)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"layers", len(l.Layers),
		"scale", l.Scale,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, g.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo returns the layout of g, computing it on a cache miss.
// graphHash identifies g in cache keys. The second result reports a hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *flow.Graph, graphHash string, opts Options) (layout.Layout, bool, error) {
	opts.SetDefaults()
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "stage", "layout", "err", err)
		} else if hit {
			if l, err := UnmarshalLayout(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return l, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	if err := ctx.Err(); err != nil {
		return layout.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()
	l, err := ComputeLayout(g, opts)
	hooks.OnLayoutComplete(ctx, len(l.Layers), time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := MarshalLayout(l); err == nil {
		r.store(ctx, "layout", key, data, cache.LayoutTTL)
	}
	return l, false, nil
}

// RenderWithCacheInfo renders every format in opts.Formats, reusing cached
// artifacts. The second result reports whether all of them were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, g *flow.Graph, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	layoutData, err := MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheHooks := observability.Cache()
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "stage", "artifact", "err", err)
			}
			if hit {
				cacheHooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, l, g, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.store(ctx, "artifact", key, data, cache.ArtifactTTL)
	}
	return artifacts, allCached, nil
}

// store writes to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, stage, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
