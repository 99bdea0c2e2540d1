// Package cache stores pipeline results keyed by content hash.
//
// Backends implementing [Cache]:
//   - [FileCache]: zstd-compressed entries under the user cache directory (CLI)
//   - [RedisCache]: shared cache behind the HTTP server
//   - [MongoCache]: durable store, usually behind Redis in a [TieredCache]
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] from the hash of the input graph and the
// options that affect the result, so a layout is reused only when the same
// graph is laid out on the same canvas with the same style.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. A ttl of zero means the entry
// does not expire. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored data and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs for cached stages.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the inputs besides the graph that change a layout.
type LayoutKeyOpts struct {
	Width        float64 `json:"w"`
	Height       float64 `json:"h"`
	NumberFormat string  `json:"nf,omitempty"`
	Strict       bool    `json:"strict,omitempty"`

	// Spacing overrides; nil means the layout default.
	NodeSeparation *float64 `json:"sep"`
	NodeWidth      *float64 `json:"nw"`
	FontSize       *float64 `json:"fs"`
	Border         *float64 `json:"b"`
}

// ArtifactKeyOpts are the inputs besides the layout that change a rendered file.
type ArtifactKeyOpts struct {
	Format       string  `json:"f"`
	Title        string  `json:"t,omitempty"`
	Background   string  `json:"bg,omitempty"`
	Scale        float64 `json:"s,omitempty"`
	NoLabels     bool    `json:"nl,omitempty"`
	NumberFormat string  `json:"nf,omitempty"`
}

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "stage:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key of a layout computed from graphHash.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns the key of an artifact rendered from layoutHash.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
