// Package cache stores pipeline stage outputs by content hash.
//
// Every stage of the constellation pipeline is a pure function of its
// inputs, so a graph, a layout or a rendered artifact can be reused whenever
// the same inputs come back. A [Keyer] turns those inputs into keys and a
// [Cache] backend holds the bytes:
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: shared cache for several machines
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// Default time-to-live per stage. Stage outputs never go stale for the same
// inputs, so the TTLs only bound disk and memory usage.
const (
	GraphTTL    = 7 * 24 * time.Hour
	LayoutTTL   = 30 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts holds the builder inputs besides the records themselves.
type GraphKeyOpts struct {
	MaxNodes int  `json:"max_nodes"`
	FoldCase bool `json:"fold_case"`
}

// LayoutKeyOpts holds the layout inputs besides the graph. Params carries
// the simulation constants and must marshal to JSON deterministically.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Params any     `json:"params"`
}

// ArtifactKeyOpts holds the renderer inputs besides the layout.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"`
	Renderer string  `json:"renderer"`
	Scale    float64 `json:"scale,omitempty"`
	Info     bool    `json:"info,omitempty"`
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	GraphKey(recordsHash string, opts GraphKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) GraphKey(recordsHash string, opts GraphKeyOpts) string {
	return hashKey("graph", recordsHash, opts)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
