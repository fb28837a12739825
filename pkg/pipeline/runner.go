package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/somnus/constellation/pkg/cache"
	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/observability"
	"github.com/somnus/constellation/pkg/records"
)

// Cache key types reported to observability hooks.
const (
	stageGraph    = "graph"
	stageLayout   = "layout"
	stageArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, recs []records.Record, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	result.Stats.RecordCount = len(recs)

	// Stage 1: Build
	start := time.Now()
	g, normStats, buildHit, err := r.build(ctx, recs, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.Normalize = normStats
	result.Stats.BuildTime = time.Since(start)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.TotalKeywords = g.TotalKeywords
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built constellation",
		"records", len(recs),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)
	if g.Truncated() {
		r.Logger.Info("showing top keywords", "shown", g.NodeCount(), "total", g.TotalKeywords)
	}

	// Stage 2: Layout
	start = time.Now()
	l, layoutHit, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Iterations = l.Iterations
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"iterations", l.Iterations,
		"canvas", fmt.Sprintf("%.0fx%.0f", l.Width, l.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, renderHit, err := r.Render(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build runs the build stage with caching and reports whether the graph
// came from the cache.
func (r *Runner) Build(ctx context.Context, recs []records.Record, opts Options) (constellation.Graph, bool, error) {
	g, _, hit, err := r.build(ctx, recs, opts)
	return g, hit, err
}

func (r *Runner) build(ctx context.Context, recs []records.Record, opts Options) (constellation.Graph, records.NormalizeStats, bool, error) {
	var stats records.NormalizeStats
	if err := opts.ValidateForBuild(); err != nil {
		return constellation.Graph{}, stats, false, err
	}
	if err := ctx.Err(); err != nil {
		return constellation.Graph{}, stats, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(recs))
	start := time.Now()

	work, stats := prepareRecords(recs, opts)
	if stats.Dropped > 0 || stats.Duplicates > 0 {
		r.Logger.Debug("normalized keywords", "dropped", stats.Dropped, "duplicates", stats.Duplicates)
	}

	recordsHash, err := cache.HashJSON(keywordLists(work))
	if err != nil {
		return constellation.Graph{}, stats, false, err
	}
	key := r.Keyer.GraphKey(recordsHash, opts.GraphKeyOpts())

	if data, ok := r.lookup(ctx, key, stageGraph, opts.Refresh); ok {
		if g, err := graph.UnmarshalGraph(data); err == nil {
			hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
			return g, stats, true, nil
		}
	}

	g, err := constellation.Build(work, opts.MaxNodes)
	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return constellation.Graph{}, stats, false, err
	}

	if data, err := graph.MarshalGraph(g); err == nil {
		r.store(ctx, key, stageGraph, data, cache.GraphTTL)
	}
	return g, stats, false, nil
}

// Layout runs the layout stage with caching and reports whether the layout
// came from the cache.
func (r *Runner) Layout(ctx context.Context, g constellation.Graph, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return layout.Result{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return layout.Result{}, false, err
	}
	height := opts.CanvasHeight(g.NodeCount())
	key := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts(height))

	if data, ok := r.lookup(ctx, key, stageLayout, opts.Refresh); ok {
		if l, err := graph.UnmarshalLayout(data); err == nil {
			hooks.OnLayoutComplete(ctx, l.Iterations, time.Since(start), nil)
			return l, true, nil
		}
	}

	l, err := ComputeLayout(g, opts)
	hooks.OnLayoutComplete(ctx, l.Iterations, time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, key, stageLayout, data, cache.LayoutTTL)
	}
	return l, false, nil
}

// Render renders every requested format with caching. Formats missing from
// the cache are rendered concurrently. The flag reports whether every
// artifact came from the cache.
func (r *Runner) Render(ctx context.Context, l layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.lookup(ctx, key, stageArtifact, opts.Refresh); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	rendered, err := renderFormats(ctx, l, opts, missing)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.store(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), stageArtifact, data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Cache failures count as misses; the
// pipeline never fails because the cache does.
func (r *Runner) lookup(ctx context.Context, key, stage string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "stage", stage, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, stage)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, stage)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, stage string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}
