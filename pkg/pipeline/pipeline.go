// Package pipeline runs the records → graph → layout → render pipeline.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: count keywords and co-occurrences ([constellation.Build])
//  2. Layout: place the graph on a canvas ([layout.Compute])
//  3. Render: draw the layout in one or more formats ([render.New])
//
// Each stage is a pure function of its inputs, so a [Runner] caches every
// stage by content hash and reuses earlier results whenever the records,
// the options or the simulation constants come back unchanged.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, recs, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	g, _, err := runner.Build(ctx, recs, opts)
//	l, _, err := runner.Layout(ctx, g, opts)
//	artifacts, _, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/somnus/constellation/pkg/cache"
	"github.com/somnus/constellation/pkg/constellation"
	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/records"
	"github.com/somnus/constellation/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxNodes is the number of keywords kept in the graph.
	DefaultMaxNodes = constellation.DefaultMaxNodes

	// DefaultWidth is the default canvas width in pixels. The default
	// height follows the node count, see [render.AutoHeight].
	DefaultWidth = render.DefaultWidth

	// DefaultStyle is the default visual style.
	DefaultStyle = graph.StyleGlow

	// DefaultRenderer is the default SVG renderer.
	DefaultRenderer = graph.RendererNative

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(render.Formats, format) {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style exists.
func ValidateStyle(style string) error {
	if style != graph.StyleGlow && style != graph.StylePlain {
		return cerrors.New(cerrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: glow, plain)", style)
	}
	return nil
}

// ValidateRenderer checks that an SVG renderer exists.
func ValidateRenderer(renderer string) error {
	if !slices.Contains(render.Renderers, renderer) {
		return cerrors.New(cerrors.ErrCodeInvalidRenderer, "invalid renderer: %q (must be one of: native, graphviz)", renderer)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Build options
	MaxNodes  int  `json:"max_nodes,omitempty"`
	Normalize bool `json:"normalize,omitempty"` // clean keywords with records.Normalize before building
	FoldCase  bool `json:"fold_case,omitempty"` // case-fold keywords while normalizing

	// Layout options
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"` // 0 derives the height from the node count
	Layout layout.Config `json:"layout"`           // zero value means layout.DefaultConfig()

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Renderer string   `json:"renderer,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Info     bool     `json:"info,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and sets defaults for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxNodes < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "max nodes must be positive, got %d", o.MaxNodes)
	}
	o.setLogger()
	return nil
}

// ValidateForLayout validates and sets defaults for the layout stage.
// A zero Width takes the default and a zero Height follows the node count.
// Negative sizes fail here; the minimum canvas is checked by
// [layout.Compute] once the height is known.
func (o *Options) ValidateForLayout() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", o.Width}, {"height", o.Height}} {
		if !(d.v >= 0) {
			return cerrors.Wrap(cerrors.ErrCodeInvalidCanvas, layout.ErrInvalidCanvas, "%s must be positive, got %v", d.name, d.v)
		}
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	o.setLogger()
	return o.Layout.Validate()
}

// ValidateForRender validates and sets defaults for the render stage.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateRenderer(o.Renderer); err != nil {
		return err
	}
	if o.Scale < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// CanvasHeight returns the configured height, or the automatic height for
// nodeCount nodes when none is set.
func (o *Options) CanvasHeight(nodeCount int) float64 {
	if o.Height != 0 {
		return o.Height
	}
	return render.AutoHeight(nodeCount)
}

// RenderOptions returns the renderer selection for [render.New].
func (o *Options) RenderOptions() render.Options {
	return render.Options{Style: o.Style, Renderer: o.Renderer, Scale: o.Scale, Info: o.Info}
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{MaxNodes: o.MaxNodes, FoldCase: o.Normalize && o.FoldCase}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts(height float64) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: height, Params: o.Layout}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case graph.FormatJSON:
	case graph.FormatDOT:
		opts.Style = o.Style
	default:
		opts.Style, opts.Renderer, opts.Info = o.Style, o.Renderer, o.Info
		if format == graph.FormatPNG {
			opts.Scale = o.Scale
		}
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     constellation.Graph
	Layout    layout.Result
	Artifacts map[string][]byte // keyed by format
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount   int
	NodeCount     int
	EdgeCount     int
	TotalKeywords int
	Iterations    int
	Normalize     records.NormalizeStats
	BuildTime     time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool
	LayoutHit bool
	RenderHit bool // every requested artifact came from the cache
}
