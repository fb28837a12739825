package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
)

var (
	// ErrUnknownFormat is returned by [New] for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrUnknownStyle is returned by [StyleByName] for an unknown style.
	ErrUnknownStyle = errors.New("unknown style")

	// ErrUnknownRenderer is returned by [New] for an unknown SVG renderer.
	ErrUnknownRenderer = errors.New("unknown renderer")

	// ErrRSVGMissing is returned by [ToPNG] and [ToPDF] when rsvg-convert is
	// not installed.
	ErrRSVGMissing = errors.New("rsvg-convert not found")
)

// Renderer turns a layout into an output document.
type Renderer interface {
	Render(l layout.Result) ([]byte, error)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(l layout.Result) ([]byte, error)

// Render implements [Renderer].
func (f RendererFunc) Render(l layout.Result) ([]byte, error) { return f(l) }

// Formats lists every output format [New] accepts.
var Formats = []string{graph.FormatSVG, graph.FormatPNG, graph.FormatPDF, graph.FormatJSON, graph.FormatDOT}

// Renderers lists every SVG renderer [New] accepts.
var Renderers = []string{graph.RendererNative, graph.RendererGraphviz}

// Options selects and configures a renderer.
type Options struct {
	Style    string  // graph.StyleGlow (default) or graph.StylePlain
	Renderer string  // graph.RendererNative (default) or graph.RendererGraphviz
	Scale    float64 // PNG scale factor, default 2
	Info     bool    // add a "Showing top N of M keywords" caption when truncated
}

// New returns the renderer for format.
//
// PNG and PDF are converted from the SVG produced by the selected SVG
// renderer. JSON and DOT ignore Style and Renderer.
func New(format string, opts Options) (Renderer, error) {
	if !slices.Contains(Formats, format) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if format == graph.FormatJSON {
		return JSON(), nil
	}

	style, err := StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}
	if format == graph.FormatDOT {
		return DOT(style), nil
	}

	var svg Renderer
	switch opts.Renderer {
	case "", graph.RendererNative:
		svgOpts := []SVGOption{WithStyle(style)}
		if opts.Info {
			svgOpts = append(svgOpts, WithInfo())
		}
		svg = SVG(svgOpts...)
	case graph.RendererGraphviz:
		svg = Graphviz(style)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, opts.Renderer)
	}

	switch format {
	case graph.FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = 2
		}
		return PNG(svg, scale), nil
	case graph.FormatPDF:
		return PDF(svg), nil
	default:
		return svg, nil
	}
}

// JSON renders the layout in the serialization format of package graph.
func JSON() Renderer {
	return RendererFunc(graph.MarshalLayout)
}

// PNG renders through svg and rasterizes with rsvg-convert.
func PNG(svg Renderer, scale float64) Renderer {
	return RendererFunc(func(l layout.Result) ([]byte, error) {
		data, err := svg.Render(l)
		if err != nil {
			return nil, err
		}
		return ToPNG(data, scale)
	})
}

// PDF renders through svg and converts with rsvg-convert.
func PDF(svg Renderer) Renderer {
	return RendererFunc(func(l layout.Result) ([]byte, error) {
		data, err := svg.Render(l)
		if err != nil {
			return nil, err
		}
		return ToPDF(data)
	})
}

// shapes converts layout nodes into drawable shapes, ordered by ascending
// count so frequent keywords are drawn on top. Equal counts keep layout order.
func shapes(l layout.Result) []Shape {
	out := make([]Shape, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = Shape{Index: i, Label: n.Label, Count: n.Count, X: n.Pos.X, Y: n.Pos.Y, R: n.Radius, Norm: n.Norm}
	}
	slices.SortStableFunc(out, func(a, b Shape) int { return a.Count - b.Count })
	return out
}

func lines(l layout.Result) []Line {
	out := make([]Line, len(l.Edges))
	for i, e := range l.Edges {
		s, t := l.Nodes[e.Source].Pos, l.Nodes[e.Target].Pos
		out[i] = Line{X1: s.X, Y1: s.Y, X2: t.X, Y2: t.Y, Weight: e.Weight}
	}
	return out
}
