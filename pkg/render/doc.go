// Package render draws computed constellation layouts.
//
// # Overview
//
// A [Renderer] turns a [layout.Result] into bytes. [New] picks one by output
// format:
//
//   - svg: the native [SVG] renderer, or [Graphviz] when requested
//   - png, pdf: the SVG output converted with rsvg-convert
//   - json: the layout in the format of package graph
//   - dot: Graphviz source with pinned positions ([ToDOT])
//
// # Styles
//
// A [Style] decides how edges, nodes and labels look. [Glow] draws radial
// gradient nodes with a soft halo that grows with keyword frequency. [Plain]
// draws flat circles. Both label every node below its circle and add a
// "×N" badge to keywords seen [BadgeThreshold] times or more.
//
// Nodes are drawn in ascending count order so the most frequent keywords sit
// on top of their neighbours.
//
//	svg := render.RenderSVG(res, render.WithStyle(render.Plain{}))
//	png, err := render.ToPNG(svg, 2)
//
// An empty layout renders a canvas with a short hint instead of nodes.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg) and return
// [ErrRSVGMissing] when it is not installed.
//
// [layout.Result]: github.com/somnus/constellation/pkg/layout.Result
package render
