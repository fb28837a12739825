package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/somnus/constellation/pkg/graph"
)

// Canvas defaults for callers that do not know their size up front.
const (
	DefaultWidth   = 440.0
	minAutoHeight  = 320.0
	maxAutoHeight  = 520.0
	baseAutoHeight = 200.0
	perNodeHeight  = 10.0
)

// BadgeThreshold is the smallest count that gets a "×N" badge.
const BadgeThreshold = 3

const fontFamily = "Inter, sans-serif"

// Palette.
const (
	accentRGB     = "167,139,250" // #a78bfa
	gradientLight = "#c4b5fd"
	gradientDark  = "#7c3aed"
	strokeRGBA    = "rgba(196,181,253,0.4)"
	labelRGB      = "232,232,240"
	badgeRGBA     = "rgba(251,191,36,0.8)"
)

// AutoHeight returns the canvas height for n nodes: 200 + 10n, kept within
// [320, 520].
func AutoHeight(n int) float64 {
	return math.Max(minAutoHeight, math.Min(maxAutoHeight, baseAutoHeight+float64(n)*perNodeHeight))
}

// EdgeAlpha is the stroke opacity of an edge of the given weight.
func EdgeAlpha(weight int) float64 { return math.Min(0.12+float64(weight)*0.12, 0.55) }

// EdgeWidth is the stroke width of an edge of the given weight.
func EdgeWidth(weight int) float64 { return 0.5 + float64(weight)*0.6 }

// GlowRadius is the halo radius around a node.
func GlowRadius(radius, norm float64) float64 { return radius * (2.5 + norm) }

// GlowAlpha is the halo opacity at the node center.
func GlowAlpha(norm float64) float64 { return 0.15 + norm*0.15 }

// LabelSize is the font size of a node label, between 9 and 13.
func LabelSize(norm float64) float64 { return math.Max(9, math.Min(13, 9+norm*4)) }

// LabelAlpha is the opacity of a node label.
func LabelAlpha(norm float64) float64 { return 0.7 + norm*0.3 }

// Shape is a node ready to draw.
type Shape struct {
	Index int
	Label string
	Count int
	X, Y  float64
	R     float64
	Norm  float64
}

// Line is an edge ready to draw.
type Line struct {
	X1, Y1, X2, Y2 float64
	Weight         int
}

// Style defines the visual appearance of a constellation.
type Style interface {
	// Name returns the style identifier used in configs and cache keys.
	Name() string
	// RenderDefs writes SVG <defs> content (gradients).
	RenderDefs(buf *bytes.Buffer, shapes []Shape)
	// RenderEdge writes the SVG for one edge line.
	RenderEdge(buf *bytes.Buffer, l Line)
	// RenderNode writes the SVG for a node and its label.
	RenderNode(buf *bytes.Buffer, s Shape)
}

// Glow draws nodes as gradient-filled stars with a soft halo.
type Glow struct{}

// Plain draws flat nodes without halos. It renders faster in viewers that
// struggle with many gradients.
type Plain struct{}

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", graph.StyleGlow:
		return Glow{}, nil
	case graph.StylePlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
}

func (Glow) Name() string { return graph.StyleGlow }

func (Glow) RenderDefs(buf *bytes.Buffer, shapes []Shape) {
	buf.WriteString("  <defs>\n")
	writeNodeGradient(buf)
	for _, s := range shapes {
		fmt.Fprintf(buf, `    <radialGradient id="glow-%d"><stop offset="0" stop-color="rgb(%s)" stop-opacity="%.3f"/><stop offset="1" stop-color="rgb(%s)" stop-opacity="0"/></radialGradient>`+"\n",
			s.Index, accentRGB, GlowAlpha(s.Norm), accentRGB)
	}
	buf.WriteString("  </defs>\n")
}

func (Glow) RenderEdge(buf *bytes.Buffer, l Line) { writeLine(buf, l) }

func (Glow) RenderNode(buf *bytes.Buffer, s Shape) {
	fmt.Fprintf(buf, `  <circle class="glow" cx="%.2f" cy="%.2f" r="%.2f" fill="url(#glow-%d)"/>`+"\n",
		s.X, s.Y, GlowRadius(s.R, s.Norm), s.Index)
	fmt.Fprintf(buf, `  <circle class="node" cx="%.2f" cy="%.2f" r="%.2f" fill="url(#node-fill)" stroke="%s" stroke-width="1"/>`+"\n",
		s.X, s.Y, s.R, strokeRGBA)
	writeLabel(buf, s)
}

func (Plain) Name() string { return graph.StylePlain }

func (Plain) RenderDefs(buf *bytes.Buffer, _ []Shape) {}

func (Plain) RenderEdge(buf *bytes.Buffer, l Line) { writeLine(buf, l) }

func (Plain) RenderNode(buf *bytes.Buffer, s Shape) {
	fmt.Fprintf(buf, `  <circle class="node" cx="%.2f" cy="%.2f" r="%.2f" fill="rgb(%s)" stroke="%s" stroke-width="1"/>`+"\n",
		s.X, s.Y, s.R, accentRGB, strokeRGBA)
	writeLabel(buf, s)
}

// writeNodeGradient writes the shared node fill. The focal point sits up
// and to the left of the center, which reads as a light source.
func writeNodeGradient(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `    <radialGradient id="node-fill" cx="0.5" cy="0.5" r="0.5" fx="0.35" fy="0.35"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></radialGradient>`+"\n",
		gradientLight, gradientDark)
}

func writeLine(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="rgb(%s)" stroke-opacity="%.3f" stroke-width="%.2f"/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, accentRGB, EdgeAlpha(l.Weight), EdgeWidth(l.Weight))
}

func writeLabel(buf *bytes.Buffer, s Shape) {
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-weight="500" font-size="%.2f" fill="rgb(%s)" fill-opacity="%.3f">%s</text>`+"\n",
		s.X, s.Y+s.R+14, fontFamily, LabelSize(s.Norm), labelRGB, LabelAlpha(s.Norm), EscapeXML(s.Label))
	if s.Count >= BadgeThreshold {
		fmt.Fprintf(buf, `  <text class="badge" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-weight="600" font-size="8" fill="%s">×%d</text>`+"\n",
			s.X+s.R+2, s.Y-s.R-2, fontFamily, badgeRGBA, s.Count)
	}
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
