package render

import (
	"bytes"
	"fmt"

	"github.com/somnus/constellation/pkg/layout"
)

const emptyMessage = "Record some dreams to see your constellation form"

// SVGOption configures the native SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	background string
	info       bool
}

// WithStyle sets the node and edge style. The default is [Glow].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithBackground fills the canvas with the CSS color c before drawing.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithInfo adds a "Showing top N of M keywords" caption when the graph was
// truncated.
func WithInfo() SVGOption { return func(r *svgRenderer) { r.info = true } }

// SVG returns the native SVG renderer. Without options it uses the [Glow]
// style on a transparent background.
func SVG(opts ...SVGOption) Renderer {
	r := svgRenderer{style: Glow{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders l with the native SVG renderer.
func RenderSVG(l layout.Result, opts ...SVGOption) []byte {
	data, _ := SVG(opts...).Render(l)
	return data
}

// Render implements [Renderer]. Edges are drawn first, then nodes in
// ascending count order so the most frequent keywords end up on top.
func (r svgRenderer) Render(l layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}

	if len(l.Nodes) == 0 {
		fmt.Fprintf(&buf, `  <text class="empty" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="12" fill="rgb(%s)" fill-opacity="0.7">%s</text>`+"\n",
			l.Width/2, l.Height/2, fontFamily, labelRGB, emptyMessage)
		buf.WriteString("</svg>\n")
		return buf.Bytes(), nil
	}

	ss := shapes(l)
	r.style.RenderDefs(&buf, ss)
	for _, ln := range lines(l) {
		r.style.RenderEdge(&buf, ln)
	}
	for _, s := range ss {
		r.style.RenderNode(&buf, s)
	}

	if r.info && l.TotalKeywords > len(l.Nodes) {
		fmt.Fprintf(&buf, `  <text class="info" x="%.2f" y="16" text-anchor="end" font-family="%s" font-size="10" fill="rgb(%s)" fill-opacity="0.6">Showing top %d of %d keywords</text>`+"\n",
			l.Width-8, fontFamily, labelRGB, len(l.Nodes), l.TotalKeywords)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
