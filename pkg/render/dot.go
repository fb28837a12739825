package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/somnus/constellation/pkg/layout"
)

// DOT returns a renderer that emits Graphviz DOT source with every node
// pinned at its computed position.
func DOT(style Style) Renderer {
	return RendererFunc(func(l layout.Result) ([]byte, error) {
		return []byte(ToDOT(l, style)), nil
	})
}

// ToDOT converts a layout to an undirected Graphviz graph. Positions are
// given in points with "!" so neato keeps them fixed, and the y axis is
// flipped because Graphviz grows upwards. Two invisible corner nodes hold the
// canvas at the layout's size.
func ToDOT(l layout.Result, style Style) string {
	var buf bytes.Buffer
	buf.WriteString("graph constellation {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  forcelabels=true;\n")
	buf.WriteString("  pad=0;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, label=\"\", fontname=%s, fontcolor=\"%s\", color=\"%s\", penwidth=1];\n",
		dotQuote(fontFamily), hexRGB(labelRGB, 1), hexRGB(gradientLight, 0.4))
	buf.WriteString("\n")

	writeCorner(&buf, "corner_min", 0, l.Height)
	writeCorner(&buf, "corner_max", l.Width, 0)

	for _, s := range shapes(l) {
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", s.X, l.Height-s.Y),
			fmt.Sprintf("width=%.4f", 2*s.R/72),
			fmt.Sprintf("xlabel=%s", dotQuote(s.Label)),
			fmt.Sprintf("fontsize=%.2f", LabelSize(s.Norm)),
		}
		attrs = append(attrs, dotFill(style)...)
		if s.Count >= BadgeThreshold {
			attrs = append(attrs, fmt.Sprintf("tooltip=%s", dotQuote(fmt.Sprintf("%s ×%d", s.Label, s.Count))))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", s.Index, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d [color=\"%s\", penwidth=%.2f, weight=%d];\n",
			e.Source, e.Target, hexRGB(accentRGB, EdgeAlpha(e.Weight)), EdgeWidth(e.Weight), e.Weight)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCorner(buf *bytes.Buffer, id string, x, y float64) {
	fmt.Fprintf(buf, "  %s [pos=\"%.2f,%.2f!\", width=0, height=0, style=invis];\n", id, x, y)
}

func dotFill(style Style) []string {
	switch style.(type) {
	case Plain:
		return []string{"style=filled", fmt.Sprintf("fillcolor=\"%s\"", hexRGB(accentRGB, 1))}
	default:
		return []string{"style=radial", fmt.Sprintf("fillcolor=\"%s:%s\"", gradientLight, gradientDark)}
	}
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// hexRGB turns either "r,g,b" or "#rrggbb" plus an opacity into the
// "#rrggbbaa" form Graphviz understands.
func hexRGB(c string, alpha float64) string {
	var r, g, b int
	if strings.HasPrefix(c, "#") {
		fmt.Sscanf(c, "#%02x%02x%02x", &r, &g, &b)
	} else {
		fmt.Sscanf(c, "%d,%d,%d", &r, &g, &b)
	}
	a := int(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}
