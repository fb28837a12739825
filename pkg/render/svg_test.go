package render

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/somnus/constellation/pkg/layout"
)

func TestRenderSVGWellFormed(t *testing.T) {
	res := sampleLayout(t)
	for _, style := range []Style{Glow{}, Plain{}} {
		t.Run(style.Name(), func(t *testing.T) {
			svg := RenderSVG(res, WithStyle(style), WithBackground("#0b0b14"), WithInfo())
			dec := xml.NewDecoder(strings.NewReader(string(svg)))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("invalid XML: %v\n%s", err, svg)
				}
			}
		})
	}
}

func TestRenderSVGContent(t *testing.T) {
	res := sampleLayout(t)
	svg := string(RenderSVG(res))

	if got := strings.Count(svg, `class="node"`); got != len(res.Nodes) {
		t.Errorf("nodes = %d, want %d", got, len(res.Nodes))
	}
	if got := strings.Count(svg, `class="edge"`); got != len(res.Edges) {
		t.Errorf("edges = %d, want %d", got, len(res.Edges))
	}
	if got := strings.Count(svg, `class="glow"`); got != len(res.Nodes) {
		t.Errorf("glows = %d, want %d", got, len(res.Nodes))
	}
	if !strings.Contains(svg, `viewBox="0 0 440.0 320.0"`) {
		t.Errorf("unexpected viewBox:\n%s", svg)
	}
	if strings.Contains(svg, "<rect") {
		t.Error("background should be transparent by default")
	}

	// Edges must come before every node so lines stay underneath.
	if strings.LastIndex(svg, `class="edge"`) > strings.Index(svg, `class="node"`) {
		t.Error("edges should be drawn before nodes")
	}
}

func TestRenderSVGBadges(t *testing.T) {
	res := sampleLayout(t)
	svg := string(RenderSVG(res))
	// Only "water" appears in three records.
	if got := strings.Count(svg, `class="badge"`); got != 1 {
		t.Errorf("badges = %d, want 1", got)
	}
	if !strings.Contains(svg, "×3") {
		t.Error("missing ×3 badge")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(layout.Result{Width: 440, Height: 320}))
	if !strings.Contains(svg, emptyMessage) {
		t.Errorf("empty layout should show hint:\n%s", svg)
	}
	if strings.Contains(svg, `class="node"`) || strings.Contains(svg, "<defs>") {
		t.Error("empty layout should not draw nodes")
	}
}

func TestRenderSVGInfo(t *testing.T) {
	res := sampleLayout(t)

	if strings.Contains(string(RenderSVG(res, WithInfo())), "Showing top") {
		t.Error("untruncated layout should not show caption")
	}

	res.TotalKeywords = 42
	svg := string(RenderSVG(res, WithInfo()))
	if !strings.Contains(svg, "Showing top 4 of 42 keywords") {
		t.Errorf("missing caption:\n%s", svg)
	}
	if strings.Contains(string(RenderSVG(res)), "Showing top") {
		t.Error("caption should be opt-in")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	res := layout.Result{
		Width:  440,
		Height: 320,
		Nodes:  []layout.Node{{Label: `<tom & "jerry">`, Count: 1, Radius: 10, Norm: 1}},
	}
	svg := string(RenderSVG(res))
	if strings.Contains(svg, `<tom`) {
		t.Errorf("label not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, "&lt;tom &amp;") {
		t.Errorf("escaped label missing:\n%s", svg)
	}
}

func TestGraphvizEmptyFallsBack(t *testing.T) {
	data, err := Graphviz(Glow{}).Render(layout.Result{Width: 440, Height: 320})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), emptyMessage) {
		t.Error("empty graphviz render should match the native empty canvas")
	}
}
