package render_test

import (
	"bytes"
	"fmt"

	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/records"
	"github.com/somnus/constellation/pkg/render"
)

func ExampleRenderSVG() {
	g := constellation.BuildDefault([]records.Record{
		{ID: "d1", Keywords: []string{"water", "flying"}},
		{ID: "d2", Keywords: []string{"water"}},
	})
	res, err := layout.Compute(g, render.DefaultWidth, render.AutoHeight(g.NodeCount()))
	if err != nil {
		panic(err)
	}

	svg := render.RenderSVG(res, render.WithStyle(render.Plain{}))
	fmt.Println("nodes:", bytes.Count(svg, []byte(`class="node"`)))
	fmt.Println("edges:", bytes.Count(svg, []byte(`class="edge"`)))
	// Output:
	// nodes: 2
	// edges: 1
}

func ExampleNew() {
	r, err := render.New(graph.FormatDOT, render.Options{Style: graph.StylePlain})
	if err != nil {
		panic(err)
	}
	res, _ := layout.Compute(constellation.Graph{}, 300, 300)
	dot, _ := r.Render(res)
	fmt.Print(string(dot[:22]))
	// Output:
	// graph constellation {
}
