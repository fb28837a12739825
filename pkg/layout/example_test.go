package layout_test

import (
	"fmt"

	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/records"
)

func ExampleCompute() {
	recs := []records.Record{
		{ID: "d1", Keywords: []string{"water", "flying"}},
		{ID: "d2", Keywords: []string{"water", "flying"}},
		{ID: "d3", Keywords: []string{"water"}},
	}
	g := constellation.BuildDefault(recs)

	res, err := layout.Compute(g, 440, 320)
	if err != nil {
		panic(err)
	}

	fmt.Println("Iterations:", res.Iterations)
	for _, n := range res.Nodes {
		inside := n.Pos.X >= 55 && n.Pos.X <= 385 && n.Pos.Y >= 55 && n.Pos.Y <= 265
		fmt.Printf("%s radius=%.1f inside=%v\n", n.Label, n.Radius, inside)
	}
	for _, e := range res.Edges {
		fmt.Printf("%s -- %s (%d)\n", res.Nodes[e.Source].Label, res.Nodes[e.Target].Label, e.Weight)
	}
	// Output:
	// Iterations: 64
	// water radius=14.0 inside=true
	// flying radius=10.7 inside=true
	// flying -- water (2)
}

func ExampleWithConfig() {
	cfg := layout.DefaultConfig()
	cfg.IterationCap = 10

	g := constellation.BuildDefault([]records.Record{{ID: "d1", Keywords: []string{"moon"}}})
	res, _ := layout.Compute(g, 300, 300, layout.WithConfig(cfg))
	fmt.Println("Iterations:", res.Iterations)
	// Output:
	// Iterations: 10
}
