// Package graph provides serialization types for keyword graphs and layouts.
//
// This package defines the canonical wire format for constellation data,
// used for JSON files, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - constellation.Graph: Built keyword graph
//   - layout.Result: Computed layout (positions as vectors, edges as indices)
//
// Use [FromConstellation]/[ToConstellation] and [FromResult]/[ToResult] to
// convert between them.
//
// # Constants
//
// This package is the single source of truth for rendering constants:
//
//	graph.StyleGlow         // "glow"
//	graph.StylePlain        // "plain"
//	graph.FormatSVG         // "svg", also png, pdf, json, dot
//	graph.RendererNative    // "native"
//	graph.RendererGraphviz  // "graphviz"
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"keyword": "water", "count": 3}, {"keyword": "flying", "count": 2}],
//	  "edges": [{"source": "flying", "target": "water", "weight": 2}],
//	  "total_keywords": 2
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → constellation.Graph
//	graph.WriteGraphFile(g, "output.json")      // constellation.Graph → File
//	data, _ := graph.MarshalGraph(g)            // constellation.Graph → []byte
//
// Reading validates everything the builder guarantees, so a hand-edited file
// with an unknown endpoint or unranked nodes is rejected with a sentinel
// error such as [ErrUnknownNode] or [ErrNotRanked].
//
// # Layout Serialization
//
// Layouts carry the canvas size and one entry per node with its position,
// radius and normalized count. Edges reference nodes by label:
//
//	res, _ := graph.ReadLayoutFile("layout.json")
//	for _, n := range res.Nodes {
//	    fmt.Println(n.Label, n.Pos.X, n.Pos.Y)
//	}
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
