package graph

import (
	"errors"
	"fmt"

	"github.com/somnus/constellation/pkg/constellation"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visual styles for rendering.
const (
	StyleGlow  = "glow"
	StylePlain = "plain"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// SVG renderers.
const (
	RendererNative   = "native"
	RendererGraphviz = "graphviz"
)

var (
	// ErrDuplicateNode is returned when two nodes share a keyword.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned when an edge references a keyword that is
	// not a node.
	ErrUnknownNode = errors.New("edge references unknown node")

	// ErrSelfLoop is returned when an edge connects a keyword to itself.
	ErrSelfLoop = errors.New("edge connects a node to itself")

	// ErrDuplicateEdge is returned when the same keyword pair appears twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrInvalidWeight is returned for edges with a weight below 1.
	ErrInvalidWeight = errors.New("edge weight must be at least 1")

	// ErrInvalidCount is returned for nodes with a count below 1.
	ErrInvalidCount = errors.New("node count must be at least 1")

	// ErrNotRanked is returned when nodes are not sorted by count descending.
	ErrNotRanked = errors.New("nodes are not ranked by count")
)

// =============================================================================
// Graph - Keyword Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for keyword graphs.
// Used for files, caching, and cross-tool compatibility.
type Graph struct {
	Nodes         []Node `json:"nodes" bson:"nodes"`
	Edges         []Edge `json:"edges" bson:"edges"`
	TotalKeywords int    `json:"total_keywords,omitempty" bson:"total_keywords,omitempty"`
}

// Node is a ranked keyword.
type Node struct {
	Keyword string `json:"keyword" bson:"keyword"`
	Count   int    `json:"count" bson:"count"`
}

// Edge is a co-occurrence between two keywords, referenced by name.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Weight int    `json:"weight" bson:"weight"`
}

// =============================================================================
// Graph ↔ constellation.Graph Conversion
// =============================================================================

// FromConstellation converts a built graph to its serialization format.
func FromConstellation(g constellation.Graph) Graph {
	out := Graph{
		Nodes:         make([]Node, len(g.Nodes)),
		Edges:         make([]Edge, len(g.Edges)),
		TotalKeywords: g.TotalKeywords,
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = Node{Keyword: n.Keyword, Count: n.Count}
	}
	for i, e := range g.Edges {
		out.Edges[i] = Edge{Source: e.Source, Target: e.Target, Weight: e.Weight}
	}
	return out
}

// ToConstellation converts a serialized graph back into a
// [constellation.Graph], checking every invariant the builder guarantees:
// unique keywords, counts and weights of at least 1, nodes ranked by count,
// and edges between distinct known keywords. Edge endpoints are put back in
// sorted order.
func ToConstellation(gj Graph) (constellation.Graph, error) {
	out := constellation.Graph{
		Nodes:         make([]constellation.KeywordStat, 0, len(gj.Nodes)),
		Edges:         make([]constellation.CoOccurrence, 0, len(gj.Edges)),
		TotalKeywords: gj.TotalKeywords,
	}

	known := make(map[string]bool, len(gj.Nodes))
	for i, n := range gj.Nodes {
		if known[n.Keyword] {
			return constellation.Graph{}, fmt.Errorf("node %q: %w", n.Keyword, ErrDuplicateNode)
		}
		if n.Count < 1 {
			return constellation.Graph{}, fmt.Errorf("node %q: %w", n.Keyword, ErrInvalidCount)
		}
		if i > 0 && gj.Nodes[i-1].Count < n.Count {
			return constellation.Graph{}, fmt.Errorf("node %q: %w", n.Keyword, ErrNotRanked)
		}
		known[n.Keyword] = true
		out.Nodes = append(out.Nodes, constellation.KeywordStat{Keyword: n.Keyword, Count: n.Count})
	}

	seen := make(map[[2]string]bool, len(gj.Edges))
	for _, e := range gj.Edges {
		src, dst := e.Source, e.Target
		if dst < src {
			src, dst = dst, src
		}
		switch {
		case !known[src] || !known[dst]:
			return constellation.Graph{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrUnknownNode)
		case src == dst:
			return constellation.Graph{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrSelfLoop)
		case e.Weight < 1:
			return constellation.Graph{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrInvalidWeight)
		case seen[[2]string{src, dst}]:
			return constellation.Graph{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrDuplicateEdge)
		}
		seen[[2]string{src, dst}] = true
		out.Edges = append(out.Edges, constellation.CoOccurrence{Source: src, Target: dst, Weight: e.Weight})
	}

	if out.TotalKeywords < len(out.Nodes) {
		out.TotalKeywords = len(out.Nodes)
	}
	return out, nil
}
