package constellation

import "slices"

// KeywordStat is a keyword and the number of records tagged with it.
type KeywordStat struct {
	Keyword string
	Count   int
}

// CoOccurrence is an unordered keyword pair and the number of records in
// which both keywords appear. Source sorts before Target.
type CoOccurrence struct {
	Source string
	Target string
	Weight int
}

// Graph is the bounded keyword co-occurrence graph.
//
// Nodes are sorted by Count descending with ties in first-seen order. Every
// edge endpoint is a node. TotalKeywords is the number of distinct keywords
// seen before truncation.
type Graph struct {
	Nodes         []KeywordStat
	Edges         []CoOccurrence
	TotalKeywords int
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Truncated reports whether keywords were dropped to respect the node budget.
func (g Graph) Truncated() bool { return g.TotalKeywords > len(g.Nodes) }

// MaxCount returns the highest keyword count, or 0 for an empty graph.
// Since nodes are ranked, this is the first node's count.
func (g Graph) MaxCount() int {
	if len(g.Nodes) == 0 {
		return 0
	}
	return g.Nodes[0].Count
}

// Index returns the position of keyword in Nodes, or -1.
func (g Graph) Index(keyword string) int {
	return slices.IndexFunc(g.Nodes, func(n KeywordStat) bool { return n.Keyword == keyword })
}

// Node returns the stat for keyword.
func (g Graph) Node(keyword string) (KeywordStat, bool) {
	if i := g.Index(keyword); i >= 0 {
		return g.Nodes[i], true
	}
	return KeywordStat{}, false
}

// Neighbor is a keyword adjacent to another through a co-occurrence edge.
type Neighbor struct {
	Keyword string
	Weight  int
}

// Neighbors returns the keywords sharing an edge with keyword, heaviest
// first. Equal weights keep edge order.
func (g Graph) Neighbors(keyword string) []Neighbor {
	var out []Neighbor
	for _, e := range g.Edges {
		switch keyword {
		case e.Source:
			out = append(out, Neighbor{Keyword: e.Target, Weight: e.Weight})
		case e.Target:
			out = append(out, Neighbor{Keyword: e.Source, Weight: e.Weight})
		}
	}
	slices.SortStableFunc(out, func(a, b Neighbor) int { return b.Weight - a.Weight })
	return out
}

// Degree returns the number of edges touching keyword.
func (g Graph) Degree(keyword string) int {
	n := 0
	for _, e := range g.Edges {
		if e.Source == keyword || e.Target == keyword {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes:         slices.Clone(g.Nodes),
		Edges:         slices.Clone(g.Edges),
		TotalKeywords: g.TotalKeywords,
	}
}
