package constellation

import (
	"errors"
	"slices"

	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/records"
)

// DefaultMaxNodes is the node budget used by [BuildDefault].
const DefaultMaxNodes = 30

// ErrInvalidMaxNodes is returned by [Build] when maxNodes is not positive.
// The returned error also carries the INVALID_INPUT code.
var ErrInvalidMaxNodes = errors.New("maxNodes must be positive")

type pair struct{ a, b string }

func makePair(x, y string) pair {
	if y < x {
		x, y = y, x
	}
	return pair{x, y}
}

// counter aggregates counts while remembering first-seen order. A plain
// map would make tie order depend on hash iteration.
type counter[K comparable] struct {
	index map[K]int
	keys  []K
	count []int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{index: make(map[K]int)}
}

func (c *counter[K]) inc(k K) {
	if i, ok := c.index[k]; ok {
		c.count[i]++
		return
	}
	c.index[k] = len(c.keys)
	c.keys = append(c.keys, k)
	c.count = append(c.count, 1)
}

// Build turns recs into a keyword co-occurrence graph holding at most
// maxNodes keywords.
//
// A keyword counts once per record no matter how often it is repeated there.
// Every pair of distinct keywords on a record adds one to that pair's
// weight. Keywords are ranked by count with a stable sort, so equal counts
// keep first-seen order; the top maxNodes are kept along with the edges
// between them.
//
// Empty input, or input without any keyword, yields an empty graph and no
// error. Build returns [ErrInvalidMaxNodes] when maxNodes <= 0.
func Build(recs []records.Record, maxNodes int) (Graph, error) {
	if maxNodes <= 0 {
		return Graph{}, cerrors.Wrap(cerrors.ErrCodeInvalidInput, ErrInvalidMaxNodes, "maxNodes = %d", maxNodes)
	}

	keywords := newCounter[string]()
	pairs := newCounter[pair]()

	var unique []string
	for _, rec := range recs {
		unique = uniqueKeywords(unique[:0], rec.Keywords)
		for _, kw := range unique {
			keywords.inc(kw)
		}
		for i := 0; i < len(unique); i++ {
			for j := i + 1; j < len(unique); j++ {
				pairs.inc(makePair(unique[i], unique[j]))
			}
		}
	}

	nodes := make([]KeywordStat, len(keywords.keys))
	for i, kw := range keywords.keys {
		nodes[i] = KeywordStat{Keyword: kw, Count: keywords.count[i]}
	}
	slices.SortStableFunc(nodes, func(a, b KeywordStat) int { return b.Count - a.Count })
	if len(nodes) > maxNodes {
		nodes = nodes[:maxNodes:maxNodes]
	}

	kept := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		kept[n.Keyword] = struct{}{}
	}

	var edges []CoOccurrence
	for i, p := range pairs.keys {
		_, okA := kept[p.a]
		_, okB := kept[p.b]
		if okA && okB {
			edges = append(edges, CoOccurrence{Source: p.a, Target: p.b, Weight: pairs.count[i]})
		}
	}

	return Graph{
		Nodes:         nodes,
		Edges:         edges,
		TotalKeywords: len(keywords.keys),
	}, nil
}

// BuildDefault calls [Build] with [DefaultMaxNodes].
func BuildDefault(recs []records.Record) Graph {
	g, _ := Build(recs, DefaultMaxNodes)
	return g
}

// uniqueKeywords appends the distinct non-empty keywords of kws to dst in
// first-occurrence order.
func uniqueKeywords(dst, kws []string) []string {
	for _, kw := range kws {
		if kw == "" || slices.Contains(dst, kw) {
			continue
		}
		dst = append(dst, kw)
	}
	return dst
}
