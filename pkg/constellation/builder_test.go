package constellation

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/records"
)

func recs(kws ...[]string) []records.Record {
	out := make([]records.Record, len(kws))
	for i, k := range kws {
		out[i] = records.Record{ID: fmt.Sprintf("r%d", i), Keywords: k}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		records   []records.Record
		maxNodes  int
		wantNodes []KeywordStat
		wantEdges []CoOccurrence
		wantTotal int
	}{
		{
			name:      "water and flying",
			records:   recs([]string{"water", "flying"}, []string{"water", "flying"}, []string{"water"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"water", 3}, {"flying", 2}},
			wantEdges: []CoOccurrence{{"flying", "water", 2}},
			wantTotal: 2,
		},
		{
			name:      "empty input",
			records:   nil,
			maxNodes:  30,
			wantTotal: 0,
		},
		{
			name:      "records without keywords",
			records:   recs(nil, []string{}, []string{""}),
			maxNodes:  30,
			wantTotal: 0,
		},
		{
			name:      "duplicate keyword counts once per record",
			records:   recs([]string{"sea", "sea", "moon", "sea"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"sea", 1}, {"moon", 1}},
			wantEdges: []CoOccurrence{{"moon", "sea", 1}},
			wantTotal: 2,
		},
		{
			name:      "ties keep first-seen order",
			records:   recs([]string{"zebra"}, []string{"apple"}, []string{"mango"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"zebra", 1}, {"apple", 1}, {"mango", 1}},
			wantTotal: 3,
		},
		{
			name:      "truncation drops dangling edges",
			records:   recs([]string{"a", "b"}, []string{"a", "c"}, []string{"a"}, []string{"b"}),
			maxNodes:  2,
			wantNodes: []KeywordStat{{"a", 3}, {"b", 2}},
			wantEdges: []CoOccurrence{{"a", "b", 1}},
			wantTotal: 3,
		},
		{
			name:      "pair key is order independent",
			records:   recs([]string{"b", "a"}, []string{"a", "b"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"b", 2}, {"a", 2}},
			wantEdges: []CoOccurrence{{"a", "b", 2}},
			wantTotal: 2,
		},
		{
			name:      "edges in first-seen pair order",
			records:   recs([]string{"x", "y"}, []string{"y", "z"}, []string{"x", "z"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"x", 2}, {"y", 2}, {"z", 2}},
			wantEdges: []CoOccurrence{{"x", "y", 1}, {"y", "z", 1}, {"x", "z", 1}},
			wantTotal: 3,
		},
		{
			name:      "three keywords give three pairs",
			records:   recs([]string{"a", "b", "c"}),
			maxNodes:  30,
			wantNodes: []KeywordStat{{"a", 1}, {"b", 1}, {"c", 1}},
			wantEdges: []CoOccurrence{{"a", "b", 1}, {"a", "c", 1}, {"b", "c", 1}},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.records, tt.maxNodes)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if !reflect.DeepEqual(g.Nodes, tt.wantNodes) && !(len(g.Nodes) == 0 && len(tt.wantNodes) == 0) {
				t.Errorf("Nodes = %v, want %v", g.Nodes, tt.wantNodes)
			}
			if !reflect.DeepEqual(g.Edges, tt.wantEdges) && !(len(g.Edges) == 0 && len(tt.wantEdges) == 0) {
				t.Errorf("Edges = %v, want %v", g.Edges, tt.wantEdges)
			}
			if g.TotalKeywords != tt.wantTotal {
				t.Errorf("TotalKeywords = %d, want %d", g.TotalKeywords, tt.wantTotal)
			}
		})
	}
}

func TestBuildInvalidMaxNodes(t *testing.T) {
	for _, n := range []int{0, -1, -30} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			_, err := Build(recs([]string{"a"}), n)
			if !errors.Is(err, ErrInvalidMaxNodes) {
				t.Errorf("error = %v, want ErrInvalidMaxNodes", err)
			}
			if !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
				t.Errorf("error code = %q, want %q", cerrors.GetCode(err), cerrors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestBuildThirtyFiveSingletons(t *testing.T) {
	var in [][]string
	for i := range 35 {
		in = append(in, []string{fmt.Sprintf("kw%02d", i)})
	}

	g, err := Build(recs(in...), DefaultMaxNodes)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 30 {
		t.Errorf("NodeCount() = %d, want 30", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if g.TotalKeywords != 35 || !g.Truncated() {
		t.Errorf("TotalKeywords = %d, Truncated = %v", g.TotalKeywords, g.Truncated())
	}
	if g.Nodes[0].Keyword != "kw00" || g.Nodes[29].Keyword != "kw29" {
		t.Errorf("ties must keep first-seen order, got %s..%s", g.Nodes[0].Keyword, g.Nodes[29].Keyword)
	}
}

// journal produces a deterministic pseudo-random journal without math/rand so
// the property tests below do not depend on generator versions.
func journal(seed, n int) []records.Record {
	vocab := []string{"water", "flying", "falling", "teeth", "house", "mother", "forest",
		"train", "school", "ocean", "moon", "dog", "fire", "stairs", "door", "city",
		"snow", "mirror", "bridge", "night", "garden", "storm", "key", "clock", "river",
		"boat", "cat", "window", "road", "tower", "bird", "cave", "desert", "ghost"}
	x := uint32(seed*2654435761 + 1)
	next := func() int {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		return int(x % 1000003)
	}
	out := make([]records.Record, n)
	for i := range out {
		k := next() % 6
		kws := make([]string, k)
		for j := range kws {
			kws[j] = vocab[next()%len(vocab)]
		}
		out[i] = records.Record{ID: fmt.Sprint(i), Keywords: kws}
	}
	return out
}

func TestBuildProperties(t *testing.T) {
	for seed := 1; seed <= 25; seed++ {
		for _, maxNodes := range []int{1, 5, 30} {
			t.Run(fmt.Sprintf("seed=%d/max=%d", seed, maxNodes), func(t *testing.T) {
				in := journal(seed, 40)
				g, err := Build(in, maxNodes)
				if err != nil {
					t.Fatal(err)
				}

				if g.NodeCount() > maxNodes {
					t.Errorf("NodeCount() = %d exceeds %d", g.NodeCount(), maxNodes)
				}
				for i := 1; i < len(g.Nodes); i++ {
					if g.Nodes[i-1].Count < g.Nodes[i].Count {
						t.Errorf("nodes not ranked at %d: %v", i, g.Nodes)
					}
				}
				seen := map[string]bool{}
				for _, n := range g.Nodes {
					if seen[n.Keyword] {
						t.Errorf("duplicate node %q", n.Keyword)
					}
					seen[n.Keyword] = true
				}
				pairs := map[[2]string]bool{}
				for _, e := range g.Edges {
					if !seen[e.Source] || !seen[e.Target] {
						t.Errorf("edge %v has a missing endpoint", e)
					}
					if e.Source >= e.Target {
						t.Errorf("edge %v endpoints not sorted", e)
					}
					if e.Weight < 1 {
						t.Errorf("edge %v has weight < 1", e)
					}
					k := [2]string{e.Source, e.Target}
					if pairs[k] {
						t.Errorf("duplicate edge %v", e)
					}
					pairs[k] = true
				}

				again, _ := Build(in, maxNodes)
				if !reflect.DeepEqual(g, again) {
					t.Error("Build is not deterministic")
				}
			})
		}
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	in := recs([]string{"b", "a", "b"})
	_, _ = Build(in, 30)
	if !reflect.DeepEqual(in[0].Keywords, []string{"b", "a", "b"}) {
		t.Errorf("input mutated: %v", in[0].Keywords)
	}
}

func TestGraphQueries(t *testing.T) {
	g, _ := Build(recs(
		[]string{"water", "flying", "moon"},
		[]string{"water", "flying"},
		[]string{"water", "moon", "flying"},
	), 30)

	if g.MaxCount() != 3 {
		t.Errorf("MaxCount() = %d, want 3", g.MaxCount())
	}
	if i := g.Index("moon"); i != 2 {
		t.Errorf("Index(moon) = %d, want 2", i)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
	if d := g.Degree("water"); d != 2 {
		t.Errorf("Degree(water) = %d, want 2", d)
	}

	want := []Neighbor{{"flying", 3}, {"moon", 2}}
	if got := g.Neighbors("water"); !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(water) = %v, want %v", got, want)
	}

	c := g.Clone()
	c.Nodes[0].Count = 99
	if g.Nodes[0].Count == 99 {
		t.Error("Clone shares node storage")
	}
	if (Graph{}).MaxCount() != 0 || !(Graph{}).IsEmpty() {
		t.Error("zero graph should be empty with MaxCount 0")
	}
}
