package pipeline

import (
	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/records"
)

// BuildGraph runs the build stage without caching. Records are normalized
// first when opts.Normalize is set; recs itself is never modified.
func BuildGraph(recs []records.Record, opts Options) (constellation.Graph, records.NormalizeStats, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return constellation.Graph{}, records.NormalizeStats{}, err
	}
	work, stats := prepareRecords(recs, opts)
	g, err := constellation.Build(work, opts.MaxNodes)
	return g, stats, err
}

func prepareRecords(recs []records.Record, opts Options) ([]records.Record, records.NormalizeStats) {
	if !opts.Normalize {
		return recs, records.NormalizeStats{}
	}
	return records.Normalize(recs, records.NormalizeOptions{FoldCase: opts.FoldCase})
}

// keywordLists extracts what the builder looks at. Ids and dates never
// influence the graph, so they stay out of the cache key.
func keywordLists(recs []records.Record) [][]string {
	out := make([][]string, len(recs))
	for i, r := range recs {
		out[i] = r.Keywords
		if out[i] == nil {
			out[i] = []string{}
		}
	}
	return out
}
