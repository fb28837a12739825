// Package constellation builds the keyword co-occurrence graph of a journal.
//
// # Overview
//
// Every journal record carries a handful of keyword tags. Keywords that keep
// coming back, and keywords that keep showing up together, form the
// "constellation" of a journal: nodes are the most frequent keywords, edges
// connect keywords that were tagged on the same record.
//
// # Building
//
// [Build] takes records and a node budget and returns a [Graph]:
//
//	g, err := constellation.Build(recs, constellation.DefaultMaxNodes)
//
// Counting is per record. A keyword tagged twice on one record counts once,
// and a record with k distinct keywords adds one to each of its k(k-1)/2
// keyword pairs. Empty keywords and nil keyword lists are ignored.
//
// # Ranking
//
// Nodes are ordered by count, highest first. Ties keep the order in which the
// keywords were first seen while scanning the records, never alphabetical
// order, so the same records always produce the same graph. Only the first
// maxNodes keywords survive; edges touching a dropped keyword are removed.
//
// Edges are listed in the order their pair was first seen. Each edge stores
// its endpoints sorted, so (a, b) and (b, a) are the same edge.
//
// # Immutability
//
// A built [Graph] is a value: Build allocates everything it returns and keeps
// no reference to its input. Callers that need to change a graph should copy
// it with [Graph.Clone].
package constellation
