// Package pkg provides the core libraries for constellation keyword graphs.
//
// # Overview
//
// Constellation turns journal records tagged with keywords into a star map:
// frequent keywords become stars, and keywords recorded together are joined
// by lines whose weight is the number of shared records.
//
// # Architecture
//
// The data flow:
//
//	Records (JSON, TOML or SQLite journal)
//	         ↓
//	    [records] package (load and normalize keywords)
//	         ↓
//	    [constellation] package (bounded co-occurrence graph)
//	         ↓
//	    [layout] package (force-directed positions)
//	         ↓
//	    [render] package (SVG, PNG, PDF, JSON, DOT)
//
// [pipeline] runs the three stages with a [cache] in front of each, and
// [graph] defines the JSON wire format shared by the cache and the CLI.
//
// # Quick Start
//
//	recs, _ := records.Load(ctx, "dreams.json")
//	g, _ := constellation.Build(recs, constellation.DefaultMaxNodes)
//	l, _ := layout.Compute(g, render.DefaultWidth, render.AutoHeight(g.NodeCount()))
//	svg := render.RenderSVG(l)
//
// # Supporting Packages
//
//   - [config]: TOML config file with per-stage sections
//   - [errors]: coded errors for user-facing failures
//   - [observability]: pipeline and cache hooks
//   - [buildinfo]: version information set at link time
package pkg
