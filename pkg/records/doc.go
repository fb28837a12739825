// Package records reads journal records, the input of the constellation
// engine.
//
// # Overview
//
// A record is one journal entry: an identifier, an optional ISO date, and an
// ordered list of keyword tags. The engine never writes records; this package
// only decodes them from files or from an existing journal database and hands
// them over as a plain slice.
//
// # Sources
//
// Every input implements [Source]. [Open] picks one from a path:
//
//   - .json: an array of records, or an object with a "records" array
//   - .toml: a list of [[records]] tables
//   - .db, .sqlite, .sqlite3: a journal database opened read-only ([SQLiteSource])
//
// JSON input looks like this:
//
//	[
//	  {"id": "d1", "date": "2026-03-01", "keywords": ["water", "flying"]},
//	  {"id": "d2", "keywords": ["water"]}
//	]
//
// A missing or null "keywords" field decodes as an empty list. Records with no
// keywords are legal and simply contribute nothing to the graph.
//
// # Normalization
//
// [Normalize] cleans keyword lists the way the journal's tag input did:
// Unicode NFKC, trimmed whitespace, empty and invalid tags dropped, and
// repeated tags within a record collapsed to their first occurrence. It also
// assigns stable ids to records that lack one. Normalize returns a copy and
// never mutates its input.
package records
