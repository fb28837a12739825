package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnknownFormat is returned by [Open] and [FileSource.Records] when the
	// file extension does not map to a supported record format.
	ErrUnknownFormat = errors.New("unknown record format")

	// ErrMalformed is returned when a record document is neither an array of
	// records nor an object carrying a "records" array.
	ErrMalformed = errors.New("malformed record document")
)

// Record is a single journal entry.
//
// Keywords keep the order in which they were tagged. Duplicates and empty
// strings are tolerated here; the graph builder ignores them.
type Record struct {
	ID       string   `json:"id" toml:"id"`
	Date     string   `json:"date,omitempty" toml:"date,omitempty"`
	Keywords []string `json:"keywords" toml:"keywords"`
}

// Source supplies a read-only sequence of records.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

type document struct {
	Records []Record `json:"records" toml:"records"`
}

// ReadJSON decodes records from r. The input is either a JSON array of
// records or an object of the form {"records": [...]}. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var recs []Record
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case '{':
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		recs = doc.Records
	default:
		return nil, ErrMalformed
	}
	return fillNil(recs), nil
}

// ReadTOML decodes records from a TOML document made of [[records]] tables:
//
//	[[records]]
//	id = "d1"
//	date = 2026-03-01
//	keywords = ["water", "flying"]
//
// Dates may be written as TOML local dates or as strings.
func ReadTOML(r io.Reader) ([]Record, error) {
	var raw struct {
		Records []struct {
			ID       string   `toml:"id"`
			Date     any      `toml:"date"`
			Keywords []string `toml:"keywords"`
		} `toml:"records"`
	}
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	recs := make([]Record, 0, len(raw.Records))
	for _, rr := range raw.Records {
		rec := Record{ID: rr.ID, Keywords: rr.Keywords}
		switch d := rr.Date.(type) {
		case nil:
		case string:
			rec.Date = d
		case time.Time:
			rec.Date = d.Format(time.DateOnly)
		default:
			rec.Date = fmt.Sprint(d)
		}
		recs = append(recs, rec)
	}
	return fillNil(recs), nil
}

// WriteJSON encodes recs as an indented JSON array.
func WriteJSON(recs []Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fillNil(recs))
}

func fillNil(recs []Record) []Record {
	for i := range recs {
		if recs[i].Keywords == nil {
			recs[i].Keywords = []string{}
		}
	}
	return recs
}

// FileSource reads records from a JSON or TOML file, chosen by extension.
type FileSource struct {
	Path string
}

// Records implements [Source].
func (s FileSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var read func(io.Reader) ([]Record, error)
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".json":
		read = ReadJSON
	case ".toml":
		read = ReadTOML
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	recs, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return recs, nil
}

// Slice is a [Source] over records already in memory.
type Slice []Record

// Records implements [Source]. It returns a shallow copy of the slice.
func (s Slice) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Record(nil), s...), nil
}

// Open returns the [Source] for path based on its extension. Database files
// (.db, .sqlite, .sqlite3) are read with [SQLiteSource] using the default
// table; everything else goes through [FileSource].
func Open(path string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".toml":
		return FileSource{Path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLiteSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Load is a shorthand for Open followed by Records.
func Load(ctx context.Context, path string) ([]Record, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return src.Records(ctx)
}
