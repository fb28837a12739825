package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite"
)

// DefaultTable is the journal table read by [SQLiteSource] when Table is empty.
const DefaultTable = "dreams"

// ErrInvalidTable is returned when a table name is not a plain SQL identifier.
var ErrInvalidTable = errors.New("invalid table name")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads records from an existing journal database.
//
// The table must have id, date and keywords columns; keywords holds a JSON
// array of strings (NULL reads as no keywords). The database is opened in
// read-only mode and is never modified. Rows are returned in rowid order,
// which is the order the journal inserted them.
type SQLiteSource struct {
	Path  string
	Table string
}

// Records implements [Source].
func (s SQLiteSource) Records(ctx context.Context) ([]Record, error) {
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	// mode=ro refuses to create a missing file, but the driver error is
	// opaque, so check first.
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}

	db, err := sql.Open("sqlite", "file:"+s.Path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT id, date, keywords FROM %s ORDER BY rowid`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			id, date sql.NullString
			kwJSON   sql.NullString
		)
		if err := rows.Scan(&id, &date, &kwJSON); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := Record{ID: id.String, Date: date.String, Keywords: []string{}}
		if kwJSON.Valid && kwJSON.String != "" {
			if err := json.Unmarshal([]byte(kwJSON.String), &rec.Keywords); err != nil {
				return nil, fmt.Errorf("record %s: keywords: %w", rec.ID, err)
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return fillNil(recs), nil
}
