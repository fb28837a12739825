package records

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/somnus/constellation/pkg/errors"
)

// idSpace namespaces the name-based ids given to records without one.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/somnus/constellation/records"))

// NormalizeOptions controls [Normalize].
type NormalizeOptions struct {
	// FoldCase maps keywords to their case-folded form so that "Water"
	// and "water" count as the same keyword.
	FoldCase bool
}

// NormalizeStats reports what [Normalize] changed.
type NormalizeStats struct {
	Dropped     int // empty or invalid keywords removed
	Duplicates  int // repeated keywords collapsed within a record
	AssignedIDs int // records that received a generated id
}

// Normalize returns a cleaned copy of recs. Each keyword is NFKC-normalized
// and trimmed (and case-folded when requested); keywords failing
// [errors.ValidateKeyword] are dropped, as are repeats within a record, the
// first occurrence winning. Records without an id get a name-based UUID
// derived from their position and content, so repeated runs over the same
// input assign the same ids.
func Normalize(recs []Record, opts NormalizeOptions) ([]Record, NormalizeStats) {
	var stats NormalizeStats
	var folder cases.Caser
	if opts.FoldCase {
		folder = cases.Fold()
	}

	out := make([]Record, len(recs))
	for i, rec := range recs {
		kws := make([]string, 0, len(rec.Keywords))
		seen := make(map[string]struct{}, len(rec.Keywords))
		for _, kw := range rec.Keywords {
			kw = strings.TrimSpace(norm.NFKC.String(kw))
			if opts.FoldCase {
				kw = folder.String(kw)
			}
			if errors.ValidateKeyword(kw) != nil {
				stats.Dropped++
				continue
			}
			if _, dup := seen[kw]; dup {
				stats.Duplicates++
				continue
			}
			seen[kw] = struct{}{}
			kws = append(kws, kw)
		}

		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = recordID(i, rec.Date, kws)
			stats.AssignedIDs++
		}
		out[i] = Record{ID: id, Date: strings.TrimSpace(rec.Date), Keywords: kws}
	}
	return out, stats
}

func recordID(index int, date string, kws []string) string {
	name := strconv.Itoa(index) + "\x1f" + date + "\x1f" + strings.Join(kws, "\x1f")
	return uuid.NewSHA1(idSpace, []byte(name)).String()
}
