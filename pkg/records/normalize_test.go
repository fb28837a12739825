package records

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    []string
		opts  NormalizeOptions
		want  []string
		stats NormalizeStats
	}{
		{
			name: "clean",
			in:   []string{"water", "flying"},
			want: []string{"water", "flying"},
		},
		{
			name:  "trim and drop empty",
			in:    []string{"  water ", "", "   ", "moon"},
			want:  []string{"water", "moon"},
			stats: NormalizeStats{Dropped: 2},
		},
		{
			name:  "first occurrence wins",
			in:    []string{"sea", "moon", "sea", " moon"},
			want:  []string{"sea", "moon"},
			stats: NormalizeStats{Duplicates: 2},
		},
		{
			name:  "nfkc",
			in:    []string{"ｗａｔｅｒ", "water"},
			want:  []string{"water"},
			stats: NormalizeStats{Duplicates: 1},
		},
		{
			name:  "control characters dropped",
			in:    []string{"fal\tling", "ok"},
			want:  []string{"ok"},
			stats: NormalizeStats{Dropped: 1},
		},
		{
			name: "case kept by default",
			in:   []string{"Water", "water"},
			want: []string{"Water", "water"},
		},
		{
			name:  "fold case",
			in:    []string{"Water", "water", "STRASSE"},
			opts:  NormalizeOptions{FoldCase: true},
			want:  []string{"water", "strasse"},
			stats: NormalizeStats{Duplicates: 1},
		},
		{
			name: "nil list",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := Normalize([]Record{{ID: "r", Keywords: tt.in}}, tt.opts)
			if !reflect.DeepEqual(got[0].Keywords, tt.want) {
				t.Errorf("Keywords = %q, want %q", got[0].Keywords, tt.want)
			}
			if stats != tt.stats {
				t.Errorf("stats = %+v, want %+v", stats, tt.stats)
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []Record{{ID: " a ", Keywords: []string{" water ", "water"}}}
	_, _ = Normalize(in, NormalizeOptions{})
	if in[0].ID != " a " || in[0].Keywords[0] != " water " || len(in[0].Keywords) != 2 {
		t.Errorf("input mutated: %#v", in)
	}
}

func TestNormalizeAssignsStableIDs(t *testing.T) {
	in := []Record{
		{Keywords: []string{"water"}},
		{ID: "kept", Keywords: []string{"water"}},
		{Keywords: []string{"water"}},
	}

	first, stats := Normalize(in, NormalizeOptions{})
	second, _ := Normalize(in, NormalizeOptions{})

	if stats.AssignedIDs != 2 {
		t.Errorf("AssignedIDs = %d, want 2", stats.AssignedIDs)
	}
	if first[1].ID != "kept" {
		t.Errorf("existing id replaced: %q", first[1].ID)
	}
	if first[0].ID == "" || first[0].ID == first[2].ID {
		t.Errorf("generated ids must be non-empty and distinct: %q %q", first[0].ID, first[2].ID)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("record %d: id %q then %q, want stable ids", i, first[i].ID, second[i].ID)
		}
	}
}
