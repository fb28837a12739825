package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/records"
)

func explorerGraph() constellation.Graph {
	return constellation.BuildDefault([]records.Record{
		{ID: "1", Keywords: []string{"water", "flying", "moon"}},
		{ID: "2", Keywords: []string{"water", "flying"}},
		{ID: "3", Keywords: []string{"water", "house"}},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m KeywordListModel, keys ...string) (KeywordListModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(KeywordListModel)
	}
	return m, cmd
}

func TestKeywordListNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
	}{
		{"start", nil, 0},
		{"down", []string{"down"}, 1},
		{"vim keys", []string{"j", "j", "k"}, 1},
		{"clamped at top", []string{"up", "up"}, 0},
		{"clamped at bottom", []string{"down", "down", "down", "down", "down"}, 3},
		{"end and home", []string{"G", "g"}, 0},
		{"end", []string{"G"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := update(t, NewKeywordListModel(explorerGraph()), tt.keys...)
			if m.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
		})
	}
}

func TestKeywordListScrolling(t *testing.T) {
	m := NewKeywordListModel(explorerGraph())
	m.Height = 2

	m, _ = update(t, m, "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2 to keep the cursor visible", m.Offset)
	}
	m, _ = update(t, m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset = %d after home, want 0", m.Offset)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	if got := next.(KeywordListModel).Height; got != minListHeight {
		t.Errorf("Height = %d, want the minimum %d", got, minListHeight)
	}
}

func TestKeywordListDetail(t *testing.T) {
	m, _ := update(t, NewKeywordListModel(explorerGraph()), "down", "enter")
	if !m.Detail {
		t.Fatal("enter should open the detail view")
	}
	if got := m.Selected().Keyword; got != "flying" {
		t.Errorf("Selected() = %q, want flying", got)
	}

	view := m.View()
	for _, want := range []string{"flying", "water", "moon"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "house") {
		t.Error("detail view should only list neighbours")
	}

	m, cmd := update(t, m, "esc")
	if m.Detail || cmd != nil {
		t.Error("esc in detail view should return to the list")
	}
	_, cmd = update(t, m, "esc")
	if cmd == nil {
		t.Error("esc in the list should quit")
	}
}

func TestKeywordListQuit(t *testing.T) {
	_, cmd := update(t, NewKeywordListModel(explorerGraph()), "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestKeywordListView(t *testing.T) {
	g := explorerGraph()
	view := NewKeywordListModel(g).View()

	for _, n := range g.Nodes {
		if !strings.Contains(view, n.Keyword) {
			t.Errorf("list view missing %q", n.Keyword)
		}
	}
	if !strings.Contains(view, "[1/4]") {
		t.Errorf("list view should show the position:\n%s", view)
	}
}

func TestKeywordListEmpty(t *testing.T) {
	m, _ := update(t, NewKeywordListModel(constellation.Graph{}), "down", "enter")
	if m.Cursor != 0 || m.Detail {
		t.Errorf("empty list should ignore navigation, got cursor %d detail %v", m.Cursor, m.Detail)
	}
	if got := m.Selected(); got != (constellation.KeywordStat{}) {
		t.Errorf("Selected() = %+v on empty list", got)
	}
}
