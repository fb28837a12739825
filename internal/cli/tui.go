package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/somnus/constellation/pkg/constellation"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultListHeight = 15
	minListHeight     = 5
)

// =============================================================================
// KeywordListModel - Interactive keyword explorer
// =============================================================================

// KeywordListModel is the bubbletea model for browsing a constellation's
// keywords. Enter opens the neighbour view of the keyword under the cursor.
type KeywordListModel struct {
	Graph  constellation.Graph
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewKeywordListModel creates a new keyword list model.
func NewKeywordListModel(g constellation.Graph) KeywordListModel {
	return KeywordListModel{
		Graph:  g,
		Height: defaultListHeight,
	}
}

// Selected returns the keyword under the cursor.
func (m KeywordListModel) Selected() constellation.KeywordStat {
	if m.Cursor < 0 || m.Cursor >= len(m.Graph.Nodes) {
		return constellation.KeywordStat{}
	}
	return m.Graph.Nodes[m.Cursor]
}

func (m KeywordListModel) Init() tea.Cmd {
	return nil
}

func (m KeywordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "left", "h":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "enter", "right", "l":
			if len(m.Graph.Nodes) > 0 {
				m.Detail = true
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.Graph.Nodes))
		case "end", "G":
			m.move(len(m.Graph.Nodes))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, minListHeight)
		m.clampOffset()
	}
	return m, nil
}

// move shifts the cursor by delta, keeping it inside the list and the
// visible window.
func (m *KeywordListModel) move(delta int) {
	if len(m.Graph.Nodes) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Graph.Nodes)-1)
	m.clampOffset()
}

func (m *KeywordListModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m KeywordListModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Keywords"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ neighbours  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.Keyword,
			strconv.Itoa(n.Count),
			strconv.Itoa(m.Graph.Degree(n.Keyword)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Keyword", "Count", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	if m.Graph.Truncated() {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  top %d of %d keywords", m.Graph.NodeCount(), m.Graph.TotalKeywords)))
	}

	return b.String()
}

// detailView lists every neighbour of the selected keyword.
func (m KeywordListModel) detailView() string {
	var b strings.Builder
	sel := m.Selected()

	b.WriteString(StyleTitle.Render(sel.Keyword))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  ×%d", sel.Count)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("← back  q quit"))
	b.WriteString("\n\n")

	ns := m.Graph.Neighbors(sel.Keyword)
	if len(ns) == 0 {
		b.WriteString(listDimStyle.Render("  Never recorded together with another shown keyword"))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, n := range ns {
		width = max(width, len(n.Keyword))
	}
	for _, n := range ns {
		bar := strings.Repeat("●", min(n.Weight, 20))
		line := fmt.Sprintf("  %-*s  %s %s", width, n.Keyword, StyleHighlight.Render(bar), listDimStyle.Render(strconv.Itoa(n.Weight)))
		b.WriteString(listNormalStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
