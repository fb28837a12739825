package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/pipeline"
)

// maxNeighborsShown caps the neighbour column of the keyword table.
const maxNeighborsShown = 3

// keywordsCommand creates the keywords command for inspecting a graph.
func (c *CLI) keywordsCommand() *cobra.Command {
	var (
		interactive bool
		flags       buildFlags
	)

	cmd := &cobra.Command{
		Use:   "keywords [records|graph.json]",
		Short: "List the keywords of a constellation",
		Long: `List the keywords of a constellation with their counts, degrees and
strongest neighbours.

The input is a record file, a SQLite journal, or a *.graph.json file
produced by 'graph'. Use --interactive to browse keywords and their
co-occurrences in the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options()
			flags.apply(cmd, &opts)
			g, err := c.loadGraph(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if interactive {
				return runExplorer(cmd.Context(), newReport(cmd), g)
			}
			printKeywords(newReport(cmd), g)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse keywords interactively")
	flags.register(cmd)

	return cmd
}

// loadGraph reads a serialized graph, or builds one from records.
func (c *CLI) loadGraph(ctx context.Context, input string, opts pipeline.Options) (constellation.Graph, error) {
	if strings.HasSuffix(input, ".graph.json") {
		g, err := graph.ReadGraphFile(input)
		if err != nil {
			return constellation.Graph{}, fmt.Errorf("load graph %s: %w", input, err)
		}
		return g, nil
	}

	recs, err := c.loadRecords(ctx, input)
	if err != nil {
		return constellation.Graph{}, err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return constellation.Graph{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := runner.Build(ctx, recs, opts)
	if err != nil {
		return constellation.Graph{}, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

// printKeywords prints the keyword table.
func printKeywords(r *report, g constellation.Graph) {
	if g.IsEmpty() {
		r.info("No keywords yet")
		return
	}
	fmt.Fprintln(r.w, keywordTable(g).Render())
	r.truncation(g.NodeCount(), g.TotalKeywords)
}

func keywordTable(g constellation.Graph) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Keyword", "Count", "Degree", "Neighbours").
		Rows(keywordRows(g)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return StyleNumber
			case col == 4:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// keywordRows returns one table row per node in rank order.
func keywordRows(g constellation.Graph) [][]string {
	rows := make([][]string, len(g.Nodes))
	for i, n := range g.Nodes {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			n.Keyword,
			strconv.Itoa(n.Count),
			strconv.Itoa(g.Degree(n.Keyword)),
			formatNeighbors(g.Neighbors(n.Keyword), maxNeighborsShown),
		}
	}
	return rows
}

// formatNeighbors renders up to limit neighbours as "water×3, moon×1".
// A limit of zero or less shows all of them.
func formatNeighbors(ns []constellation.Neighbor, limit int) string {
	if len(ns) == 0 {
		return "—"
	}
	more := 0
	if limit > 0 && len(ns) > limit {
		more = len(ns) - limit
		ns = ns[:limit]
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%s×%d", n.Keyword, n.Weight)
	}
	s := strings.Join(parts, ", ")
	if more > 0 {
		s += fmt.Sprintf(" +%d", more)
	}
	return s
}

func runExplorer(ctx context.Context, r *report, g constellation.Graph) error {
	if g.IsEmpty() {
		r.info("No keywords yet")
		return nil
	}
	_, err := tea.NewProgram(NewKeywordListModel(g), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
