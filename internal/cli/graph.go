package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/pipeline"
)

// buildFlags holds the build-stage flags shared by graph, visualize and
// keywords.
type buildFlags struct {
	maxNodes  int
	normalize bool
	foldCase  bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.maxNodes, "max-nodes", "n", 0, "keep the N most frequent keywords (default from config, 30)")
	cmd.Flags().BoolVar(&f.normalize, "normalize", true, "clean keywords before building (NFKC, trim, dedupe)")
	cmd.Flags().BoolVar(&f.foldCase, "fold-case", false, "treat keywords that differ only in case as one")
}

// apply copies flags the user set onto opts.
func (f *buildFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if f.maxNodes != 0 {
		opts.MaxNodes = f.maxNodes
	}
	if cmd.Flags().Changed("normalize") {
		opts.Normalize = f.normalize
	}
	if cmd.Flags().Changed("fold-case") {
		opts.FoldCase = f.foldCase
	}
}

// graphCommand creates the graph command for building a keyword graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		flags  buildFlags
	)

	cmd := &cobra.Command{
		Use:   "graph [records]",
		Short: "Build a keyword co-occurrence graph from journal records",
		Long: `Build a keyword co-occurrence graph from journal records.

The input is a JSON or TOML record file, or a SQLite journal database
(.db, .sqlite, .sqlite3). The output is a graph.json file with the most
frequent keywords and the weighted edges between keywords that appear in
the same record. Use 'layout' to position it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options()
			flags.apply(cmd, &opts)
			return c.runGraph(cmd.Context(), newReport(cmd), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	flags.register(cmd)

	return cmd
}

// runGraph loads the records, builds the graph, and writes it.
func (c *CLI) runGraph(ctx context.Context, r *report, input string, opts pipeline.Options, output string) error {
	recs, err := c.loadRecords(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, cacheHit, err := runner.Build(ctx, recs, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	prog.done(fmt.Sprintf("Built graph from %d records", len(recs)))

	outputPath := output
	if outputPath == "" {
		outputPath = stem(input) + ".graph.json"
	}
	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	r.success("Graph built from %s", plural(len(recs), "record"))
	r.file(outputPath)
	r.summary(summary{
		keywords: g.NodeCount(),
		links:    g.EdgeCount(),
		stages:   []stageHit{{"graph", cacheHit}},
	})
	r.truncation(g.NodeCount(), g.TotalKeywords)
	r.next("Lay out", appName+" layout "+outputPath)

	return nil
}
