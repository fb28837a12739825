package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/pipeline"
)

// canvasFlags holds the canvas flags shared by layout and visualize.
type canvasFlags struct {
	width      float64
	height     float64
	iterations int
}

func (f *canvasFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default from config, 440)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default: follows the node count)")
	cmd.Flags().IntVar(&f.iterations, "max-iterations", 0, "cap on simulation steps (default from config, 120)")
}

func (f *canvasFlags) apply(opts *pipeline.Options) {
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	if f.iterations != 0 {
		opts.Layout.IterationCap = f.iterations
	}
}

// layoutCommand creates the layout command for positioning a keyword graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a keyword graph",
		Long: `Compute node positions for a keyword graph.

The layout command takes a graph.json file (produced by 'graph') and runs the
force-directed simulation. The output is a layout.json file (same format as
'visualize -f json') that 'render' turns into SVG, PNG, PDF or DOT.

The simulation is deterministic: the same graph and canvas always produce
the same layout, so results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options()
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), newReport(cmd), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, r *report, input string, opts pipeline.Options, output string) error {
	if err := cerrors.ValidatePath(input); err != nil {
		return err
	}
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		l        layout.Result
		cacheHit bool
	)
	label := fmt.Sprintf("Simulating %s", plural(g.NodeCount(), "keyword"))
	if err := r.stage(ctx, label, func() (err error) {
		l, cacheHit, err = runner.Layout(ctx, g, opts)
		return err
	}); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = stem(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	r.success("Layout complete on a %.0fx%.0f canvas", l.Width, l.Height)
	r.file(outputPath)
	r.summary(summary{
		keywords: len(l.Nodes),
		links:    len(l.Edges),
		steps:    l.Iterations,
		stages:   []stageHit{{"layout", cacheHit}},
	})
	r.next("Render", appName+" render "+outputPath)

	return nil
}
