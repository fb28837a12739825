package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/somnus/constellation/pkg/pipeline"
)

// visualizeCommand creates the visualize command, which runs the whole
// pipeline from records to rendered output.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		build   buildFlags
		canvas  canvasFlags
		rflags  renderFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [records]",
		Short: "Build, lay out and render a constellation in one step",
		Long: `Build, lay out and render a constellation in one step.

The input is a JSON or TOML record file, or a SQLite journal database.
Each stage is cached by content, so re-running with a different style or
format only repeats the render stage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options()
			build.apply(cmd, &opts)
			canvas.apply(&opts)
			rflags.apply(&opts)
			opts.Refresh = refresh
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), newReport(cmd), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute every stage")
	build.register(cmd)
	canvas.register(cmd)
	rflags.register(cmd)

	return cmd
}

// runVisualize runs the full pipeline and writes every artifact.
func (c *CLI) runVisualize(ctx context.Context, r *report, input string, opts pipeline.Options, output string) error {
	recs, err := c.loadRecords(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var res *pipeline.Result
	label := fmt.Sprintf("Charting %s", plural(len(recs), "record"))
	if err := r.stage(ctx, label, func() (err error) {
		res, err = runner.Execute(ctx, recs, opts)
		return err
	}); err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	if res.Graph.IsEmpty() {
		r.warn("No keywords found in %s", input)
	} else {
		r.success("Constellation ready")
	}
	for _, p := range paths {
		r.file(p)
	}
	r.summary(summary{
		keywords: res.Stats.NodeCount,
		links:    res.Stats.EdgeCount,
		steps:    res.Layout.Iterations,
		stages: []stageHit{
			{"graph", res.CacheInfo.BuildHit},
			{"layout", res.CacheInfo.LayoutHit},
			{"render", res.CacheInfo.RenderHit},
		},
	})
	r.truncation(res.Stats.NodeCount, res.Stats.TotalKeywords)
	if n := res.Stats.Normalize; n.Dropped > 0 || n.Duplicates > 0 {
		r.detail("Dropped %d invalid and %d repeated keywords", n.Dropped, n.Duplicates)
	}
	return nil
}
