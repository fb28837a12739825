package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/pipeline"
)

// renderCommand creates the render command for drawing a computed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		flags  renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to SVG, PNG, PDF or DOT",
		Long: `Render a computed layout to SVG, PNG, PDF or DOT.

The render command takes a layout.json file (produced by 'layout') and draws
it. The layout holds every position, so this step only decides appearance.
PNG and PDF output require rsvg-convert (librsvg).

Use 'visualize' to go straight from records to rendered output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options()
			flags.apply(&opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), newReport(cmd), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.register(cmd)

	return cmd
}

// runRender loads the layout and renders it.
func (c *CLI) runRender(ctx context.Context, r *report, input string, opts pipeline.Options, output string) error {
	if err := cerrors.ValidatePath(input); err != nil {
		return err
	}
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		artifacts map[string][]byte
		cacheHit  bool
	)
	label := "Rendering " + strings.Join(opts.Formats, ", ")
	if err := r.stage(ctx, label, func() (err error) {
		artifacts, cacheHit, err = runner.Render(ctx, l, opts)
		return err
	}); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	r.success("Rendered %s", plural(len(paths), "file"))
	for _, p := range paths {
		r.file(p)
	}
	r.summary(summary{
		keywords: len(l.Nodes),
		links:    len(l.Edges),
		stages:   []stageHit{{"render", cacheHit}},
	})
	return nil
}

// writeArtifacts writes one file per format and returns the paths in format
// order. A single format is written to output verbatim when one is given.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	if len(formats) == 1 && output != "" {
		if err := writeFile(output, artifacts[formats[0]]); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := artifactPath(base, format)
		if slices.Contains(paths, path) {
			continue
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if err := cerrors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
