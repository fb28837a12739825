package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/somnus/constellation/pkg/buildinfo"
	"github.com/somnus/constellation/pkg/cache"
	"github.com/somnus/constellation/pkg/config"
	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/observability"
	"github.com/somnus/constellation/pkg/pipeline"
	"github.com/somnus/constellation/pkg/records"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and suggested commands.
const appName = "constellation"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set from persistent flags.
	configPath string
	noCache    bool

	// Loaded once before any subcommand runs.
	config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Constellation turns journal keywords into a star map",
		Long: `Constellation reads journal records tagged with keywords, builds a
co-occurrence graph of the most frequent keywords, lays it out with a
force-directed simulation and renders it as a constellation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/constellation/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.keywordsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and routes pipeline events to the logger.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// openCache opens the configured backend. A remote backend that cannot be
// reached degrades to no caching rather than failing the command.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.config.Cache)
	if err != nil {
		if c.config.Cache.Backend == cache.BackendRedis || c.config.Cache.Backend == cache.BackendMongo {
			loggerFromContext(ctx).Warn("cache unavailable, continuing without it", "backend", c.config.Cache.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return ch, nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadRecords reads the record file or journal database at path.
func (c *CLI) loadRecords(ctx context.Context, path string) ([]records.Record, error) {
	if err := cerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	src, err := c.config.OpenRecords(path)
	if err != nil {
		return nil, fmt.Errorf("open records %s: %w", path, err)
	}
	recs, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records %s: %w", path, err)
	}
	return recs, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags holds render flags that only override the config when set.
type renderFlags struct {
	formats  string
	style    string
	renderer string
	scale    float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "visual style: glow, plain")
	cmd.Flags().StringVar(&f.renderer, "renderer", "", "SVG renderer: native, graphviz")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor")
}

func (f *renderFlags) apply(opts *pipeline.Options) {
	if f.formats != "" {
		opts.Formats = parseFormats(f.formats)
	}
	if f.style != "" {
		opts.Style = f.style
	}
	if f.renderer != "" {
		opts.Renderer = f.renderer
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
}

// options returns pipeline options from the loaded config.
func (c *CLI) options() pipeline.Options {
	opts := c.config.PipelineOptions()
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{graph.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Paths
// =============================================================================

// stem strips the extension and any stage suffix from input, so that
// dreams.json, dreams.graph.json and dreams.layout.json all yield "dreams".
func stem(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	for _, suffix := range []string{".graph", ".layout"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return base
}

// basePath derives the base output path for rendered artifacts. A format
// extension on output is stripped so "-o sky.svg -f svg,png" writes sky.svg
// and sky.png.
func basePath(output, input string) string {
	if output == "" {
		return stem(input)
	}
	ext := filepath.Ext(output)
	if err := pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")); ext != "" && err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns where the artifact for format is written.
func artifactPath(base, format string) string {
	if format == graph.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
