// Package config loads the constellation config file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/constellation/config.toml
// (or ~/.config/constellation/config.toml). Every key is optional; missing
// keys keep their defaults.
//
//	[graph]
//	max_nodes = 30
//
//	[records]
//	normalize = true
//	fold_case = false
//	table = "dreams"
//
//	[canvas]
//	width = 440
//	height = 0        # 0 follows the node count
//
//	[layout]
//	friction = 0.75
//	iteration_cap = 120
//
//	[render]
//	formats = ["svg"]
//	style = "glow"
//	renderer = "native"
//
//	[cache]
//	backend = "file"  # file, redis, mongo or none
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "constellation:"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/somnus/constellation/pkg/cache"
	"github.com/somnus/constellation/pkg/constellation"
	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/pipeline"
	"github.com/somnus/constellation/pkg/records"
	"github.com/somnus/constellation/pkg/render"
)

const appName = "constellation"

// Config mirrors the sections of the config file.
type Config struct {
	Graph   GraphConfig   `toml:"graph"`
	Records RecordsConfig `toml:"records"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Layout  layout.Config `toml:"layout"`
	Render  RenderConfig  `toml:"render"`
	Cache   cache.Config  `toml:"cache"`
}

// GraphConfig is the [graph] section: builder limits.
type GraphConfig struct {
	MaxNodes int `toml:"max_nodes"`
}

// RecordsConfig is the [records] section: keyword cleanup and the SQLite
// journal table.
type RecordsConfig struct {
	Normalize bool   `toml:"normalize"`
	FoldCase  bool   `toml:"fold_case"`
	Table     string `toml:"table"` // journal table for SQLite inputs
}

// CanvasConfig is the [canvas] section. A zero height follows the node count.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// RenderConfig is the [render] section: default formats, style, renderer
// and raster scale.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Style    string   `toml:"style"`
	Renderer string   `toml:"renderer"`
	Scale    float64  `toml:"scale"`
	Info     bool     `toml:"info"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Graph:   GraphConfig{MaxNodes: constellation.DefaultMaxNodes},
		Records: RecordsConfig{Normalize: true, Table: records.DefaultTable},
		Canvas:  CanvasConfig{Width: render.DefaultWidth},
		Layout:  layout.DefaultConfig(),
		Render: RenderConfig{
			Formats:  []string{graph.FormatSVG},
			Style:    graph.StyleGlow,
			Renderer: graph.RendererNative,
			Scale:    pipeline.DefaultScale,
			Info:     true,
		},
		Cache: cache.Config{Backend: cache.BackendFile},
	}
}

// DefaultPath returns the config file location following the XDG base
// directory convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path on top of [Default]. An empty path means
// [DefaultPath], where a missing file is not an error. A missing explicit
// path fails with FILE_NOT_FOUND. Unknown keys fail with INVALID_CONFIG so
// typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, cerrors.New(cerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Graph.MaxNodes <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "graph.max_nodes must be positive, got %d", c.Graph.MaxNodes)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "canvas size must not be negative")
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if !slices.Contains([]string{"", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone}, c.Cache.Backend) {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	opts := c.PipelineOptions()
	if err := opts.ValidateForRender(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// PipelineOptions converts the config into pipeline options. Callers
// override individual fields from command-line flags afterwards.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		MaxNodes:  c.Graph.MaxNodes,
		Normalize: c.Records.Normalize,
		FoldCase:  c.Records.FoldCase,
		Width:     c.Canvas.Width,
		Height:    c.Canvas.Height,
		Layout:    c.Layout,
		Formats:   slices.Clone(c.Render.Formats),
		Style:     c.Render.Style,
		Renderer:  c.Render.Renderer,
		Scale:     c.Render.Scale,
		Info:      c.Render.Info,
	}
}

// OpenRecords opens the record source at path, reading SQLite journals from
// the configured table.
func (c Config) OpenRecords(path string) (records.Source, error) {
	src, err := records.Open(path)
	if err != nil {
		return nil, err
	}
	if s, ok := src.(records.SQLiteSource); ok && c.Records.Table != "" {
		s.Table = c.Records.Table
		return s, nil
	}
	return src, nil
}
