package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/somnus/constellation/pkg/cache"
	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/records"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "constellation", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %s, want %s", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dreamer")
	got, _ = DefaultPath()
	if want := filepath.Join("/home/dreamer", ".config", "constellation", "config.toml"); got != want {
		t.Errorf("DefaultPath() fallback = %s, want %s", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[graph]
max_nodes = 12

[records]
fold_case = true

[canvas]
width = 600
height = 400

[layout]
friction = 0.5
iteration_cap = 80

[render]
formats = ["svg", "png"]
style = "plain"

[cache]
backend = "redis"

[cache.redis]
addr = "cache:6379"
prefix = "constellation:"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Graph.MaxNodes != 12 {
		t.Errorf("MaxNodes = %d", cfg.Graph.MaxNodes)
	}
	if !cfg.Records.Normalize || !cfg.Records.FoldCase {
		t.Errorf("records = %+v, want defaults kept and fold_case set", cfg.Records)
	}
	if cfg.Layout.Friction != 0.5 || cfg.Layout.IterationCap != 80 {
		t.Errorf("layout overrides not applied: %+v", cfg.Layout)
	}
	if cfg.Layout.Gravity != layout.DefaultConfig().Gravity {
		t.Error("unset layout keys should keep their defaults")
	}
	if cfg.Render.Style != "plain" || len(cfg.Render.Formats) != 2 || cfg.Render.Renderer != "native" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.Addr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	opts := cfg.PipelineOptions()
	if opts.MaxNodes != 12 || opts.Width != 600 || opts.Height != 400 || !opts.FoldCase {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("options from config should validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    cerrors.Code
	}{
		{"syntax", "[graph\nmax_nodes = 1", cerrors.ErrCodeInvalidConfig},
		{"unknown key", "[graph]\nmax_node = 10", cerrors.ErrCodeInvalidConfig},
		{"zero nodes", "[graph]\nmax_nodes = 0", cerrors.ErrCodeInvalidConfig},
		{"bad friction", "[layout]\nfriction = 1.5", cerrors.ErrCodeInvalidConfig},
		{"bad style", "[render]\nstyle = \"neon\"", cerrors.ErrCodeInvalidStyle},
		{"bad format", "[render]\nformats = [\"gif\"]", cerrors.ErrCodeInvalidFormat},
		{"bad backend", "[cache]\nbackend = \"memcached\"", cerrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !cerrors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Graph.MaxNodes != Default().Graph.MaxNodes {
		t.Error("missing default file should yield defaults")
	}
}

func TestOpenRecords(t *testing.T) {
	cfg := Default()
	cfg.Records.Table = "entries"

	src, err := cfg.OpenRecords("journal.sqlite")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := src.(records.SQLiteSource)
	if !ok || s.Table != "entries" {
		t.Errorf("OpenRecords() = %#v, want SQLiteSource on table entries", src)
	}

	src, err = cfg.OpenRecords("journal.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(records.FileSource); !ok {
		t.Errorf("json source = %T", src)
	}

	if _, err := cfg.OpenRecords("journal.csv"); err == nil {
		t.Error("unknown extension should fail")
	}
}

func TestOpenRecordsReadsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	if err := os.WriteFile(path, []byte(`[{"id":"1","keywords":["moon"]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := Default().OpenRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	recs, err := src.Records(context.Background())
	if err != nil || len(recs) != 1 {
		t.Errorf("Records() = %v, %v", recs, err)
	}
}
