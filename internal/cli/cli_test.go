package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/somnus/constellation/pkg/constellation"
	cerrors "github.com/somnus/constellation/pkg/errors"
	"github.com/somnus/constellation/pkg/graph"
	"github.com/somnus/constellation/pkg/observability"
	"github.com/somnus/constellation/pkg/records"
)

const sampleRecords = `[
  {"id": "1", "date": "2024-03-01", "keywords": ["water", "flying", "moon"]},
  {"id": "2", "date": "2024-03-02", "keywords": ["water", "flying"]},
  {"id": "3", "date": "2024-03-03", "keywords": ["water"]}
]`

// testEnv is a scratch directory with a records file and a config that
// points the file cache into the same directory.
type testEnv struct {
	dir     string
	records string
	config  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Cleanup(observability.Reset)

	env := testEnv{
		dir:     dir,
		records: filepath.Join(dir, "dreams.json"),
		config:  filepath.Join(dir, "config.toml"),
	}
	if err := os.WriteFile(env.records, []byte(sampleRecords), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.Join(dir, "cache") + "\"\n"
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes the CLI with args and returns what commands wrote through
// cobra's output writer.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e testEnv) path(name string) string { return filepath.Join(e.dir, name) }

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"spaces and case", " SVG , png ", []string{"svg", "png"}},
		{"empty entries", "svg,,pdf,", []string{"svg", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dreams.json", "dreams"},
		{"dreams.graph.json", "dreams"},
		{"out/dreams.layout.json", "out/dreams"},
		{"journal.sqlite", "journal"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := stem(tt.input); got != tt.want {
				t.Errorf("stem(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "dreams.layout.json", "dreams"},
		{"format extension stripped", "sky.svg", "dreams.json", "sky"},
		{"dot extension stripped", "sky.dot", "dreams.json", "sky"},
		{"other extension kept", "sky.v2", "dreams.json", "sky.v2"},
		{"no extension", "out/sky", "dreams.json", "out/sky"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("sky", graph.FormatSVG); got != "sky.svg" {
		t.Errorf("svg path = %q", got)
	}
	if got := artifactPath("sky", graph.FormatJSON); got != "sky.layout.json" {
		t.Errorf("json path = %q, want the layout suffix so inputs are not overwritten", got)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("graph {}")}

	t.Run("single format to output", func(t *testing.T) {
		out := filepath.Join(dir, "exact.name")
		paths, err := writeArtifacts(artifacts, []string{"svg"}, "dreams.json", out)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(paths, []string{out}) {
			t.Errorf("paths = %v", paths)
		}
		if data, _ := os.ReadFile(out); string(data) != "<svg/>" {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("multiple formats share a base", func(t *testing.T) {
		base := filepath.Join(dir, "sky")
		paths, err := writeArtifacts(artifacts, []string{"svg", "dot", "svg"}, "dreams.json", base+".svg")
		if err != nil {
			t.Fatal(err)
		}
		want := []string{base + ".svg", base + ".dot"}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	})

	t.Run("unwritable", func(t *testing.T) {
		_, err := writeArtifacts(artifacts, []string{"svg"}, "dreams.json", filepath.Join(dir, "missing", "x.svg"))
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestFormatNeighbors(t *testing.T) {
	ns := []constellation.Neighbor{{Keyword: "water", Weight: 3}, {Keyword: "moon", Weight: 2}, {Keyword: "house", Weight: 1}, {Keyword: "stairs", Weight: 1}}
	tests := []struct {
		name  string
		ns    []constellation.Neighbor
		limit int
		want  string
	}{
		{"none", nil, 3, "—"},
		{"under limit", ns[:2], 3, "water×3, moon×2"},
		{"over limit", ns, 2, "water×3, moon×2 +2"},
		{"no limit", ns, 0, "water×3, moon×2, house×1, stairs×1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatNeighbors(tt.ns, tt.limit); got != tt.want {
				t.Errorf("formatNeighbors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeywordRows(t *testing.T) {
	g := constellation.BuildDefault([]records.Record{
		{ID: "1", Keywords: []string{"water", "flying", "moon"}},
		{ID: "2", Keywords: []string{"water", "flying"}},
		{ID: "3", Keywords: []string{"water"}},
	})

	rows := keywordRows(g)
	want := [][]string{
		{"1", "water", "3", "2", "flying×2, moon×1"},
		{"2", "flying", "2", "2", "water×2, moon×1"},
		{"3", "moon", "1", "2", "water×1, flying×1"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("keywordRows() =\n%v\nwant\n%v", rows, want)
	}
}

func TestPipelineCommands(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "graph", env.records); err != nil {
		t.Fatalf("graph: %v", err)
	}
	g, err := graph.ReadGraphFile(env.path("dreams.graph.json"))
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Errorf("graph = %d nodes, %d edges, want 3 and 3", g.NodeCount(), g.EdgeCount())
	}

	if _, err := env.run(t, "layout", env.path("dreams.graph.json"), "--width", "400"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := graph.ReadLayoutFile(env.path("dreams.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Width != 400 || len(l.Nodes) != 3 {
		t.Errorf("layout = %.0f wide with %d nodes", l.Width, len(l.Nodes))
	}

	if _, err := env.run(t, "render", env.path("dreams.layout.json"), "-f", "svg,dot", "--style", "plain"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(env.path("dreams.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(">water</text>")) {
		t.Error("svg should label the water node")
	}
	dot, err := os.ReadFile(env.path("dreams.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "graph constellation {") {
		t.Errorf("dot output starts with %q", dot[:min(len(dot), 30)])
	}

	cached, err := os.ReadDir(env.path("cache"))
	if err != nil || len(cached) == 0 {
		t.Errorf("file cache should hold entries, got %v (err %v)", cached, err)
	}
}

func TestVisualizeCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.path("sky")

	args := []string{"visualize", env.records, "-o", out, "-f", "svg,json", "--max-nodes", "2"}
	report, err := env.run(t, args...)
	if err != nil {
		t.Fatalf("visualize: %v", err)
	}
	for _, want := range []string{"Constellation ready", "2 keywords", "1 link", "graph fresh", "render fresh", "Showing top 2 of 3 keywords"} {
		if !strings.Contains(report, want) {
			t.Errorf("visualize output missing %q:\n%s", want, report)
		}
	}

	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("svg not written: %v", err)
	}
	l, err := graph.ReadLayoutFile(out + ".layout.json")
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(l.Nodes) != 2 || l.TotalKeywords != 3 {
		t.Errorf("layout has %d of %d keywords, want 2 of 3", len(l.Nodes), l.TotalKeywords)
	}

	// Second run is served from the cache and must write the same bytes.
	first, _ := os.ReadFile(out + ".svg")
	report, err = env.run(t, args...)
	if err != nil {
		t.Fatalf("visualize (cached): %v", err)
	}
	for _, want := range []string{"graph cached", "layout cached", "render cached"} {
		if !strings.Contains(report, want) {
			t.Errorf("cached run output missing %q:\n%s", want, report)
		}
	}
	second, _ := os.ReadFile(out + ".svg")
	if !bytes.Equal(first, second) {
		t.Error("cached run produced different output")
	}
}

func TestKeywordsCommand(t *testing.T) {
	env := newTestEnv(t)

	table, err := env.run(t, "keywords", env.records)
	if err != nil {
		t.Fatalf("keywords from records: %v", err)
	}
	for _, want := range []string{"water", "flying×2, moon×1"} {
		if !strings.Contains(table, want) {
			t.Errorf("keyword table missing %q:\n%s", want, table)
		}
	}
	if _, err := env.run(t, "graph", env.records); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "keywords", env.path("dreams.graph.json")); err != nil {
		t.Fatalf("keywords from graph: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != env.path("cache") {
		t.Errorf("cache path = %q, want %q", got, env.path("cache"))
	}

	if _, err := env.run(t, "visualize", env.records); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, err := os.ReadDir(env.path("cache"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestNoCacheFlag(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "--no-cache", "visualize", env.records); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(env.path("cache")); err == nil {
		entries, _ := os.ReadDir(env.path("cache"))
		if len(entries) != 0 {
			t.Errorf("--no-cache wrote %d cache entries", len(entries))
		}
	}
}

func TestCommandErrors(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "graph", env.records); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "layout", env.path("dreams.graph.json")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code cerrors.Code
	}{
		{"bad style", []string{"render", env.path("dreams.layout.json"), "--style", "neon"}, cerrors.ErrCodeInvalidStyle},
		{"bad format", []string{"visualize", env.records, "-f", "gif"}, cerrors.ErrCodeInvalidFormat},
		{"bad renderer", []string{"render", env.path("dreams.layout.json"), "--renderer", "ascii"}, cerrors.ErrCodeInvalidRenderer},
		{"tiny canvas", []string{"visualize", env.records, "--width", "50"}, cerrors.ErrCodeInvalidCanvas},
		{"negative height", []string{"layout", env.path("dreams.graph.json"), "--height=-5"}, cerrors.ErrCodeInvalidCanvas},
		{"control character in path", []string{"graph", "dreams\x01.json"}, cerrors.ErrCodeInvalidPath},
		{"control character in output", []string{"visualize", env.records, "-o", "sky\n.svg"}, cerrors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !cerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	t.Run("missing records", func(t *testing.T) {
		if _, err := env.run(t, "graph", env.path("nope.json")); err == nil {
			t.Error("expected error for missing input")
		}
	})

	t.Run("unknown record format", func(t *testing.T) {
		if _, err := env.run(t, "graph", env.path("dreams.csv")); err == nil {
			t.Error("expected error for .csv input")
		}
	})

	t.Run("missing config", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"--config", env.path("missing.toml"), "cache", "path"})
		err := root.ExecuteContext(context.Background())
		if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})
}
