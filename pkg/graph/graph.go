package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/somnus/constellation/pkg/constellation"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a keyword graph to indented JSON bytes.
func MarshalGraph(g constellation.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes and validates JSON bytes into a keyword graph.
func UnmarshalGraph(data []byte) (constellation.Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// WriteGraphFile writes a keyword graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g constellation.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a keyword graph as JSON to an io.Writer.
func WriteGraph(g constellation.Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
// Returns validation errors for graphs that break builder invariants.
func ReadGraphFile(path string) (constellation.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return constellation.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (constellation.Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g constellation.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromConstellation(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (constellation.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return constellation.Graph{}, fmt.Errorf("decode: %w", err)
	}
	return ToConstellation(data)
}
