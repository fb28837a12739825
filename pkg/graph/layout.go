package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/somnus/constellation/pkg/layout"
)

// ErrInvalidLayout is returned when a serialized layout has a non-positive
// canvas.
var ErrInvalidLayout = errors.New("invalid layout")

// =============================================================================
// Layout - Positioned Constellation
// =============================================================================

// Layout is the serialization format of a computed layout.
//
// Nodes keep their ranking order. Edges refer to nodes by label so the file
// stays readable; [ToResult] turns them back into indices.
type Layout struct {
	Width         float64      `json:"width" bson:"width"`
	Height        float64      `json:"height" bson:"height"`
	Iterations    int          `json:"iterations" bson:"iterations"`
	TotalKeywords int          `json:"total_keywords,omitempty" bson:"total_keywords,omitempty"`
	Nodes         []LayoutNode `json:"nodes" bson:"nodes"`
	Edges         []Edge       `json:"edges" bson:"edges"`
}

// LayoutNode is a placed keyword.
type LayoutNode struct {
	Label  string  `json:"label" bson:"label"`
	Count  int     `json:"count" bson:"count"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	VX     float64 `json:"vx,omitempty" bson:"vx,omitempty"`
	VY     float64 `json:"vy,omitempty" bson:"vy,omitempty"`
	Radius float64 `json:"radius" bson:"radius"`
	Norm   float64 `json:"norm" bson:"norm"`
}

// FromResult converts a layout result to its serialization format.
func FromResult(r layout.Result) Layout {
	out := Layout{
		Width:         r.Width,
		Height:        r.Height,
		Iterations:    r.Iterations,
		TotalKeywords: r.TotalKeywords,
		Nodes:         make([]LayoutNode, len(r.Nodes)),
		Edges:         make([]Edge, len(r.Edges)),
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = LayoutNode{
			Label:  n.Label,
			Count:  n.Count,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			VX:     n.Vel.X,
			VY:     n.Vel.Y,
			Radius: n.Radius,
			Norm:   n.Norm,
		}
	}
	for i, e := range r.Edges {
		out.Edges[i] = Edge{
			Source: r.Nodes[e.Source].Label,
			Target: r.Nodes[e.Target].Label,
			Weight: e.Weight,
		}
	}
	return out
}

// ToResult converts a serialized layout back into a [layout.Result],
// resolving edge labels to node indices.
func ToResult(l Layout) (layout.Result, error) {
	if !(l.Width > 0) || !(l.Height > 0) {
		return layout.Result{}, fmt.Errorf("%w: canvas %vx%v", ErrInvalidLayout, l.Width, l.Height)
	}

	out := layout.Result{
		Width:         l.Width,
		Height:        l.Height,
		Iterations:    l.Iterations,
		TotalKeywords: l.TotalKeywords,
		Nodes:         make([]layout.Node, len(l.Nodes)),
		Edges:         make([]layout.Edge, 0, len(l.Edges)),
	}

	index := make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		if _, dup := index[n.Label]; dup {
			return layout.Result{}, fmt.Errorf("node %q: %w", n.Label, ErrDuplicateNode)
		}
		index[n.Label] = i
		out.Nodes[i] = layout.Node{
			Label:  n.Label,
			Count:  n.Count,
			Pos:    r2.Vec{X: n.X, Y: n.Y},
			Vel:    r2.Vec{X: n.VX, Y: n.VY},
			Radius: n.Radius,
			Norm:   n.Norm,
		}
	}

	for _, e := range l.Edges {
		src, okS := index[e.Source]
		dst, okT := index[e.Target]
		switch {
		case !okS || !okT:
			return layout.Result{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrUnknownNode)
		case src == dst:
			return layout.Result{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrSelfLoop)
		case e.Weight < 1:
			return layout.Result{}, fmt.Errorf("edge %s--%s: %w", e.Source, e.Target, ErrInvalidWeight)
		}
		out.Edges = append(out.Edges, layout.Edge{Source: src, Target: dst, Weight: e.Weight})
	}
	return out, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a layout result to pretty-printed JSON bytes.
func MarshalLayout(r layout.Result) ([]byte, error) {
	return json.MarshalIndent(FromResult(r), "", "  ")
}

// UnmarshalLayout deserializes and validates JSON bytes into a layout result.
func UnmarshalLayout(data []byte) (layout.Result, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return ToResult(l)
}

// WriteLayoutFile writes a layout result to a JSON file.
func WriteLayoutFile(r layout.Result, path string) error {
	data, err := MarshalLayout(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a layout result from a JSON file.
func ReadLayoutFile(path string) (layout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
