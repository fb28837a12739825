package layout

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/somnus/constellation/pkg/constellation"
	cerrors "github.com/somnus/constellation/pkg/errors"
)

// ErrUnknownEndpoint is returned by [Compute] when an edge names a keyword
// that is not a node of the graph. Graphs from [constellation.Build] never
// trigger it.
var ErrUnknownEndpoint = errors.New("edge endpoint is not a node")

// Node is a placed keyword. Pos and Vel are the final simulation state.
// Norm is Count divided by the largest count in the graph, in [0, 1].
type Node struct {
	Label  string
	Count  int
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Norm   float64
}

// Edge connects two entries of [Result.Nodes] by index.
type Edge struct {
	Source int
	Target int
	Weight int
}

// Result is a frozen layout ready for a renderer.
//
// Nodes keep the graph's ranking order, so Nodes[i] is the i-th ranked
// keyword. Iterations is the number of simulation steps that ran.
type Result struct {
	Width         float64
	Height        float64
	Nodes         []Node
	Edges         []Edge
	Iterations    int
	TotalKeywords int
}

// Center returns the middle of the canvas.
func (r Result) Center() r2.Vec { return r2.Vec{X: r.Width / 2, Y: r.Height / 2} }

// MaxCount returns the largest node count, or 0 when there are no nodes.
func (r Result) MaxCount() int {
	m := 0
	for _, n := range r.Nodes {
		m = max(m, n.Count)
	}
	return m
}

// Step describes one finished simulation iteration.
type Step struct {
	Iteration int
	Decay     float64
	// Energy is the summed squared speed of all nodes after the step.
	Energy float64
}

// Option configures [Compute].
type Option func(*options)

type options struct {
	cfg  Config
	hook func(Step)
}

// WithConfig replaces the default simulation constants.
func WithConfig(c Config) Option { return func(o *options) { o.cfg = c } }

// WithStepHook registers fn to be called after every iteration.
func WithStepHook(fn func(Step)) Option { return func(o *options) { o.hook = fn } }

// Compute places the nodes of g on a width x height canvas.
//
// Nodes start on a spiral around the canvas center and are then moved by a
// fixed number of simulation steps: pairwise inverse-square repulsion, spring
// attraction along edges, a weak pull to the center, damped integration, and
// a hard clamp that keeps every node at least Padding away from the canvas
// border. There is no randomness: the same graph, canvas and config always
// give the same result.
//
// An empty graph yields an empty result without simulating. Compute fails
// with [ErrInvalidCanvas] or [ErrInvalidConfig] on contract violations.
func Compute(g constellation.Graph, width, height float64, opts ...Option) (Result, error) {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := cfg.validateCanvas(width, height); err != nil {
		return Result{}, err
	}

	res := Result{
		Width:         width,
		Height:        height,
		Nodes:         []Node{},
		Edges:         []Edge{},
		TotalKeywords: g.TotalKeywords,
	}
	if len(g.Nodes) == 0 {
		return res, nil
	}

	edges, err := resolveEdges(g)
	if err != nil {
		return Result{}, err
	}

	sim := newSimulation(cfg, width, height, g.Nodes, edges)
	sim.run(o.hook)

	res.Nodes = sim.nodes
	res.Edges = edges
	res.Iterations = sim.iterations
	return res, nil
}

// Normalize returns count/maxCount clamped to [0, 1], or 0 when maxCount is
// not positive.
func Normalize(count, maxCount int) float64 {
	if maxCount <= 0 {
		return 0
	}
	return clamp(float64(count)/float64(maxCount), 0, 1)
}

func resolveEdges(g constellation.Graph) ([]Edge, error) {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.Keyword] = i
	}
	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		s, okS := index[e.Source]
		t, okT := index[e.Target]
		if !okS || !okT || s == t {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, ErrUnknownEndpoint, "edge %s -- %s", e.Source, e.Target)
		}
		edges = append(edges, Edge{Source: s, Target: t, Weight: e.Weight})
	}
	return edges, nil
}

// Bounds returns the smallest rectangle containing every node center.
func (r Result) Bounds() (lo, hi r2.Vec) {
	if len(r.Nodes) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	lo = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, n := range r.Nodes {
		lo.X, lo.Y = math.Min(lo.X, n.Pos.X), math.Min(lo.Y, n.Pos.Y)
		hi.X, hi.Y = math.Max(hi.X, n.Pos.X), math.Max(hi.Y, n.Pos.Y)
	}
	return lo, hi
}
