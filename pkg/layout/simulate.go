package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/somnus/constellation/pkg/constellation"
)

// simulation is the private working set of one Compute call. Nodes form an
// arena addressed by index; edges refer to them by index.
type simulation struct {
	cfg        Config
	center     r2.Vec
	lo, hi     r2.Vec
	nodes      []Node
	edges      []Edge
	iterations int
	repulsion  float64
	ideal      float64
}

func newSimulation(cfg Config, width, height float64, stats []constellation.KeywordStat, edges []Edge) *simulation {
	n := len(stats)
	s := &simulation{
		cfg:        cfg,
		center:     r2.Vec{X: width / 2, Y: height / 2},
		lo:         r2.Vec{X: cfg.Padding, Y: cfg.Padding},
		hi:         r2.Vec{X: width - cfg.Padding, Y: height - cfg.Padding},
		nodes:      make([]Node, n),
		edges:      edges,
		iterations: max(0, cfg.Iterations(n)),
		repulsion:  cfg.Repulsion(n),
		ideal:      cfg.IdealDistance(n),
	}

	maxCount := 0
	for _, st := range stats {
		maxCount = max(maxCount, st.Count)
	}
	span := math.Min(width, height)
	for i, st := range stats {
		frac := float64(i) / float64(n)
		angle := frac * 2 * math.Pi * cfg.SpiralTurns
		radius := cfg.SpiralBaseRadius + frac*span*cfg.SpiralSpread
		norm := Normalize(st.Count, maxCount)
		s.nodes[i] = Node{
			Label:  st.Keyword,
			Count:  st.Count,
			Pos:    r2.Add(s.center, r2.Vec{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}),
			Radius: cfg.Radius(norm),
			Norm:   norm,
		}
	}
	return s
}

func (s *simulation) run(hook func(Step)) {
	for iter := 0; iter < s.iterations; iter++ {
		decay := 1 - float64(iter)/float64(s.iterations)*s.cfg.Cooling
		s.repel(decay)
		s.attract(decay)
		s.integrate()
		if hook != nil {
			hook(Step{Iteration: iter, Decay: decay, Energy: s.energy()})
		}
	}
}

// repel pushes every pair apart with an inverse-square force. Only
// velocities change, so every pair sees the positions of the previous step.
func (s *simulation) repel(decay float64) {
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			d := r2.Sub(s.nodes[j].Pos, s.nodes[i].Pos)
			dist := math.Max(r2.Norm(d), s.cfg.MinDistance)
			force := s.repulsion / (dist * dist) * decay
			f := r2.Scale(force/dist, d)
			s.nodes[i].Vel = r2.Sub(s.nodes[i].Vel, f)
			s.nodes[j].Vel = r2.Add(s.nodes[j].Vel, f)
		}
	}
}

// attract pulls edge endpoints toward the ideal distance, harder for
// heavier edges.
func (s *simulation) attract(decay float64) {
	for _, e := range s.edges {
		src, dst := &s.nodes[e.Source], &s.nodes[e.Target]
		d := r2.Sub(dst.Pos, src.Pos)
		dist := math.Max(r2.Norm(d), s.cfg.MinDistance)
		force := (dist - s.ideal) * s.cfg.SpringStrength * float64(e.Weight) * decay
		f := r2.Scale(force/dist, d)
		src.Vel = r2.Add(src.Vel, f)
		dst.Vel = r2.Sub(dst.Vel, f)
	}
}

// integrate applies gravity, advances positions, damps velocities and
// clamps every node inside the padded canvas.
func (s *simulation) integrate() {
	for i := range s.nodes {
		n := &s.nodes[i]
		n.Vel = r2.Add(n.Vel, r2.Scale(s.cfg.Gravity, r2.Sub(s.center, n.Pos)))
		n.Pos = r2.Add(n.Pos, r2.Scale(s.cfg.TimeStep, n.Vel))
		n.Vel = r2.Scale(s.cfg.Friction, n.Vel)
		n.Pos = r2.Vec{
			X: clamp(n.Pos.X, s.lo.X, s.hi.X),
			Y: clamp(n.Pos.Y, s.lo.Y, s.hi.Y),
		}
	}
}

func (s *simulation) energy() float64 {
	var e float64
	for _, n := range s.nodes {
		e += r2.Norm2(n.Vel)
	}
	return e
}
