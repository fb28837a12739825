// Package layout places a keyword constellation on a 2D canvas with a
// deterministic force-directed simulation.
//
// # Overview
//
// [Compute] takes a [constellation.Graph] and a canvas size and returns a
// [Result]: one [Node] per keyword with a final position and a visual
// radius, plus the edges rewritten as index pairs. The package never draws;
// renderers turn a Result into pixels.
//
// # Algorithm
//
// Node i of n starts on a spiral around the canvas center:
//
//	angle  = i/n * 2π * SpiralTurns
//	radius = SpiralBaseRadius + i/n * min(width, height) * SpiralSpread
//
// The simulation then runs min(IterationCap, IterationBaseline + n*IterationPerNode)
// steps. Each step computes a cooling factor decay = 1 - iter/iterations*Cooling
// and then, in order:
//
//  1. Repulsion between every pair, Repulsion/dist² scaled by decay
//  2. Spring attraction along edges, (dist - ideal) * SpringStrength * weight * decay
//  3. Centering: v += (center - p) * Gravity, then p += v * TimeStep, v *= Friction
//  4. A hard clamp of every position to [Padding, size - Padding]
//
// Forces only touch velocities, and positions only move in step 3, so every
// force in a step reads the positions left by the previous step. Distances
// are floored at MinDistance, which keeps every force finite.
//
// # Configuration
//
// All constants live in [Config]; [DefaultConfig] returns the tuned
// defaults. Graphs with more than DenseThreshold nodes use the stronger
// RepulsionHigh and the longer IdealDistanceHigh.
//
//	res, err := layout.Compute(g, 440, 500, layout.WithConfig(cfg))
//
// # Radius
//
// Each node's radius is MinRadius + norm*RadiusRange clamped to
// [MinRadius, MaxRadius], where norm is its count over the largest count.
// With the defaults that is the range [4, 14].
//
// # Concurrency
//
// Compute keeps all state local to the call and is safe to call from
// multiple goroutines.
package layout
