package layout

import (
	"errors"
	"math"

	cerrors "github.com/somnus/constellation/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when a [Config] fails [Config.Validate].
	// The returned error also carries the INVALID_CONFIG code.
	ErrInvalidConfig = errors.New("invalid layout config")

	// ErrInvalidCanvas is returned by [Compute] when the canvas is not finite,
	// smaller than MinCanvas, or too narrow to leave room inside the padding.
	// The returned error also carries the INVALID_CANVAS code.
	ErrInvalidCanvas = errors.New("invalid canvas size")
)

// Config holds every tunable constant of the simulation. The defaults were
// tuned by eye for journals of up to 30 keywords; none of them is sacred.
//
// Graphs with more than DenseThreshold nodes use the High variants of the
// repulsion and ideal distance.
type Config struct {
	DenseThreshold int `toml:"dense_threshold"`

	RepulsionLow      float64 `toml:"repulsion_low"`
	RepulsionHigh     float64 `toml:"repulsion_high"`
	IdealDistanceLow  float64 `toml:"ideal_distance_low"`
	IdealDistanceHigh float64 `toml:"ideal_distance_high"`
	SpringStrength    float64 `toml:"spring_strength"`
	Gravity           float64 `toml:"gravity"`
	Friction          float64 `toml:"friction"`
	TimeStep          float64 `toml:"time_step"`
	Cooling           float64 `toml:"cooling"`
	Padding           float64 `toml:"padding"`
	MinDistance       float64 `toml:"min_distance"`

	IterationBaseline int `toml:"iteration_baseline"`
	IterationPerNode  int `toml:"iteration_per_node"`
	IterationCap      int `toml:"iteration_cap"`

	SpiralTurns      float64 `toml:"spiral_turns"`
	SpiralBaseRadius float64 `toml:"spiral_base_radius"`
	SpiralSpread     float64 `toml:"spiral_spread"`

	MinRadius   float64 `toml:"min_radius"`
	RadiusRange float64 `toml:"radius_range"`
	MaxRadius   float64 `toml:"max_radius"`

	MinCanvas float64 `toml:"min_canvas"`
}

// DefaultConfig returns the stock simulation constants.
func DefaultConfig() Config {
	return Config{
		DenseThreshold:    20,
		RepulsionLow:      600,
		RepulsionHigh:     800,
		IdealDistanceLow:  80,
		IdealDistanceHigh: 100,
		SpringStrength:    0.015,
		Gravity:           0.004,
		Friction:          0.75,
		TimeStep:          0.25,
		Cooling:           0.5,
		Padding:           55,
		MinDistance:       1,
		IterationBaseline: 60,
		IterationPerNode:  2,
		IterationCap:      120,
		SpiralTurns:       2.5,
		SpiralBaseRadius:  60,
		SpiralSpread:      0.3,
		MinRadius:         4,
		RadiusRange:       10,
		MaxRadius:         14,
		MinCanvas:         200,
	}
}

// Iterations returns the number of simulation steps for n nodes.
func (c Config) Iterations(n int) int {
	return min(c.IterationCap, c.IterationBaseline+n*c.IterationPerNode)
}

// Repulsion returns the repulsion constant for n nodes.
func (c Config) Repulsion(n int) float64 {
	if n > c.DenseThreshold {
		return c.RepulsionHigh
	}
	return c.RepulsionLow
}

// IdealDistance returns the spring rest length for n nodes.
func (c Config) IdealDistance(n int) float64 {
	if n > c.DenseThreshold {
		return c.IdealDistanceHigh
	}
	return c.IdealDistanceLow
}

// Radius maps a normalized count in [0, 1] to a visual radius.
func (c Config) Radius(norm float64) float64 {
	return clamp(c.MinRadius+norm*c.RadiusRange, c.MinRadius, c.MaxRadius)
}

// Validate reports the first constant that would make the simulation
// meaningless or non-finite.
func (c Config) Validate() error {
	finite := []struct {
		name string
		v    float64
	}{
		{"repulsion_low", c.RepulsionLow},
		{"repulsion_high", c.RepulsionHigh},
		{"ideal_distance_low", c.IdealDistanceLow},
		{"ideal_distance_high", c.IdealDistanceHigh},
		{"spring_strength", c.SpringStrength},
		{"gravity", c.Gravity},
		{"time_step", c.TimeStep},
		{"padding", c.Padding},
		{"spiral_turns", c.SpiralTurns},
		{"spiral_base_radius", c.SpiralBaseRadius},
		{"spiral_spread", c.SpiralSpread},
		{"min_radius", c.MinRadius},
		{"radius_range", c.RadiusRange},
		{"min_canvas", c.MinCanvas},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return invalidConfig("%s must be a non-negative number, got %v", f.name, f.v)
		}
	}

	switch {
	case c.IterationCap <= 0:
		return invalidConfig("iteration_cap must be positive, got %d", c.IterationCap)
	case c.IterationBaseline < 0 || c.IterationPerNode < 0:
		return invalidConfig("iteration_baseline and iteration_per_node must not be negative")
	case c.DenseThreshold < 0:
		return invalidConfig("dense_threshold must not be negative, got %d", c.DenseThreshold)
	case !(c.MinDistance > 0) || math.IsInf(c.MinDistance, 0):
		return invalidConfig("min_distance must be positive, got %v", c.MinDistance)
	case !(c.Friction >= 0 && c.Friction <= 1):
		return invalidConfig("friction must be within [0, 1], got %v", c.Friction)
	case !(c.Cooling >= 0 && c.Cooling <= 1):
		return invalidConfig("cooling must be within [0, 1], got %v", c.Cooling)
	case c.TimeStep == 0:
		return invalidConfig("time_step must be positive")
	case !(c.MaxRadius >= c.MinRadius) || math.IsInf(c.MaxRadius, 0):
		return invalidConfig("max_radius must be at least min_radius, got %v < %v", c.MaxRadius, c.MinRadius)
	}
	return nil
}

func (c Config) validateCanvas(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return invalidCanvas("%s must be a positive number, got %v", d.name, d.v)
		}
		if d.v < c.MinCanvas {
			return invalidCanvas("%s %v is below the minimum of %v", d.name, d.v, c.MinCanvas)
		}
		if d.v < 2*c.Padding {
			return invalidCanvas("%s %v leaves no room inside padding %v", d.name, d.v, c.Padding)
		}
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, ErrInvalidConfig, format, args...)
}

func invalidCanvas(format string, args ...any) error {
	return cerrors.Wrap(cerrors.ErrCodeInvalidCanvas, ErrInvalidCanvas, format, args...)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
