package smooth

import (
	"relief/internal/core"
)

// ThermalConfig parameterizes talus-threshold erosion.
type ThermalConfig struct {
	Iterations int
	// Talus is the maximum stable height difference between neighbors.
	Talus float64
	// Rate is the fraction of the excess difference transferred per pass.
	Rate float64
	// RoadAware tightens the allowed slope near protected cells so grades
	// blend into protected boundaries.
	RoadAware bool
	// RoadDist is the proximity horizon in cells for the road-aware variant.
	RoadDist int
	// Tighten in [0,1] scales how strongly proximity reduces the effective
	// talus and transfer rate.
	Tighten float64
}

// DefaultThermalConfig returns the standard configuration.
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		Iterations: 10,
		Talus:      0.01,
		Rate:       0.25,
		RoadAware:  false,
		RoadDist:   8,
		Tighten:    0.5,
	}
}

// ThermalFromMap populates a config from flag-style key/value pairs.
func ThermalFromMap(cfg map[string]string) ThermalConfig {
	c := DefaultThermalConfig()
	if cfg == nil {
		return c
	}
	core.ParseInt(cfg, "iterations", 1, &c.Iterations)
	core.ParseFloat(cfg, "talus", 0, &c.Talus)
	core.ParseFloat(cfg, "rate", 0, &c.Rate)
	core.ParseBool(cfg, "road_aware", &c.RoadAware)
	core.ParseInt(cfg, "road_dist", 1, &c.RoadDist)
	core.ParseFloat(cfg, "tighten", 0, &c.Tighten)
	return c
}

// Thermal moves material from over-steep cells to lower free neighbors. All
// transfers are pairwise moves read from a before-pass snapshot, so total
// elevation over the grid is conserved exactly (modulo float accumulation).
type Thermal struct {
	cfg ThermalConfig
}

// NewThermal constructs the smoother.
func NewThermal(cfg ThermalConfig) *Thermal {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.Tighten > 1 {
		cfg.Tighten = 1
	}
	return &Thermal{cfg: cfg}
}

// Name returns the registry tag.
func (t *Thermal) Name() string { return "thermal" }

// NeedsDistance reports that this smoother runs without a distance field; the
// road-aware variant uses its own bounded neighbor search.
func (t *Thermal) NeedsDistance() bool { return false }

// Smooth runs the configured number of transfer passes.
func (t *Thermal) Smooth(g *core.Grid, free core.FreeFunc, _ *core.DistanceField) error {
	c := t.cfg

	// Proximity to the nearest protected cell, in [0,1] with 1 at the
	// boundary, computed once since the predicate is fixed for the call.
	var proximity []float64
	if c.RoadAware {
		proximity = make([]float64, g.W*g.H)
		limit := c.RoadDist
		if limit < 1 {
			limit = 1
		}
		visitCap := (2*limit + 1) * (2*limit + 1)
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if !free(x, y) {
					continue
				}
				if _, d, ok := NearestProtected(g, free, x, y, visitCap); ok && d <= limit {
					proximity[g.Index(x, y)] = 1 - float64(d)/float64(limit)
				}
			}
		}
	}

	for iter := 0; iter < c.Iterations; iter++ {
		prev := g.Snapshot()
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if !free(x, y) {
					continue
				}
				idx := g.Index(x, y)
				h := prev[idx]

				talus, rate := c.Talus, c.Rate
				if proximity != nil && proximity[idx] > 0 {
					p := proximity[idx] * c.Tighten
					talus *= 1 - p
					rate *= 1 - p/2
				}

				for _, off := range core.Neighbors8 {
					nx, ny := x+off[0], y+off[1]
					if !g.InBounds(nx, ny) || !free(nx, ny) {
						continue
					}
					diff := h - prev[g.Index(nx, ny)]
					if diff <= talus {
						continue
					}
					amount := (diff - talus) * rate
					g.Add(x, y, -amount)
					g.Add(nx, ny, amount)
				}
			}
		}
	}
	return nil
}

func init() {
	core.RegisterSmoother("thermal", func(cfg map[string]string) core.Smoother {
		return NewThermal(ThermalFromMap(cfg))
	})
}
