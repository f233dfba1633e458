// Package smooth holds the smoothing and erosion passes. Like the generators,
// every pass only writes cells the protection predicate reports as free.
package smooth

import (
	"relief/internal/core"
)

// BoxConfig parameterizes the basic neighborhood-mean smoother.
type BoxConfig struct {
	// Iterations is the number of passes; values below 1 are clamped to 1.
	Iterations int
}

// DefaultBoxConfig returns the standard configuration.
func DefaultBoxConfig() BoxConfig { return BoxConfig{Iterations: 1} }

// BoxFromMap populates a config from flag-style key/value pairs.
func BoxFromMap(cfg map[string]string) BoxConfig {
	c := DefaultBoxConfig()
	if cfg == nil {
		return c
	}
	core.ParseInt(cfg, "iterations", 1, &c.Iterations)
	return c
}

// Box replaces each free cell with the unweighted mean of itself and its
// up-to-8 in-bounds neighbors, computed from a snapshot taken before each
// pass so in-pass updates do not see each other.
type Box struct {
	cfg BoxConfig
}

// NewBox constructs the smoother.
func NewBox(cfg BoxConfig) *Box {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	return &Box{cfg: cfg}
}

// Name returns the registry tag.
func (b *Box) Name() string { return "box" }

// NeedsDistance reports that this smoother runs without a distance field.
func (b *Box) NeedsDistance() bool { return false }

// Smooth runs the configured number of passes.
func (b *Box) Smooth(g *core.Grid, free core.FreeFunc, _ *core.DistanceField) error {
	for iter := 0; iter < b.cfg.Iterations; iter++ {
		prev := g.Snapshot()
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if !free(x, y) {
					continue
				}
				sum := prev[g.Index(x, y)]
				count := 1
				for _, off := range core.Neighbors8 {
					nx, ny := x+off[0], y+off[1]
					if !g.InBounds(nx, ny) {
						continue
					}
					sum += prev[g.Index(nx, ny)]
					count++
				}
				g.Set(x, y, sum/float64(count))
			}
		}
	}
	return nil
}

func init() {
	core.RegisterSmoother("box", func(cfg map[string]string) core.Smoother {
		return NewBox(BoxFromMap(cfg))
	})
}
