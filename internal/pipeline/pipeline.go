// Package pipeline sequences generators and smoothers over a height field.
// The pipeline exclusively owns the height field and the distance field for
// the duration of one transform; algorithms never retain references across
// calls.
package pipeline

import (
	"fmt"

	"relief/internal/core"
	"relief/internal/distfield"
)

// Pipeline runs a preset against a height field: the distance field is
// computed or loaded once, the free region optionally reset, then every
// generator and smoother runs in preset order.
type Pipeline struct {
	preset   Preset
	cache    *distfield.Cache
	cacheKey string
	dist     *core.DistanceField

	// Progress receives incremental progress from long passes; may be nil.
	Progress core.ProgressFunc
	// Warn receives non-fatal diagnostics; may be nil.
	Warn WarnFunc
}

// New builds a pipeline over a deep copy of the preset.
func New(preset Preset) *Pipeline {
	return &Pipeline{preset: preset.Clone()}
}

// UseCache persists the distance field under key so repeated runs over the
// same (predicate, resolution) pair skip recomputation.
func (p *Pipeline) UseCache(c *distfield.Cache, key string) {
	p.cache = c
	p.cacheKey = key
}

// DistanceField exposes the field from the last Run, for visualization.
func (p *Pipeline) DistanceField() *core.DistanceField { return p.dist }

// Run executes the transform. A smoother that requires the distance field
// aborts with an error before mutating the grid when the field is degenerate.
func (p *Pipeline) Run(g *core.Grid, free core.FreeFunc) error {
	dist, err := distfield.Ensure(p.cache, p.cacheKey, g.W, g.H, free)
	if err != nil {
		return fmt.Errorf("pipeline: distance field: %w", err)
	}
	p.dist = dist

	if p.preset.Reset {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if free(x, y) {
					g.Set(x, y, 0)
				}
			}
		}
	}

	for i, e := range p.preset.Generators {
		factory, ok := core.Generators()[e.Type]
		if !ok {
			p.Warn.warnf("pipeline: unknown generator type %q, skipping", e.Type)
			continue
		}
		gen := factory(e.Params)
		gen.Generate(g, free)
		p.Progress.Report("generate:"+gen.Name(), i+1, len(p.preset.Generators))
	}

	for i, e := range p.preset.Smoothers {
		factory, ok := core.Smoothers()[e.Type]
		if !ok {
			p.Warn.warnf("pipeline: unknown smoother type %q, skipping", e.Type)
			continue
		}
		s := factory(e.Params)
		if s.NeedsDistance() && dist.Degenerate() {
			return fmt.Errorf("pipeline: %s requires a usable distance field: %w",
				s.Name(), distfield.ErrDegenerate)
		}
		if err := s.Smooth(g, free, dist); err != nil {
			return fmt.Errorf("pipeline: %s: %w", s.Name(), err)
		}
		p.Progress.Report("smooth:"+s.Name(), i+1, len(p.preset.Smoothers))
	}
	return nil
}
