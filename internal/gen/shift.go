// Package gen holds the height-field generators. Every generator only writes
// cells the protection predicate reports as free; reads are unrestricted.
package gen

import (
	"relief/internal/core"
)

// ShiftConfig parameterizes the uniform shift generator.
type ShiftConfig struct {
	// Step is the constant added to every free cell.
	Step float64
	// Rebase switches to floor renormalization: the minimum elevation over
	// free cells is subtracted from every free cell and Step is ignored.
	Rebase bool
}

// DefaultShiftConfig returns the standard configuration.
func DefaultShiftConfig() ShiftConfig {
	return ShiftConfig{Step: 0.1}
}

// ShiftFromMap populates a config from flag-style key/value pairs.
func ShiftFromMap(cfg map[string]string) ShiftConfig {
	c := DefaultShiftConfig()
	if cfg == nil {
		return c
	}
	core.ParseSignedFloat(cfg, "step", &c.Step)
	core.ParseBool(cfg, "rebase", &c.Rebase)
	return c
}

// Shift adds a constant to the free region or rebases its floor to zero.
type Shift struct {
	cfg ShiftConfig
}

// NewShift constructs the generator.
func NewShift(cfg ShiftConfig) *Shift { return &Shift{cfg: cfg} }

// Name returns the registry tag.
func (s *Shift) Name() string { return "shift" }

// Generate applies the shift over the free region.
func (s *Shift) Generate(g *core.Grid, free core.FreeFunc) {
	if s.cfg.Rebase {
		min, found := 0.0, false
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if !free(x, y) {
					continue
				}
				if v := g.At(x, y); !found || v < min {
					min, found = v, true
				}
			}
		}
		if !found {
			return
		}
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if free(x, y) {
					g.Add(x, y, -min)
				}
			}
		}
		return
	}

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if free(x, y) {
				g.Add(x, y, s.cfg.Step)
			}
		}
	}
}

func init() {
	core.RegisterGenerator("shift", func(cfg map[string]string) core.Generator {
		return NewShift(ShiftFromMap(cfg))
	})
}
