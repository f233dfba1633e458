package gen

import (
	"math"
	"slices"
	"testing"

	"relief/internal/core"
)

func checkerFree(x, y int) bool { return (x+y)%2 == 0 }

// Every generator must leave protected cells bit-for-bit unchanged. This is
// the core safety contract of the whole system.
func TestGeneratorsRespectMask(t *testing.T) {
	builders := map[string]func() core.Generator{
		"shift":        func() core.Generator { return NewShift(DefaultShiftConfig()) },
		"shift-rebase": func() core.Generator { return NewShift(ShiftConfig{Rebase: true}) },
		"fractal":      func() core.Generator { return NewFractal(DefaultFractalConfig()) },
		"voronoi":      func() core.Generator { return NewVoronoi(DefaultVoronoiConfig()) },
		"midpoint":     func() core.Generator { return NewMidpoint(DefaultMidpointConfig()) },
	}

	for name, build := range builders {
		g := core.NewGrid(17, 17)
		for i := range g.Cells() {
			g.Cells()[i] = float64(i%7) * 0.1
		}
		before := g.Snapshot()

		build().Generate(g, checkerFree)

		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if checkerFree(x, y) {
					continue
				}
				idx := g.Index(x, y)
				if g.Cells()[idx] != before[idx] {
					t.Fatalf("%s modified protected cell (%d,%d): %v -> %v",
						name, x, y, before[idx], g.Cells()[idx])
				}
			}
		}
	}
}

func TestShiftUniformStep(t *testing.T) {
	g := core.NewGrid(2, 2)
	NewShift(ShiftConfig{Step: 0.1}).Generate(g, core.AllFree)

	for i, v := range g.Cells() {
		if math.Abs(v-0.1) > 1e-12 {
			t.Fatalf("cell %d: got %v, want 0.1", i, v)
		}
	}
}

func TestShiftRebaseFloorsToZero(t *testing.T) {
	g := core.NewGrid(3, 1)
	g.Set(0, 0, 0.5)
	g.Set(1, 0, 0.3)
	g.Set(2, 0, 0.9)

	NewShift(ShiftConfig{Step: 99, Rebase: true}).Generate(g, core.AllFree)

	want := []float64{0.2, 0, 0.6}
	for i, v := range g.Cells() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Fatalf("cell %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestFractalAddsWithinAmplitude(t *testing.T) {
	cfg := DefaultFractalConfig()
	cfg.Amplitude = 0.25
	g := core.NewGrid(16, 16)
	NewFractal(cfg).Generate(g, core.AllFree)

	for i, v := range g.Cells() {
		if v < 0 || v > 0.25 {
			t.Fatalf("cell %d: fbm contribution %v outside [0, amplitude]", i, v)
		}
	}
}

func TestVoronoiOnlyRaises(t *testing.T) {
	cfg := DefaultVoronoiConfig()
	cfg.Peaks = 8
	cfg.Seed = 5

	g := core.NewGrid(24, 24)
	base := 0.2
	g.Fill(base)

	NewVoronoi(cfg).Generate(g, core.AllFree)

	for i, v := range g.Cells() {
		if v < base-1e-12 {
			t.Fatalf("cell %d dropped below base: %v", i, v)
		}
	}
}

func TestVoronoiSkipsDominatedPeak(t *testing.T) {
	cfg := DefaultVoronoiConfig()
	cfg.Peaks = 1
	cfg.MinHeight = 0.3
	cfg.MaxHeight = 0.4
	cfg.Seed = 11

	// Everything already taller than any possible target: the peak must be
	// skipped entirely rather than carving a divot.
	g := core.NewGrid(12, 12)
	g.Fill(0.95)
	before := g.Snapshot()

	NewVoronoi(cfg).Generate(g, core.AllFree)

	if !slices.Equal(before, g.Cells()) {
		t.Fatal("dominated peak must leave the grid untouched")
	}
}

func TestFractalZeroSeedIsUnseeded(t *testing.T) {
	cfg := DefaultFractalConfig()
	cfg.Seed = 0

	run := func() []float64 {
		g := core.NewGrid(12, 12)
		NewFractal(cfg).Generate(g, core.AllFree)
		return g.Cells()
	}

	if slices.Equal(run(), run()) {
		t.Fatal("seed 0 must produce a fresh noise stream per construction")
	}
}

func TestMidpointDeterministic(t *testing.T) {
	cfg := DefaultMidpointConfig()
	cfg.Seed = 42

	a := core.NewGrid(33, 33)
	b := core.NewGrid(33, 33)
	NewMidpoint(cfg).Generate(a, core.AllFree)
	NewMidpoint(cfg).Generate(b, core.AllFree)

	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("same seed, grid and config must produce identical output")
	}
	all := true
	for _, v := range a.Cells() {
		if v != 0 {
			all = false
			break
		}
	}
	if all {
		t.Fatal("midpoint displacement produced a flat grid")
	}
}

func TestMidpointNormalizedRange(t *testing.T) {
	cfg := DefaultMidpointConfig()
	cfg.MinHeight = 0.1
	cfg.MaxHeight = 0.8
	cfg.Strength = 1
	cfg.Seed = 9

	g := core.NewGrid(33, 33)
	NewMidpoint(cfg).Generate(g, core.AllFree)

	for i, v := range g.Cells() {
		if v < 0.1-1e-9 || v > 0.8+1e-9 {
			t.Fatalf("cell %d: %v outside normalized range [0.1,0.8]", i, v)
		}
	}
}

func TestMidpointDegenerateGridIsNoop(t *testing.T) {
	g := core.NewGrid(2, 2)
	g.Fill(0.4)
	before := g.Snapshot()

	NewMidpoint(DefaultMidpointConfig()).Generate(g, core.AllFree)

	if !slices.Equal(before, g.Cells()) {
		t.Fatal("degenerate working-buffer size must leave the grid unmodified")
	}
}

func TestConfigFromMapToleratesUnknownAndMissing(t *testing.T) {
	c := FractalFromMap(map[string]string{
		"octaves":     "6",
		"persistence": "1.8",
		"mystery_key": "whatever",
		"x_freq":      "not-a-number",
	})
	if c.Octaves != 6 {
		t.Fatalf("octaves: got %d", c.Octaves)
	}
	if c.Persistence != 1.8 {
		t.Fatalf("persistence: got %v", c.Persistence)
	}
	if c.XFreq != DefaultFractalConfig().XFreq {
		t.Fatalf("unparsable x_freq must keep default, got %v", c.XFreq)
	}
}
