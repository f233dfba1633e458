package smooth

import (
	"math"
	"slices"
	"testing"

	"relief/internal/core"
	"relief/internal/distfield"
)

func borderProtected(w, h int) core.FreeFunc {
	return func(x, y int) bool {
		return x > 0 && y > 0 && x < w-1 && y < h-1
	}
}

func gridSum(g *core.Grid) float64 {
	sum := 0.0
	for _, v := range g.Cells() {
		sum += v
	}
	return sum
}

func TestBoxFlatRegionIsFixedPoint(t *testing.T) {
	g := core.NewGrid(9, 9)
	g.Fill(0.37)

	if err := NewBox(BoxConfig{Iterations: 5}).Smooth(g, core.AllFree, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	for i, v := range g.Cells() {
		if math.Abs(v-0.37) > 1e-12 {
			t.Fatalf("cell %d: flat region changed to %v", i, v)
		}
	}
}

func TestBoxIterationFloor(t *testing.T) {
	b := NewBox(BoxConfig{Iterations: 0})
	g := core.NewGrid(5, 5)
	g.Set(2, 2, 1)

	if err := b.Smooth(g, core.AllFree, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if g.At(2, 2) == 1 {
		t.Fatal("iterations below 1 must clamp to a single pass, not zero")
	}
}

func TestBoxUsesSnapshot(t *testing.T) {
	// One pass over a single spike: every neighbor must see the same
	// pre-pass value, so the result is symmetric.
	g := core.NewGrid(5, 5)
	g.Set(2, 2, 0.9)

	if err := NewBox(DefaultBoxConfig()).Smooth(g, core.AllFree, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if g.At(1, 2) != g.At(3, 2) || g.At(2, 1) != g.At(2, 3) {
		t.Fatal("in-pass updates leaked into the same pass")
	}
}

func TestThermalConservation(t *testing.T) {
	free := borderProtected(16, 16)
	g := core.NewGrid(16, 16)
	for i := range g.Cells() {
		g.Cells()[i] = float64((i*31)%17) / 17
	}
	before := gridSum(g)

	cfg := ThermalConfig{Iterations: 12, Talus: 0.02, Rate: 0.3}
	if err := NewThermal(cfg).Smooth(g, free, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if diff := math.Abs(gridSum(g) - before); diff > 1e-9 {
		t.Fatalf("total elevation changed by %g", diff)
	}
}

func TestThermalSpreadsSpike(t *testing.T) {
	g := core.NewGrid(5, 5)
	g.Set(0, 0, 1)

	cfg := ThermalConfig{Iterations: 1, Talus: 0.1, Rate: 0.5}
	if err := NewThermal(cfg).Smooth(g, core.AllFree, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}

	if g.At(0, 0) >= 1 {
		t.Fatalf("spike should drop, still %v", g.At(0, 0))
	}
	for _, n := range [][2]int{{1, 0}, {0, 1}, {1, 1}} {
		if g.At(n[0], n[1]) <= 0 {
			t.Fatalf("neighbor (%d,%d) should rise, got %v", n[0], n[1], g.At(n[0], n[1]))
		}
	}
	if diff := math.Abs(gridSum(g) - 1); diff > 1e-12 {
		t.Fatalf("sum should stay 1.0, off by %g", diff)
	}
}

func TestThermalRoadAwareConserves(t *testing.T) {
	free := borderProtected(12, 12)
	g := core.NewGrid(12, 12)
	for i := range g.Cells() {
		g.Cells()[i] = float64(i%9) * 0.1
	}
	before := gridSum(g)

	cfg := DefaultThermalConfig()
	cfg.RoadAware = true
	cfg.Iterations = 5
	if err := NewThermal(cfg).Smooth(g, free, nil); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if diff := math.Abs(gridSum(g) - before); diff > 1e-9 {
		t.Fatalf("road-aware transfers must conserve, off by %g", diff)
	}
}

func TestSmoothersRespectMask(t *testing.T) {
	free := func(x, y int) bool { return x%3 != 0 }
	field := distfield.Compute(15, 15, free)

	builders := map[string]core.Smoother{
		"box":       NewBox(BoxConfig{Iterations: 3}),
		"distance":  NewDistance(DefaultDistanceConfig()),
		"thermal":   NewThermal(ThermalConfig{Iterations: 3, Talus: 0.01, Rate: 0.4}),
		"hydraulic": NewHydraulic(smallHydraulicConfig()),
	}

	for name, s := range builders {
		g := core.NewGrid(15, 15)
		for i := range g.Cells() {
			g.Cells()[i] = float64(i%11) * 0.09
		}
		before := g.Snapshot()

		if err := s.Smooth(g, free, field); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if free(x, y) {
					continue
				}
				idx := g.Index(x, y)
				if g.Cells()[idx] != before[idx] {
					t.Fatalf("%s modified protected cell (%d,%d)", name, x, y)
				}
			}
		}
	}
}

func smallHydraulicConfig() HydraulicConfig {
	cfg := DefaultHydraulicConfig()
	cfg.Droplets = 200
	cfg.Lifetime = 15
	cfg.BrushRadius = 2
	cfg.Seed = 3
	return cfg
}

func TestDistanceRequiresField(t *testing.T) {
	g := core.NewGrid(8, 8)
	g.Set(3, 3, 0.5)
	before := g.Snapshot()

	if err := NewDistance(DefaultDistanceConfig()).Smooth(g, core.AllFree, nil); err == nil {
		t.Fatal("expected error without a distance field")
	}
	if !slices.Equal(before, g.Cells()) {
		t.Fatal("failed run must not mutate the grid")
	}
}

func TestDistanceRejectsDegenerateField(t *testing.T) {
	g := core.NewGrid(8, 8)
	g.Set(3, 3, 0.5)
	before := g.Snapshot()

	field := distfield.Compute(8, 8, core.AllFree)
	err := NewDistance(DefaultDistanceConfig()).Smooth(g, core.AllFree, field)
	if err != distfield.ErrDegenerate {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if !slices.Equal(before, g.Cells()) {
		t.Fatal("degenerate run must not mutate the grid")
	}
}

func TestDistanceSmoothsHarderNearBoundary(t *testing.T) {
	free := borderProtected(17, 17)
	field := distfield.Compute(17, 17, free)

	g := core.NewGrid(17, 17)
	for y := 0; y < 17; y++ {
		for x := 0; x < 17; x++ {
			g.Set(x, y, float64((x+y)%2))
		}
	}

	nearBefore := g.At(1, 8)
	farBefore := g.At(8, 8)

	cfg := DefaultDistanceConfig()
	cfg.Profile = ProfilePower
	cfg.Power = 3
	if err := NewDistance(cfg).Smooth(g, free, field); err != nil {
		t.Fatalf("smooth: %v", err)
	}

	nearChange := math.Abs(g.At(1, 8) - nearBefore)
	farChange := math.Abs(g.At(8, 8) - farBefore)
	if nearChange <= farChange {
		t.Fatalf("boundary cell should smooth more: near=%g far=%g", nearChange, farChange)
	}
}

func TestHydraulicRequiresField(t *testing.T) {
	g := core.NewGrid(8, 8)
	before := g.Snapshot()

	if err := NewHydraulic(smallHydraulicConfig()).Smooth(g, core.AllFree, nil); err == nil {
		t.Fatal("expected error without a distance field")
	}
	if !slices.Equal(before, g.Cells()) {
		t.Fatal("failed run must not mutate the grid")
	}
}

func TestHydraulicErodesSlope(t *testing.T) {
	free := borderProtected(32, 32)
	field := distfield.Compute(32, 32, free)

	g := core.NewGrid(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			g.Set(x, y, float64(x)/32)
		}
	}
	before := g.Snapshot()

	h := NewHydraulic(smallHydraulicConfig())
	if err := h.Smooth(g, free, field); err != nil {
		t.Fatalf("smooth: %v", err)
	}

	if slices.Equal(before, g.Cells()) {
		t.Fatal("erosion changed nothing on a uniform slope")
	}
	if h.Eroded <= 0 {
		t.Fatal("expected positive eroded telemetry")
	}
}

func TestHydraulicBrushDampsDepositsNearBoundary(t *testing.T) {
	free := func(x, y int) bool { return x > 0 }
	field := distfield.Compute(16, 16, free)
	influence := func(x, y int) float64 {
		f := float64(field.At(x, y)) / 6
		if f > 1 {
			return 1
		}
		return f
	}

	h := NewHydraulic(smallHydraulicConfig())
	brush := buildBrush(2, 1)
	g := core.NewGrid(16, 16)

	near := h.applyBrush(g, free, influence, brush, 2, 8, 0.5)
	far := h.applyBrush(g, free, influence, brush, 12, 8, 0.5)
	if near >= far {
		t.Fatalf("deposit near the boundary should be damped: near=%g far=%g", near, far)
	}
}

func TestHydraulicDeterministicPerSeed(t *testing.T) {
	free := borderProtected(24, 24)
	field := distfield.Compute(24, 24, free)

	run := func() []float64 {
		g := core.NewGrid(24, 24)
		for y := 0; y < 24; y++ {
			for x := 0; x < 24; x++ {
				g.Set(x, y, float64(y)/24)
			}
		}
		if err := NewHydraulic(smallHydraulicConfig()).Smooth(g, free, field); err != nil {
			t.Fatalf("smooth: %v", err)
		}
		return g.Cells()
	}

	if !slices.Equal(run(), run()) {
		t.Fatal("fixed non-zero seed must reproduce identical output")
	}
}

func TestNearestProtectedFindsBoundary(t *testing.T) {
	free := func(x, y int) bool { return !(x == 0 && y == 0) }
	g := core.NewGrid(10, 10)
	g.Set(0, 0, 0.8)

	height, d, ok := NearestProtected(g, free, 3, 0, 200)
	if !ok {
		t.Fatal("expected to reach the protected cell")
	}
	if d != 3 {
		t.Fatalf("step distance: got %d, want 3", d)
	}
	if height != 0.8 {
		t.Fatalf("protected height: got %v", height)
	}

	if _, _, ok := NearestProtected(g, free, 9, 9, 4); ok {
		t.Fatal("visited cap should exhaust before reaching the corner")
	}
}
