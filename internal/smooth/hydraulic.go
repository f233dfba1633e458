package smooth

import (
	"fmt"
	"math"

	"relief/internal/core"
	"relief/internal/distfield"
	rng "relief/pkg/core"
)

// HydraulicConfig parameterizes droplet erosion.
type HydraulicConfig struct {
	Droplets int
	Lifetime int
	// Inertia in [0,1] blends the previous flow direction into the new one;
	// 1 never turns, 0 always follows the negative gradient.
	Inertia        float64
	InitialSpeed   float64
	InitialWater   float64
	CapacityFactor float64
	MinCapacity    float64
	DepositSpeed   float64
	ErodeSpeed     float64
	Evaporation    float64
	Gravity        float64
	// BrushRadius spreads every deposit and erosion over a radial kernel.
	BrushRadius  int
	BrushFalloff float64
	// MaxDepth limits how far erosion may undercut the nearest protected
	// cell's height when close to a protected boundary.
	MaxDepth float64
	// RoadDist is the distance (in cells) over which erosion is damped
	// linearly toward protected cells.
	RoadDist int
	Seed     int64
}

// DefaultHydraulicConfig returns the standard configuration.
func DefaultHydraulicConfig() HydraulicConfig {
	return HydraulicConfig{
		Droplets:       10000,
		Lifetime:       30,
		Inertia:        0.05,
		InitialSpeed:   1,
		InitialWater:   1,
		CapacityFactor: 4,
		MinCapacity:    0.01,
		DepositSpeed:   0.3,
		ErodeSpeed:     0.3,
		Evaporation:    0.01,
		Gravity:        4,
		BrushRadius:    3,
		BrushFalloff:   1,
		MaxDepth:       0.05,
		RoadDist:       6,
		Seed:           1337,
	}
}

// HydraulicFromMap populates a config from flag-style key/value pairs.
func HydraulicFromMap(cfg map[string]string) HydraulicConfig {
	c := DefaultHydraulicConfig()
	if cfg == nil {
		return c
	}
	core.ParseInt(cfg, "droplets", 0, &c.Droplets)
	core.ParseInt(cfg, "lifetime", 1, &c.Lifetime)
	core.ParseFloat(cfg, "inertia", 0, &c.Inertia)
	core.ParseFloat(cfg, "initial_speed", 0, &c.InitialSpeed)
	core.ParseFloat(cfg, "initial_water", 0, &c.InitialWater)
	core.ParseFloat(cfg, "capacity_factor", 0, &c.CapacityFactor)
	core.ParseFloat(cfg, "min_capacity", 0, &c.MinCapacity)
	core.ParseFloat(cfg, "deposit_speed", 0, &c.DepositSpeed)
	core.ParseFloat(cfg, "erode_speed", 0, &c.ErodeSpeed)
	core.ParseFloat(cfg, "evaporation", 0, &c.Evaporation)
	core.ParseFloat(cfg, "gravity", 0, &c.Gravity)
	core.ParseInt(cfg, "brush_radius", 0, &c.BrushRadius)
	core.ParseFloat(cfg, "brush_falloff", 0, &c.BrushFalloff)
	core.ParseFloat(cfg, "max_depth", 0, &c.MaxDepth)
	core.ParseInt(cfg, "road_dist", 1, &c.RoadDist)
	core.ParseInt64(cfg, "seed", &c.Seed)
	return c
}

// Hydraulic simulates independent water droplets that pick up sediment on
// steep descents and deposit it when they slow down or climb. All terrain
// change is damped near protected cells, and erosion is clamped to never
// undercut the nearest protected height by more than MaxDepth, so protected
// grades stay intact.
type Hydraulic struct {
	cfg      HydraulicConfig
	progress core.ProgressFunc

	// Telemetry from the last run, read by the sweep tool.
	EndedEarly int
	Eroded     float64
	Deposited  float64
}

// NewHydraulic constructs the smoother.
func NewHydraulic(cfg HydraulicConfig) *Hydraulic {
	if cfg.Lifetime < 1 {
		cfg.Lifetime = 1
	}
	if cfg.Inertia > 1 {
		cfg.Inertia = 1
	}
	return &Hydraulic{cfg: cfg}
}

// SetProgress installs an optional progress callback for long runs.
func (h *Hydraulic) SetProgress(p core.ProgressFunc) { h.progress = p }

// Name returns the registry tag.
func (h *Hydraulic) Name() string { return "hydraulic" }

// NeedsDistance reports that this smoother requires the distance field for
// road-influence damping.
func (h *Hydraulic) NeedsDistance() bool { return true }

// Parameters lists the tunables for the sweep tool and viewer.
func (h *Hydraulic) Parameters() core.ParameterSnapshot {
	c := h.cfg
	return core.ParameterSnapshot{
		Name: h.Name(),
		Params: []core.Parameter{
			core.IntParam("droplets", "Droplet count", c.Droplets),
			core.IntParam("lifetime", "Max droplet lifetime", c.Lifetime),
			core.FloatParam("inertia", "Inertia", c.Inertia),
			core.FloatParam("capacity_factor", "Capacity factor", c.CapacityFactor),
			core.FloatParam("min_capacity", "Min capacity", c.MinCapacity),
			core.FloatParam("deposit_speed", "Deposit speed", c.DepositSpeed),
			core.FloatParam("erode_speed", "Erode speed", c.ErodeSpeed),
			core.FloatParam("evaporation", "Evaporation", c.Evaporation),
			core.FloatParam("gravity", "Gravity", c.Gravity),
			core.IntParam("brush_radius", "Brush radius", c.BrushRadius),
			core.FloatParam("max_depth", "Max erosion depth", c.MaxDepth),
			core.IntParam("road_dist", "Road influence distance", c.RoadDist),
			core.Int64Param("seed", "Seed", c.Seed),
		},
	}
}

// brushCell is one precomputed kernel offset with its normalized weight.
type brushCell struct {
	dx, dy int
	weight float64
}

// buildBrush precomputes the radial kernel: weight 1-(dist/radius)^falloff,
// normalized to sum to 1.
func buildBrush(radius int, falloff float64) []brushCell {
	if radius < 1 {
		return []brushCell{{0, 0, 1}}
	}
	r := float64(radius)
	var cells []brushCell
	total := 0.0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d > r {
				continue
			}
			w := 1 - math.Pow(d/r, falloff)
			if w <= 0 {
				continue
			}
			cells = append(cells, brushCell{dx, dy, w})
			total += w
		}
	}
	for i := range cells {
		cells[i].weight /= total
	}
	return cells
}

// sampleHeight bilinearly interpolates the height and gradient at a
// continuous position. The integer cell is (xi, yi); u, v are the offsets
// within it.
func sampleHeight(g *core.Grid, px, py float64) (height, gradX, gradY float64) {
	xi := int(px)
	yi := int(py)
	if xi > g.W-2 {
		xi = g.W - 2
	}
	if yi > g.H-2 {
		yi = g.H - 2
	}
	if xi < 0 {
		xi = 0
	}
	if yi < 0 {
		yi = 0
	}
	u := px - float64(xi)
	v := py - float64(yi)

	nw := g.At(xi, yi)
	ne := g.At(xi+1, yi)
	sw := g.At(xi, yi+1)
	se := g.At(xi+1, yi+1)

	gradX = (ne-nw)*(1-v) + (se-sw)*v
	gradY = (sw-nw)*(1-u) + (se-ne)*u
	height = nw*(1-u)*(1-v) + ne*u*(1-v) + sw*(1-u)*v + se*u*v
	return height, gradX, gradY
}

// Smooth runs the droplet simulation.
func (h *Hydraulic) Smooth(g *core.Grid, free core.FreeFunc, dist *core.DistanceField) error {
	if dist == nil {
		return fmt.Errorf("smooth: %s requires a distance field", h.Name())
	}
	if dist.W != g.W || dist.H != g.H {
		return fmt.Errorf("smooth: distance field %dx%d does not match grid %dx%d",
			dist.W, dist.H, g.W, g.H)
	}
	if dist.Degenerate() {
		return distfield.ErrDegenerate
	}
	if g.W < 2 || g.H < 2 {
		return fmt.Errorf("smooth: grid %dx%d too small for droplet simulation", g.W, g.H)
	}

	c := h.cfg
	r := rng.NewRNG(c.Seed)
	brush := buildBrush(c.BrushRadius, c.BrushFalloff)
	h.EndedEarly = 0
	h.Eroded = 0
	h.Deposited = 0

	// Linear road-influence damping: 0 at a protected cell, 1 at RoadDist
	// steps and beyond.
	roadDist := c.RoadDist
	if roadDist < 1 {
		roadDist = 1
	}
	influence := func(x, y int) float64 {
		d := dist.At(x, y)
		if d == core.Unreachable {
			return 1
		}
		f := float64(d) / float64(roadDist)
		if f > 1 {
			return 1
		}
		return f
	}

	for i := 0; i < c.Droplets; i++ {
		h.simulateDroplet(g, free, influence, brush, r)
		if i%1000 == 999 {
			h.progress.Report("hydraulic", i+1, c.Droplets)
		}
	}
	h.progress.Report("hydraulic", c.Droplets, c.Droplets)
	return nil
}

func (h *Hydraulic) simulateDroplet(g *core.Grid, free core.FreeFunc, influence func(x, y int) float64, brush []brushCell, r *rng.RNG) {
	c := h.cfg

	// Start at a uniformly random free cell.
	px, py := -1.0, -1.0
	for attempt := 0; attempt < 32; attempt++ {
		x := r.IntN(g.W)
		y := r.IntN(g.H)
		if free(x, y) {
			px, py = float64(x), float64(y)
			break
		}
	}
	if px < 0 {
		h.EndedEarly++
		return
	}

	dirX, dirY := 0.0, 0.0
	speed := c.InitialSpeed
	water := c.InitialWater
	sediment := 0.0

	for life := 0; life < c.Lifetime; life++ {
		oldH, gradX, gradY := sampleHeight(g, px, py)

		dirX = dirX*c.Inertia - gradX*(1-c.Inertia)
		dirY = dirY*c.Inertia - gradY*(1-c.Inertia)
		length := math.Hypot(dirX, dirY)
		if length < 1e-12 {
			angle := r.Float64() * 2 * math.Pi
			dirX, dirY = math.Cos(angle), math.Sin(angle)
		} else {
			dirX /= length
			dirY /= length
		}

		px += dirX
		py += dirY

		cx, cy := int(px), int(py)
		// Leaving the grid or entering a protected cell ends the droplet.
		// Expected and frequent; never an error.
		if px < 0 || py < 0 || !g.InBounds(cx, cy) || !free(cx, cy) {
			h.EndedEarly++
			return
		}

		newH, _, _ := sampleHeight(g, px, py)
		delta := newH - oldH

		capacity := c.CapacityFactor * speed * water * math.Abs(delta)
		if capacity < c.MinCapacity {
			capacity = c.MinCapacity
		}

		switch {
		case delta > 0:
			// Moving uphill: fill the pit behind the droplet.
			amount := math.Min(delta, sediment)
			sediment -= h.applyBrush(g, free, influence, brush, cx, cy, amount)
		case sediment > capacity:
			amount := (sediment - capacity) * c.DepositSpeed
			sediment -= h.applyBrush(g, free, influence, brush, cx, cy, amount)
		default:
			amount := math.Min((capacity-sediment)*c.ErodeSpeed, -delta)
			amount *= influence(cx, cy)
			sediment += -h.applyBrush(g, free, influence, brush, cx, cy, -amount)
			h.clampUndercut(g, free, cx, cy)
		}

		speed = math.Sqrt(math.Max(0, speed*speed+delta*c.Gravity))
		water *= 1 - c.Evaporation
		if water < 1e-3 {
			return
		}
	}
}

// applyBrush distributes amount (positive deposits, negative erodes) through
// the kernel centered on (cx, cy), skipping protected and out-of-bounds cells
// and re-damping each distributed amount per brush cell by road influence. It
// returns the net elevation change actually applied.
func (h *Hydraulic) applyBrush(g *core.Grid, free core.FreeFunc, influence func(x, y int) float64, brush []brushCell, cx, cy int, amount float64) float64 {
	applied := 0.0
	for _, b := range brush {
		x, y := cx+b.dx, cy+b.dy
		if !g.InBounds(x, y) || !free(x, y) {
			continue
		}
		dv := amount * b.weight * influence(x, y)
		g.Add(x, y, dv)
		applied += dv
	}
	if applied > 0 {
		h.Deposited += applied
	} else {
		h.Eroded += -applied
	}
	return applied
}

// clampUndercut prevents erosion near a protected boundary from digging below
// the nearest protected height minus MaxDepth.
func (h *Hydraulic) clampUndercut(g *core.Grid, free core.FreeFunc, cx, cy int) {
	c := h.cfg
	roadDist := c.RoadDist
	if roadDist < 1 {
		roadDist = 1
	}
	visitCap := (2*roadDist + 1) * (2*roadDist + 1)
	protectedH, d, ok := NearestProtected(g, free, cx, cy, visitCap)
	if !ok {
		return
	}
	// Only cells within half the road-influence distance are clamped.
	if float64(d) > float64(roadDist)/2 {
		return
	}
	floor := protectedH - c.MaxDepth
	if g.At(cx, cy) < floor {
		g.Set(cx, cy, floor)
	}
}

func init() {
	core.RegisterSmoother("hydraulic", func(cfg map[string]string) core.Smoother {
		return NewHydraulic(HydraulicFromMap(cfg))
	})
}
