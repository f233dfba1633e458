package gen

import (
	"math"

	"relief/internal/core"
	rng "relief/pkg/core"
)

// Random draw modes for midpoint displacement.
const (
	DrawAbsolute = "absolute"
	DrawBipolar  = "bipolar"
)

// MidpointConfig parameterizes the diamond-square generator.
type MidpointConfig struct {
	MinHeight float64
	MaxHeight float64
	// Roughness shrinks the random range by 2^(-Roughness) after each scale.
	Roughness float64
	// InitialRange scales the corner-seed random draw.
	InitialRange float64
	// Strength scales the final blend into the height field (additive).
	Strength float64
	// Draw selects the random draw mode: absolute [0,r] or bipolar [-r/2,r/2].
	Draw string
	// UseProtected substitutes live height-field values, mapped through the
	// height range, for protected corners and neighbors during averaging.
	UseProtected bool
	// Normalize rescales the working buffer to [MinHeight,MaxHeight] over
	// free cells; when false values are clamped instead.
	Normalize bool
	Seed      int64
}

// DefaultMidpointConfig returns the standard configuration.
func DefaultMidpointConfig() MidpointConfig {
	return MidpointConfig{
		MinHeight:    0,
		MaxHeight:    1,
		Roughness:    1,
		InitialRange: 0.5,
		Strength:     1,
		Draw:         DrawBipolar,
		UseProtected: true,
		Normalize:    true,
		Seed:         1337,
	}
}

// MidpointFromMap populates a config from flag-style key/value pairs.
func MidpointFromMap(cfg map[string]string) MidpointConfig {
	c := DefaultMidpointConfig()
	if cfg == nil {
		return c
	}
	core.ParseSignedFloat(cfg, "min_height", &c.MinHeight)
	core.ParseSignedFloat(cfg, "max_height", &c.MaxHeight)
	core.ParseFloat(cfg, "roughness", 0, &c.Roughness)
	core.ParseFloat(cfg, "initial_range", 0, &c.InitialRange)
	core.ParseFloat(cfg, "strength", 0, &c.Strength)
	core.ParseString(cfg, "draw", &c.Draw)
	core.ParseBool(cfg, "use_protected", &c.UseProtected)
	core.ParseBool(cfg, "normalize", &c.Normalize)
	core.ParseInt64(cfg, "seed", &c.Seed)
	return c
}

// Midpoint runs diamond-square on a power-of-two-plus-one working buffer and
// blends the result additively into the height field, so it composes with
// earlier pipeline stages.
type Midpoint struct {
	cfg MidpointConfig
}

// NewMidpoint constructs the generator.
func NewMidpoint(cfg MidpointConfig) *Midpoint { return &Midpoint{cfg: cfg} }

// Name returns the registry tag.
func (m *Midpoint) Name() string { return "midpoint" }

// Parameters lists the tunables for the sweep tool and viewer.
func (m *Midpoint) Parameters() core.ParameterSnapshot {
	c := m.cfg
	return core.ParameterSnapshot{
		Name: m.Name(),
		Params: []core.Parameter{
			core.FloatParam("min_height", "Min height", c.MinHeight),
			core.FloatParam("max_height", "Max height", c.MaxHeight),
			core.FloatParam("roughness", "Roughness", c.Roughness),
			core.FloatParam("initial_range", "Initial random range", c.InitialRange),
			core.FloatParam("strength", "Displacement strength", c.Strength),
			core.StringParam("draw", "Random draw mode", c.Draw),
			core.BoolParam("use_protected", "Use protected heights", c.UseProtected),
			core.BoolParam("normalize", "Normalize result", c.Normalize),
			core.Int64Param("seed", "Seed", c.Seed),
		},
	}
}

// Generate runs the displacement. A grid whose effective size rounds to a
// degenerate power of two (≤1) is a silent no-op.
func (m *Midpoint) Generate(g *core.Grid, free core.FreeFunc) {
	c := m.cfg
	size := minInt(g.W, g.H) - 1
	if size < 1 {
		return
	}
	p := 1
	for p < size {
		p <<= 1
	}
	if p <= 1 {
		return
	}
	n := p + 1

	r := rng.NewRNG(c.Seed)
	hRange := c.MaxHeight - c.MinHeight
	mid := (c.MinHeight + c.MaxHeight) / 2
	draw := func(scale float64) float64 {
		if c.Draw == DrawAbsolute {
			return r.Float64() * scale
		}
		return (r.Float64() - 0.5) * scale
	}

	buf := make([]float64, n*n)

	// A corner or neighbor that lands on a protected grid cell contributes
	// the live height-field value mapped through the height range instead of
	// the buffer value.
	sample := func(bx, by int) float64 {
		if c.UseProtected {
			gx := clampInt(bx, 0, g.W-1)
			gy := clampInt(by, 0, g.H-1)
			if !free(gx, gy) {
				return c.MinHeight + g.At(gx, gy)*hRange
			}
		}
		return buf[by*n+bx]
	}

	for _, corner := range [4][2]int{{0, 0}, {p, 0}, {0, p}, {p, p}} {
		buf[corner[1]*n+corner[0]] = mid + draw(c.InitialRange*hRange)
	}

	randRange := hRange
	for step := p; step > 1; step /= 2 {
		half := step / 2

		for y := half; y < n; y += step {
			for x := half; x < n; x += step {
				avg := (sample(x-half, y-half) + sample(x+half, y-half) +
					sample(x-half, y+half) + sample(x+half, y+half)) / 4
				buf[y*n+x] = avg + draw(randRange)
			}
		}

		for y := 0; y < n; y += half {
			for x := (y + half) % step; x < n; x += step {
				sum, count := 0.0, 0
				for _, off := range [4][2]int{{0, -half}, {-half, 0}, {half, 0}, {0, half}} {
					nx, ny := x+off[0], y+off[1]
					if nx < 0 || ny < 0 || nx >= n || ny >= n {
						continue
					}
					sum += sample(nx, ny)
					count++
				}
				buf[y*n+x] = sum/float64(count) + draw(randRange)
			}
		}

		randRange *= math.Pow(2, -c.Roughness)
	}

	m.finish(g, free, buf, n)
}

// finish normalizes or clamps the working buffer, then blends it into the
// free region scaled by Strength.
func (m *Midpoint) finish(g *core.Grid, free core.FreeFunc, buf []float64, n int) {
	c := m.cfg
	w := minInt(n, g.W)
	h := minInt(n, g.H)

	if c.Normalize {
		lo, hi, found := 0.0, 0.0, false
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !free(x, y) {
					continue
				}
				v := buf[y*n+x]
				if !found {
					lo, hi, found = v, v, true
					continue
				}
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
		if found && hi > lo {
			scale := (c.MaxHeight - c.MinHeight) / (hi - lo)
			for i, v := range buf {
				buf[i] = c.MinHeight + (v-lo)*scale
			}
		}
	} else {
		for i, v := range buf {
			buf[i] = math.Min(math.Max(v, c.MinHeight), c.MaxHeight)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if free(x, y) {
				g.Add(x, y, buf[y*n+x]*c.Strength)
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func init() {
	core.RegisterGenerator("midpoint", func(cfg map[string]string) core.Generator {
		return NewMidpoint(MidpointFromMap(cfg))
	})
}
