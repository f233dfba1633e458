package smooth

import (
	"fmt"
	"math"

	"relief/internal/core"
	"relief/internal/distfield"
)

// Distance-weighted smoothing profiles.
const (
	ProfileDual  = "dual"
	ProfilePower = "power"
)

// DistanceConfig parameterizes the distance-weighted smoother.
type DistanceConfig struct {
	Iterations int
	// Profile selects the strength curve over normalized distance: "dual"
	// keeps full strength below Threshold then falls off by Power; "power"
	// is a single power law over the whole range.
	Profile   string
	Threshold float64
	Power     float64
	// Bias adds multiplicative weight to neighbors nearer a protected cell,
	// pulling terrain toward protected-area height.
	Bias float64
	// PreserveDetail blends the smoothed value back toward the original in
	// cells with high local elevation variance.
	PreserveDetail bool
	DetailScale    float64
}

// DefaultDistanceConfig returns the standard configuration.
func DefaultDistanceConfig() DistanceConfig {
	return DistanceConfig{
		Iterations:     1,
		Profile:        ProfileDual,
		Threshold:      0.2,
		Power:          2,
		Bias:           1,
		PreserveDetail: false,
		DetailScale:    50,
	}
}

// DistanceFromMap populates a config from flag-style key/value pairs.
func DistanceFromMap(cfg map[string]string) DistanceConfig {
	c := DefaultDistanceConfig()
	if cfg == nil {
		return c
	}
	core.ParseInt(cfg, "iterations", 1, &c.Iterations)
	core.ParseString(cfg, "profile", &c.Profile)
	core.ParseFloat(cfg, "threshold", 0, &c.Threshold)
	core.ParseFloat(cfg, "power", 0, &c.Power)
	core.ParseFloat(cfg, "bias", 0, &c.Bias)
	core.ParseBool(cfg, "preserve_detail", &c.PreserveDetail)
	core.ParseFloat(cfg, "detail_scale", 0, &c.DetailScale)
	return c
}

// Distance smooths the free region with per-cell strength derived from the
// normalized distance to the nearest protected cell: terrain near protected
// boundaries is relaxed hard toward boundary grades, terrain far away keeps
// its shape.
type Distance struct {
	cfg DistanceConfig
}

// NewDistance constructs the smoother.
func NewDistance(cfg DistanceConfig) *Distance {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.Threshold >= 1 {
		cfg.Threshold = 0.999
	}
	return &Distance{cfg: cfg}
}

// Name returns the registry tag.
func (d *Distance) Name() string { return "distance" }

// NeedsDistance reports that this smoother requires the distance field.
func (d *Distance) NeedsDistance() bool { return true }

// strength maps a normalized distance to smoothing strength in [0,1].
func (d *Distance) strength(nd float64) float64 {
	c := d.cfg
	if c.Profile == ProfilePower {
		return math.Pow(1-nd, c.Power)
	}
	if nd < c.Threshold {
		return 1
	}
	return math.Pow((1-nd)/(1-c.Threshold), c.Power)
}

// Smooth runs the configured number of weighted passes.
func (d *Distance) Smooth(g *core.Grid, free core.FreeFunc, dist *core.DistanceField) error {
	if dist == nil {
		return fmt.Errorf("smooth: %s requires a distance field", d.Name())
	}
	if dist.W != g.W || dist.H != g.H {
		return fmt.Errorf("smooth: distance field %dx%d does not match grid %dx%d",
			dist.W, dist.H, g.W, g.H)
	}
	max, ok := dist.MaxFinite()
	if !ok || max == 0 {
		return distfield.ErrDegenerate
	}

	c := d.cfg
	for iter := 0; iter < c.Iterations; iter++ {
		prev := g.Snapshot()
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if !free(x, y) {
					continue
				}
				nd := dist.Normalized(x, y, max)
				s := d.strength(nd)
				if s <= 0 {
					continue
				}

				orig := prev[g.Index(x, y)]
				sum := orig
				weight := 1.0
				for _, off := range core.Neighbors8 {
					nx, ny := x+off[0], y+off[1]
					if !g.InBounds(nx, ny) {
						continue
					}
					// Neighbors nearer a protected cell pull harder.
					w := 1 + c.Bias*(1-dist.Normalized(nx, ny, max))
					sum += prev[g.Index(nx, ny)] * w
					weight += w
				}
				smoothed := sum / weight
				result := orig + (smoothed-orig)*s

				if c.PreserveDetail {
					keep := math.Min(localVariance(prev, g, x, y)*c.DetailScale, 1)
					result = result + (orig-result)*keep
				}
				g.Set(x, y, result)
			}
		}
	}
	return nil
}

// localVariance computes the elevation variance of the 3x3 neighborhood.
func localVariance(prev []float64, g *core.Grid, x, y int) float64 {
	sum, count := prev[g.Index(x, y)], 1.0
	for _, off := range core.Neighbors8 {
		nx, ny := x+off[0], y+off[1]
		if !g.InBounds(nx, ny) {
			continue
		}
		sum += prev[g.Index(nx, ny)]
		count++
	}
	mean := sum / count

	varSum := 0.0
	dv := prev[g.Index(x, y)] - mean
	varSum += dv * dv
	for _, off := range core.Neighbors8 {
		nx, ny := x+off[0], y+off[1]
		if !g.InBounds(nx, ny) {
			continue
		}
		dv := prev[g.Index(nx, ny)] - mean
		varSum += dv * dv
	}
	return varSum / count
}

func init() {
	core.RegisterSmoother("distance", func(cfg map[string]string) core.Smoother {
		return NewDistance(DistanceFromMap(cfg))
	})
}
