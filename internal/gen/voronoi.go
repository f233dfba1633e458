package gen

import (
	"math"

	"relief/internal/core"
	"relief/internal/noise"
	rng "relief/pkg/core"
)

// Voronoi peak falloff profiles.
const (
	ProfileLinear   = "linear"
	ProfilePower    = "power"
	ProfileCombined = "combined"
	ProfileSinPower = "sinpower"
	ProfileFractal  = "fractal"
)

// VoronoiConfig parameterizes the random-peak generator.
type VoronoiConfig struct {
	Peaks     int
	MinHeight float64
	MaxHeight float64
	FallRate  float64
	DropOff   float64
	Profile   string

	// Noise settings for the fractal-modulated profile.
	Amplitude   float64
	XFreq       float64
	YFreq       float64
	Octaves     int
	Persistence float64
	Source      string

	Seed int64
}

// DefaultVoronoiConfig returns the standard configuration.
func DefaultVoronoiConfig() VoronoiConfig {
	return VoronoiConfig{
		Peaks:       12,
		MinHeight:   0.4,
		MaxHeight:   0.9,
		FallRate:    1.5,
		DropOff:     2,
		Profile:     ProfileLinear,
		Amplitude:   1,
		XFreq:       0.05,
		YFreq:       0.05,
		Octaves:     3,
		Persistence: 0.5,
		Source:      "perlin",
		Seed:        1337,
	}
}

// VoronoiFromMap populates a config from flag-style key/value pairs.
func VoronoiFromMap(cfg map[string]string) VoronoiConfig {
	c := DefaultVoronoiConfig()
	if cfg == nil {
		return c
	}
	core.ParseInt(cfg, "peaks", 0, &c.Peaks)
	core.ParseSignedFloat(cfg, "min_height", &c.MinHeight)
	core.ParseSignedFloat(cfg, "max_height", &c.MaxHeight)
	core.ParseSignedFloat(cfg, "fall_rate", &c.FallRate)
	core.ParseSignedFloat(cfg, "drop_off", &c.DropOff)
	core.ParseString(cfg, "profile", &c.Profile)
	core.ParseSignedFloat(cfg, "amplitude", &c.Amplitude)
	core.ParseFloat(cfg, "x_freq", 0, &c.XFreq)
	core.ParseFloat(cfg, "y_freq", 0, &c.YFreq)
	core.ParseInt(cfg, "octaves", 1, &c.Octaves)
	core.ParseFloat(cfg, "persistence", 0, &c.Persistence)
	core.ParseString(cfg, "source", &c.Source)
	core.ParseInt64(cfg, "seed", &c.Seed)
	return c
}

// Voronoi raises random peaks with a configurable falloff profile. Peaks only
// ever raise terrain: a cell changes only when the candidate elevation exceeds
// its current value, across the whole pass. Combined with earlier pipeline
// stages this is order-dependent on purpose; pipeline order is the contract.
type Voronoi struct {
	cfg VoronoiConfig
	src noise.Source
}

// NewVoronoi constructs the generator.
func NewVoronoi(cfg VoronoiConfig) *Voronoi {
	return &Voronoi{cfg: cfg, src: noise.FromName(cfg.Source, cfg.Seed)}
}

// Name returns the registry tag.
func (v *Voronoi) Name() string { return "voronoi" }

// Generate places cfg.Peaks random peaks over the free region.
func (v *Voronoi) Generate(g *core.Grid, free core.FreeFunc) {
	c := v.cfg
	r := rng.NewRNG(c.Seed)
	diag := math.Hypot(float64(g.W), float64(g.H))
	if diag == 0 {
		return
	}

	for p := 0; p < c.Peaks; p++ {
		px := r.IntN(g.W)
		py := r.IntN(g.H)
		peak := r.Range(c.MinHeight, c.MaxHeight)

		// An already-taller site would carve a divot around itself; skip
		// the whole peak instead.
		if g.At(px, py) >= peak {
			continue
		}
		if free(px, py) {
			g.Set(px, py, peak)
		}

		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if x == px && y == py {
					continue
				}
				d := math.Hypot(float64(x-px), float64(y-py)) / diag
				h := v.profileHeight(peak, d, x, y)
				if free(x, y) && h > g.At(x, y) {
					g.Set(x, y, h)
				}
			}
		}
	}
}

func (v *Voronoi) profileHeight(peak, d float64, x, y int) float64 {
	c := v.cfg
	switch c.Profile {
	case ProfilePower:
		return peak - math.Pow(d, c.DropOff)*c.FallRate
	case ProfileCombined:
		return peak - d*c.FallRate - math.Pow(d, c.DropOff)
	case ProfileSinPower:
		return peak - math.Pow(3*d, c.FallRate) - math.Sin(2*math.Pi*d)/c.DropOff
	case ProfileFractal:
		n := noise.FBM(v.src, float64(x)*c.XFreq, float64(y)*c.YFreq, c.Octaves, c.Persistence)
		return peak - d*c.FallRate*n*c.Amplitude
	default:
		return (peak - d) * c.FallRate
	}
}

func init() {
	core.RegisterGenerator("voronoi", func(cfg map[string]string) core.Generator {
		return NewVoronoi(VoronoiFromMap(cfg))
	})
}
