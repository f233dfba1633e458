package gen

import (
	"relief/internal/core"
	"relief/internal/noise"
)

// FractalConfig parameterizes the fBM generator.
type FractalConfig struct {
	XFreq       float64
	YFreq       float64
	XOffset     float64
	YOffset     float64
	Octaves     int
	Persistence float64
	Amplitude   float64
	// Source selects the base noise primitive: "perlin" or "simplex".
	Source string
	Seed   int64
}

// DefaultFractalConfig returns the standard configuration.
func DefaultFractalConfig() FractalConfig {
	return FractalConfig{
		XFreq:       0.02,
		YFreq:       0.02,
		Octaves:     4,
		Persistence: 0.5,
		Amplitude:   1,
		Source:      "perlin",
		Seed:        1337,
	}
}

// FractalFromMap populates a config from flag-style key/value pairs.
func FractalFromMap(cfg map[string]string) FractalConfig {
	c := DefaultFractalConfig()
	if cfg == nil {
		return c
	}
	core.ParseFloat(cfg, "x_freq", 0, &c.XFreq)
	core.ParseFloat(cfg, "y_freq", 0, &c.YFreq)
	core.ParseSignedFloat(cfg, "x_offset", &c.XOffset)
	core.ParseSignedFloat(cfg, "y_offset", &c.YOffset)
	core.ParseInt(cfg, "octaves", 1, &c.Octaves)
	core.ParseFloat(cfg, "persistence", 0, &c.Persistence)
	core.ParseSignedFloat(cfg, "amplitude", &c.Amplitude)
	core.ParseString(cfg, "source", &c.Source)
	core.ParseInt64(cfg, "seed", &c.Seed)
	return c
}

// Fractal layers coherent noise over the free region.
type Fractal struct {
	cfg FractalConfig
	src noise.Source
}

// NewFractal constructs the generator, binding the noise source to the seed.
func NewFractal(cfg FractalConfig) *Fractal {
	return &Fractal{cfg: cfg, src: noise.FromName(cfg.Source, cfg.Seed)}
}

// Name returns the registry tag.
func (f *Fractal) Name() string { return "fractal" }

// Parameters lists the tunables for the sweep tool and viewer.
func (f *Fractal) Parameters() core.ParameterSnapshot {
	c := f.cfg
	return core.ParameterSnapshot{
		Name: f.Name(),
		Params: []core.Parameter{
			core.FloatParam("x_freq", "X frequency", c.XFreq),
			core.FloatParam("y_freq", "Y frequency", c.YFreq),
			core.FloatParam("x_offset", "X offset", c.XOffset),
			core.FloatParam("y_offset", "Y offset", c.YOffset),
			core.IntParam("octaves", "Octaves", c.Octaves),
			core.FloatParam("persistence", "Persistence", c.Persistence),
			core.FloatParam("amplitude", "Amplitude", c.Amplitude),
			core.StringParam("source", "Noise source", c.Source),
			core.Int64Param("seed", "Seed", c.Seed),
		},
	}
}

// Generate adds fbm((x+xo)*xf, (y+yo)*yf) * amplitude to every free cell.
func (f *Fractal) Generate(g *core.Grid, free core.FreeFunc) {
	c := f.cfg
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if !free(x, y) {
				continue
			}
			nx := (float64(x) + c.XOffset) * c.XFreq
			ny := (float64(y) + c.YOffset) * c.YFreq
			g.Add(x, y, noise.FBM(f.src, nx, ny, c.Octaves, c.Persistence)*c.Amplitude)
		}
	}
}

func init() {
	core.RegisterGenerator("fractal", func(cfg map[string]string) core.Generator {
		return NewFractal(FractalFromMap(cfg))
	})
}
