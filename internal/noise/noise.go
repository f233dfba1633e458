// Package noise provides the coherent-noise primitives and the fractal
// Brownian motion kernel used by the generators.
package noise

import (
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	rng "relief/pkg/core"
)

// Source is a coherent 2D noise primitive returning values in roughly [-1,1].
type Source interface {
	At(x, y float64) float64
}

type perlinSource struct {
	p *perlin.Perlin
}

// NewPerlin returns a single-octave Perlin source; FBM layers octaves itself.
// Seed 0 resolves through the unseeded convention.
func NewPerlin(seed int64) Source {
	return perlinSource{p: perlin.NewPerlin(2, 2, 1, rng.ResolveSeed(seed))}
}

func (s perlinSource) At(x, y float64) float64 { return s.p.Noise2D(x, y) }

type simplexSource struct {
	n opensimplex.Noise
}

// NewSimplex returns an OpenSimplex source. Seed 0 resolves through the
// unseeded convention.
func NewSimplex(seed int64) Source {
	return simplexSource{n: opensimplex.New(rng.ResolveSeed(seed))}
}

func (s simplexSource) At(x, y float64) float64 { return s.n.Eval2(x, y) }

// FromName builds a source by selector tag; unknown tags fall back to perlin.
func FromName(name string, seed int64) Source {
	if name == "simplex" {
		return NewSimplex(seed)
	}
	return NewPerlin(seed)
}
