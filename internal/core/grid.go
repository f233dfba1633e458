package core

// FreeFunc is the protection predicate: it reports whether the cell at (x, y)
// may be modified. Cells where it returns false are fixed boundary conditions.
// Implementations must be pure and cheap; a transform evaluates the predicate
// millions of times.
type FreeFunc func(x, y int) bool

// AllFree is the predicate that permits modification everywhere.
func AllFree(int, int) bool { return true }

// Grid stores a 2D height field of float64 elevations in row-major order.
// Values are conventionally in [0,1]; generators may transiently exceed that
// range before normalization.
type Grid struct {
	W, H int
	data []float64
}

// NewGrid allocates a height field with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]float64, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []float64 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the elevation at (x, y). The caller must ensure bounds.
func (g *Grid) At(x, y int) float64 { return g.data[y*g.W+x] }

// Set writes the elevation at (x, y). The caller must ensure bounds.
func (g *Grid) Set(x, y int, v float64) { g.data[y*g.W+x] = v }

// Add accumulates dv into the elevation at (x, y).
func (g *Grid) Add(x, y int, dv float64) { g.data[y*g.W+x] += dv }

// Snapshot returns a deep copy of the current elevations. Smoothers take one
// before a pass so in-pass updates do not see each other.
func (g *Grid) Snapshot() []float64 {
	return append([]float64(nil), g.data...)
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Neighbors8 holds the 8-connected offset set shared by the distance field and
// the neighborhood-averaging smoothers.
var Neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
