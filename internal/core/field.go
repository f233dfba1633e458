package core

import "math"

// Unreachable marks cells with no path to any protected cell.
const Unreachable int32 = math.MaxInt32

// DistanceField stores, for every cell, the minimum number of 8-connected
// steps to the nearest protected cell. Protected cells hold 0; cells with no
// reachable protected cell hold Unreachable. This is a lattice step count, not
// Euclidean distance; consumers normalize by MaxFinite, never by a theoretical
// bound.
type DistanceField struct {
	W, H int
	data []int32
}

// NewDistanceField allocates a field with every cell set to Unreachable.
func NewDistanceField(w, h int) *DistanceField {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	data := make([]int32, w*h)
	for i := range data {
		data[i] = Unreachable
	}
	return &DistanceField{W: w, H: h, data: data}
}

// Cells exposes the backing slice.
func (f *DistanceField) Cells() []int32 { return f.data }

// Index returns the linear slice index for coordinates (x, y).
func (f *DistanceField) Index(x, y int) int { return y*f.W + x }

// At returns the distance at (x, y). The caller must ensure bounds.
func (f *DistanceField) At(x, y int) int32 { return f.data[y*f.W+x] }

// Set writes the distance at (x, y). The caller must ensure bounds.
func (f *DistanceField) Set(x, y int, d int32) { f.data[y*f.W+x] = d }

// MaxFinite returns the largest non-sentinel distance in the field. The second
// return is false when the field holds no finite value at all.
func (f *DistanceField) MaxFinite() (int32, bool) {
	var best int32
	found := false
	for _, d := range f.data {
		if d == Unreachable {
			continue
		}
		found = true
		if d > best {
			best = d
		}
	}
	return best, found
}

// Degenerate reports whether the field cannot be normalized: either no cell is
// protected (all sentinel) or the maximum finite distance is zero.
func (f *DistanceField) Degenerate() bool {
	max, ok := f.MaxFinite()
	return !ok || max == 0
}

// Normalized returns the distance at (x, y) divided by max, clamped to [0,1].
// Sentinel cells map to 1. The caller must ensure max > 0.
func (f *DistanceField) Normalized(x, y int, max int32) float64 {
	d := f.data[y*f.W+x]
	if d == Unreachable || d >= max {
		return 1
	}
	return float64(d) / float64(max)
}
