// Package distfield computes and persists the per-cell step distance to the
// nearest protected cell. The metric is the 8-connected lattice step count,
// not Euclidean distance: callers normalize by the empirical maximum finite
// value, never by a geometric bound.
package distfield

import (
	"errors"

	"relief/internal/core"
)

// ErrDegenerate is returned by consumers that need a normalizable field but
// found one with no protected cells or a zero maximum finite distance.
var ErrDegenerate = errors.New("distfield: field has no usable finite distances")

// Compute runs a multi-source breadth-first search seeded with every protected
// cell at distance 0. Free cells unreachable from any protected cell keep the
// Unreachable sentinel. With no protected cell at all the result is
// all-sentinel; consumers must detect that via Degenerate and refuse.
func Compute(w, h int, free core.FreeFunc) *core.DistanceField {
	field := core.NewDistanceField(w, h)
	w, h = field.W, field.H

	queue := make([]int, 0, w*h/4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !free(x, y) {
				field.Set(x, y, 0)
				queue = append(queue, field.Index(x, y))
			}
		}
	}

	cells := field.Cells()
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x := idx % w
		y := idx / w
		next := cells[idx] + 1
		for _, off := range core.Neighbors8 {
			nx, ny := x+off[0], y+off[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			nIdx := ny*w + nx
			if next < cells[nIdx] {
				cells[nIdx] = next
				queue = append(queue, nIdx)
			}
		}
	}
	return field
}
