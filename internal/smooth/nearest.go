package smooth

import "relief/internal/core"

// NearestProtected runs a small breadth-first search from (x, y) over the
// 8-connected neighborhood, bounded by a visited-cell cap, and returns the
// height and step distance of the nearest protected cell. ok is false when
// the cap is exhausted without reaching one.
func NearestProtected(g *core.Grid, free core.FreeFunc, x, y, maxVisits int) (height float64, dist int, ok bool) {
	if !g.InBounds(x, y) {
		return 0, 0, false
	}
	if !free(x, y) {
		return g.At(x, y), 0, true
	}
	if maxVisits <= 0 {
		return 0, 0, false
	}

	type node struct{ x, y, d int }
	visited := map[int]bool{g.Index(x, y): true}
	queue := []node{{x, y, 0}}

	for head := 0; head < len(queue) && len(visited) < maxVisits; head++ {
		cur := queue[head]
		for _, off := range core.Neighbors8 {
			nx, ny := cur.x+off[0], cur.y+off[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			idx := g.Index(nx, ny)
			if visited[idx] {
				continue
			}
			visited[idx] = true
			if !free(nx, ny) {
				return g.At(nx, ny), cur.d + 1, true
			}
			queue = append(queue, node{nx, ny, cur.d + 1})
		}
	}
	return 0, 0, false
}
