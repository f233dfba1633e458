package distfield

import (
	"path/filepath"
	"slices"
	"testing"

	"relief/internal/core"
)

func centerProtected3x3(x, y int) bool { return !(x == 1 && y == 1) }

func TestComputeCenterProtected(t *testing.T) {
	field := Compute(3, 3, centerProtected3x3)

	want := []int32{1, 1, 1, 1, 0, 1, 1, 1, 1}
	if !slices.Equal(field.Cells(), want) {
		t.Fatalf("distance field mismatch: got %v want %v", field.Cells(), want)
	}
}

func TestComputeZeroIffProtected(t *testing.T) {
	free := func(x, y int) bool { return x > 2 || y == 4 }
	field := Compute(8, 6, free)

	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			d := field.At(x, y)
			if free(x, y) && d == 0 {
				t.Fatalf("free cell (%d,%d) has distance 0", x, y)
			}
			if !free(x, y) && d != 0 {
				t.Fatalf("protected cell (%d,%d) has distance %d", x, y, d)
			}
		}
	}
}

func TestComputeNeighborRecurrence(t *testing.T) {
	free := func(x, y int) bool { return !(x == 0 && y == 0) && !(x == 7 && y == 9) }
	field := Compute(8, 10, free)

	for y := 0; y < 10; y++ {
		for x := 0; x < 8; x++ {
			d := field.At(x, y)
			if d == 0 || d == core.Unreachable {
				continue
			}
			best := core.Unreachable
			for _, off := range core.Neighbors8 {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || ny < 0 || nx >= 8 || ny >= 10 {
					continue
				}
				if nd := field.At(nx, ny); nd < best {
					best = nd
				}
			}
			if d != best+1 {
				t.Fatalf("cell (%d,%d): distance %d, min neighbor %d", x, y, d, best)
			}
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	free := func(x, y int) bool { return (x+y)%5 != 0 }
	a := Compute(17, 13, free)
	b := Compute(17, 13, free)
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("two computations over the same predicate disagree")
	}
}

func TestComputeAllFreeIsAllSentinel(t *testing.T) {
	field := Compute(4, 4, core.AllFree)
	for i, d := range field.Cells() {
		if d != core.Unreachable {
			t.Fatalf("cell %d: got %d, want sentinel", i, d)
		}
	}
	if !field.Degenerate() {
		t.Fatal("all-sentinel field must report degenerate")
	}
	if _, ok := field.MaxFinite(); ok {
		t.Fatal("all-sentinel field must have no finite maximum")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	field := Compute(5, 4, func(x, y int) bool { return x != 2 })

	decoded, err := Decode(Encode(field))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.W != 5 || decoded.H != 4 {
		t.Fatalf("decoded resolution %dx%d", decoded.W, decoded.H)
	}
	if !slices.Equal(decoded.Cells(), field.Cells()) {
		t.Fatal("round trip changed distances")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	blob := Encode(Compute(3, 3, centerProtected3x3))
	if _, err := Decode(blob[:len(blob)-4]); err == nil {
		t.Fatal("expected error for truncated blob")
	}
	if _, err := Decode(blob[:5]); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestCacheRejectsResolutionMismatch(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "df"))
	field := Compute(6, 6, centerProtected3x3)
	if err := cache.Save("scene", field); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := cache.Load("scene", 6, 6); err != nil {
		t.Fatalf("load same resolution: %v", err)
	}
	if _, err := cache.Load("scene", 8, 8); err == nil {
		t.Fatal("expected mismatched resolution to be rejected")
	}
}

func TestEnsureComputesAndReuses(t *testing.T) {
	cache := NewCache(t.TempDir())
	free := centerProtected3x3

	first, err := Ensure(cache, "k", 3, 3, free)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// A second Ensure must serve the persisted copy even with a predicate
	// that would produce a different field.
	second, err := Ensure(cache, "k", 3, 3, core.AllFree)
	if err != nil {
		t.Fatalf("ensure cached: %v", err)
	}
	if !slices.Equal(first.Cells(), second.Cells()) {
		t.Fatal("cached field not reused")
	}

	if err := cache.Invalidate("k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	third, err := Ensure(cache, "k", 3, 3, core.AllFree)
	if err != nil {
		t.Fatalf("ensure after invalidate: %v", err)
	}
	if !third.Degenerate() {
		t.Fatal("invalidate must force recomputation")
	}
}
