// Package mask derives protection predicates from raster masks and computes
// the cache key that identifies a predicate at a given resolution.
package mask

import (
	"fmt"
	"hash/fnv"
	"image"
	_ "image/png"
	"os"

	"relief/internal/core"
)

// FromImage converts a raster mask into a predicate: pixels darker than
// threshold (0-255 luminance) are protected. Coordinates outside the image
// are free. The image is sampled into a bitmap up front so the returned
// predicate is a cheap slice lookup.
func FromImage(img image.Image, w, h int, threshold uint8) core.FreeFunc {
	bounds := img.Bounds()
	bits := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			free := true
			if x < bounds.Dx() && y < bounds.Dy() {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				lum := uint8((299*r + 587*g + 114*b) / 1000 >> 8)
				free = lum >= threshold
			}
			bits[y*w+x] = free
		}
	}
	return func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return true
		}
		return bits[y*w+x]
	}
}

// FromFile loads a mask image (PNG) from disk.
func FromFile(path string, w, h int, threshold uint8) (core.FreeFunc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mask: decode %s: %w", path, err)
	}
	return FromImage(img, w, h, threshold), nil
}

// Rect returns a predicate that protects the given cell rectangle (inclusive
// bounds), useful for CLI runs without a mask image.
func Rect(x0, y0, x1, y1 int) core.FreeFunc {
	return func(x, y int) bool {
		return x < x0 || x > x1 || y < y0 || y > y1
	}
}

// Key hashes the predicate's bitmap at the given resolution with FNV-1a.
// Predicate identity is structural: two masks that protect the same cells at
// the same resolution share a key, so the distance-field cache is reused.
func Key(w, h int, free core.FreeFunc) string {
	hash := fnv.New64a()
	buf := make([]byte, 0, w)
	for y := 0; y < h; y++ {
		buf = buf[:0]
		for x := 0; x < w; x++ {
			b := byte(0)
			if free(x, y) {
				b = 1
			}
			buf = append(buf, b)
		}
		hash.Write(buf)
	}
	return fmt.Sprintf("%dx%d-%016x", w, h, hash.Sum64())
}
