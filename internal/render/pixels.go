package render

import (
	"image"

	"relief/internal/core"
)

// FillHeightRGBA shades elevations into grayscale RGBA pixels in buf. The
// range [lo, hi] maps to [black, white]; values outside are clamped.
func FillHeightRGBA(buf []byte, cells []float64, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for i, v := range cells {
		t := (v - lo) / span
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		shade := uint8(t * 255)
		base := i * 4
		buf[base+0] = shade
		buf[base+1] = shade
		buf[base+2] = shade
		buf[base+3] = 255
	}
}

// FillDistanceRGBA shades a distance field into RGBA pixels: protected cells
// dark blue, finite distances from blue to white, sentinel cells magenta.
func FillDistanceRGBA(buf []byte, field *core.DistanceField) {
	max, ok := field.MaxFinite()
	for i, d := range field.Cells() {
		base := i * 4
		switch {
		case d == core.Unreachable:
			buf[base+0], buf[base+1], buf[base+2] = 200, 40, 200
		case d == 0 || !ok || max == 0:
			buf[base+0], buf[base+1], buf[base+2] = 30, 30, 60
		default:
			t := float64(d) / float64(max)
			v := uint8(55 + t*200)
			buf[base+0], buf[base+1], buf[base+2] = v, v, 255
		}
		buf[base+3] = 255
	}
}

// HeightImage renders the height field as a grayscale raster, auto-scaled to
// its own min/max so batch output is always visible.
func HeightImage(g *core.Grid) *image.RGBA {
	lo, hi := Bounds(g.Cells())
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	FillHeightRGBA(img.Pix, g.Cells(), lo, hi)
	return img
}

// Bounds returns the minimum and maximum of values, or (0, 1) when empty.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
