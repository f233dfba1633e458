package distfield

import (
	"image"
	"image/color"

	"relief/internal/core"
)

var (
	protectedColor   = color.RGBA{R: 30, G: 30, B: 60, A: 255}
	unreachableColor = color.RGBA{R: 200, G: 40, B: 200, A: 255}
)

// Image renders the field as a color-mapped raster for debugging. Protected
// cells are dark blue, finite distances shade from blue to white by normalized
// distance, and sentinel cells use a distinct magenta so unreachable regions
// stand out. Purely diagnostic; not required for correctness.
func Image(f *core.DistanceField) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	max, ok := f.MaxFinite()
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			d := f.At(x, y)
			var c color.RGBA
			switch {
			case d == core.Unreachable:
				c = unreachableColor
			case d == 0:
				c = protectedColor
			case !ok || max == 0:
				c = protectedColor
			default:
				t := float64(d) / float64(max)
				v := uint8(55 + t*200)
				c = color.RGBA{R: v, G: v, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
