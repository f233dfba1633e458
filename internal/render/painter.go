//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter blits a prepared RGBA buffer onto an ebiten screen at an
// integer scale.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a w×h cell grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, w*h*4),
	}
}

// Buf exposes the pixel buffer for the Fill helpers.
func (p *GridPainter) Buf() []byte { return p.buf }

// Blit uploads the buffer and draws it scaled onto the screen.
func (p *GridPainter) Blit(screen *ebiten.Image, scale int) {
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
