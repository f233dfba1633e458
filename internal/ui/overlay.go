//go:build ebiten

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const helpText = `relief viewer
  D  toggle distance-field view
  E  toggle thermal animation
  R  rerun with same seed
  S  rerun with new seed
  H  toggle this help
  Q  quit`

// Overlay draws the key-binding help and a status line over the viewer.
type Overlay struct {
	showHelp bool
	status   string
}

// NewOverlay constructs the overlay with help visible.
func NewOverlay() *Overlay {
	return &Overlay{showHelp: true}
}

// SetStatus replaces the status line.
func (o *Overlay) SetStatus(s string) { o.status = s }

// Update handles the help toggle.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHelp = !o.showHelp
	}
}

// Draw renders the overlay text.
func (o *Overlay) Draw(screen *ebiten.Image) {
	text := o.status
	if o.showHelp {
		if text != "" {
			text += "\n"
		}
		text += helpText
	}
	if text != "" {
		ebitenutil.DebugPrint(screen, text)
	}
}
