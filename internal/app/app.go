//go:build ebiten

package app

import (
	"fmt"
	"time"

	"relief/internal/core"
	"relief/internal/render"
	"relief/internal/smooth"
	"relief/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Rerun rebuilds the height field and distance field for a seed.
type Rerun func(seed int64) (*core.Grid, *core.DistanceField, error)

// Game displays a transformed height field and its distance field.
type Game struct {
	grid    *core.Grid
	dist    *core.DistanceField
	free    core.FreeFunc
	rerun   Rerun
	painter *render.GridPainter
	overlay *ui.Overlay
	pacer   *core.FixedStep

	scale        int
	seed         int64
	showDistance bool
	animate      bool
	dirty        bool
}

// New constructs the viewer for an already-run transform.
func New(grid *core.Grid, dist *core.DistanceField, free core.FreeFunc, rerun Rerun, scale int, seed int64) *Game {
	g := &Game{
		grid:    grid,
		dist:    dist,
		free:    free,
		rerun:   rerun,
		painter: render.NewGridPainter(grid.W, grid.H),
		overlay: ui.NewOverlay(),
		pacer:   core.NewFixedStep(8),
		scale:   scale,
		seed:    seed,
		dirty:   true,
	}
	g.updateStatus()
	return g
}

func (g *Game) updateStatus() {
	view := "height"
	if g.showDistance {
		view = "distance"
	}
	g.overlay.SetStatus(fmt.Sprintf("seed=%d view=%s", g.seed, view))
}

func (g *Game) reload(seed int64) {
	if g.rerun == nil {
		return
	}
	grid, dist, err := g.rerun(seed)
	if err != nil {
		g.overlay.SetStatus("rerun failed: " + err.Error())
		return
	}
	g.grid = grid
	g.dist = dist
	g.seed = seed
	g.dirty = true
	g.updateStatus()
}

// Update handles input and the optional thermal animation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showDistance = !g.showDistance
		g.dirty = true
		g.updateStatus()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.animate = !g.animate
		g.pacer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.reload(time.Now().UnixNano())
	}

	g.overlay.Update()

	// Animation mode relaxes the terrain one thermal pass at a time so the
	// settling is visible.
	if g.animate && !g.showDistance && g.pacer.ShouldStep() {
		cfg := smooth.DefaultThermalConfig()
		cfg.Iterations = 1
		if err := smooth.NewThermal(cfg).Smooth(g.grid, g.free, g.dist); err == nil {
			g.dirty = true
		}
	}
	return nil
}

// Draw renders the active view.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty {
		if g.showDistance && g.dist != nil {
			render.FillDistanceRGBA(g.painter.Buf(), g.dist)
		} else {
			lo, hi := render.Bounds(g.grid.Cells())
			render.FillHeightRGBA(g.painter.Buf(), g.grid.Cells(), lo, hi)
		}
		g.dirty = false
	}
	g.painter.Blit(screen, g.scale)
	g.overlay.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.grid.W * g.scale, g.grid.H * g.scale
}
