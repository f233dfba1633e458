//go:build ebiten

// Command relief-view displays a transformed height field interactively.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"relief/internal/app"
	"relief/internal/core"
	_ "relief/internal/gen"
	"relief/internal/mask"
	"relief/internal/pipeline"
	_ "relief/internal/smooth"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	width := flag.Int("width", 256, "grid width in cells")
	height := flag.Int("height", 256, "grid height in cells")
	scale := flag.Int("scale", 3, "pixels per cell")
	seed := flag.Int64("seed", 1337, "seed applied to entries without one")
	presetPath := flag.String("preset", "", "path to a JSON preset (empty = built-in default)")
	protect := flag.String("protect", "96,96,160,160", "protected rectangle x0,y0,x1,y1")
	flag.Parse()

	free, err := buildPredicate(*protect)
	if err != nil {
		log.Fatal(err)
	}

	base, err := loadPreset(*presetPath)
	if err != nil {
		log.Fatal(err)
	}

	rerun := func(seed int64) (*core.Grid, *core.DistanceField, error) {
		preset := base.Clone()
		applySeed(&preset, seed)
		p := pipeline.New(preset)
		p.Warn = log.Printf
		grid := core.NewGrid(*width, *height)
		if err := p.Run(grid, free); err != nil {
			return nil, nil, err
		}
		return grid, p.DistanceField(), nil
	}

	grid, dist, err := rerun(*seed)
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(grid, dist, free, rerun, *scale, *seed)

	ebiten.SetWindowTitle("relief")
	ebiten.SetWindowSize(*width**scale, *height**scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func buildPredicate(protect string) (core.FreeFunc, error) {
	if protect == "" {
		return core.AllFree, nil
	}
	parts := strings.Split(protect, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("-protect wants x0,y0,x1,y1, got %q", protect)
	}
	vals := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("-protect: %w", err)
		}
		vals[i] = v
	}
	return mask.Rect(vals[0], vals[1], vals[2], vals[3]), nil
}

func loadPreset(path string) (pipeline.Preset, error) {
	if path == "" {
		return pipeline.Preset{
			Reset: true,
			Generators: []pipeline.Entry{
				{Type: "midpoint", Params: map[string]string{"strength": "0.7"}},
				{Type: "fractal", Params: map[string]string{"amplitude": "0.3", "octaves": "5"}},
			},
			Smoothers: []pipeline.Entry{
				{Type: "thermal", Params: map[string]string{"iterations": "8"}},
			},
		}, nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Preset{}, err
	}
	return pipeline.Load(blob, log.Printf)
}

func applySeed(p *pipeline.Preset, seed int64) {
	if seed == 0 {
		return
	}
	for _, entries := range [][]pipeline.Entry{p.Generators, p.Smoothers} {
		for i := range entries {
			if entries[i].Params == nil {
				entries[i].Params = map[string]string{}
			}
			if _, ok := entries[i].Params["seed"]; !ok {
				entries[i].Params["seed"] = strconv.FormatInt(seed, 10)
			}
		}
	}
}
