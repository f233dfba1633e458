// Command relief runs a preset transform over a height field and writes the
// result as a grayscale PNG, with an optional distance-field debug raster.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"relief/internal/core"
	"relief/internal/distfield"
	_ "relief/internal/gen"
	"relief/internal/mask"
	"relief/internal/pipeline"
	"relief/internal/render"
	_ "relief/internal/smooth"
)

func main() {
	width := flag.Int("width", 256, "grid width in cells")
	height := flag.Int("height", 256, "grid height in cells")
	seed := flag.Int64("seed", 0, "seed applied to entries without one (0 = nondeterministic)")
	presetPath := flag.String("preset", "", "path to a JSON preset (empty = built-in default)")
	maskPath := flag.String("mask", "", "PNG mask; pixels darker than -mask-threshold are protected")
	maskThreshold := flag.Int("mask-threshold", 128, "luminance cutoff for the mask")
	protect := flag.String("protect", "", "protected rectangle x0,y0,x1,y1 (used when no mask is given)")
	cacheDir := flag.String("cache-dir", "", "directory for persisted distance fields")
	out := flag.String("out", "relief.png", "output height raster")
	distOut := flag.String("distance-out", "", "optional distance-field debug raster")
	flag.Parse()

	free, err := buildPredicate(*maskPath, *protect, *width, *height, uint8(*maskThreshold))
	if err != nil {
		log.Fatal(err)
	}

	preset, err := loadPreset(*presetPath)
	if err != nil {
		log.Fatal(err)
	}
	applySeed(&preset, *seed)

	p := pipeline.New(preset)
	p.Warn = log.Printf
	p.Progress = func(stage string, done, total int) {
		if done == total {
			log.Printf("%s done (%d/%d)", stage, done, total)
		}
	}
	if *cacheDir != "" {
		p.UseCache(distfield.NewCache(*cacheDir), mask.Key(*width, *height, free))
	}

	grid := core.NewGrid(*width, *height)
	if err := p.Run(grid, free); err != nil {
		log.Fatal(err)
	}

	if err := writePNG(*out, render.HeightImage(grid)); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)

	if *distOut != "" {
		if err := writePNG(*distOut, distfield.Image(p.DistanceField())); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *distOut)
	}
}

func buildPredicate(maskPath, protect string, w, h int, threshold uint8) (core.FreeFunc, error) {
	if maskPath != "" {
		return mask.FromFile(maskPath, w, h, threshold)
	}
	if protect != "" {
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
	return core.AllFree, nil
}

func loadPreset(path string) (pipeline.Preset, error) {
	if path == "" {
		return defaultPreset(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Preset{}, err
	}
	return pipeline.Load(blob, log.Printf)
}

// defaultPreset is a showcase: diamond-square base, fractal detail, then
// thermal settling and droplet erosion.
func defaultPreset() pipeline.Preset {
	return pipeline.Preset{
		Reset: true,
		Generators: []pipeline.Entry{
			{Type: "midpoint", Params: map[string]string{"strength": "0.7"}},
			{Type: "fractal", Params: map[string]string{"amplitude": "0.3", "octaves": "5"}},
		},
		Smoothers: []pipeline.Entry{
			{Type: "thermal", Params: map[string]string{"iterations": "8"}},
			{Type: "hydraulic", Params: map[string]string{"droplets": "20000"}},
		},
	}
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

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
