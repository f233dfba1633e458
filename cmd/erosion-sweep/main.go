// Command erosion-sweep explores hydraulic-erosion settings over a fixed
// synthetic terrain and reports how strongly each combination reshapes it.
package main

import (
	"flag"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"relief/internal/core"
	"relief/internal/distfield"
	"relief/internal/gen"
	"relief/internal/mask"
	"relief/internal/smooth"
)

type paramSet struct {
	droplets     int
	erodeSpeed   float64
	depositSpeed float64
	brushRadius  int
}

func (p paramSet) String() string {
	return fmt.Sprintf("droplets=%d erode=%.2f deposit=%.2f brush=%d",
		p.droplets, p.erodeSpeed, p.depositSpeed, p.brushRadius)
}

type result struct {
	params        paramSet
	roughnessDrop float64
	eroded        float64
	deposited     float64
	endedEarly    int
}

func main() {
	size := flag.Int("size", 128, "grid size per scenario")
	seed := flag.Int64("seed", 1337, "terrain and droplet seed")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	free := mask.Rect(*size/2-8, *size/2-8, *size/2+8, *size/2+8)
	field := distfield.Compute(*size, *size, free)

	baseCfg := gen.DefaultMidpointConfig()
	baseCfg.Seed = *seed
	base := core.NewGrid(*size, *size)
	gen.NewMidpoint(baseCfg).Generate(base, free)
	baseRoughness := roughness(base)

	var sets []paramSet
	for _, droplets := range []int{5000, 20000} {
		for _, erode := range []float64{0.1, 0.3, 0.6} {
			for _, deposit := range []float64{0.1, 0.3} {
				for _, brush := range []int{2, 4} {
					sets = append(sets, paramSet{droplets, erode, deposit, brush})
				}
			}
		}
	}

	jobs := make(chan paramSet)
	results := make(chan result)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- runScenario(base, free, field, *seed, p, baseRoughness)
			}
		}()
	}
	go func() {
		for _, p := range sets {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var all []result
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].roughnessDrop > all[j].roughnessDrop
	})

	snapshot := smooth.NewHydraulic(smooth.DefaultHydraulicConfig()).Parameters()
	fmt.Printf("sweeping %s over:\n", snapshot.Name)
	for _, param := range snapshot.Params {
		fmt.Printf("  %-16s %s (default %s)\n", param.Key, param.Label, param.Value)
	}
	fmt.Printf("\nbase roughness %.5f over %dx%d, %d scenarios\n\n",
		baseRoughness, *size, *size, len(all))
	for _, r := range all {
		fmt.Printf("%-48s  roughness -%.5f  eroded %.3f  deposited %.3f  early %d\n",
			r.params, r.roughnessDrop, r.eroded, r.deposited, r.endedEarly)
	}
}

func runScenario(base *core.Grid, free core.FreeFunc, field *core.DistanceField, seed int64, p paramSet, baseRoughness float64) result {
	grid := core.NewGrid(base.W, base.H)
	copy(grid.Cells(), base.Cells())

	cfg := smooth.DefaultHydraulicConfig()
	cfg.Seed = seed
	cfg.Droplets = p.droplets
	cfg.ErodeSpeed = p.erodeSpeed
	cfg.DepositSpeed = p.depositSpeed
	cfg.BrushRadius = p.brushRadius

	h := smooth.NewHydraulic(cfg)
	if err := h.Smooth(grid, free, field); err != nil {
		return result{params: p}
	}
	return result{
		params:        p,
		roughnessDrop: baseRoughness - roughness(grid),
		eroded:        h.Eroded,
		deposited:     h.Deposited,
		endedEarly:    h.EndedEarly,
	}
}

// roughness is the mean absolute height difference between horizontal and
// vertical neighbors.
func roughness(g *core.Grid) float64 {
	sum, count := 0.0, 0
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if x+1 < g.W {
				sum += math.Abs(g.At(x, y) - g.At(x+1, y))
				count++
			}
			if y+1 < g.H {
				sum += math.Abs(g.At(x, y) - g.At(x, y+1))
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
