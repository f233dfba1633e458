package noise

// FBM sums octaves layers of src at geometrically doubling frequency and
// persistence-scaled amplitude, then divides by the sum of the amplitudes
// used, so the result stays in [0,1] for any octave count or persistence.
//
// Persistence here follows the inverted convention the sample presets depend
// on: values above 1 grow later octaves instead of shrinking them. The
// normalization makes that legal; do not "correct" it.
func FBM(src Source, x, y float64, octaves int, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total := 0.0
	ampSum := 0.0
	amp := 1.0
	freq := 1.0
	for i := 0; i < octaves; i++ {
		v := (src.At(x*freq, y*freq) + 1) * 0.5
		total += v * amp
		ampSum += amp
		amp *= persistence
		freq *= 2
	}
	return total / ampSum
}
