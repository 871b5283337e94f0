package rand

import (
	"fmt"
	"sort"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// RouletteDrawN draws n numbers randomly from a probability mass function (PMF) defined by weights in p.
// RouletteDrawN implements the Roulette Wheel Draw a.k.a. Fitness Proportionate Selection:
// - https://en.wikipedia.org/wiki/Fitness_proportionate_selection
// - http://www.keithschwarz.com/darts-dice-coins/
// Random numbers are drawn from src; nil src falls back to the global source.
// It returns a slice of n indices into the vector p.
// It fails with error if p is empty or nil, or if p carries no probability mass.
func RouletteDrawN(p []float64, n int, src rnd.Source) ([]int, error) {
	cdf, err := newCDF(p)
	if err != nil {
		return nil, err
	}

	u := distuv.Uniform{Min: 0, Max: cdf[len(cdf)-1], Src: src}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = search(cdf, u.Rand())
	}

	return indices, nil
}

// StratifiedDrawN draws len(p) indices into p using stratified sampling:
// the unit interval is split into len(p) equal strata and one uniform sample is drawn
// from each of them. The returned indices are sorted in ascending order.
// It fails with error if p is empty or nil, or if p carries no probability mass.
func StratifiedDrawN(p []float64, src rnd.Source) ([]int, error) {
	cdf, err := newCDF(p)
	if err != nil {
		return nil, err
	}

	n := len(p)
	total := cdf[n-1]
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	indices := make([]int, n)
	for i := range indices {
		val := (float64(i) + u.Rand()) / float64(n) * total
		indices[i] = search(cdf, val)
	}

	return indices, nil
}

// newCDF returns the unnormalised discrete CDF of p
func newCDF(p []float64) ([]float64, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("invalid probability weights: %v", p)
	}

	// We know that cdf is sorted in ascending order
	cdf := make([]float64, len(p))
	floats.CumSum(cdf, p)

	if !(cdf[len(cdf)-1] > 0) {
		return nil, fmt.Errorf("invalid probability mass: %v", cdf[len(cdf)-1])
	}

	return cdf, nil
}

// search returns the index of the smallest element in cdf larger than val.
// Values at the top edge of the CDF map to the last index with non-zero mass.
func search(cdf []float64, val float64) int {
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > val })
	if i == len(cdf) {
		i = sort.Search(len(cdf), func(i int) bool { return cdf[i] >= cdf[len(cdf)-1] })
	}

	return i
}
