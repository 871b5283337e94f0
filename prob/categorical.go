package prob

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerate is returned when a categorical distribution carries no probability mass.
var ErrDegenerate = errors.New("degenerate categorical distribution")

// Draw draws a single index i from the categorical distribution proportional to w,
// i.e. i is drawn with probability w[i]/sum(w). Weights need not be normalised.
//
// Callers must make sure w carries positive, finite total mass: Draw never picks
// an arbitrary index and returns ErrDegenerate instead.
// It returns error if w is empty or contains negative or NaN weights.
func Draw(w []float64, src rand.Source) (int, error) {
	if len(w) == 0 {
		return -1, fmt.Errorf("invalid categorical weights: %v", w)
	}

	for i := range w {
		if w[i] < 0 || math.IsNaN(w[i]) {
			return -1, fmt.Errorf("invalid categorical weight %d: %v", i, w[i])
		}
	}

	sum := floats.Sum(w)
	if sum <= 0 || math.IsInf(sum, 0) {
		return -1, ErrDegenerate
	}

	c := distuv.NewCategorical(w, src)

	return int(c.Rand()), nil
}
