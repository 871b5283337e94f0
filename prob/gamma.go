package prob

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// gamma returns Gamma distribution with the given shape and scale
func gamma(shape, scale float64) distuv.Gamma {
	return distuv.Gamma{Alpha: shape, Beta: 1 / scale}
}

// GammaCDF returns P(X <= x) for X ~ Gamma(shape, scale).
// It returns 0 for non-positive x.
func GammaCDF(x, shape, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	return gamma(shape, scale).CDF(x)
}

// GammaSurvival returns P(X > x) for X ~ Gamma(shape, scale).
// It returns 1 for non-positive x.
func GammaSurvival(x, shape, scale float64) float64 {
	if x <= 0 {
		return 1
	}
	return gamma(shape, scale).Survival(x)
}

// GammaHazard returns the probability that X ~ Gamma(shape, scale) ends in (t0, t1]
// given that it has not ended by t0:
//
//	1 - S(t1)/S(t0)
//
// where S is the Gamma survival function. When S(t0) has vanished the event is certain.
func GammaHazard(t0, t1, shape, scale float64) float64 {
	if t1 <= t0 {
		return 0
	}
	s0 := GammaSurvival(t0, shape, scale)
	if s0 < Eps {
		return 1
	}
	p := 1 - GammaSurvival(t1, shape, scale)/s0
	return math.Min(math.Max(p, 0), 1)
}
