package prob

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	// Eps guards denominators against division by vanishing quantities
	Eps = 2.220446049250313e-16
	// Jitter is the initial diagonal load added to a covariance matrix
	// which is not positive definite
	Jitter = 1e-9
	// maxJitter bounds the number of diagonal loading attempts
	maxJitter = 8
)

// NormalLogPDF returns the log density of a zero-mean multivariate Normal
// distribution with covariance cov evaluated at x.
// Covariance matrices which are not positive definite are loaded with a
// growing diagonal jitter until they are; if that never happens it returns -Inf.
// It panics if the length of x does not match the dimension of cov.
func NormalLogPDF(x []float64, cov mat.Symmetric) float64 {
	n := cov.SymmetricDim()
	if len(x) != n {
		panic("prob: dimension mismatch")
	}

	mu := make([]float64, n)
	sigma := mat.NewSymDense(n, nil)
	sigma.CopySym(cov)

	jitter := Jitter
	for i := 0; i < maxJitter; i++ {
		if dist, ok := distmv.NewNormal(mu, sigma, nil); ok {
			return dist.LogProb(x)
		}
		for j := 0; j < n; j++ {
			sigma.SetSym(j, j, sigma.At(j, j)+jitter)
		}
		jitter *= 10
	}

	return math.Inf(-1)
}

// NormalPDF returns the density of a zero-mean multivariate Normal
// distribution with covariance cov evaluated at x.
func NormalPDF(x []float64, cov mat.Symmetric) float64 {
	return math.Exp(NormalLogPDF(x, cov))
}
