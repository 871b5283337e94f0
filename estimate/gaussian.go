package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gaussian is a Gaussian state estimate
type Gaussian struct {
	// val is estimated mean
	val *mat.VecDense
	// cov is estimated covariance
	cov *mat.SymDense
}

// NewGaussian returns Gaussian estimate with mean val and covariance cov.
// It returns error if the dimensions of val and cov don't match.
func NewGaussian(val mat.Vector, cov mat.Symmetric) (*Gaussian, error) {
	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid estimate: val=%v cov=%v", val, cov)
	}

	rv, rc := val.Len(), cov.SymmetricDim()
	if rv != rc {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", rv, rc, rc)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(rc, nil)
	c.CopySym(cov)

	return &Gaussian{
		val: v,
		cov: c,
	}, nil
}

// Val returns estimated mean
func (g *Gaussian) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(g.val)

	return v
}

// Cov returns covariance estimate
func (g *Gaussian) Cov() mat.Symmetric {
	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	return cov
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nVal=%v\nCov=%v\n}",
		g.val.RawVector().Data,
		mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
