package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Discrete is a model of a linear, discrete-time, dynamical system
//
//	x[n+1] = A*x[n] + q[n],  q[n] ~ N(0, Q)
type Discrete struct {
	// A is the state transition matrix
	A *mat.Dense
	// Q is the process noise covariance
	Q *mat.SymDense
}

// NewDiscrete creates a linear discrete-time model from transition matrix A
// and process noise covariance Q and returns it.
// It returns error if the matrix dimensions don't match.
func NewDiscrete(A *mat.Dense, Q mat.Symmetric) (*Discrete, error) {
	if A == nil || Q == nil {
		return nil, fmt.Errorf("transition and noise matrices must be defined for a model")
	}

	rows, cols := A.Dims()
	if rows != cols || rows != Q.SymmetricDim() {
		return nil, fmt.Errorf("invalid model dimensions: A [%d x %d], Q [%d x %d]",
			rows, cols, Q.SymmetricDim(), Q.SymmetricDim())
	}

	q := mat.NewSymDense(rows, nil)
	q.CopySym(Q)

	return &Discrete{A: mat.DenseCopyOf(A), Q: q}, nil
}

// Dims returns the state dimension
func (d *Discrete) Dims() int {
	n, _ := d.A.Dims()
	return n
}

// Propagate returns the next internal state given the state x and process noise sample wd.
// wd is ignored if it is nil.
func (d *Discrete) Propagate(x, wd mat.Vector) (mat.Vector, error) {
	nx := d.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(d.A, x)

	if wd != nil {
		if wd.Len() != nx {
			return nil, fmt.Errorf("invalid noise vector")
		}
		out.AddVec(out, wd)
	}

	return out, nil
}
