package kf

import (
	"fmt"

	"github.com/milosgajdos/go-tracker/estimate"
	"github.com/milosgajdos/go-tracker/prob"
	"github.com/milosgajdos/go-tracker/sim"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// KF is Kalman Filter of a linear discrete-time model observed through a linear observation model.
// KF keeps no estimate of its own: Predict and Update never modify the estimates they are given,
// so committing a result is up to the caller.
type KF struct {
	// a is state transition matrix
	a *mat.Dense
	// q is state noise a.k.a. process noise covariance
	q *mat.SymDense
	// h is observation matrix
	h *mat.Dense
	// r is output noise a.k.a. measurement noise covariance
	r *mat.SymDense
	// eye is state sized identity used by Joseph form update
	eye *mat.Dense
}

// New creates new KF and returns it.
// It accepts the following parameters:
//   - m:      discrete-time model providing transition matrix A and process noise covariance Q
//   - h:      observation matrix H
//   - r:      measurement noise covariance R
//
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must be positive integers
//   - observation matrix or measurement noise dimensions don't match the model
func New(m *sim.Discrete, h *mat.Dense, r mat.Symmetric) (*KF, error) {
	if m == nil || h == nil || r == nil {
		return nil, fmt.Errorf("invalid filter model")
	}

	nx := m.Dims()
	if nx <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: %d", nx)
	}

	rows, cols := h.Dims()
	if cols != nx || rows <= 0 {
		return nil, fmt.Errorf("invalid observation matrix dimensions: [%d x %d]", rows, cols)
	}

	if r.SymmetricDim() != rows {
		return nil, fmt.Errorf("invalid output noise dimension: %d", r.SymmetricDim())
	}

	eye, err := matrix.NewDenseValIdentity(nx, 1.0)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity matrix: %v", err)
	}

	q := mat.NewSymDense(nx, nil)
	q.CopySym(m.Q)

	rc := mat.NewSymDense(rows, nil)
	rc.CopySym(r)

	return &KF{
		a:   mat.DenseCopyOf(m.A),
		q:   q,
		h:   mat.DenseCopyOf(h),
		r:   rc,
		eye: eye,
	}, nil
}

// NewPosition creates new KF of a model whose state stacks positions on top of velocities
// and whose positions are observed directly with isotropic noise of standard deviation sd.
// It returns error if the model dimension is odd or sd is not positive.
func NewPosition(m *sim.Discrete, sd float64) (*KF, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid filter model")
	}

	nx := m.Dims()
	if nx <= 0 || nx%2 != 0 {
		return nil, fmt.Errorf("invalid position model dimensions: %d", nx)
	}

	if sd <= 0 {
		return nil, fmt.Errorf("invalid measurement noise: %f", sd)
	}

	ny := nx / 2
	h := mat.NewDense(ny, nx, nil)
	r := mat.NewSymDense(ny, nil)
	for i := 0; i < ny; i++ {
		h.Set(i, i, 1.0)
		r.SetSym(i, i, sd*sd)
	}

	return New(m, h, r)
}

// Dims returns state dimension nx and measurement dimension ny
func (k *KF) Dims() (nx, ny int) {
	ny, nx = k.h.Dims()
	return nx, ny
}

// Predict propagates the estimate with mean x and covariance p to the next step and returns it:
//
//	x' = A*x
//	P' = A*P*A' + Q
//
// It returns error if the dimensions of x or p don't match the model.
func (k *KF) Predict(x mat.Vector, p mat.Symmetric) (*estimate.Gaussian, error) {
	nx, _ := k.Dims()
	if x.Len() != nx || p.SymmetricDim() != nx {
		return nil, fmt.Errorf("invalid estimate dimensions: %d, %d", x.Len(), p.SymmetricDim())
	}

	xNext := mat.NewVecDense(nx, nil)
	xNext.MulVec(k.a, x)

	cov := &mat.Dense{}
	cov.Mul(k.a, p)
	cov.Mul(cov, k.a.T())
	cov.Add(cov, k.q)

	return estimate.NewGaussian(xNext, symmetrize(cov))
}

// Update corrects the estimate with mean x and covariance p using the measurement z.
// It returns the corrected estimate and the likelihood of z, i.e. the density of the
// innovation z - H*x under N(0, H*P*H' + R).
// It returns error if the dimensions don't match the model or the innovation covariance is singular.
func (k *KF) Update(x mat.Vector, p mat.Symmetric, z mat.Vector) (*estimate.Gaussian, float64, error) {
	nx, ny := k.Dims()
	if x.Len() != nx || p.SymmetricDim() != nx {
		return nil, 0, fmt.Errorf("invalid estimate dimensions: %d, %d", x.Len(), p.SymmetricDim())
	}

	if z.Len() != ny {
		return nil, 0, fmt.Errorf("invalid measurement supplied: %v", z)
	}

	// P*H'
	pxy := mat.NewDense(nx, ny, nil)
	pxy.Mul(p, k.h.T())

	// Note: pxy = P * H' so we reuse the result here
	// H*P*H' + R
	pyy := mat.NewDense(ny, ny, nil)
	pyy.Mul(k.h, pxy)
	pyy.Add(pyy, k.r)
	s := symmetrize(pyy)

	// calculate Kalman gain
	pyyInv := &mat.Dense{}
	if err := pyyInv.Inverse(s); err != nil {
		return nil, 0, fmt.Errorf("failed to calculate Pyy inverse: %v", err)
	}
	gain := &mat.Dense{}
	gain.Mul(pxy, pyyInv)

	// innovation vector
	y := mat.NewVecDense(ny, nil)
	y.MulVec(k.h, x)
	inn := mat.NewVecDense(ny, nil)
	inn.SubVec(z, y)

	// corrected state
	corr := mat.NewVecDense(nx, nil)
	corr.MulVec(gain, inn)
	xCorr := mat.NewVecDense(nx, nil)
	xCorr.AddVec(x, corr)

	// Joseph form update
	a := &mat.Dense{}
	// K*H
	a.Mul(gain, k.h)
	// eye - K*H
	a.Sub(k.eye, a)

	// K*R*K'
	kr := &mat.Dense{}
	kr.Mul(gain, k.r)
	pkrk := &mat.Dense{}
	pkrk.Mul(kr, gain.T())

	ap := &mat.Dense{}
	ap.Mul(a, p)
	pCorr := &mat.Dense{}
	pCorr.Mul(ap, a.T())
	pCorr.Add(pCorr, pkrk)

	est, err := estimate.NewGaussian(xCorr, symmetrize(pCorr))
	if err != nil {
		return nil, 0, err
	}

	return est, prob.NormalPDF(inn.RawVector().Data, s), nil
}

// symmetrize returns the symmetric part of the square matrix m
func symmetrize(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	return sym
}
