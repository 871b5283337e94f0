package sim

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Continuous is a model of a linear, continuous-time, dynamical system driven by white noise
//
//	dx/dt = F*x + L*w,  E[w(t)*w(s)'] = Qc*δ(t-s)
type Continuous struct {
	// F is the feedback matrix
	F *mat.Dense
	// L is the noise input matrix
	L *mat.Dense
	// Qc is the spectral density of the white noise w
	Qc *mat.SymDense
}

// NewContinuous creates a linear continuous-time model from feedback matrix F,
// noise input matrix L and noise spectral density Qc and returns it.
// It returns error if the matrix dimensions are not compatible.
func NewContinuous(F, L *mat.Dense, Qc mat.Symmetric) (*Continuous, error) {
	if F == nil || L == nil || Qc == nil {
		return nil, fmt.Errorf("feedback, noise input and spectral density matrices must be defined for a model")
	}

	rows, cols := F.Dims()
	if rows != cols {
		return nil, fmt.Errorf("invalid feedback matrix dimensions: [%d x %d]", rows, cols)
	}

	lr, lc := L.Dims()
	if lr != rows || lc != Qc.SymmetricDim() {
		return nil, fmt.Errorf("invalid noise input matrix dimensions: [%d x %d]", lr, lc)
	}

	qc := mat.NewSymDense(Qc.SymmetricDim(), nil)
	qc.CopySym(Qc)

	return &Continuous{
		F:  mat.DenseCopyOf(F),
		L:  mat.DenseCopyOf(L),
		Qc: qc,
	}, nil
}

// NewConstantVelocity creates a constant velocity model of a point moving in dims dimensions.
// The state vector stacks positions on top of velocities; velocities are driven by white
// noise accelerations with spectral density q in each dimension.
// It returns error if dims is not positive or q is negative.
func NewConstantVelocity(dims int, q float64) (*Continuous, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("invalid model dimension: %d", dims)
	}

	if q < 0 {
		return nil, fmt.Errorf("invalid noise spectral density: %f", q)
	}

	n := 2 * dims
	F := mat.NewDense(n, n, nil)
	L := mat.NewDense(n, dims, nil)
	for i := 0; i < dims; i++ {
		F.Set(i, dims+i, 1.0)
		L.Set(dims+i, i, 1.0)
	}

	Qc := mat.NewSymDense(dims, nil)
	for i := 0; i < dims; i++ {
		Qc.SetSym(i, i, q)
	}

	return NewContinuous(F, L, Qc)
}

// Dims returns state dimension nx and noise dimension nw
func (ct *Continuous) Dims() (nx, nw int) {
	nx, _ = ct.F.Dims()
	_, nw = ct.L.Dims()

	return nx, nw
}

// ToDiscrete creates a discrete-time model from a continuous time model
// using dt as the sampling time.
//
// The transition matrix is A = exp(F*dt). The process noise covariance Q is
// computed by matrix fraction decomposition: the block matrix
//
//	Φ = [F  L*Qc*L'; 0  -F'] * dt
//
// is exponentiated and Q is the solution of Q*AB2 = AB1 where
// [AB1; AB2] = exp(Φ)*[0; I].
// Matrix exponentials use Padé approximation with scaling and squaring.
// It returns error if dt is not positive or if Q can't be extracted.
func (ct *Continuous) ToDiscrete(dt float64) (*Discrete, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("invalid sampling time: %f", dt)
	}

	n, _ := ct.Dims()

	Fdt := &mat.Dense{}
	Fdt.Scale(dt, ct.F)
	A := &mat.Dense{}
	A.Exp(Fdt)

	// L*Qc*L'
	lq := &mat.Dense{}
	lq.Mul(ct.L, ct.Qc)
	lql := &mat.Dense{}
	lql.Mul(lq, ct.L.T())

	phi := mat.NewDense(2*n, 2*n, nil)
	phi.Slice(0, n, 0, n).(*mat.Dense).Copy(ct.F)
	phi.Slice(0, n, n, 2*n).(*mat.Dense).Copy(lql)
	negFt := &mat.Dense{}
	negFt.Scale(-1, ct.F.T())
	phi.Slice(n, 2*n, n, 2*n).(*mat.Dense).Copy(negFt)
	phi.Scale(dt, phi)

	expPhi := &mat.Dense{}
	expPhi.Exp(phi)

	// exp(Φ)*[0; I] selects the right block column
	eye, err := matrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity matrix: %v", err)
	}
	zi := mat.NewDense(2*n, n, nil)
	zi.Slice(n, 2*n, 0, n).(*mat.Dense).Copy(eye)
	ab := &mat.Dense{}
	ab.Mul(expPhi, zi)

	ab1 := ab.Slice(0, n, 0, n)
	ab2 := ab.Slice(n, 2*n, 0, n)

	// Q*AB2 = AB1 <=> AB2'*Q' = AB1'
	qt := &mat.Dense{}
	if err := qt.Solve(ab2.T(), ab1.T()); err != nil {
		return nil, fmt.Errorf("failed to extract process noise covariance: %v", err)
	}

	Q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			Q.SetSym(i, j, 0.5*(qt.At(j, i)+qt.At(i, j)))
		}
	}

	return &Discrete{A: A, Q: Q}, nil
}
