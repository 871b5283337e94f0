package particle

import (
	"fmt"

	tracker "github.com/milosgajdos/go-tracker"
	"gonum.org/v1/gonum/mat"
)

// Target is a single target hypothesis held by a Particle
type Target struct {
	// ID is unique among the targets of the owning particle
	ID int
	// Age counts ticks since the target was born
	Age int
	// Silence counts ticks since the target was last associated with an observation
	Silence int
	// mean stacks position on top of velocity
	mean *mat.VecDense
	// cov is state covariance
	cov *mat.SymDense
}

// NewTarget creates new Target with the given id and state estimate and returns it.
// It returns error if the estimate is not a 6-D position/velocity state.
func NewTarget(id int, est tracker.Estimate) (*Target, error) {
	if id < 0 {
		return nil, fmt.Errorf("invalid target id: %d", id)
	}

	t := &Target{ID: id}
	if err := t.Set(est); err != nil {
		return nil, err
	}

	return t, nil
}

// Set replaces the target state with a copy of est.
// It returns error if est is not a 6-D position/velocity state.
func (t *Target) Set(est tracker.Estimate) error {
	val, cov := est.Val(), est.Cov()
	if val.Len() != StateDim || cov.SymmetricDim() != StateDim {
		return fmt.Errorf("invalid target state dimensions: %d, %d", val.Len(), cov.SymmetricDim())
	}

	mean := &mat.VecDense{}
	mean.CloneFromVec(val)

	c := mat.NewSymDense(StateDim, nil)
	c.CopySym(cov)

	t.mean, t.cov = mean, c

	return nil
}

// Val returns a copy of the target state mean
func (t *Target) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(t.mean)

	return v
}

// Cov returns a copy of the target state covariance
func (t *Target) Cov() mat.Symmetric {
	cov := mat.NewSymDense(StateDim, nil)
	cov.CopySym(t.cov)

	return cov
}

// Pos returns target position
func (t *Target) Pos() [3]float64 {
	return [3]float64{t.mean.AtVec(0), t.mean.AtVec(1), t.mean.AtVec(2)}
}

// Vel returns target velocity
func (t *Target) Vel() [3]float64 {
	return [3]float64{t.mean.AtVec(3), t.mean.AtVec(4), t.mean.AtVec(5)}
}

// Clone returns a deep copy of t
func (t *Target) Clone() *Target {
	c := *t
	c.mean = mat.VecDenseCopyOf(t.mean)
	c.cov = mat.NewSymDense(StateDim, nil)
	c.cov.CopySym(t.cov)

	return &c
}
