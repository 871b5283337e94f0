package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewContinuous(t *testing.T) {
	assert := assert.New(t)

	F := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	L := mat.NewDense(2, 1, []float64{0, 1})
	Qc := mat.NewSymDense(1, []float64{0.5})

	c, err := NewContinuous(F, L, Qc)
	assert.NoError(err)
	assert.NotNil(c)
	nx, nw := c.Dims()
	assert.Equal(2, nx)
	assert.Equal(1, nw)

	// model owns its matrices
	F.Set(0, 1, 10)
	assert.Equal(1.0, c.F.At(0, 1))

	for _, test := range []struct {
		F  *mat.Dense
		L  *mat.Dense
		Qc *mat.SymDense
	}{
		{F: nil, L: L, Qc: Qc},
		{F: mat.NewDense(2, 3, nil), L: L, Qc: Qc},
		{F: F, L: mat.NewDense(3, 1, nil), Qc: Qc},
		{F: F, L: L, Qc: mat.NewSymDense(2, nil)},
	} {
		c, err := NewContinuous(test.F, test.L, test.Qc)
		assert.Nil(c)
		assert.Error(err)
	}
}

func TestNewConstantVelocity(t *testing.T) {
	assert := assert.New(t)

	c, err := NewConstantVelocity(3, 0.2)
	assert.NoError(err)
	nx, nw := c.Dims()
	assert.Equal(6, nx)
	assert.Equal(3, nw)
	assert.Equal(1.0, c.F.At(0, 3))
	assert.Equal(0.0, c.F.At(3, 0))
	assert.Equal(1.0, c.L.At(4, 1))
	assert.Equal(0.2, c.Qc.At(2, 2))

	c, err = NewConstantVelocity(0, 0.2)
	assert.Nil(c)
	assert.Error(err)

	c, err = NewConstantVelocity(3, -1)
	assert.Nil(c)
	assert.Error(err)
}

func TestToDiscreteConstantVelocity(t *testing.T) {
	assert := assert.New(t)

	q, dt := 0.3, 0.1
	c, err := NewConstantVelocity(3, q)
	assert.NoError(err)

	d, err := c.ToDiscrete(dt)
	assert.NoError(err)
	assert.NotNil(d)

	// nilpotent feedback: A = I + F*dt exactly
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			want := c.F.At(i, j) * dt
			if i == j {
				want += 1
			}
			assert.InDelta(want, d.A.At(i, j), 1e-12)
		}
	}

	// white noise acceleration covariance in closed form
	dt2, dt3 := dt*dt, dt*dt*dt
	for i := 0; i < 3; i++ {
		assert.InDelta(q*dt3/3, d.Q.At(i, i), 1e-12)
		assert.InDelta(q*dt2/2, d.Q.At(i, 3+i), 1e-12)
		assert.InDelta(q*dt, d.Q.At(3+i, 3+i), 1e-12)
		// dimensions are independent
		assert.InDelta(0.0, d.Q.At(i, (i+1)%3), 1e-12)
	}

	var chol mat.Cholesky
	assert.True(chol.Factorize(d.Q))

	d, err = c.ToDiscrete(0)
	assert.Nil(d)
	assert.Error(err)
}

func TestToDiscreteFirstOrder(t *testing.T) {
	assert := assert.New(t)

	// damped oscillator
	F := mat.NewDense(2, 2, []float64{0, 1, -4, -0.5})
	L := mat.NewDense(2, 1, []float64{0, 1})
	Qc := mat.NewSymDense(1, []float64{1})

	c, err := NewContinuous(F, L, Qc)
	assert.NoError(err)

	for _, dt := range []float64{1e-2, 1e-3, 1e-4} {
		d, err := c.ToDiscrete(dt)
		assert.NoError(err)

		// A = I + F*dt + O(dt^2)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				want := F.At(i, j) * dt
				if i == j {
					want += 1
				}
				assert.InDelta(want, d.A.At(i, j), 10*dt*dt)
			}
		}

		// Q = L*Qc*L'*dt + O(dt^2)
		assert.InDelta(dt, d.Q.At(1, 1), 10*dt*dt)
		assert.InDelta(0.0, d.Q.At(0, 0), 10*dt*dt)
		assert.Equal(d.Q.At(0, 1), d.Q.At(1, 0))
	}
}

func TestDiscrete(t *testing.T) {
	assert := assert.New(t)

	c, err := NewConstantVelocity(3, 0.1)
	assert.NoError(err)
	d, err := c.ToDiscrete(0.5)
	assert.NoError(err)

	x := mat.NewVecDense(6, []float64{1, 2, 3, 2, 0, -2})
	next, err := d.Propagate(x, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{2, 2, 2, 2, 0, -2}, next.(*mat.VecDense).RawVector().Data, 1e-12)

	wd := mat.NewVecDense(6, []float64{1, 0, 0, 0, 0, 0})
	next, err = d.Propagate(x, wd)
	assert.NoError(err)
	assert.InDelta(3.0, next.AtVec(0), 1e-12)

	_, err = d.Propagate(mat.NewVecDense(2, nil), nil)
	assert.Error(err)

	_, err = d.Propagate(x, mat.NewVecDense(2, nil))
	assert.Error(err)

	nd, err := NewDiscrete(d.A, d.Q)
	assert.NoError(err)
	assert.Equal(6, nd.Dims())

	nd, err = NewDiscrete(mat.NewDense(2, 2, nil), d.Q)
	assert.Nil(nd)
	assert.Error(err)
}
