package rbmcda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestUpdateParticle(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.MaxTargets = 1
	tr := newTracker(t, c, 1)

	z := mat.NewVecDense(3, []float64{5, 0, 0})
	est, lik, err := tr.kf.Update(tr.prior.Val(), tr.prior.Cov(), z)
	assert.NoError(err)
	b := &birth{est: est, lik: lik}

	// observation right on top of the only target is matched
	p := newParticle(t, newTarget(t, 0, 5, 0, 0))
	p.At(0).Silence = 3
	p.W = 0.5
	np, kind, err := tr.updateParticle(p, z, b)
	assert.NoError(err)
	assert.Equal(matchEvent, kind)
	assert.Equal(0.5, np.W0)
	assert.Greater(np.W, 0.0)
	assert.Equal(0, np.At(0).Silence)
	assert.Equal(0, np.Elapsed)
	assert.Len(tr.events, 0)

	// the original particle is untouched
	assert.Equal(3, p.At(0).Silence)
	assert.Equal(0.5, p.W)

	// capacity exhausted: no birth even though the target is far away
	p = newParticle(t, newTarget(t, 0, -5, 0, 0))
	for i := 0; i < 20; i++ {
		np, kind, err = tr.updateParticle(p, z, b)
		assert.NoError(err)
		assert.Equal(clutterEvent, kind)
		assert.Equal(1, np.Len())
	}
}

func TestUpdateBirth(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.BirthPrior = 0.99
	tr := newTracker(t, c, 1)

	z := mat.NewVecDense(3, []float64{1, 0, 0})
	est, lik, err := tr.kf.Update(tr.prior.Val(), tr.prior.Cov(), z)
	assert.NoError(err)
	b := &birth{est: est, lik: lik}

	// smallest free ID is taken
	p := newParticle(t, newTarget(t, 0, -5, 0, 0), newTarget(t, 2, 5, 0, 0))
	births := 0
	for i := 0; i < 20; i++ {
		np, kind, err := tr.updateParticle(p, z, b)
		assert.NoError(err)
		if kind == birthEvent {
			births++
			assert.Equal([]int{0, 2, 1}, np.IDs())
			assert.Equal(0, np.At(2).Age)
			assert.InDelta(1.0, np.At(2).Pos()[0], 0.01)
		}
	}
	assert.Greater(births, 0)
}

func TestUpdateWeights(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.Particles = 10
	tr := newTracker(t, c, 1)

	for i := 0; i < 5; i++ {
		assert.NoError(tr.particles[i].Add(newTarget(t, 0, 1, 0, 0)))
	}

	assert.NoError(tr.update(mat.NewVecDense(3, []float64{1, 0, 0})))
	w := tr.Weights()
	assert.InDelta(1.0, floats.Sum(w), 1e-12)

	// particles explaining the observation gain weight
	for i := 0; i < 5; i++ {
		assert.Greater(w[i], w[5+i])
		assert.InDelta(w[0], w[i], 1e-12)
	}
}

func TestUpdateParticleWeightAndPriors(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.BirthPrior = 0.9
	c.ClutterDensity = 2
	c.PriorCov = []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	tr := newTracker(t, c, 11)

	p := newParticle(t, newTarget(t, 0, 1.3, 0, 0), newTarget(t, 1, 0.7, 0, 0))
	p.W = 0.3
	for j := 0; j < p.Len(); j++ {
		p.At(j).Silence = 2
	}

	z := mat.NewVecDense(3, []float64{1, 0, 0})
	est, lb, err := tr.kf.Update(tr.prior.Val(), tr.prior.Cov(), z)
	assert.NoError(err)
	b := &birth{est: est, lik: lb}

	_, l0, err := tr.kf.Update(p.At(0).Val(), p.At(0).Cov(), z)
	assert.NoError(err)
	_, l1, err := tr.kf.Update(p.At(1).Val(), p.At(1).Cov(), z)
	assert.NoError(err)

	pb, pn := c.BirthPrior, c.NoiseLikelihood
	// clutter, match target 0, match target 1, birth
	w := []float64{
		(1 - pb) * pn * c.ClutterDensity,
		(1 - pb) * (1 - pn) / 2 * l0,
		(1 - pb) * (1 - pn) / 2 * l1,
		pb * lb,
	}
	sum := floats.Sum(w)

	n := 4000
	counts := make([]int, len(w))
	for i := 0; i < n; i++ {
		np, kind, err := tr.updateParticle(p, z, b)
		assert.NoError(err)
		// W * prior * lik / q == W * sum(prior * lik) whichever event is drawn
		assert.InDelta(p.W*sum, np.W, 1e-12)
		assert.Equal(p.W, np.W0)

		switch kind {
		case clutterEvent:
			counts[0]++
		case matchEvent:
			if np.At(0).Silence == 0 {
				counts[1]++
			} else {
				assert.Equal(0, np.At(1).Silence)
				counts[2]++
			}
		case birthEvent:
			assert.Equal(3, np.Len())
			counts[3]++
		}
	}

	for k := range w {
		assert.Greater(w[k]/sum, 0.05, "event %d", k)
		assert.InDelta(w[k]/sum, float64(counts[k])/float64(n), 0.03, "event %d", k)
	}
}
