package prob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestDraw(t *testing.T) {
	assert := assert.New(t)
	src := rand.NewSource(42)

	// invalid weights
	for _, w := range [][]float64{
		nil,
		{},
		{0.2, -0.1},
	} {
		i, err := Draw(w, src)
		assert.Error(err)
		assert.Equal(-1, i)
	}

	// no probability mass
	i, err := Draw([]float64{0, 0, 0}, src)
	assert.ErrorIs(err, ErrDegenerate)
	assert.Equal(-1, i)

	// single outcome with mass
	for n := 0; n < 50; n++ {
		i, err = Draw([]float64{0, 3, 0}, src)
		assert.NoError(err)
		assert.Equal(1, i)
	}

	// unnormalised weights
	w := []float64{1, 3}
	counts := make([]int, len(w))
	draws := 20000
	for n := 0; n < draws; n++ {
		i, err := Draw(w, src)
		assert.NoError(err)
		counts[i]++
	}
	assert.InDelta(0.75, float64(counts[1])/float64(draws), 0.02)
}

func TestDrawSeeded(t *testing.T) {
	assert := assert.New(t)

	w := []float64{0.1, 0.2, 0.3, 0.4}
	a, b := rand.NewSource(7), rand.NewSource(7)
	for n := 0; n < 100; n++ {
		i, err := Draw(w, a)
		assert.NoError(err)
		j, err := Draw(w, b)
		assert.NoError(err)
		assert.Equal(i, j)
	}
}
