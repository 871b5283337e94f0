package rbmcda

import (
	"fmt"

	"github.com/milosgajdos/go-tracker/internal/monitoring"
	"github.com/milosgajdos/go-tracker/particle"
	prand "github.com/milosgajdos/go-tracker/rand"
	"gonum.org/v1/gonum/floats"
)

// resample resamples the particle set if the effective number of particles
// drops below a quarter of the particle count.
func (t *Tracker) resample() error {
	np := len(t.particles)
	neff := t.Neff()
	if neff >= float64(np)/4 {
		return nil
	}

	w := t.Weights()

	var idx []int
	var err error

	switch t.cfg.Resampling {
	case ResampleStratified:
		idx, err = prand.StratifiedDrawN(w, t.src)
	case ResampleMultinomial:
		idx, err = prand.RouletteDrawN(w, np, t.src)
	default:
		best := floats.MaxIdx(w)
		idx = make([]int, np)
		for i := range idx {
			idx[i] = best
		}
	}

	if err != nil {
		return fmt.Errorf("failed to resample particles: %v", err)
	}

	particles := make([]*particle.Particle, np)
	for i, j := range idx {
		p := t.particles[j].Clone()
		p.W, p.WPrev, p.W0 = 1/float64(np), 1/float64(np), 1/float64(np)
		particles[i] = p
	}
	t.particles = particles

	monitoring.Debugf("rbmcda: tick %d: resampled %d particles (neff %.2f)", t.tick, np, neff)

	return nil
}
