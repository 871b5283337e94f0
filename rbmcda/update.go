package rbmcda

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-tracker/estimate"
	"github.com/milosgajdos/go-tracker/internal/monitoring"
	"github.com/milosgajdos/go-tracker/particle"
	"github.com/milosgajdos/go-tracker/prob"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// eventKind is data association hypothesis kind
type eventKind int

const (
	clutterEvent eventKind = iota
	matchEvent
	birthEvent
)

// event is data association hypothesis of a single observation
type event struct {
	kind eventKind
	// prior is event prior probability
	prior float64
	// lik is observation likelihood given the event
	lik float64
	// p is the particle state should the event be chosen
	p *particle.Particle
}

// birth is the state of a target born from an observation
type birth struct {
	est *estimate.Gaussian
	lik float64
}

// minMass is the smallest total weight mass which is still renormalised
const minMass = 1e-300

// update updates every particle with observation z and renormalises weights.
// Particles are replaced only after every particle has been updated successfully.
func (t *Tracker) update(z *mat.VecDense) error {
	est, lik, err := t.kf.Update(t.prior.Val(), t.prior.Cov(), z)
	if err != nil {
		return fmt.Errorf("failed to update target prior: %v", err)
	}
	b := &birth{est: est, lik: lik}

	var counts [3]int
	next := make([]*particle.Particle, len(t.particles))
	for i, p := range t.particles {
		np, kind, err := t.updateParticle(p, z, b)
		if err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
		next[i] = np
		counts[kind]++
	}

	t.particles = next
	t.normalize()

	monitoring.Debugf("rbmcda: tick %d associations: clutter=%d match=%d birth=%d",
		t.tick, counts[clutterEvent], counts[matchEvent], counts[birthEvent])

	return nil
}

// updateParticle enumerates data association events of observation z for particle p,
// draws one of them from the importance distribution and returns its particle
// along with the kind of the drawn event. p is never modified.
func (t *Tracker) updateParticle(p *particle.Particle, z *mat.VecDense, b *birth) (*particle.Particle, eventKind, error) {
	pb, pn := t.cfg.BirthPrior, t.cfg.NoiseLikelihood
	n := p.Len()

	defer func() {
		for i := range t.events {
			t.events[i].p = nil
		}
		t.events = t.events[:0]
	}()

	t.events = append(t.events[:0], event{
		kind:  clutterEvent,
		prior: (1 - pb) * pn,
		lik:   t.cfg.ClutterDensity,
		p:     p.Clone(),
	})

	for j := 0; j < n; j++ {
		target := p.At(j)
		est, lik, err := t.kf.Update(target.Val(), target.Cov(), z)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to update target %d: %v", target.ID, err)
		}

		c := p.Clone()
		if err := c.At(j).Set(est); err != nil {
			return nil, 0, err
		}
		c.At(j).Silence = 0

		t.events = append(t.events, event{
			kind:  matchEvent,
			prior: (1 - pb) * (1 - pn) / float64(n),
			lik:   lik,
			p:     c,
		})
	}

	if n < t.cfg.MaxTargets {
		id, ok := p.FreeID(t.cfg.MaxTargets)
		if ok {
			target, err := particle.NewTarget(id, b.est)
			if err != nil {
				return nil, 0, err
			}

			c := p.Clone()
			if err := c.Add(target); err != nil {
				return nil, 0, err
			}

			t.events = append(t.events, event{
				kind:  birthEvent,
				prior: pb,
				lik:   b.lik,
				p:     c,
			})
		}
	}

	w := make([]float64, len(t.events))
	for i, e := range t.events {
		w[i] = e.prior * e.lik
	}

	k, err := prob.Draw(w, t.src)
	if err != nil {
		return nil, 0, err
	}

	// importance probability of the drawn event
	q := w[k] / floats.Sum(w)

	e := t.events[k]
	e.p.W0 = p.W
	e.p.W = p.W * w[k] / math.Max(q, prob.Eps)
	e.p.Elapsed = 0

	return e.p, e.kind, nil
}

// normalize normalises particle weights to sum to 1.
// Weights are reset to uniform if their total mass vanishes.
func (t *Tracker) normalize() {
	w := t.Weights()
	sum := floats.Sum(w)

	if !(sum > minMass) || math.IsInf(sum, 0) {
		monitoring.Logf("rbmcda: degenerate weights (sum %g), resetting to uniform", sum)
		for _, p := range t.particles {
			p.W = 1 / float64(len(t.particles))
		}
		return
	}

	for _, p := range t.particles {
		p.W /= sum
	}
}
