package rbmcda

import (
	"fmt"

	"github.com/milosgajdos/go-tracker/particle"
	"github.com/milosgajdos/go-tracker/prob"
	"gonum.org/v1/gonum/floats"
)

// predict advances every particle by the given number of ticks.
// Targets die before the survivors are propagated.
func (t *Tracker) predict(ticks int) error {
	if ticks <= 0 {
		return nil
	}

	for i, p := range t.particles {
		if err := t.predictParticle(p, ticks); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}

	return nil
}

// predictParticle kills targets of p and propagates the survivors ticks forward
func (t *Tracker) predictParticle(p *particle.Particle, ticks int) error {
	if n := p.Len(); n > 0 {
		dead := make([]bool, n)
		if t.cfg.ForceKill {
			t.forceKill(p, dead)
		}

		if err := t.kill(p, ticks, dead); err != nil {
			return err
		}

		p.Compact(dead)
	}

	for j := 0; j < p.Len(); j++ {
		target := p.At(j)
		for k := 0; k < ticks; k++ {
			est, err := t.kf.Predict(target.Val(), target.Cov())
			if err != nil {
				return fmt.Errorf("failed to predict target %d: %v", target.ID, err)
			}

			if err := target.Set(est); err != nil {
				return err
			}
		}
		target.Age += ticks
		target.Silence += ticks
	}

	p.Elapsed += ticks

	return nil
}

// forceKill marks every target closer than the force kill distance to an older
// target as dead. Of two targets of the same age the later one dies.
func (t *Tracker) forceKill(p *particle.Particle, dead []bool) {
	for i := 0; i < p.Len(); i++ {
		if dead[i] {
			continue
		}

		for j := i + 1; j < p.Len(); j++ {
			if dead[j] || p.Distance(i, j) >= t.cfg.ForceKillDistance {
				continue
			}

			if p.At(i).Age < p.At(j).Age {
				dead[i] = true
				break
			}
			dead[j] = true
		}
	}
}

// hazards returns the probability of every target of p dying within the next
// ticks given how long it has been silent. Targets already marked dead get 0.
func (t *Tracker) hazards(p *particle.Particle, ticks int, dead []bool) []float64 {
	pd := make([]float64, p.Len())
	for j := range pd {
		if dead[j] {
			continue
		}

		s := p.At(j).Silence
		t0 := float64(s) * t.cfg.Dt
		t1 := float64(s+ticks) * t.cfg.Dt
		pd[j] = prob.GammaHazard(t0, t1, t.cfg.AlphaDeath, t.cfg.BetaDeath)
	}

	return pd
}

// kill draws target deaths of p and marks them in dead.
// Unless multiple deaths are allowed at most one target dies.
func (t *Tracker) kill(p *particle.Particle, ticks int, dead []bool) error {
	pd := t.hazards(p, ticks, dead)
	if floats.Max(pd) <= 0 {
		return nil
	}

	if t.cfg.AllowMultiDeath {
		for j, v := range pd {
			if v > 0 && t.unif.Rand() < v {
				dead[j] = true
			}
		}
		return nil
	}

	// w[0]: nobody dies, w[j+1]: only target j dies
	w := make([]float64, len(pd)+1)
	w[0] = survival(pd, -1)
	for j, v := range pd {
		w[j+1] = v * survival(pd, j)
	}

	// several certain deaths leave no single death event possible
	if floats.Sum(w) <= 0 {
		dead[floats.MaxIdx(pd)] = true
		return nil
	}

	k, err := prob.Draw(w, t.src)
	if err != nil {
		return fmt.Errorf("failed to draw death: %w", err)
	}

	if k > 0 {
		dead[k-1] = true
	}

	return nil
}

// survival returns the probability of every target but skip surviving
func survival(pd []float64, skip int) float64 {
	s := 1.0
	for i, v := range pd {
		if i != skip {
			s *= 1 - v
		}
	}

	return s
}
