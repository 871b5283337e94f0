// Package rbmcda implements a Rao-Blackwellized Monte Carlo Data Association
// multi-target tracker. Data associations are sampled by particles while target
// states are tracked in closed form by a Kalman filter conditioned on them.
package rbmcda

import (
	"errors"
	"fmt"
	"time"

	tracker "github.com/milosgajdos/go-tracker"
	"github.com/milosgajdos/go-tracker/estimate"
	"github.com/milosgajdos/go-tracker/internal/monitoring"
	"github.com/milosgajdos/go-tracker/kalman/kf"
	"github.com/milosgajdos/go-tracker/particle"
	"github.com/milosgajdos/go-tracker/sim"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidObservation is returned when an observation is not a finite 3-D vector
var ErrInvalidObservation = errors.New("invalid observation")

var _ tracker.Tracker = (*Tracker)(nil)

// Tracker is RBMCDA multi-target tracker.
// Tracker is not safe for concurrent use.
type Tracker struct {
	// cfg is tracker configuration
	cfg Config
	// kf filters target states
	kf *kf.KF
	// prior is the state estimate of new targets
	prior *estimate.Gaussian
	// particles is the particle set
	particles []*particle.Particle
	// src is the source of randomness
	src rand.Source
	// unif draws from U(0,1)
	unif distuv.Uniform
	// tick counts processed steps
	tick int
	// events is the scratch space of a single particle update
	events []event
}

// New creates new RBMCDA tracker with the given configuration and returns it.
// If src is nil a time seeded source is used.
// It returns error if the configuration is invalid.
func New(cfg Config, src rand.Source) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()

	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	cv, err := sim.NewConstantVelocity(3, cfg.NoiseSpecDen)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamics model: %v", err)
	}

	m, err := cv.ToDiscrete(cfg.Dt)
	if err != nil {
		return nil, fmt.Errorf("failed to discretize dynamics model: %v", err)
	}

	f, err := kf.NewPosition(m, cfg.MeasNoiseSD)
	if err != nil {
		return nil, fmt.Errorf("failed to create kalman filter: %v", err)
	}

	cov := mat.NewSymDense(particle.StateDim, nil)
	for i, v := range cfg.PriorCov {
		cov.SetSym(i, i, v)
	}

	prior, err := estimate.NewGaussian(mat.NewVecDense(particle.StateDim, cfg.PriorMean), cov)
	if err != nil {
		return nil, fmt.Errorf("invalid target prior: %v", err)
	}

	particles := make([]*particle.Particle, cfg.Particles)
	for i := range particles {
		particles[i] = particle.New(1 / float64(cfg.Particles))
	}

	monitoring.Debugf("rbmcda: transition matrix:\nA=%v", mat.Formatted(m.A, mat.Prefix("  "), mat.Squeeze()))

	return &Tracker{
		cfg:       cfg,
		kf:        f,
		prior:     prior,
		particles: particles,
		src:       src,
		unif:      distuv.Uniform{Min: 0, Max: 1, Src: src},
	}, nil
}

// Step processes observations of a single time tick and returns the tracks of
// the winning particle in its target order. Every call advances time by one tick.
// It returns error if any observation is invalid, in which case no state is modified.
func (t *Tracker) Step(obs []mat.Vector) ([]tracker.Track, error) {
	zs, err := t.observations(obs)
	if err != nil {
		return nil, err
	}

	if len(zs) == 0 {
		if err := t.predict(1); err != nil {
			return nil, err
		}
		t.smooth()
	}

	for i, z := range zs {
		if err := t.update(z); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}

		// only the last observation of the tick moves the clock
		ticks := 0
		if i == len(zs)-1 {
			ticks = 1
		}

		if err := t.predict(ticks); err != nil {
			return nil, err
		}

		if err := t.resample(); err != nil {
			return nil, err
		}

		t.smooth()
	}

	t.tick++

	return t.Tracks(), nil
}

// observations validates obs and returns their copies
func (t *Tracker) observations(obs []mat.Vector) ([]*mat.VecDense, error) {
	zs := make([]*mat.VecDense, len(obs))
	for i, o := range obs {
		if o == nil || o.Len() != 3 {
			return nil, fmt.Errorf("observation %d: %w: expected 3 dimensions", i, ErrInvalidObservation)
		}

		z := mat.VecDenseCopyOf(o)
		data := z.RawVector().Data
		if floats.HasNaN(data) || floats.Max(data) > maxCoord || floats.Min(data) < -maxCoord {
			return nil, fmt.Errorf("observation %d: %w: %v", i, ErrInvalidObservation, data)
		}

		if t.cfg.Directional {
			norm := floats.Norm(data, 2)
			if norm == 0 {
				return nil, fmt.Errorf("observation %d: %w: zero direction", i, ErrInvalidObservation)
			}
			z.ScaleVec(1/norm, z)
		}

		zs[i] = z
	}

	return zs, nil
}

// maxCoord bounds observation coordinates; it rejects infinities
const maxCoord = 1e12

// smooth runs one-pole filter over particle weights
func (t *Tracker) smooth() {
	c := t.cfg.WeightSmoothing
	for _, p := range t.particles {
		p.WPrev = c*p.WPrev + (1-c)*p.W
	}
}

// Tracks returns the tracks of the winning particle
func (t *Tracker) Tracks() []tracker.Track {
	return t.particles[t.Best()].Tracks(t.cfg.Directional)
}

// Best returns the index of the winning particle: the particle with the highest
// smoothed weight. Smoothed weights equal the current ones when smoothing is disabled.
func (t *Tracker) Best() int {
	best := 0
	for i, p := range t.particles {
		if p.WPrev > t.particles[best].WPrev {
			best = i
		}
	}

	return best
}

// Particles returns deep copies of tracker particles
func (t *Tracker) Particles() []*particle.Particle {
	particles := make([]*particle.Particle, len(t.particles))
	for i, p := range t.particles {
		particles[i] = p.Clone()
	}

	return particles
}

// Weights returns current particle weights
func (t *Tracker) Weights() []float64 {
	w := make([]float64, len(t.particles))
	for i, p := range t.particles {
		w[i] = p.W
	}

	return w
}

// Neff returns the effective number of particles
func (t *Tracker) Neff() float64 {
	w := t.Weights()
	sq := floats.Dot(w, w)
	if sq == 0 {
		return 0
	}

	return 1 / sq
}

// Tick returns the number of processed steps
func (t *Tracker) Tick() int {
	return t.tick
}

// Config returns tracker configuration
func (t *Tracker) Config() Config {
	return t.cfg.clone()
}
