package rbmcda

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxParticles is the largest supported particle count
	MaxParticles = 500
	// MaxTargets is the largest supported number of simultaneous targets
	MaxTargets = 24
)

// Resampling names the particle set resampling strategy
type Resampling string

const (
	// ResampleBest replaces every particle with a copy of the highest-weight one
	ResampleBest Resampling = "best"
	// ResampleStratified draws particles using stratified sampling
	ResampleStratified Resampling = "stratified"
	// ResampleMultinomial draws particles using multinomial (roulette) sampling
	ResampleMultinomial Resampling = "multinomial"
)

// Config configures the tracker. It is copied into the tracker at construction
// and never changes afterwards.
type Config struct {
	// Particles is the number of particles
	Particles int `yaml:"particles" validate:"gte=1,lte=500"`
	// MaxTargets is the maximum number of simultaneously tracked targets
	MaxTargets int `yaml:"maxTargets" validate:"gte=1,lte=24"`
	// NoiseLikelihood is the prior probability of an observation being clutter
	NoiseLikelihood float64 `yaml:"noiseLikelihood" validate:"gt=0,lt=1"`
	// MeasNoiseSD is the measurement noise standard deviation
	MeasNoiseSD float64 `yaml:"measNoiseSD" validate:"gt=0"`
	// NoiseSpecDen is the process noise spectral density
	NoiseSpecDen float64 `yaml:"noiseSpecDen" validate:"gt=0"`
	// AllowMultiDeath allows more than one target to die in a particle per predict
	AllowMultiDeath bool `yaml:"allowMultiDeath"`
	// BirthPrior is the prior probability of an observation giving birth to a target
	BirthPrior float64 `yaml:"birthPrior" validate:"gt=0,lt=1"`
	// AlphaDeath is the shape of the Gamma distributed silence time
	AlphaDeath float64 `yaml:"alphaDeath" validate:"gt=0"`
	// BetaDeath is the scale of the Gamma distributed silence time in seconds
	BetaDeath float64 `yaml:"betaDeath" validate:"gt=0"`
	// Dt is the time step in seconds
	Dt float64 `yaml:"dt" validate:"gt=0"`
	// WeightSmoothing is the one-pole weight smoothing coefficient; 0 disables it
	WeightSmoothing float64 `yaml:"weightSmoothing" validate:"gte=0,lt=1"`
	// ForceKill kills any target closer than ForceKillDistance to an older one
	ForceKill bool `yaml:"forceKill"`
	// ForceKillDistance is the force kill distance
	ForceKillDistance float64 `yaml:"forceKillDistance" validate:"gte=0"`
	// PriorMean is the state mean of new targets
	PriorMean []float64 `yaml:"priorMean" validate:"len=6"`
	// PriorCov is the diagonal of the state covariance of new targets
	PriorCov []float64 `yaml:"priorCov" validate:"len=6,dive,gt=0"`
	// ClutterDensity is the likelihood of a clutter observation
	ClutterDensity float64 `yaml:"clutterDensity" validate:"gt=0"`
	// Directional treats observations as directions of arrival on the unit sphere
	Directional bool `yaml:"directional"`
	// Resampling is the resampling strategy; empty means ResampleBest
	Resampling Resampling `yaml:"resampling" validate:"omitempty,oneof=best stratified multinomial"`
}

// DefaultConfig returns the default tracker configuration
func DefaultConfig() Config {
	return Config{
		Particles:         30,
		MaxTargets:        4,
		NoiseLikelihood:   0.2,
		MeasNoiseSD:       0.1,
		NoiseSpecDen:      0.01,
		AllowMultiDeath:   false,
		BirthPrior:        0.5,
		AlphaDeath:        20,
		BetaDeath:         0.1,
		Dt:                0.1,
		WeightSmoothing:   0.5,
		ForceKill:         true,
		ForceKillDistance: 0.1,
		PriorMean:         []float64{0, 0, 0, 0, 0, 0},
		PriorCov:          []float64{4, 4, 4, 0.1, 0.1, 0.1},
		ClutterDensity:    0.1,
		Resampling:        ResampleBest,
	}
}

// Validate checks the configuration values are within supported bounds
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid tracker configuration: %w", err)
	}

	return nil
}

// clone returns a copy of c which shares no memory with c
func (c Config) clone() Config {
	c.PriorMean = append([]float64(nil), c.PriorMean...)
	c.PriorCov = append([]float64(nil), c.PriorCov...)

	return c
}
