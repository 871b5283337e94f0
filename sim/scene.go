package sim

import (
	"fmt"

	tracker "github.com/milosgajdos/go-tracker"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a simulated sound source moving with constant velocity
type Source struct {
	// Pos is the position at tick Start
	Pos [3]float64
	// Vel is the source velocity
	Vel [3]float64
	// Start is the first tick the source emits at
	Start int
	// Stop is the tick the source goes silent at; non-positive Stop never stops
	Stop int
}

// Active returns true if the source emits at tick
func (s Source) Active(tick int) bool {
	return tick >= s.Start && (s.Stop <= 0 || tick < s.Stop)
}

// Clutter configures spurious observations
type Clutter struct {
	// Rate is the probability of a clutter observation per tick
	Rate float64
	// Extent bounds clutter to the cube [-Extent, Extent]^3
	Extent float64
}

// Scene simulates a set of sources observed by a noisy localizer
type Scene struct {
	model   *Discrete
	sources []Source
	states  []mat.Vector
	meas    tracker.Noise
	clutter Clutter
	unit    distuv.Uniform
	tick    int
}

// NewScene creates a new scene of sources moving according to the discrete model m.
// Source positions are observed with measurement noise meas and corrupted by clutter.
// Random draws come from src. It returns error if m is not a 3-D position/velocity model,
// meas is not 3-D or clutter is invalid.
func NewScene(m *Discrete, sources []Source, meas tracker.Noise, clutter Clutter, src rand.Source) (*Scene, error) {
	if m == nil || m.Dims() != 6 {
		return nil, fmt.Errorf("invalid scene model")
	}

	if meas == nil || meas.Cov().SymmetricDim() != 3 {
		return nil, fmt.Errorf("invalid measurement noise")
	}

	if clutter.Rate < 0 || clutter.Rate > 1 || clutter.Extent < 0 {
		return nil, fmt.Errorf("invalid clutter: %+v", clutter)
	}

	states := make([]mat.Vector, len(sources))
	for i, s := range sources {
		states[i] = mat.NewVecDense(6, []float64{s.Pos[0], s.Pos[1], s.Pos[2], s.Vel[0], s.Vel[1], s.Vel[2]})
	}

	return &Scene{
		model:   m,
		sources: append([]Source(nil), sources...),
		states:  states,
		meas:    meas,
		clutter: clutter,
		unit:    distuv.Uniform{Min: 0, Max: 1, Src: src},
	}, nil
}

// Tick returns the number of simulated ticks
func (s *Scene) Tick() int {
	return s.tick
}

// Step simulates one tick. It returns the observations of the active sources
// followed by clutter, and the true state of the active sources.
// Truth IDs are source indices.
func (s *Scene) Step() ([]mat.Vector, []tracker.Track, error) {
	var obs []mat.Vector
	var truth []tracker.Track

	for i, src := range s.sources {
		if s.tick > src.Start {
			next, err := s.model.Propagate(s.states[i], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("source %d propagation failed: %v", i, err)
			}
			s.states[i] = next
		}

		if !src.Active(s.tick) {
			continue
		}

		x := s.states[i]
		z := mat.NewVecDense(3, nil)
		z.AddVec(x.(*mat.VecDense).SliceVec(0, 3), s.meas.Sample())
		obs = append(obs, z)

		truth = append(truth, tracker.Track{
			ID:  i,
			Pos: [3]float64{x.AtVec(0), x.AtVec(1), x.AtVec(2)},
			Vel: [3]float64{x.AtVec(3), x.AtVec(4), x.AtVec(5)},
		})
	}

	if s.clutter.Rate > 0 && s.unit.Rand() < s.clutter.Rate {
		c := mat.NewVecDense(3, nil)
		for j := 0; j < 3; j++ {
			c.SetVec(j, (2*s.unit.Rand()-1)*s.clutter.Extent)
		}
		obs = append(obs, c)
	}

	s.tick++

	return obs, truth, nil
}
