// Package particle implements the Monte Carlo samples of a multi-target tracker.
// A Particle exclusively owns its targets: cloning a particle deep copies every
// target and no target is ever shared between two particles.
package particle

import (
	"fmt"

	tracker "github.com/milosgajdos/go-tracker"
	"gonum.org/v1/gonum/floats"
)

// StateDim is the dimension of a target state: 3-D position and 3-D velocity
const StateDim = 6

// Particle is a weighted hypothesis of the complete multi-target state
type Particle struct {
	// W is the current importance weight
	W float64
	// WPrev is the weight smoothed over previous ticks
	WPrev float64
	// W0 is the weight prior to the latest update
	W0 float64
	// Elapsed counts ticks since the particle last processed an observation
	Elapsed int
	// targets in order of insertion
	targets []*Target
}

// New creates new Particle with weight w and no targets
func New(w float64) *Particle {
	return &Particle{
		W:     w,
		WPrev: w,
		W0:    w,
	}
}

// Len returns the number of targets
func (p *Particle) Len() int {
	return len(p.targets)
}

// At returns the i-th target. The target remains owned by p.
// It panics if i is out of range.
func (p *Particle) At(i int) *Target {
	return p.targets[i]
}

// IDs returns target IDs in target order
func (p *Particle) IDs() []int {
	ids := make([]int, len(p.targets))
	for i, t := range p.targets {
		ids[i] = t.ID
	}

	return ids
}

// Has returns true if p holds a target with the given id
func (p *Particle) Has(id int) bool {
	for _, t := range p.targets {
		if t.ID == id {
			return true
		}
	}

	return false
}

// FreeID returns the smallest ID in [0, max) not used by any target of p.
// It returns false if every ID is taken.
func (p *Particle) FreeID(max int) (int, bool) {
	used := make([]bool, max)
	for _, t := range p.targets {
		if t.ID >= 0 && t.ID < max {
			used[t.ID] = true
		}
	}

	for id := range used {
		if !used[id] {
			return id, true
		}
	}

	return -1, false
}

// Add appends t to the targets of p; p takes ownership of t.
// It returns error if p already holds a target with the same ID.
func (p *Particle) Add(t *Target) error {
	if t == nil {
		return fmt.Errorf("invalid target")
	}

	if p.Has(t.ID) {
		return fmt.Errorf("duplicate target id: %d", t.ID)
	}

	p.targets = append(p.targets, t)

	return nil
}

// Compact removes every target whose index is marked in dead preserving the order
// of the remaining ones. It returns the number of removed targets.
// It panics if dead is shorter than the number of targets.
func (p *Particle) Compact(dead []bool) int {
	n := 0
	for i, t := range p.targets {
		if dead[i] {
			continue
		}
		p.targets[n] = t
		n++
	}

	removed := len(p.targets) - n
	for i := n; i < len(p.targets); i++ {
		p.targets[i] = nil
	}
	p.targets = p.targets[:n]

	return removed
}

// Clone returns a deep copy of p
func (p *Particle) Clone() *Particle {
	c := &Particle{
		W:       p.W,
		WPrev:   p.WPrev,
		W0:      p.W0,
		Elapsed: p.Elapsed,
		targets: make([]*Target, len(p.targets)),
	}

	for i, t := range p.targets {
		c.targets[i] = t.Clone()
	}

	return c
}

// Tracks returns target positions, velocities and IDs in target order.
// If unit is true positions are projected onto the unit sphere.
func (p *Particle) Tracks(unit bool) []tracker.Track {
	tracks := make([]tracker.Track, len(p.targets))
	for i, t := range p.targets {
		tracks[i] = tracker.Track{
			ID:  t.ID,
			Pos: t.Pos(),
			Vel: t.Vel(),
		}

		if unit {
			if norm := floats.Norm(tracks[i].Pos[:], 2); norm > 0 {
				floats.Scale(1/norm, tracks[i].Pos[:])
			}
		}
	}

	return tracks
}

// Distance returns the Euclidean distance between the positions of targets i and j
func (p *Particle) Distance(i, j int) float64 {
	a, b := p.targets[i].Pos(), p.targets[j].Pos()

	return floats.Distance(a[:], b[:], 2)
}
