package tracker

import "gonum.org/v1/gonum/mat"

// Tracker tracks multiple targets from a stream of observations
type Tracker interface {
	// Step consumes the observations of one time tick and returns the current tracks
	Step([]mat.Vector) ([]Track, error)
}

// Track is a tracked target reported by a Tracker
type Track struct {
	// ID is unique among the live tracks; it may be reused once the track dies
	ID int
	// Pos is the estimated target position
	Pos [3]float64
	// Vel is the estimated target velocity
	Vel [3]float64
}

// Estimate is a Gaussian state estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
}
