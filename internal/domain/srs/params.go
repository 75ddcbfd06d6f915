package srs

// Params defines the configurable parameters of the scheduling algorithm.
type Params struct {
	// MinEaseFactor is the floor applied to every ease factor adjustment.
	MinEaseFactor float64

	// FirstInterval is the interval, in days, after the first consecutive
	// successful review.
	FirstInterval int

	// SecondInterval is the interval, in days, after the second consecutive
	// successful review. Later intervals grow by the ease factor.
	SecondInterval int

	// LapseInterval is the interval, in days, applied after a failed review.
	LapseInterval int
}

// NewDefaultParams creates a Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  1.3,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}
