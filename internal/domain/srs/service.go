package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/quillmind/recall-api/internal/domain"
)

// Common errors
var (
	// ErrInvalidQuality is returned when the quality rating is outside 0-5.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvariantViolation is returned when the input scheduling state is
	// already out of range. That indicates a programming error upstream; the
	// scheduler fails fast rather than silently clamping.
	ErrInvariantViolation = errors.New("scheduling state violates invariants")
)

// Result is the output of one scheduling computation: the new scheduling
// state and the timestamp of the next review.
type Result struct {
	State        domain.SchedulingSnapshot
	NextReviewAt time.Time
}

// Service defines the interface for scheduling computations.
type Service interface {
	// Schedule computes the post-review scheduling state for a card given
	// the learner's quality rating. It is a pure function of its arguments.
	Schedule(state domain.SchedulingSnapshot, quality int, now time.Time) (Result, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	state domain.SchedulingSnapshot,
	quality int,
	now time.Time,
) (Result, error) {
	if quality < 0 || quality > 5 {
		return Result{}, ErrInvalidQuality
	}

	if state.EaseFactor < s.params.MinEaseFactor {
		return Result{}, fmt.Errorf("%w: ease factor %.2f below floor %.2f",
			ErrInvariantViolation, state.EaseFactor, s.params.MinEaseFactor)
	}
	if state.IntervalDays < 0 {
		return Result{}, fmt.Errorf("%w: negative interval %d",
			ErrInvariantViolation, state.IntervalDays)
	}
	if state.Repetitions < 0 {
		return Result{}, fmt.Errorf("%w: negative repetition count %d",
			ErrInvariantViolation, state.Repetitions)
	}

	return schedule(state, quality, now, s.params), nil
}
