package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review-specific validation errors
var (
	ErrReviewIDEmpty     = errors.New("review ID cannot be empty")
	ErrReviewCardIDEmpty = errors.New("review card ID cannot be empty")
)

// SchedulingSnapshot captures a card's scheduling state at a point in time.
// A pair of snapshots on each Review makes the review log a complete audit
// trail, independent of the mutable card row.
type SchedulingSnapshot struct {
	EaseFactor   float64 `json:"ease_factor"`
	IntervalDays int     `json:"interval_days"`
	Repetitions  int     `json:"repetitions"`
}

// Review is one immutable, append-only log entry recording a single answered
// study unit. Reviews are never mutated or deleted.
type Review struct {
	ID         uuid.UUID `json:"id"`
	CardID     uuid.UUID `json:"card_id"`
	ReviewedAt time.Time `json:"reviewed_at"`

	// Quality is the learner's self-rated recall strength, 0 (total failure)
	// through 5 (perfect). Quality >= 3 counts as a correct answer.
	Quality   int    `json:"quality"`
	LatencyMs *int64 `json:"latency_ms,omitempty"`

	Before SchedulingSnapshot `json:"before"`
	After  SchedulingSnapshot `json:"after"`
}

// NewReview creates a validated review log entry for a card.
func NewReview(
	cardID uuid.UUID,
	reviewedAt time.Time,
	quality int,
	latencyMs *int64,
	before, after SchedulingSnapshot,
) (*Review, error) {
	review := &Review{
		ID:         uuid.New(),
		CardID:     cardID,
		ReviewedAt: reviewedAt,
		Quality:    quality,
		LatencyMs:  latencyMs,
		Before:     before,
		After:      after,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReviewIDEmpty
	}

	if r.CardID == uuid.Nil {
		return ErrReviewCardIDEmpty
	}

	if r.Quality < 0 || r.Quality > 5 {
		return ErrInvalidQuality
	}

	return nil
}

// Correct reports whether this review counted as a successful recall.
func (r *Review) Correct() bool {
	return r.Quality >= 3
}

// Snapshot builds a SchedulingSnapshot from a card's current state.
func Snapshot(card *Card) SchedulingSnapshot {
	return SchedulingSnapshot{
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
	}
}
