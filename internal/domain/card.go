package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardStatus represents the learning state of a card.
type CardStatus string

// Possible card status values
const (
	CardStatusNew       CardStatus = "new"
	CardStatusLearning  CardStatus = "learning"
	CardStatusReview    CardStatus = "review"
	CardStatusMature    CardStatus = "mature"
	CardStatusSuspended CardStatus = "suspended"
)

// DefaultEaseFactor is the starting ease factor for a freshly created card.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor below which a card's ease factor never drops.
const MinEaseFactor = 1.3

// Card-specific validation errors
var (
	ErrCardIDEmpty           = errors.New("card ID cannot be empty")
	ErrCardDeckIDEmpty       = errors.New("card deck ID cannot be empty")
	ErrCardEaseTooLow        = errors.New("card ease factor cannot be below 1.3")
	ErrCardIntervalNegative  = errors.New("card interval cannot be negative")
	ErrCardRepsNegative      = errors.New("card repetitions cannot be negative")
	ErrCardCountersImbalance = errors.New("card correct reviews cannot exceed total reviews")
)

// Card represents a single reviewable flashcard together with its
// spaced-repetition scheduling state and lifetime counters.
//
// The scheduling fields (Status, EaseFactor, IntervalDays, Repetitions,
// LastReviewedAt, NextReviewAt) are only ever mutated through ApplyScheduling
// during answer submission; everything else is set at creation time.
type Card struct {
	ID     uuid.UUID  `json:"id"`
	DeckID uuid.UUID  `json:"deck_id"`
	NoteID *uuid.UUID `json:"note_id,omitempty"` // source note, when generated from one

	Content CardContent `json:"content"`
	Tags    []string    `json:"tags,omitempty"`

	Status         CardStatus `json:"status"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`

	TotalReviews   int `json:"total_reviews"`
	CorrectReviews int `json:"correct_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the "new" status with default scheduling
// state. New cards are immediately available for review.
func NewCard(deckID uuid.UUID, noteID *uuid.UUID, content CardContent, tags []string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:           uuid.New(),
		DeckID:       deckID,
		NoteID:       noteID,
		Content:      content,
		Tags:         tags,
		Status:       CardStatusNew,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the Card's structural and scheduling invariants.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if err := c.Content.Validate(); err != nil {
		return err
	}

	switch c.Status {
	case CardStatusNew, CardStatusLearning, CardStatusReview, CardStatusMature, CardStatusSuspended:
	default:
		return ErrInvalidCardStatus
	}

	if c.EaseFactor < MinEaseFactor {
		return ErrCardEaseTooLow
	}

	if c.IntervalDays < 0 {
		return ErrCardIntervalNegative
	}

	if c.Repetitions < 0 {
		return ErrCardRepsNegative
	}

	if c.CorrectReviews > c.TotalReviews {
		return ErrCardCountersImbalance
	}

	return nil
}

// IsDue reports whether the card should be presented for review at the given
// time. New cards carry no schedule and are always due; suspended cards are
// never due.
func (c *Card) IsDue(now time.Time) bool {
	if c.Status == CardStatusSuspended {
		return false
	}
	if c.Status == CardStatusNew {
		return true
	}
	return !c.NextReviewAt.After(now)
}

// ApplyScheduling writes a new scheduling state onto the card and bumps the
// lifetime counters. correct must reflect the quality >= 3 rule so
// CorrectReviews stays consistent with the review log.
func (c *Card) ApplyScheduling(
	status CardStatus,
	easeFactor float64,
	intervalDays, repetitions int,
	nextReviewAt, reviewedAt time.Time,
	correct bool,
) {
	c.Status = status
	c.EaseFactor = easeFactor
	c.IntervalDays = intervalDays
	c.Repetitions = repetitions
	c.NextReviewAt = nextReviewAt
	reviewed := reviewedAt
	c.LastReviewedAt = &reviewed
	c.TotalReviews++
	if correct {
		c.CorrectReviews++
	}
	c.UpdatedAt = reviewedAt
}

// HasTag reports whether the card carries the given tag.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the card carries at least one of the given tags.
// An empty filter matches every card.
func (c *Card) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}
