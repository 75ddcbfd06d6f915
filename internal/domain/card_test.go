package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustFrontBack(t *testing.T) CardContent {
	t.Helper()
	content, err := NewFrontBackContent("What is Go?", "A programming language")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return content
}

func TestNewCard(t *testing.T) {
	t.Parallel()
	deckID := uuid.New()
	noteID := uuid.New()

	card, err := NewCard(deckID, &noteID, mustFrontBack(t), []string{"go", "lang"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if card.DeckID != deckID {
		t.Errorf("Expected deck ID %s, got %s", deckID, card.DeckID)
	}

	if card.NoteID == nil || *card.NoteID != noteID {
		t.Errorf("Expected note ID %s, got %v", noteID, card.NoteID)
	}

	if card.Status != CardStatusNew {
		t.Errorf("Expected status %s, got %s", CardStatusNew, card.Status)
	}

	if card.EaseFactor != DefaultEaseFactor {
		t.Errorf("Expected ease factor %.2f, got %.2f", DefaultEaseFactor, card.EaseFactor)
	}

	if card.IntervalDays != 0 || card.Repetitions != 0 {
		t.Errorf("Expected zero scheduling state, got interval=%d reps=%d",
			card.IntervalDays, card.Repetitions)
	}

	if card.NextReviewAt.IsZero() {
		t.Error("Expected new card to be immediately reviewable")
	}

	// Invalid deck ID
	if _, err := NewCard(uuid.Nil, nil, mustFrontBack(t), nil); err != ErrCardDeckIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardDeckIDEmpty, err)
	}
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	base := func(t *testing.T) *Card {
		card, err := NewCard(uuid.New(), nil, mustFrontBack(t), nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		return card
	}

	testCases := []struct {
		name    string
		mutate  func(*Card)
		wantErr error
	}{
		{
			name:    "ease below floor",
			mutate:  func(c *Card) { c.EaseFactor = 1.2 },
			wantErr: ErrCardEaseTooLow,
		},
		{
			name:    "negative interval",
			mutate:  func(c *Card) { c.IntervalDays = -1 },
			wantErr: ErrCardIntervalNegative,
		},
		{
			name:    "negative repetitions",
			mutate:  func(c *Card) { c.Repetitions = -3 },
			wantErr: ErrCardRepsNegative,
		},
		{
			name:    "correct exceeds total",
			mutate:  func(c *Card) { c.CorrectReviews = 2; c.TotalReviews = 1 },
			wantErr: ErrCardCountersImbalance,
		},
		{
			name:    "unknown status",
			mutate:  func(c *Card) { c.Status = "archived" },
			wantErr: ErrInvalidCardStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card := base(t)
			tc.mutate(card)
			if err := card.Validate(); err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCardIsDue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	card, err := NewCard(uuid.New(), nil, mustFrontBack(t), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// New cards have no schedule and are always due.
	card.Status = CardStatusNew
	card.NextReviewAt = now.AddDate(0, 0, 7)
	if !card.IsDue(now) {
		t.Error("Expected new card to be due regardless of next review")
	}

	// Scheduled cards follow their next review timestamp.
	card.Status = CardStatusReview
	if card.IsDue(now) {
		t.Error("Expected future-scheduled card not to be due")
	}
	card.NextReviewAt = now.AddDate(0, 0, -1)
	if !card.IsDue(now) {
		t.Error("Expected past-scheduled card to be due")
	}

	// Suspended cards are never due.
	card.Status = CardStatusSuspended
	if card.IsDue(now) {
		t.Error("Expected suspended card never to be due")
	}
}

func TestCardApplyScheduling(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	card, err := NewCard(uuid.New(), nil, mustFrontBack(t), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	next := now.AddDate(0, 0, 1)
	card.ApplyScheduling(CardStatusLearning, 2.5, 1, 1, next, now, true)

	if card.TotalReviews != 1 || card.CorrectReviews != 1 {
		t.Errorf("Expected counters 1/1, got %d/%d", card.TotalReviews, card.CorrectReviews)
	}
	if card.LastReviewedAt == nil || !card.LastReviewedAt.Equal(now) {
		t.Errorf("Expected last reviewed at %v, got %v", now, card.LastReviewedAt)
	}
	if !card.NextReviewAt.Equal(next) {
		t.Errorf("Expected next review at %v, got %v", next, card.NextReviewAt)
	}

	card.ApplyScheduling(CardStatusLearning, 2.5, 1, 0, next, now, false)
	if card.TotalReviews != 2 || card.CorrectReviews != 1 {
		t.Errorf("Expected counters 2/1 after failed review, got %d/%d",
			card.TotalReviews, card.CorrectReviews)
	}

	if err := card.Validate(); err != nil {
		t.Errorf("Expected card to stay valid after scheduling, got %v", err)
	}
}

func TestCardTagMatching(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), nil, mustFrontBack(t), []string{"anatomy", "organs"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !card.HasAnyTag([]string{"organs", "physiology"}) {
		t.Error("Expected OR-match on overlapping tags")
	}
	if card.HasAnyTag([]string{"physiology"}) {
		t.Error("Expected no match on disjoint tags")
	}
	if !card.HasAnyTag(nil) {
		t.Error("Expected empty filter to match every card")
	}
}
