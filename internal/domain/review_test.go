package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReview(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	reviewedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	latency := int64(2300)

	before := SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}
	after := SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 15, Repetitions: 3}

	review, err := NewReview(cardID, reviewedAt, 4, &latency, before, after)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if review.ID == uuid.Nil {
		t.Error("Expected non-nil review ID")
	}
	if !review.Correct() {
		t.Error("Expected quality 4 to count as correct")
	}
	if review.Before != before || review.After != after {
		t.Error("Expected snapshots to be preserved verbatim")
	}

	// Quality bounds
	if _, err := NewReview(cardID, reviewedAt, 6, nil, before, after); err != ErrInvalidQuality {
		t.Errorf("Expected %v, got %v", ErrInvalidQuality, err)
	}
	if _, err := NewReview(cardID, reviewedAt, -1, nil, before, after); err != ErrInvalidQuality {
		t.Errorf("Expected %v, got %v", ErrInvalidQuality, err)
	}

	// Quality below 3 is incorrect.
	failed, err := NewReview(cardID, reviewedAt, 2, nil, before, after)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if failed.Correct() {
		t.Error("Expected quality 2 to count as incorrect")
	}
}
