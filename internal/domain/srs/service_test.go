package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/quillmind/recall-api/internal/domain"
)

func TestServiceScheduleValidation(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	valid := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0}

	testCases := []struct {
		name    string
		state   domain.SchedulingSnapshot
		quality int
		wantErr error
	}{
		{
			name:    "quality below range",
			state:   valid,
			quality: -1,
			wantErr: ErrInvalidQuality,
		},
		{
			name:    "quality above range",
			state:   valid,
			quality: 6,
			wantErr: ErrInvalidQuality,
		},
		{
			name:    "ease below floor fails fast",
			state:   domain.SchedulingSnapshot{EaseFactor: 1.1, IntervalDays: 3, Repetitions: 1},
			quality: 4,
			wantErr: ErrInvariantViolation,
		},
		{
			name:    "negative interval fails fast",
			state:   domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: -1, Repetitions: 1},
			quality: 4,
			wantErr: ErrInvariantViolation,
		},
		{
			name:    "negative repetitions fail fast",
			state:   domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 3, Repetitions: -1},
			quality: 4,
			wantErr: ErrInvariantViolation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Schedule(tc.state, tc.quality, now)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestServiceScheduleAcceptsFullQualityRange(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// The standard UI only emits 0, 1, 3 and 4, but 2 and 5 follow the same
	// formula and must be accepted.
	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}

	for quality := 0; quality <= 5; quality++ {
		if _, err := svc.Schedule(state, quality, now); err != nil {
			t.Errorf("quality %d: unexpected error %v", quality, err)
		}
	}
}
