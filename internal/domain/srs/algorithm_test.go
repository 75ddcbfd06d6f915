package srs

import (
	"testing"
	"time"

	"github.com/quillmind/recall-api/internal/domain"
)

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		newReps  int
		ef       float64
		expected int
	}{
		{
			name:     "first successful review uses fixed one-day interval",
			current:  0,
			newReps:  1,
			ef:       2.5,
			expected: 1,
		},
		{
			name:     "second successful review uses fixed six-day interval",
			current:  1,
			newReps:  2,
			ef:       2.5,
			expected: 6,
		},
		{
			name:     "third review grows by ease factor",
			current:  6,
			newReps:  3,
			ef:       2.5,
			expected: 15, // 6 * 2.5
		},
		{
			name:     "growth rounds to nearest day",
			current:  7,
			newReps:  4,
			ef:       2.36,
			expected: 17, // 7 * 2.36 = 16.52
		},
		{
			name:     "minimum ease still grows the interval",
			current:  10,
			newReps:  6,
			ef:       1.3,
			expected: 13,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newInterval := calculateNewInterval(tc.current, tc.newReps, tc.ef, params)

			if newInterval != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, newInterval)
			}
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "quality 5 increases ease",
			current:  2.5,
			quality:  5,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "quality 4 leaves ease unchanged",
			current:  2.5,
			quality:  4,
			expected: 2.5, // 2.5 + (0.1 - 1*(0.08+0.02)) = 2.5
		},
		{
			name:     "quality 3 decreases ease",
			current:  2.5,
			quality:  3,
			expected: 2.36, // 2.5 + (0.1 - 2*(0.08+0.04)) = 2.36
		},
		{
			name:     "ease never drops below the floor",
			current:  1.32,
			quality:  3,
			expected: 1.3,
		},
		{
			name:     "result is rounded to two decimal places",
			current:  2.36,
			quality:  3,
			expected: 2.22, // 2.36 - 0.14
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newEF := calculateNewEaseFactor(tc.current, tc.quality, params)

			if newEF != tc.expected {
				t.Errorf("Expected ease factor %.2f, got %.2f", tc.expected, newEF)
			}
		})
	}
}

func TestScheduleSuccessIncrementsRepetitions(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)

	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}

	for _, quality := range []int{3, 4, 5} {
		result := schedule(state, quality, now, params)
		if result.State.Repetitions != state.Repetitions+1 {
			t.Errorf("quality %d: expected repetitions %d, got %d",
				quality, state.Repetitions+1, result.State.Repetitions)
		}
	}
}

func TestScheduleFailureResetsState(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)

	// A mature card answered with a blackout keeps its ease but loses its
	// streak and interval.
	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 20, Repetitions: 4}

	for _, quality := range []int{0, 1, 2} {
		result := schedule(state, quality, now, params)

		if result.State.Repetitions != 0 {
			t.Errorf("quality %d: expected repetitions 0, got %d", quality, result.State.Repetitions)
		}
		if result.State.IntervalDays != 1 {
			t.Errorf("quality %d: expected interval 1, got %d", quality, result.State.IntervalDays)
		}
		if result.State.EaseFactor != 2.5 {
			t.Errorf("quality %d: expected ease unchanged at 2.5, got %.2f",
				quality, result.State.EaseFactor)
		}
	}
}

func TestScheduleFreshCardProgression(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Three consecutive quality=4 answers on a fresh card walk through the
	// fixed 1 and 6 day intervals, then grow by the ease factor reached
	// after the second answer.
	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0}

	expectedIntervals := []int{1, 6, 15} // round(6 * 2.5)
	expectedStatuses := []domain.CardStatus{
		domain.CardStatusLearning,
		domain.CardStatusReview,
		domain.CardStatusReview,
	}

	for i := range expectedIntervals {
		result := schedule(state, 4, now, params)

		if result.State.IntervalDays != expectedIntervals[i] {
			t.Errorf("answer %d: expected interval %d, got %d",
				i+1, expectedIntervals[i], result.State.IntervalDays)
		}

		status := DeriveStatus(result.State.Repetitions, 4)
		if status != expectedStatuses[i] {
			t.Errorf("answer %d: expected status %s, got %s", i+1, expectedStatuses[i], status)
		}

		state = result.State
	}
}

func TestScheduleEaseNeverBelowFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Hammer the card with the worst successful quality; the ease factor
	// must converge on the floor, never below it.
	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0}
	for i := 0; i < 50; i++ {
		result := schedule(state, 3, now, params)
		if result.State.EaseFactor < params.MinEaseFactor {
			t.Fatalf("iteration %d: ease factor %.4f dropped below floor %.2f",
				i, result.State.EaseFactor, params.MinEaseFactor)
		}
		state = result.State
	}

	if state.EaseFactor != params.MinEaseFactor {
		t.Errorf("expected ease to settle at the floor %.2f, got %.2f",
			params.MinEaseFactor, state.EaseFactor)
	}
}

func TestScheduleIsDeterministic(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	state := domain.SchedulingSnapshot{EaseFactor: 2.18, IntervalDays: 12, Repetitions: 3}

	first := schedule(state, 4, now, params)
	second := schedule(state, 4, now, params)

	if first != second {
		t.Errorf("identical inputs produced different results: %+v vs %+v", first, second)
	}
}

func TestScheduleDateOnlyGranularity(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// Late in the evening the next review still lands on a midnight boundary.
	now := time.Date(2025, 6, 1, 23, 45, 12, 0, time.UTC)
	state := domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0}

	result := schedule(state, 4, now, params)

	expected := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !result.NextReviewAt.Equal(expected) {
		t.Errorf("expected next review at %v, got %v", expected, result.NextReviewAt)
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		reps     int
		quality  int
		expected domain.CardStatus
	}{
		{"failure always learning", 0, 0, domain.CardStatusLearning},
		{"failure stays learning even with high reps", 6, 2, domain.CardStatusLearning},
		{"first success is learning", 1, 4, domain.CardStatusLearning},
		{"second success promotes to review", 2, 3, domain.CardStatusReview},
		{"fourth success stays in review", 4, 5, domain.CardStatusReview},
		{"fifth success promotes to mature", 5, 4, domain.CardStatusMature},
		{"beyond fifth stays mature", 9, 3, domain.CardStatusMature},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := DeriveStatus(tc.reps, tc.quality)
			if status != tc.expected {
				t.Errorf("Expected status %s, got %s", tc.expected, status)
			}
		})
	}
}
