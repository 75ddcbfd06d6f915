package srs

import (
	"math"
	"time"

	"github.com/quillmind/recall-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease adjustment for a successful
// review. The adjustment rewards high quality and penalizes hesitant recall:
//
//	ease' = ease + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// The result is floored at params.MinEaseFactor and rounded to two decimal
// places. Failed reviews (quality < 3) leave the ease factor unchanged and
// never reach this function.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	delta := 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	newEF := currentEF + delta

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	// Round to 2 decimal places so persisted ease factors stay stable across
	// repeated read-modify-write cycles.
	return math.Round(newEF*100) / 100
}

// calculateNewInterval determines the next interval in days after a
// successful review. The first two consecutive successes use fixed intervals;
// afterwards the current interval grows by the current (pre-update) ease
// factor, rounded to the nearest day.
func calculateNewInterval(currentInterval, newRepetitions int, easeFactor float64, params *Params) int {
	switch newRepetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// nextReviewDate schedules the next review at date-only granularity: the
// interval is added to the UTC calendar date of now, discarding the time of
// day.
func nextReviewDate(now time.Time, intervalDays int) time.Time {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, intervalDays)
}

// schedule computes the full post-review scheduling state. It is pure:
// identical inputs always produce identical outputs, and the same now
// reference is used for the whole computation.
func schedule(state domain.SchedulingSnapshot, quality int, now time.Time, params *Params) Result {
	var next domain.SchedulingSnapshot

	if quality >= 3 {
		next.Repetitions = state.Repetitions + 1
		next.IntervalDays = calculateNewInterval(state.IntervalDays, next.Repetitions, state.EaseFactor, params)
		next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, quality, params)
	} else {
		next.Repetitions = 0
		next.IntervalDays = params.LapseInterval
		next.EaseFactor = state.EaseFactor
	}

	return Result{
		State:        next,
		NextReviewAt: nextReviewDate(now, next.IntervalDays),
	}
}

// DeriveStatus maps the post-review repetition count and the submitted
// quality onto the card's learning status.
//
//	quality < 3                     -> learning
//	quality >= 3, repetitions < 2   -> learning
//	quality >= 3, 2 <= reps < 5     -> review
//	quality >= 3, repetitions >= 5  -> mature
func DeriveStatus(newRepetitions, quality int) domain.CardStatus {
	if quality < 3 {
		return domain.CardStatusLearning
	}
	switch {
	case newRepetitions < 2:
		return domain.CardStatusLearning
	case newRepetitions < 5:
		return domain.CardStatusReview
	default:
		return domain.CardStatusMature
	}
}
