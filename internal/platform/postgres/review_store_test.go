package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmind/recall-api/internal/domain"
)

func newReview(t *testing.T, latencyMs *int64) *domain.Review {
	t.Helper()
	review, err := domain.NewReview(
		uuid.New(),
		time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		4,
		latencyMs,
		domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0},
		domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
	)
	require.NoError(t, err)
	return review
}

// Latency is optional on a review. The insert must bind SQL NULL for an
// absent latency, and the latency_ms column must accept it.
func TestAppendBindsNullForAbsentLatency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	review := newReview(t, nil)

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			review.ID,
			review.CardID,
			review.ReviewedAt,
			review.Quality,
			nil,
			review.Before.EaseFactor,
			review.Before.IntervalDays,
			review.Before.Repetitions,
			review.After.EaseFactor,
			review.After.IntervalDays,
			review.After.Repetitions,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresReviewStore(db, nil)
	require.NoError(t, s.Append(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendBindsProvidedLatency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	latency := int64(4200)
	review := newReview(t, &latency)

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			review.ID,
			review.CardID,
			review.ReviewedAt,
			review.Quality,
			latency,
			review.Before.EaseFactor,
			review.Before.IntervalDays,
			review.Before.Repetitions,
			review.After.EaseFactor,
			review.After.IntervalDays,
			review.After.Repetitions,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresReviewStore(db, nil)
	require.NoError(t, s.Append(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCardScansNullLatency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	cardID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "card_id", "reviewed_at", "quality", "latency_ms",
		"ease_before", "interval_before", "repetitions_before",
		"ease_after", "interval_after", "repetitions_after",
	}).AddRow(
		uuid.New().String(), cardID.String(),
		time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), 4, nil,
		2.5, 0, 0,
		2.5, 1, 1,
	)
	mock.ExpectQuery("SELECT (.+) FROM reviews").WithArgs(cardID, 10).WillReturnRows(rows)

	s := NewPostgresReviewStore(db, nil)
	reviews, err := s.ListByCard(context.Background(), cardID, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Nil(t, reviews[0].LatencyMs)
}
