package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

const reviewColumns = `id, card_id, reviewed_at, quality, latency_ms,
	ease_before, interval_before, repetitions_before,
	ease_after, interval_after, repetitions_after`

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend. The reviews table is
// append-only; this store exposes no update or delete operations.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the
// ReviewStore interface. If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}

// Append implements store.ReviewStore.Append
// Returns store.ErrInvalidEntity if the card reference is broken.
func (s *PostgresReviewStore) Append(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during append",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	var latency sql.NullInt64
	if review.LatencyMs != nil {
		latency = sql.NullInt64{Int64: *review.LatencyMs, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced card not found", store.ErrInvalidEntity)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: review %s", store.ErrDuplicate, review.ID)
		}

		log.Error("failed to append review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()),
			slog.String("card_id", review.CardID.String()))
		return err
	}

	log.Debug("review appended",
		slog.String("review_id", review.ID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.Int("quality", review.Quality))
	return nil
}

// ListByCard implements store.ReviewStore.ListByCard
func (s *PostgresReviewStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE card_id = $1
		ORDER BY reviewed_at DESC
		LIMIT $2
	`
	return s.queryReviews(ctx, "list reviews by card", query, cardID, limit)
}

// ListSince implements store.ReviewStore.ListSince
func (s *PostgresReviewStore) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewed_at >= $1
		ORDER BY reviewed_at ASC
	`
	return s.queryReviews(ctx, "list reviews since", query, since)
}

func (s *PostgresReviewStore) queryReviews(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+operation, slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var reviews []*domain.Review
	for rows.Next() {
		var (
			review  domain.Review
			latency sql.NullInt64
		)
		err := rows.Scan(
			&review.ID,
			&review.CardID,
			&review.ReviewedAt,
			&review.Quality,
			&latency,
			&review.Before.EaseFactor,
			&review.Before.IntervalDays,
			&review.Before.Repetitions,
			&review.After.EaseFactor,
			&review.After.IntervalDays,
			&review.After.Repetitions,
		)
		if err != nil {
			log.Error("failed to scan review row", slog.String("error", err.Error()))
			return nil, err
		}
		if latency.Valid {
			ms := latency.Int64
			review.LatencyMs = &ms
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}
