package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

// ReviewStore defines the interface for the append-only review log.
// Reviews are never updated or deleted; the log is the audit trail from
// which analytics are derived independently of the mutable card rows.
type ReviewStore interface {
	// Append saves a new review log entry.
	// Returns validation errors from the domain Review if data is invalid.
	Append(ctx context.Context, review *domain.Review) error

	// ListByCard retrieves the reviews of one card, newest first, capped at
	// limit.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.Review, error)

	// ListSince retrieves every review recorded at or after since, ordered
	// by review time ascending. Analytics buckets these by calendar date.
	ListSince(ctx context.Context, since time.Time) ([]*domain.Review, error)

	// WithTx returns a new ReviewStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
