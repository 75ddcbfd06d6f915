package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new study session record.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update persists the session's running counters and, when set, its end
	// time. Pausing writes counters without an end time; completion writes
	// both.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.StudySession) error

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SessionStore
}
