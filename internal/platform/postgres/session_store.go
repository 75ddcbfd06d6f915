package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (id, deck_id, note_id, session_type,
			started_at, ended_at, cards_studied, cards_correct, total_time_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		nullableUUID(session.Scope.DeckID),
		nullableUUID(session.Scope.NoteID),
		session.Type,
		session.StartedAt,
		nullableTime(session.EndedAt),
		session.CardsStudied,
		session.CardsCorrect,
		session.TotalTimeSeconds,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced deck or note not found", store.ErrInvalidEntity)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: session %s", store.ErrDuplicate, session.ID)
		}

		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	log.Debug("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("session_type", string(session.Type)))
	return nil
}

// GetByID implements store.SessionStore.GetByID
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, note_id, session_type, started_at, ended_at,
			cards_studied, cards_correct, total_time_seconds
		FROM study_sessions
		WHERE id = $1
	`
	var (
		session  domain.StudySession
		deckID   uuid.NullUUID
		noteID   uuid.NullUUID
		endedAt  sql.NullTime
		sessType string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&deckID,
		&noteID,
		&sessType,
		&session.StartedAt,
		&endedAt,
		&session.CardsStudied,
		&session.CardsCorrect,
		&session.TotalTimeSeconds,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	session.Type = domain.SessionType(sessType)
	if deckID.Valid {
		d := deckID.UUID
		session.Scope.DeckID = &d
	}
	if noteID.Valid {
		n := noteID.UUID
		session.Scope.NoteID = &n
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}

	return &session, nil
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		UPDATE study_sessions
		SET ended_at = $1, cards_studied = $2, cards_correct = $3,
		    total_time_seconds = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		nullableTime(session.EndedAt),
		session.CardsStudied,
		session.CardsCorrect,
		session.TotalTimeSeconds,
		session.ID,
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("session not found for update", slog.String("session_id", session.ID.String()))
		return store.ErrSessionNotFound
	}

	log.Debug("session updated",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_studied", session.CardsStudied))
	return nil
}
