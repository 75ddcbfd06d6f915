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

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	query := `
		INSERT INTO decks (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, deck.ID, deck.Name, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: deck %s", store.ErrDuplicate, deck.ID)
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	log.Debug("deck created", slog.String("deck_id", deck.ID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, created_at, updated_at FROM decks WHERE id = $1`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.Name, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", id.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, err
	}

	return &deck, nil
}

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface. If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		INSERT INTO notes (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, note.ID, note.Title, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: note %s", store.ErrDuplicate, note.ID)
		}

		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	log.Debug("note created", slog.String("note_id", note.ID.String()))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, title, created_at, updated_at FROM notes WHERE id = $1`

	var note domain.Note
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID, &note.Title, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found", slog.String("note_id", id.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, err
	}

	return &note, nil
}
