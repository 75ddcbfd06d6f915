package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

// cardColumns is the canonical column list shared by every card query.
const cardColumns = `id, deck_id, note_id, content, tags, status, ease_factor,
	interval_days, repetitions, last_reviewed_at, next_review_at,
	total_reviews, correct_reviews, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
// Returns store.ErrInvalidEntity if the deck or note reference is broken
// (foreign key violation).
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	contentJSON, tagsJSON, err := encodeCardFields(card)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.DeckID,
		nullableUUID(card.NoteID),
		contentJSON,
		tagsJSON,
		card.Status,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		nullableTime(card.LastReviewedAt),
		card.NextReviewAt,
		card.TotalReviews,
		card.CorrectReviews,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()),
				slog.String("deck_id", card.DeckID.String()))
			return fmt.Errorf("%w: referenced deck or note not found", store.ErrInvalidEntity)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: card %s", store.ErrDuplicate, card.ID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	return card, nil
}

// ListDue implements store.CardStore.ListDue
// New cards carry no prior schedule and are always treated as due; suspended
// cards are never returned.
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	now time.Time,
	scope domain.SessionScope,
) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE status <> 'suspended'
		  AND (status = 'new' OR next_review_at <= $1)
	`
	args := []any{now}

	if scope.DeckID != nil {
		query += fmt.Sprintf(" AND deck_id = $%d", len(args)+1)
		args = append(args, *scope.DeckID)
	}
	if scope.NoteID != nil {
		query += fmt.Sprintf(" AND note_id = $%d", len(args)+1)
		args = append(args, *scope.NoteID)
	}

	query += " ORDER BY next_review_at ASC"

	return s.queryCards(ctx, "list due cards", query, args...)
}

// ListNew implements store.CardStore.ListNew
func (s *PostgresCardStore) ListNew(
	ctx context.Context,
	limit int,
	scope domain.SessionScope,
) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE status = 'new'
	`
	var args []any

	if scope.DeckID != nil {
		query += fmt.Sprintf(" AND deck_id = $%d", len(args)+1)
		args = append(args, *scope.DeckID)
	}
	if scope.NoteID != nil {
		query += fmt.Sprintf(" AND note_id = $%d", len(args)+1)
		args = append(args, *scope.NoteID)
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	return s.queryCards(ctx, "list new cards", query, args...)
}

// ListByDeck implements store.CardStore.ListByDeck
// Suspended cards are included; this query feeds deck statistics, not
// selection.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1
		ORDER BY created_at ASC
	`
	return s.queryCards(ctx, "list deck cards", query, deckID)
}

// FilterForSession implements store.CardStore.FilterForSession
// Ordering by next review time ascending means a capped result keeps the
// soonest-due matches.
func (s *PostgresCardStore) FilterForSession(
	ctx context.Context,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE status <> 'suspended'
		  AND deck_id = $1
	`
	args := []any{filter.DeckID}

	if filter.DueOnly {
		query += fmt.Sprintf(" AND (status = 'new' OR next_review_at <= $%d)", len(args)+1)
		args = append(args, filter.Now)
	}

	if len(filter.Tags) > 0 {
		tagsJSON, err := json.Marshal(filter.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		// OR-match: any card carrying at least one of the requested tags.
		query += fmt.Sprintf(
			" AND tags ?| ARRAY(SELECT jsonb_array_elements_text($%d::jsonb))",
			len(args)+1,
		)
		args = append(args, tagsJSON)
	}

	query += " ORDER BY next_review_at ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	return s.queryCards(ctx, "filter cards for session", query, args...)
}

// UpdateScheduling implements store.CardStore.UpdateScheduling
// The write carries an optimistic concurrency check on updated_at: a row
// modified since it was read is left untouched and ErrStaleWrite is
// returned, so concurrent sessions cannot silently overwrite each other's
// scheduling update.
func (s *PostgresCardStore) UpdateScheduling(
	ctx context.Context,
	card *domain.Card,
	expectedUpdatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during scheduling update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET status = $1, ease_factor = $2, interval_days = $3, repetitions = $4,
		    last_reviewed_at = $5, next_review_at = $6,
		    total_reviews = $7, correct_reviews = $8, updated_at = $9
		WHERE id = $10 AND updated_at = $11
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Status,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		nullableTime(card.LastReviewedAt),
		card.NextReviewAt,
		card.TotalReviews,
		card.CorrectReviews,
		card.UpdatedAt,
		card.ID,
		expectedUpdatedAt,
	)
	if err != nil {
		log.Error("failed to update card scheduling",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a stale write.
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1)`, card.ID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrCardNotFound
		}

		log.Warn("rejected stale scheduling write",
			slog.String("card_id", card.ID.String()),
			slog.Time("expected_updated_at", expectedUpdatedAt))
		return store.ErrStaleWrite
	}

	log.Debug("card scheduling updated",
		slog.String("card_id", card.ID.String()),
		slog.String("status", string(card.Status)),
		slog.Int("interval_days", card.IntervalDays))
	return nil
}

// UpdateStatus implements store.CardStore.UpdateStatus
func (s *PostgresCardStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.CardStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update card status",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("card not found for status update", slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Info("card status updated",
		slog.String("card_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// queryCards runs a multi-row card query and scans the results.
func (s *PostgresCardStore) queryCards(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Card, error) {
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

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row, decoding the JSONB content and tags columns.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card        domain.Card
		noteID      uuid.NullUUID
		contentJSON []byte
		tagsJSON    []byte
		status      string
		lastReview  sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&noteID,
		&contentJSON,
		&tagsJSON,
		&status,
		&card.EaseFactor,
		&card.IntervalDays,
		&card.Repetitions,
		&lastReview,
		&card.NextReviewAt,
		&card.TotalReviews,
		&card.CorrectReviews,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if noteID.Valid {
		id := noteID.UUID
		card.NoteID = &id
	}
	if lastReview.Valid {
		t := lastReview.Time
		card.LastReviewedAt = &t
	}
	card.Status = domain.CardStatus(status)

	if err := json.Unmarshal(contentJSON, &card.Content); err != nil {
		return nil, fmt.Errorf("failed to decode card content: %w", err)
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &card.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode card tags: %w", err)
		}
	}

	return &card, nil
}

// encodeCardFields serializes the JSONB columns of a card.
func encodeCardFields(card *domain.Card) (contentJSON, tagsJSON []byte, err error) {
	contentJSON, err = json.Marshal(card.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode card content: %w", err)
	}

	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err = json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode card tags: %w", err)
	}

	return contentJSON, tagsJSON, nil
}

// nullableUUID converts an optional UUID to its SQL representation.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullableTime converts an optional timestamp to its SQL representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
