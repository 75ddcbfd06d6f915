package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

// CardFilter describes a custom filtered selection, scoped to one deck.
type CardFilter struct {
	// DeckID is the deck the session is scoped to. Required.
	DeckID uuid.UUID

	// Tags, when non-empty, restricts the selection to cards carrying at
	// least one of these tags (OR-match).
	Tags []string

	// DueOnly restricts the selection to cards due at Now. When false, all
	// non-suspended cards in scope qualify regardless of their schedule.
	DueOnly bool

	// Now is the reference time for due checks and soonest-due ordering.
	Now time.Time

	// Limit caps the number of returned cards. When more cards match, the
	// soonest-due are selected preferentially.
	Limit int
}

// CardStore defines the interface for card data persistence and the
// selection queries that feed study sessions. All queries exclude suspended
// cards unless stated otherwise.
type CardStore interface {
	// Create saves a new card.
	// Returns validation errors from the domain Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListDue retrieves the cards due for review at now, ordered by next
	// review time ascending. Cards in status "new" carry no prior schedule
	// and are always due. The scope may narrow the result to one deck or to
	// cards generated from one note.
	ListDue(ctx context.Context, now time.Time, scope domain.SessionScope) ([]*domain.Card, error)

	// ListNew retrieves cards that have never been studied, ordered by
	// creation time, capped at limit. The scope may narrow the result to one
	// deck or note.
	ListNew(ctx context.Context, limit int, scope domain.SessionScope) ([]*domain.Card, error)

	// ListByDeck retrieves every card in a deck, including suspended ones.
	// Used for deck statistics, not for selection.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// FilterForSession runs the custom filtered selection described by the
	// filter, ordered by next review time ascending so a capped result keeps
	// the soonest-due matches.
	FilterForSession(ctx context.Context, filter CardFilter) ([]*domain.Card, error)

	// UpdateScheduling persists the card's scheduling state and lifetime
	// counters. The write is guarded by an optimistic concurrency check on
	// expectedUpdatedAt: if the row changed since it was read, the write is
	// rejected with ErrStaleWrite and no fields are modified.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateScheduling(ctx context.Context, card *domain.Card, expectedUpdatedAt time.Time) error

	// UpdateStatus sets a card's status directly. Used for suspend and
	// unsuspend transitions, which bypass the scheduler.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
