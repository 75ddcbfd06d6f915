package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

// DeckStore defines the minimal deck persistence surface this service needs:
// existence checks for scoped selections, and creation for seeding. Full
// deck management is an external CRUD concern.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
}

// NoteStore defines the minimal note persistence surface: existence checks
// for note-scoped selections. Note authoring lives outside this service.
type NoteStore interface {
	// Create saves a new note reference.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
}
