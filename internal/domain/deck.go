package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	ErrDeckIDEmpty   = errors.New("deck ID cannot be empty")
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")
)

// Deck groups cards for scoping study sessions and statistics. Deck
// management itself is a thin CRUD concern; this entity exists so selection
// queries can validate their scope.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeck creates a validated deck.
func NewDeck(name string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	return nil
}
