package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Note-specific validation errors
var (
	ErrNoteIDEmpty    = errors.New("note ID cannot be empty")
	ErrNoteTitleEmpty = errors.New("note title cannot be empty")
)

// Note is the minimal representation of a source note that cards may
// reference. Note authoring and rich-text storage live outside this service;
// the entity exists so note-scoped selection can validate its target.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a validated note reference.
func NewNote(title string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNoteIDEmpty
	}

	if n.Title == "" {
		return ErrNoteTitleEmpty
	}

	return nil
}
