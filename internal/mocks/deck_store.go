package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/store"
)

// MockDeckStore implements store.DeckStore for testing
type MockDeckStore struct {
	CreateFn  func(ctx context.Context, deck *domain.Deck) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	mu    sync.Mutex
	Decks map[uuid.UUID]*domain.Deck
}

// NewMockDeckStore creates a new mock store with initialized defaults
func NewMockDeckStore() *MockDeckStore {
	return &MockDeckStore{
		Decks: make(map[uuid.UUID]*domain.Deck),
	}
}

// Create implements the DeckStore interface
func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Decks[deck.ID]; exists {
		return store.ErrDuplicate
	}
	m.Decks[deck.ID] = deck
	return nil
}

// GetByID implements the DeckStore interface
func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deck, exists := m.Decks[id]
	if !exists {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

// MockNoteStore implements store.NoteStore for testing
type MockNoteStore struct {
	CreateFn  func(ctx context.Context, note *domain.Note) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	mu    sync.Mutex
	Notes map[uuid.UUID]*domain.Note
}

// NewMockNoteStore creates a new mock store with initialized defaults
func NewMockNoteStore() *MockNoteStore {
	return &MockNoteStore{
		Notes: make(map[uuid.UUID]*domain.Note),
	}
}

// Create implements the NoteStore interface
func (m *MockNoteStore) Create(ctx context.Context, note *domain.Note) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, note)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Notes[note.ID]; exists {
		return store.ErrDuplicate
	}
	m.Notes[note.ID] = note
	return nil
}

// GetByID implements the NoteStore interface
func (m *MockNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	note, exists := m.Notes[id]
	if !exists {
		return nil, store.ErrNoteNotFound
	}
	return note, nil
}
