package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, card *domain.Card) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListDueFn          func(ctx context.Context, now time.Time, scope domain.SessionScope) ([]*domain.Card, error)
	ListNewFn          func(ctx context.Context, limit int, scope domain.SessionScope) ([]*domain.Card, error)
	ListByDeckFn       func(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	FilterForSessionFn func(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)
	UpdateSchedulingFn func(ctx context.Context, card *domain.Card, expectedUpdatedAt time.Time) error
	UpdateStatusFn     func(ctx context.Context, id uuid.UUID, status domain.CardStatus) error

	// Data for default implementation
	mu    sync.Mutex
	Cards map[uuid.UUID]*domain.Card

	// Call tracking
	UpdateSchedulingCalls int
}

// NewMockCardStore creates a new mock store with initialized defaults
func NewMockCardStore() *MockCardStore {
	return &MockCardStore{
		Cards: make(map[uuid.UUID]*domain.Card),
	}
}

// Seed adds cards to the backing map, keyed by ID.
func (m *MockCardStore) Seed(cards ...*domain.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, card := range cards {
		m.Cards[card.ID] = card
	}
}

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Cards[card.ID]; exists {
		return store.ErrDuplicate
	}

	m.Cards[card.ID] = card
	return nil
}

// GetByID implements the CardStore interface
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card, exists := m.Cards[id]
	if !exists {
		return nil, store.ErrCardNotFound
	}

	// Return a copy so tests mutating the result don't corrupt the store.
	copied := *card
	return &copied, nil
}

// ListDue implements the CardStore interface
func (m *MockCardStore) ListDue(
	ctx context.Context,
	now time.Time,
	scope domain.SessionScope,
) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, now, scope)
	}

	var due []*domain.Card
	for _, card := range m.sorted() {
		if !inScope(card, scope) {
			continue
		}
		if card.IsDue(now) {
			due = append(due, card)
		}
	}
	return due, nil
}

// ListNew implements the CardStore interface
func (m *MockCardStore) ListNew(
	ctx context.Context,
	limit int,
	scope domain.SessionScope,
) ([]*domain.Card, error) {
	if m.ListNewFn != nil {
		return m.ListNewFn(ctx, limit, scope)
	}

	cards := m.sorted()
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})

	var fresh []*domain.Card
	for _, card := range cards {
		if !inScope(card, scope) || card.Status != domain.CardStatusNew {
			continue
		}
		fresh = append(fresh, card)
		if len(fresh) == limit {
			break
		}
	}
	return fresh, nil
}

// ListByDeck implements the CardStore interface
func (m *MockCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.ListByDeckFn != nil {
		return m.ListByDeckFn(ctx, deckID)
	}

	var cards []*domain.Card
	for _, card := range m.sorted() {
		if card.DeckID == deckID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// FilterForSession implements the CardStore interface
func (m *MockCardStore) FilterForSession(
	ctx context.Context,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	if m.FilterForSessionFn != nil {
		return m.FilterForSessionFn(ctx, filter)
	}

	var matched []*domain.Card
	for _, card := range m.sorted() {
		if card.DeckID != filter.DeckID || card.Status == domain.CardStatusSuspended {
			continue
		}
		if filter.DueOnly && !card.IsDue(filter.Now) {
			continue
		}
		if !card.HasAnyTag(filter.Tags) {
			continue
		}
		matched = append(matched, card)
		if filter.Limit > 0 && len(matched) == filter.Limit {
			break
		}
	}
	return matched, nil
}

// UpdateScheduling implements the CardStore interface
func (m *MockCardStore) UpdateScheduling(
	ctx context.Context,
	card *domain.Card,
	expectedUpdatedAt time.Time,
) error {
	m.mu.Lock()
	m.UpdateSchedulingCalls++
	m.mu.Unlock()

	if m.UpdateSchedulingFn != nil {
		return m.UpdateSchedulingFn(ctx, card, expectedUpdatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.Cards[card.ID]
	if !exists {
		return store.ErrCardNotFound
	}
	if !existing.UpdatedAt.Equal(expectedUpdatedAt) {
		return store.ErrStaleWrite
	}

	copied := *card
	m.Cards[card.ID] = &copied
	return nil
}

// UpdateStatus implements the CardStore interface
func (m *MockCardStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.CardStatus,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card, exists := m.Cards[id]
	if !exists {
		return store.ErrCardNotFound
	}
	card.Status = status
	card.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements the CardStore interface for transaction support
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	// For mock purposes, just return the same mock
	return m
}

// sorted returns the cards ordered by next review time for stable defaults.
func (m *MockCardStore) sorted() []*domain.Card {
	m.mu.Lock()
	defer m.mu.Unlock()

	cards := make([]*domain.Card, 0, len(m.Cards))
	for _, card := range m.Cards {
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].NextReviewAt.Before(cards[j].NextReviewAt)
	})
	return cards
}

func inScope(card *domain.Card, scope domain.SessionScope) bool {
	if scope.DeckID != nil && card.DeckID != *scope.DeckID {
		return false
	}
	if scope.NoteID != nil {
		if card.NoteID == nil || *card.NoteID != *scope.NoteID {
			return false
		}
	}
	return true
}
