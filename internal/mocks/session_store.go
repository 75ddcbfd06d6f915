package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, session *domain.StudySession) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)
	UpdateFn  func(ctx context.Context, session *domain.StudySession) error

	// Data for default implementation
	mu       sync.Mutex
	Sessions map[uuid.UUID]*domain.StudySession

	// Call tracking
	UpdateCalls int
}

// NewMockSessionStore creates a new mock store with initialized defaults
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Sessions: make(map[uuid.UUID]*domain.StudySession),
	}
}

// Create implements the SessionStore interface
func (m *MockSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sessions[session.ID]; exists {
		return store.ErrDuplicate
	}

	copied := *session
	m.Sessions[session.ID] = &copied
	return nil
}

// GetByID implements the SessionStore interface
func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.Sessions[id]
	if !exists {
		return nil, store.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// Update implements the SessionStore interface
func (m *MockSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, session)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sessions[session.ID]; !exists {
		return store.ErrSessionNotFound
	}

	copied := *session
	m.Sessions[session.ID] = &copied
	return nil
}

// WithTx implements the SessionStore interface for transaction support
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	// For mock purposes, just return the same mock
	return m
}
