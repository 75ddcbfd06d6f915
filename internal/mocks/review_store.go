package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/store"
)

// MockReviewStore implements store.ReviewStore for testing
type MockReviewStore struct {
	// Function fields for customizable behavior
	AppendFn     func(ctx context.Context, review *domain.Review) error
	ListByCardFn func(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.Review, error)
	ListSinceFn  func(ctx context.Context, since time.Time) ([]*domain.Review, error)

	// Data for default implementation
	mu      sync.Mutex
	Reviews []*domain.Review
}

// NewMockReviewStore creates a new mock store with initialized defaults
func NewMockReviewStore() *MockReviewStore {
	return &MockReviewStore{}
}

// Append implements the ReviewStore interface
func (m *MockReviewStore) Append(ctx context.Context, review *domain.Review) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, review)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reviews = append(m.Reviews, review)
	return nil
}

// ListByCard implements the ReviewStore interface
func (m *MockReviewStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	if m.ListByCardFn != nil {
		return m.ListByCardFn(ctx, cardID, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Newest first.
	var matched []*domain.Review
	for i := len(m.Reviews) - 1; i >= 0; i-- {
		if m.Reviews[i].CardID == cardID {
			matched = append(matched, m.Reviews[i])
			if limit > 0 && len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

// ListSince implements the ReviewStore interface
func (m *MockReviewStore) ListSince(ctx context.Context, since time.Time) ([]*domain.Review, error) {
	if m.ListSinceFn != nil {
		return m.ListSinceFn(ctx, since)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*domain.Review
	for _, review := range m.Reviews {
		if !review.ReviewedAt.Before(since) {
			matched = append(matched, review)
		}
	}
	return matched, nil
}

// WithTx implements the ReviewStore interface for transaction support
func (m *MockReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	// For mock purposes, just return the same mock
	return m
}
