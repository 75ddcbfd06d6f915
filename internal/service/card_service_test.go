package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/mocks"
	"github.com/quillmind/recall-api/internal/store"
)

func newTestCard(t *testing.T, status domain.CardStatus, repetitions, totalReviews int) *domain.Card {
	t.Helper()
	content, err := domain.NewFrontBackContent("front", "back")
	require.NoError(t, err)
	card, err := domain.NewCard(uuid.New(), nil, content, nil)
	require.NoError(t, err)
	card.Status = status
	card.Repetitions = repetitions
	card.TotalReviews = totalReviews
	card.CorrectReviews = repetitions
	if repetitions > 0 {
		card.IntervalDays = 1
		reviewed := time.Now().UTC()
		card.LastReviewedAt = &reviewed
	}
	return card
}

func TestSuspendCard(t *testing.T) {
	cards := mocks.NewMockCardStore()
	svc := NewCardService(cards, nil)

	card := newTestCard(t, domain.CardStatusReview, 3, 4)
	cards.Seed(card)

	suspended, err := svc.SuspendCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStatusSuspended, suspended.Status)

	stored, err := cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStatusSuspended, stored.Status)
}

func TestSuspendAlreadySuspended(t *testing.T) {
	cards := mocks.NewMockCardStore()
	svc := NewCardService(cards, nil)

	card := newTestCard(t, domain.CardStatusSuspended, 3, 4)
	cards.Seed(card)

	_, err := svc.SuspendCard(context.Background(), card.ID)
	assert.ErrorIs(t, err, ErrAlreadySuspended)
}

func TestSuspendMissingCard(t *testing.T) {
	svc := NewCardService(mocks.NewMockCardStore(), nil)

	_, err := svc.SuspendCard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestUnsuspendRestoresDerivedStatus(t *testing.T) {
	tests := []struct {
		name         string
		repetitions  int
		totalReviews int
		want         domain.CardStatus
	}{
		{name: "never reviewed returns to new", repetitions: 0, totalReviews: 0, want: domain.CardStatusNew},
		{name: "one repetition is still learning", repetitions: 1, totalReviews: 2, want: domain.CardStatusLearning},
		{name: "three repetitions is review", repetitions: 3, totalReviews: 3, want: domain.CardStatusReview},
		{name: "five repetitions is mature", repetitions: 5, totalReviews: 6, want: domain.CardStatusMature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := mocks.NewMockCardStore()
			svc := NewCardService(cards, nil)

			card := newTestCard(t, domain.CardStatusSuspended, tt.repetitions, tt.totalReviews)
			cards.Seed(card)

			restored, err := svc.UnsuspendCard(context.Background(), card.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, restored.Status)
		})
	}
}

func TestUnsuspendNotSuspended(t *testing.T) {
	cards := mocks.NewMockCardStore()
	svc := NewCardService(cards, nil)

	card := newTestCard(t, domain.CardStatusReview, 3, 4)
	cards.Seed(card)

	_, err := svc.UnsuspendCard(context.Background(), card.ID)
	assert.ErrorIs(t, err, ErrNotSuspended)
}

func TestCreateCard(t *testing.T) {
	cards := mocks.NewMockCardStore()
	svc := NewCardService(cards, nil)

	card := newTestCard(t, domain.CardStatusNew, 0, 0)
	require.NoError(t, svc.CreateCard(context.Background(), card))

	stored, err := svc.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, stored.ID)
}
