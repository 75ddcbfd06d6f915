package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/domain/srs"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

// Card lifecycle errors
var (
	// ErrAlreadySuspended is returned when suspending a card that is already
	// suspended.
	ErrAlreadySuspended = errors.New("card is already suspended")

	// ErrNotSuspended is returned when unsuspending a card that is not
	// suspended.
	ErrNotSuspended = errors.New("card is not suspended")
)

// CardService provides card lifecycle operations outside the study loop:
// creation and the suspend/unsuspend toggles. Suspended cards keep their
// scheduling state but are excluded from every selection until unsuspended.
type CardService interface {
	// CreateCard validates and saves a new card.
	CreateCard(ctx context.Context, card *domain.Card) error

	// GetCard retrieves a card by its ID.
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// SuspendCard removes a card from study rotation without touching its
	// scheduling state.
	SuspendCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// UnsuspendCard returns a suspended card to rotation. Its status is
	// re-derived from the preserved repetition count, so a mature card comes
	// back mature rather than resetting to new.
	UnsuspendCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
}

type cardService struct {
	cardStore store.CardStore
	logger    *slog.Logger
}

// NewCardService creates a new CardService.
// It panics if cardStore is nil.
func NewCardService(cardStore store.CardStore, log *slog.Logger) CardService {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &cardService{
		cardStore: cardStore,
		logger:    log.With(slog.String("component", "card_service")),
	}
}

// CreateCard implements CardService.CreateCard
func (s *cardService) CreateCard(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()),
		slog.String("content_type", string(card.Content.Type)))
	return nil
}

// GetCard implements CardService.GetCard
func (s *cardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	return s.cardStore.GetByID(ctx, cardID)
}

// SuspendCard implements CardService.SuspendCard
func (s *cardService) SuspendCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if card.Status == domain.CardStatusSuspended {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySuspended, cardID)
	}

	if err := s.cardStore.UpdateStatus(ctx, cardID, domain.CardStatusSuspended); err != nil {
		log.Error("failed to suspend card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	card.Status = domain.CardStatusSuspended
	log.Info("card suspended", slog.String("card_id", cardID.String()))
	return card, nil
}

// UnsuspendCard implements CardService.UnsuspendCard
func (s *cardService) UnsuspendCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if card.Status != domain.CardStatusSuspended {
		return nil, fmt.Errorf("%w: %s", ErrNotSuspended, cardID)
	}

	status := restoredStatus(card)
	if err := s.cardStore.UpdateStatus(ctx, cardID, status); err != nil {
		log.Error("failed to unsuspend card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	card.Status = status
	log.Info("card unsuspended",
		slog.String("card_id", cardID.String()),
		slog.String("status", string(status)))
	return card, nil
}

// restoredStatus derives the status a card returns to after suspension. A
// never-reviewed card goes back to new; otherwise the repetition count maps
// onto the same learning/review/mature table the scheduler uses.
func restoredStatus(card *domain.Card) domain.CardStatus {
	if card.TotalReviews == 0 {
		return domain.CardStatusNew
	}
	// Repetitions only advance on correct answers, so quality 3 stands in
	// for the success path here.
	return srs.DeriveStatus(card.Repetitions, 3)
}
