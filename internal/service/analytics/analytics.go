// Package analytics derives summary statistics from the review log, session
// records, and card rows: per-session accuracy, rolling daily activity,
// study streaks, and deck composition. It only reads; every figure is
// recomputable from the underlying records.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quillmind/recall-api/internal/config"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

// DefaultDailyWindowDays is the rolling window length when the caller does
// not specify one.
const DefaultDailyWindowDays = 30

// DefaultHistoryLimit caps a per-card review history when the caller does
// not specify a limit.
const DefaultHistoryLimit = 50

// SessionStats summarizes one study session. Rates are zero-safe: a session
// with no answered units reports zero accuracy and zero average time.
type SessionStats struct {
	SessionID         uuid.UUID  `json:"session_id"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	CardsStudied      int        `json:"cards_studied"`
	CardsCorrect      int        `json:"cards_correct"`
	TotalTimeSeconds  int        `json:"total_time_seconds"`
	AccuracyPct       float64    `json:"accuracy_pct"`
	AvgSecondsPerCard float64    `json:"avg_seconds_per_card"`
}

// DailyStats is one calendar day's review activity, bucketed in the
// learner-local timezone.
type DailyStats struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Reviews     int     `json:"reviews"`
	Correct     int     `json:"correct"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// DeckStats classifies a deck's cards.
type DeckStats struct {
	DeckID    uuid.UUID `json:"deck_id"`
	Total     int       `json:"total"`
	New       int       `json:"new"`
	Due       int       `json:"due"`
	Learning  int       `json:"learning"`
	Mature    int       `json:"mature"`
	Suspended int       `json:"suspended"`
}

// Service computes aggregate study statistics.
type Service interface {
	// SessionStats summarizes one session by id.
	SessionStats(ctx context.Context, sessionID uuid.UUID) (*SessionStats, error)

	// DailyStats returns per-day activity for the trailing window, oldest
	// day first. days <= 0 falls back to DefaultDailyWindowDays.
	DailyStats(ctx context.Context, days int) ([]DailyStats, error)

	// Streak counts consecutive study days walking backward from today.
	// Today with no reviews yet does not break a streak that yesterday
	// continues.
	Streak(ctx context.Context) (int, error)

	// DeckStats classifies the cards of one deck.
	DeckStats(ctx context.Context, deckID uuid.UUID) (*DeckStats, error)

	// CardHistory returns a card's most recent reviews, newest first.
	// limit <= 0 falls back to DefaultHistoryLimit.
	CardHistory(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.Review, error)
}

type service struct {
	reviewStore  store.ReviewStore
	sessionStore store.SessionStore
	cardStore    store.CardStore
	deckStore    store.DeckStore
	location     *time.Location
	lookbackDays int
	logger       *slog.Logger

	// now is swappable in tests for deterministic calendar math.
	now func() time.Time
}

// NewService creates an analytics service. The configured timezone buckets
// reviews into learner-local calendar days; an unknown timezone falls back
// to UTC.
// It panics if any required store is nil.
func NewService(
	reviewStore store.ReviewStore,
	sessionStore store.SessionStore,
	cardStore store.CardStore,
	deckStore store.DeckStore,
	cfg config.StudyConfig,
	log *slog.Logger,
) Service {
	if reviewStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewStore cannot be nil")
	}
	if sessionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessionStore cannot be nil")
	}
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "analytics"))

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("unknown timezone, falling back to UTC",
			slog.String("timezone", cfg.Timezone))
		location = time.UTC
	}

	lookback := cfg.StreakLookbackDays
	if lookback <= 0 {
		lookback = 365
	}

	return &service{
		reviewStore:  reviewStore,
		sessionStore: sessionStore,
		cardStore:    cardStore,
		deckStore:    deckStore,
		location:     location,
		lookbackDays: lookback,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SessionStats implements Service.SessionStats
func (s *service) SessionStats(ctx context.Context, sessionID uuid.UUID) (*SessionStats, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stats := &SessionStats{
		SessionID:        session.ID,
		StartedAt:        session.StartedAt,
		EndedAt:          session.EndedAt,
		CardsStudied:     session.CardsStudied,
		CardsCorrect:     session.CardsCorrect,
		TotalTimeSeconds: session.TotalTimeSeconds,
	}

	if session.CardsStudied > 0 {
		stats.AccuracyPct = 100 * float64(session.CardsCorrect) / float64(session.CardsStudied)
		stats.AvgSecondsPerCard = float64(session.TotalTimeSeconds) / float64(session.CardsStudied)
	}

	return stats, nil
}

// DailyStats implements Service.DailyStats
func (s *service) DailyStats(ctx context.Context, days int) ([]DailyStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days <= 0 {
		days = DefaultDailyWindowDays
	}

	today := s.localDate(s.now())
	windowStart := today.AddDate(0, 0, -(days - 1))

	reviews, err := s.reviewStore.ListSince(ctx, windowStart.UTC())
	if err != nil {
		log.Error("failed to list reviews for daily stats",
			slog.String("error", err.Error()))
		return nil, err
	}

	type bucket struct{ reviews, correct int }
	buckets := make(map[string]*bucket, days)
	for _, review := range reviews {
		key := s.localDate(review.ReviewedAt).Format(time.DateOnly)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.reviews++
		if review.Correct() {
			b.correct++
		}
	}

	stats := make([]DailyStats, 0, days)
	for day := windowStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		entry := DailyStats{Date: key}
		if b := buckets[key]; b != nil {
			entry.Reviews = b.reviews
			entry.Correct = b.correct
			entry.AccuracyPct = 100 * float64(b.correct) / float64(b.reviews)
		}
		stats = append(stats, entry)
	}

	return stats, nil
}

// Streak implements Service.Streak
func (s *service) Streak(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	since := s.localDate(now).AddDate(0, 0, -s.lookbackDays)

	reviews, err := s.reviewStore.ListSince(ctx, since.UTC())
	if err != nil {
		log.Error("failed to list reviews for streak",
			slog.String("error", err.Error()))
		return 0, err
	}

	studied := make(map[string]bool, len(reviews))
	for _, review := range reviews {
		studied[s.localDate(review.ReviewedAt).Format(time.DateOnly)] = true
	}

	day := s.localDate(now)
	streak := 0

	// Today counts when studied, but an empty today does not break the
	// streak; the walk just starts at yesterday.
	if studied[day.Format(time.DateOnly)] {
		streak++
	}
	day = day.AddDate(0, 0, -1)

	for studied[day.Format(time.DateOnly)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak, nil
}

// DeckStats implements Service.DeckStats
func (s *service) DeckStats(ctx context.Context, deckID uuid.UUID) (*DeckStats, error) {
	if _, err := s.deckStore.GetByID(ctx, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &DeckStats{DeckID: deckID}
	for _, card := range cards {
		stats.Total++
		switch card.Status {
		case domain.CardStatusNew:
			stats.New++
		case domain.CardStatusLearning:
			stats.Learning++
		case domain.CardStatusMature:
			stats.Mature++
		case domain.CardStatusSuspended:
			stats.Suspended++
		}
		if card.IsDue(now) {
			stats.Due++
		}
	}

	return stats, nil
}

// CardHistory implements Service.CardHistory
func (s *service) CardHistory(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	if _, err := s.cardStore.GetByID(ctx, cardID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.reviewStore.ListByCard(ctx, cardID, limit)
}

// localDate truncates a timestamp to midnight of its learner-local calendar
// day, keeping the local location so day arithmetic respects DST.
func (s *service) localDate(t time.Time) time.Time {
	local := t.In(s.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
}
