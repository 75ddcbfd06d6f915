package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmind/recall-api/internal/config"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/mocks"
	"github.com/quillmind/recall-api/internal/store"
)

var testNow = time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

type fixture struct {
	service  *service
	reviews  *mocks.MockReviewStore
	sessions *mocks.MockSessionStore
	cards    *mocks.MockCardStore
	decks    *mocks.MockDeckStore
	deck     *domain.Deck
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reviews := mocks.NewMockReviewStore()
	sessions := mocks.NewMockSessionStore()
	cards := mocks.NewMockCardStore()
	decks := mocks.NewMockDeckStore()

	deck, err := domain.NewDeck("History")
	require.NoError(t, err)
	require.NoError(t, decks.Create(context.Background(), deck))

	cfg := config.StudyConfig{
		NewCardLimit:       20,
		CustomSessionCap:   50,
		WriteRetryAttempts: 3,
		WriteRetryBaseMs:   100,
		StreakLookbackDays: 365,
		Timezone:           "UTC",
	}

	svc := NewService(reviews, sessions, cards, decks, cfg, nil).(*service)
	svc.now = func() time.Time { return testNow }

	return &fixture{
		service:  svc,
		reviews:  reviews,
		sessions: sessions,
		cards:    cards,
		decks:    decks,
		deck:     deck,
	}
}

// addReview appends a review log entry at the given time.
func (f *fixture) addReview(t *testing.T, reviewedAt time.Time, quality int) {
	t.Helper()
	review, err := domain.NewReview(
		uuid.New(),
		reviewedAt,
		quality,
		nil,
		domain.SchedulingSnapshot{EaseFactor: 2.5},
		domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
	)
	require.NoError(t, err)
	require.NoError(t, f.reviews.Append(context.Background(), review))
}

func (f *fixture) addCard(t *testing.T, status domain.CardStatus, nextReview time.Time) {
	t.Helper()
	content, err := domain.NewFrontBackContent("front", "back")
	require.NoError(t, err)
	card, err := domain.NewCard(f.deck.ID, nil, content, nil)
	require.NoError(t, err)
	card.Status = status
	card.NextReviewAt = nextReview
	if status != domain.CardStatusNew {
		card.Repetitions = 1
		card.IntervalDays = 1
	}
	f.cards.Seed(card)
}

func TestSessionStatsZeroSafe(t *testing.T) {
	f := newFixture(t)

	session, err := domain.NewStudySession(domain.ScopeAll(), domain.SessionTypeReview)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(context.Background(), session))

	stats, err := f.service.SessionStats(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.CardsStudied)
	assert.Zero(t, stats.AccuracyPct)
	assert.Zero(t, stats.AvgSecondsPerCard)
}

func TestSessionStatsAccuracy(t *testing.T) {
	f := newFixture(t)

	session, err := domain.NewStudySession(domain.ScopeAll(), domain.SessionTypeReview)
	require.NoError(t, err)
	session.CardsStudied = 4
	session.CardsCorrect = 3
	session.TotalTimeSeconds = 60
	require.NoError(t, f.sessions.Create(context.Background(), session))

	stats, err := f.service.SessionStats(context.Background(), session.ID)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, stats.AccuracyPct, 0.001)
	assert.InDelta(t, 15.0, stats.AvgSecondsPerCard, 0.001)
}

func TestSessionStatsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SessionStats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestDailyStatsBucketsByDay(t *testing.T) {
	f := newFixture(t)

	f.addReview(t, testNow.Add(-2*time.Hour), 4)     // today, correct
	f.addReview(t, testNow.Add(-3*time.Hour), 1)     // today, failed
	f.addReview(t, testNow.AddDate(0, 0, -1), 3)     // yesterday
	f.addReview(t, testNow.AddDate(0, 0, -40), 4)    // outside the window

	stats, err := f.service.DailyStats(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stats, 7)

	today := stats[6]
	assert.Equal(t, "2024-03-15", today.Date)
	assert.Equal(t, 2, today.Reviews)
	assert.Equal(t, 1, today.Correct)
	assert.InDelta(t, 50.0, today.AccuracyPct, 0.001)

	yesterday := stats[5]
	assert.Equal(t, 1, yesterday.Reviews)

	// Quiet days report zeros, not missing entries.
	assert.Equal(t, 0, stats[0].Reviews)
	assert.Zero(t, stats[0].AccuracyPct)
}

func TestDailyStatsDefaultWindow(t *testing.T) {
	f := newFixture(t)

	stats, err := f.service.DailyStats(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, stats, DefaultDailyWindowDays)
}

func TestStreakThreeDays(t *testing.T) {
	f := newFixture(t)

	f.addReview(t, testNow.Add(-time.Hour), 4)
	f.addReview(t, testNow.AddDate(0, 0, -1), 4)
	f.addReview(t, testNow.AddDate(0, 0, -2), 3)
	// Gap at -3 days; this one must not count.
	f.addReview(t, testNow.AddDate(0, 0, -4), 4)

	streak, err := f.service.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakEmptyTodayDoesNotBreak(t *testing.T) {
	f := newFixture(t)

	// Nothing studied today, but the two prior days continue a streak.
	f.addReview(t, testNow.AddDate(0, 0, -1), 4)
	f.addReview(t, testNow.AddDate(0, 0, -2), 4)

	streak, err := f.service.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestStreakZeroWithNoReviews(t *testing.T) {
	f := newFixture(t)

	streak, err := f.service.Streak(context.Background())
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestDeckStatsClassification(t *testing.T) {
	f := newFixture(t)

	f.addCard(t, domain.CardStatusNew, testNow)                        // new, always due
	f.addCard(t, domain.CardStatusLearning, testNow.Add(-time.Hour))   // due
	f.addCard(t, domain.CardStatusReview, testNow.AddDate(0, 0, 3))    // scheduled ahead
	f.addCard(t, domain.CardStatusMature, testNow.Add(-time.Minute))   // due
	f.addCard(t, domain.CardStatusSuspended, testNow.Add(-time.Hour))  // never due

	stats, err := f.service.DeckStats(context.Background(), f.deck.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 1, stats.Mature)
	assert.Equal(t, 1, stats.Suspended)
	assert.Equal(t, 3, stats.Due)
}

func TestDeckStatsUnknownDeck(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.DeckStats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestCardHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)

	content, err := domain.NewFrontBackContent("front", "back")
	require.NoError(t, err)
	card, err := domain.NewCard(f.deck.ID, nil, content, nil)
	require.NoError(t, err)
	f.cards.Seed(card)

	for i := 0; i < 3; i++ {
		review, err := domain.NewReview(
			card.ID,
			testNow.Add(time.Duration(i-3)*time.Hour),
			4,
			nil,
			domain.SchedulingSnapshot{EaseFactor: 2.5},
			domain.SchedulingSnapshot{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
		)
		require.NoError(t, err)
		require.NoError(t, f.reviews.Append(context.Background(), review))
	}
	// A review of another card is not part of this card's history.
	f.addReview(t, testNow.Add(-time.Minute), 3)

	history, err := f.service.CardHistory(context.Background(), card.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].ReviewedAt.Before(history[i-1].ReviewedAt))
	}

	capped, err := f.service.CardHistory(context.Background(), card.ID, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestCardHistoryUnknownCard(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CardHistory(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}
