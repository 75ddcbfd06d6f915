package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/quillmind/recall-api/internal/config"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/domain/cloze"
	"github.com/quillmind/recall-api/internal/domain/srs"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/store"
)

// CustomFilter describes a custom filtered selection within a deck-scoped
// session: OR tag match, optional due-only restriction, and a cap. A zero
// Limit falls back to the configured session cap; the cap is always the upper
// bound.
type CustomFilter struct {
	Tags    []string
	DueOnly bool
	Limit   int
}

// StartOptions describes the study set a new session should draw from.
type StartOptions struct {
	Type  domain.SessionType
	Scope domain.SessionScope

	// Filter, when set, switches to the custom filtered selection. It
	// requires a deck scope.
	Filter *CustomFilter
}

// Manager drives study sessions end to end.
type Manager interface {
	// Start resolves the study set, creates the session record, and presents
	// the first unit. An empty study set completes the session immediately
	// with zero stats.
	Start(ctx context.Context, opts StartOptions) (*SessionView, error)

	// Current returns the session's current presentation state.
	Current(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)

	// Reveal uncovers the answer side of the current unit.
	Reveal(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)

	// SubmitAnswer records a quality rating for the current unit: the
	// scheduler computes the card's new state, a review is appended, the card
	// and session counters are persisted atomically, and the session advances
	// to the next unit or completes. On persistent write failure the session
	// stays on the same unit and ErrAnswerNotPersisted is returned so the
	// caller can retry.
	SubmitAnswer(ctx context.Context, sessionID uuid.UUID, quality int, latencyMs *int64) (*SessionView, error)

	// Pause persists the session's counters without an end time and drops it
	// from the registry. Remaining units are re-derived by the next session
	// against the same scope.
	Pause(ctx context.Context, sessionID uuid.UUID) error
}

type manager struct {
	db           *sql.DB
	cardStore    store.CardStore
	reviewStore  store.ReviewStore
	sessionStore store.SessionStore
	deckStore    store.DeckStore
	noteStore    store.NoteStore
	scheduler    srs.Service
	cfg          config.StudyConfig
	logger       *slog.Logger

	registry *registry

	// runTx is swappable in tests so the answer path can run against the
	// in-memory fakes without a database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error

	// now is swappable in tests for deterministic scheduling.
	now func() time.Time

	// shuffle randomizes unit order; swappable in tests.
	shuffle func(units []domain.StudyUnit)
}

// NewManager creates a session manager.
// It panics if any required dependency is nil.
func NewManager(
	db *sql.DB,
	cardStore store.CardStore,
	reviewStore store.ReviewStore,
	sessionStore store.SessionStore,
	deckStore store.DeckStore,
	noteStore store.NoteStore,
	scheduler srs.Service,
	cfg config.StudyConfig,
	log *slog.Logger,
) Manager {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if reviewStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewStore cannot be nil")
	}
	if sessionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessionStore cannot be nil")
	}
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
	}
	if noteStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("noteStore cannot be nil")
	}
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &manager{
		db:           db,
		cardStore:    cardStore,
		reviewStore:  reviewStore,
		sessionStore: sessionStore,
		deckStore:    deckStore,
		noteStore:    noteStore,
		scheduler:    scheduler,
		cfg:          cfg,
		logger:       log.With(slog.String("component", "study_manager")),
		registry:     newRegistry(),
		runTx:        store.RunInTransaction,
		now:          func() time.Time { return time.Now().UTC() },
		shuffle: func(units []domain.StudyUnit) {
			rand.Shuffle(len(units), func(i, j int) {
				units[i], units[j] = units[j], units[i]
			})
		},
	}
}

// revealPolicy maps the configuration flag onto the cloze reveal policy.
func (m *manager) revealPolicy() cloze.RevealPolicy {
	if m.cfg.RevealAllMarkers {
		return cloze.RevealAll
	}
	return cloze.RevealTarget
}

// Start implements Manager.Start
func (m *manager) Start(ctx context.Context, opts StartOptions) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if err := m.validateScope(ctx, opts.Scope); err != nil {
		return nil, err
	}

	session, err := domain.NewStudySession(opts.Scope, opts.Type)
	if err != nil {
		return nil, err
	}

	cards, err := m.selectCards(ctx, opts)
	if err != nil {
		log.Error("failed to resolve study set",
			slog.String("error", err.Error()),
			slog.String("session_type", string(opts.Type)))
		return nil, err
	}

	var units []domain.StudyUnit
	for _, card := range cards {
		units = append(units, cloze.Decompose(card)...)
	}
	m.shuffle(units)

	live := &liveSession{
		record: session,
		units:  units,
		state:  StatePresenting,
	}

	if len(units) == 0 {
		// Empty selection is not an error: the session completes immediately
		// with zero stats.
		ended := m.now()
		session.EndedAt = &ended
		live.state = StateComplete
	}

	if err := m.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to create session record",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, err
	}

	if live.state != StateComplete {
		live.presentedAt = m.now()
		m.registry.put(live)
	}

	log.Info("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("session_type", string(opts.Type)),
		slog.Int("card_count", len(cards)),
		slog.Int("unit_count", len(units)))

	return live.view(m.revealPolicy()), nil
}

// Current implements Manager.Current
func (m *manager) Current(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	live, ok := m.registry.get(sessionID)
	if !ok {
		return m.finishedView(ctx, sessionID)
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.view(m.revealPolicy()), nil
}

// finishedView reports a session that is no longer live. Completion removes
// the session from the registry, but its final counters remain queryable; a
// paused session is not current anywhere and reports as inactive.
func (m *manager) finishedView(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	record, err := m.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if record.EndedAt == nil {
		return nil, ErrSessionNotActive
	}

	return &SessionView{
		SessionID:        record.ID,
		State:            StateComplete,
		UnitIndex:        record.CardsStudied,
		TotalUnits:       record.CardsStudied,
		CardsStudied:     record.CardsStudied,
		CardsCorrect:     record.CardsCorrect,
		TotalTimeSeconds: record.TotalTimeSeconds,
	}, nil
}

// Reveal implements Manager.Reveal
func (m *manager) Reveal(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	live, ok := m.registry.get(sessionID)
	if !ok {
		return nil, m.inactive(ctx, sessionID)
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	switch live.state {
	case StateAnswerRevealed:
		return nil, ErrAlreadyRevealed
	case StateComplete:
		return nil, ErrSessionComplete
	}

	live.state = StateAnswerRevealed
	return live.view(m.revealPolicy()), nil
}

// SubmitAnswer implements Manager.SubmitAnswer
func (m *manager) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	quality int,
	latencyMs *int64,
) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if quality < 0 || quality > 5 {
		return nil, srs.ErrInvalidQuality
	}

	live, ok := m.registry.get(sessionID)
	if !ok {
		return nil, m.inactive(ctx, sessionID)
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	switch live.state {
	case StatePresenting:
		return nil, ErrAnswerNotRevealed
	case StateComplete:
		return nil, ErrSessionComplete
	}

	unit := live.units[live.index]
	now := m.now()
	elapsed := int(now.Sub(live.presentedAt).Seconds())
	lastUnit := live.index == len(live.units)-1

	persisted, err := m.persistAnswer(ctx, live, unit, quality, latencyMs, elapsed, lastUnit, now)
	if err != nil {
		// The unit stays current and the counters are untouched; the caller
		// may retry the submission.
		log.Error("answer persistence failed after retries",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()),
			slog.String("card_id", unit.Card.ID.String()))
		return nil, fmt.Errorf("%w: %w", ErrAnswerNotPersisted, err)
	}

	live.record = persisted

	if lastUnit {
		live.state = StateComplete
		m.registry.remove(sessionID)
		log.Info("study session complete",
			slog.String("session_id", sessionID.String()),
			slog.Int("cards_studied", persisted.CardsStudied),
			slog.Int("cards_correct", persisted.CardsCorrect))
	} else {
		live.index++
		live.state = StatePresenting
		live.presentedAt = m.now()
	}

	return live.view(m.revealPolicy()), nil
}

// persistAnswer runs the full answer write: re-read the card, schedule,
// append the review, persist the card with an optimistic concurrency check,
// and update session counters — all in one transaction, retried with bounded
// exponential backoff. A stale write re-reads the card and recomputes, so
// the two-tab race resolves to sequential updates instead of a silent
// overwrite.
func (m *manager) persistAnswer(
	ctx context.Context,
	live *liveSession,
	unit domain.StudyUnit,
	quality int,
	latencyMs *int64,
	elapsed int,
	lastUnit bool,
	now time.Time,
) (*domain.StudySession, error) {
	backoff := retry.WithMaxRetries(
		uint64(m.cfg.WriteRetryAttempts),
		retry.NewExponential(time.Duration(m.cfg.WriteRetryBaseMs)*time.Millisecond),
	)

	var persisted *domain.StudySession

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fresh, err := m.cardStore.GetByID(ctx, unit.Card.ID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return err // card deleted mid-session; not retryable
			}
			return retry.RetryableError(err)
		}

		before := domain.Snapshot(fresh)
		result, err := m.scheduler.Schedule(before, quality, now)
		if err != nil {
			return err // invariant violations are not retryable
		}

		status := srs.DeriveStatus(result.State.Repetitions, quality)
		correct := quality >= 3

		updated := *fresh
		updated.ApplyScheduling(
			status,
			result.State.EaseFactor,
			result.State.IntervalDays,
			result.State.Repetitions,
			result.NextReviewAt,
			now,
			correct,
		)

		review, err := domain.NewReview(fresh.ID, now, quality, latencyMs, before, domain.Snapshot(&updated))
		if err != nil {
			return err
		}

		record := *live.record
		record.RecordAnswer(correct, elapsed)
		if lastUnit {
			ended := now
			record.EndedAt = &ended
		}

		txErr := m.runTx(ctx, m.db, func(ctx context.Context, tx *sql.Tx) error {
			if err := m.cardStore.WithTx(tx).UpdateScheduling(ctx, &updated, fresh.UpdatedAt); err != nil {
				return err
			}
			if err := m.reviewStore.WithTx(tx).Append(ctx, review); err != nil {
				return err
			}
			return m.sessionStore.WithTx(tx).Update(ctx, &record)
		})
		if txErr != nil {
			if errors.Is(txErr, store.ErrStaleWrite) {
				// Another writer got there first; re-read and recompute.
				return retry.RetryableError(txErr)
			}
			if store.IsNotFoundError(txErr) {
				return txErr
			}
			return retry.RetryableError(txErr)
		}

		persisted = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return persisted, nil
}

// Pause implements Manager.Pause
func (m *manager) Pause(ctx context.Context, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	live, ok := m.registry.get(sessionID)
	if !ok {
		return m.inactive(ctx, sessionID)
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	// Counters are already persisted after every answer; the update here is
	// the explicit pause write with no end time.
	if err := m.sessionStore.Update(ctx, live.record); err != nil {
		log.Error("failed to persist paused session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return err
	}

	m.registry.remove(sessionID)

	log.Info("study session paused",
		slog.String("session_id", sessionID.String()),
		slog.Int("cards_studied", live.record.CardsStudied),
		slog.Int("units_remaining", len(live.units)-live.index))
	return nil
}

// inactive distinguishes a session that exists but is no longer live from one
// that never existed. A completed session reports ErrSessionComplete; a
// paused one reports ErrSessionNotActive.
func (m *manager) inactive(ctx context.Context, sessionID uuid.UUID) error {
	record, err := m.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if record.EndedAt != nil {
		return ErrSessionComplete
	}
	return ErrSessionNotActive
}

// validateScope checks that a scoped session targets an existing deck or
// note.
func (m *manager) validateScope(ctx context.Context, scope domain.SessionScope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if scope.DeckID != nil {
		if _, err := m.deckStore.GetByID(ctx, *scope.DeckID); err != nil {
			return err
		}
	}
	if scope.NoteID != nil {
		if _, err := m.noteStore.GetByID(ctx, *scope.NoteID); err != nil {
			return err
		}
	}
	return nil
}

// selectCards resolves the card set for the session per its type or custom
// filter.
func (m *manager) selectCards(ctx context.Context, opts StartOptions) ([]*domain.Card, error) {
	now := m.now()

	if opts.Filter != nil {
		if opts.Scope.DeckID == nil {
			return nil, ErrFilterRequiresDeck
		}
		limit := opts.Filter.Limit
		if limit <= 0 || limit > m.cfg.CustomSessionCap {
			limit = m.cfg.CustomSessionCap
		}
		return m.cardStore.FilterForSession(ctx, store.CardFilter{
			DeckID:  *opts.Scope.DeckID,
			Tags:    opts.Filter.Tags,
			DueOnly: opts.Filter.DueOnly,
			Now:     now,
			Limit:   limit,
		})
	}

	switch opts.Type {
	case domain.SessionTypeReview:
		return m.cardStore.ListDue(ctx, now, opts.Scope)
	case domain.SessionTypeNew:
		return m.cardStore.ListNew(ctx, m.cfg.NewCardLimit, opts.Scope)
	case domain.SessionTypeMixed:
		due, err := m.cardStore.ListDue(ctx, now, opts.Scope)
		if err != nil {
			return nil, err
		}
		fresh, err := m.cardStore.ListNew(ctx, m.cfg.NewCardLimit, opts.Scope)
		if err != nil {
			return nil, err
		}
		return mergeCards(due, fresh), nil
	default:
		return nil, domain.ErrInvalidSessionType
	}
}

// mergeCards unions two selections, dropping duplicates by card id. New cards
// are always due, so the due query already contains them; the union keeps
// each card once.
func mergeCards(a, b []*domain.Card) []*domain.Card {
	seen := make(map[uuid.UUID]bool, len(a))
	merged := make([]*domain.Card, 0, len(a)+len(b))
	for _, card := range a {
		if !seen[card.ID] {
			seen[card.ID] = true
			merged = append(merged, card)
		}
	}
	for _, card := range b {
		if !seen[card.ID] {
			seen[card.ID] = true
			merged = append(merged, card)
		}
	}
	return merged
}
