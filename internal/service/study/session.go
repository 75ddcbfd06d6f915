package study

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/domain/cloze"
)

// SessionState labels where a live session is in its lifecycle.
type SessionState string

const (
	// StatePresenting means the question side of the current unit is shown.
	StatePresenting SessionState = "presenting"

	// StateAnswerRevealed means the answer side is shown; the session is
	// waiting for a quality rating.
	StateAnswerRevealed SessionState = "answer_revealed"

	// StateComplete means every unit has been answered and the record is
	// finalized.
	StateComplete SessionState = "complete"
)

// UnitView is the presentation data for one study unit.
type UnitView struct {
	CardID       uuid.UUID `json:"card_id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer,omitempty"` // empty until revealed
	Compound     bool      `json:"compound"`
	TargetMarker int       `json:"target_marker,omitempty"`
	TotalMarkers int       `json:"total_markers,omitempty"`
}

// SessionView is the caller-facing snapshot of a live session: its state, the
// current unit (when one is in flight), progress through the study set, and
// the running counters.
type SessionView struct {
	SessionID  uuid.UUID    `json:"session_id"`
	State      SessionState `json:"state"`
	UnitIndex  int          `json:"unit_index"`
	TotalUnits int          `json:"total_units"`

	CardsStudied     int `json:"cards_studied"`
	CardsCorrect     int `json:"cards_correct"`
	TotalTimeSeconds int `json:"total_time_seconds"`

	Unit *UnitView `json:"unit,omitempty"`
}

// liveSession is the in-memory state of one session in progress. All access
// goes through mu so only one unit mutation is in flight at a time.
type liveSession struct {
	mu sync.Mutex

	record *domain.StudySession
	units  []domain.StudyUnit
	index  int
	state  SessionState

	// presentedAt is when the current unit was first shown; elapsed study
	// time for the unit is measured from it.
	presentedAt time.Time
}

// view builds a SessionView for the session's current state. Callers must
// hold the session mutex.
func (s *liveSession) view(policy cloze.RevealPolicy) *SessionView {
	v := &SessionView{
		SessionID:        s.record.ID,
		State:            s.state,
		UnitIndex:        s.index,
		TotalUnits:       len(s.units),
		CardsStudied:     s.record.CardsStudied,
		CardsCorrect:     s.record.CardsCorrect,
		TotalTimeSeconds: s.record.TotalTimeSeconds,
	}

	if s.state == StateComplete {
		return v
	}

	unit := s.units[s.index]
	uv := &UnitView{
		CardID:       unit.Card.ID,
		Question:     cloze.RenderQuestion(unit),
		Compound:     unit.Compound(),
		TargetMarker: unit.TargetMarker,
		TotalMarkers: unit.TotalMarkers,
	}
	if s.state == StateAnswerRevealed {
		uv.Answer = cloze.RenderAnswer(unit, policy)
	}
	v.Unit = uv

	return v
}

// registry holds the live sessions, keyed by session id.
type registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession
}

func newRegistry() *registry {
	return &registry{sessions: make(map[uuid.UUID]*liveSession)}
}

func (r *registry) get(id uuid.UUID) (*liveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) put(s *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.record.ID] = s
}

func (r *registry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
