package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionType selects which cards a study session draws from.
type SessionType string

// Possible session type values
const (
	SessionTypeReview SessionType = "review"
	SessionTypeNew    SessionType = "new"
	SessionTypeMixed  SessionType = "mixed"
)

// Session-specific validation errors
var (
	ErrSessionIDEmpty    = errors.New("session ID cannot be empty")
	ErrSessionScopeMixed = errors.New("session scope cannot name both a deck and a note")
)

// SessionScope narrows a study session to one deck, one source note, or
// neither (all cards). At most one of DeckID and NoteID is set.
type SessionScope struct {
	DeckID *uuid.UUID `json:"deck_id,omitempty"`
	NoteID *uuid.UUID `json:"note_id,omitempty"`
}

// ScopeAll returns an unrestricted session scope.
func ScopeAll() SessionScope {
	return SessionScope{}
}

// ScopeDeck returns a scope restricted to one deck.
func ScopeDeck(deckID uuid.UUID) SessionScope {
	return SessionScope{DeckID: &deckID}
}

// ScopeNote returns a scope restricted to cards generated from one note.
func ScopeNote(noteID uuid.UUID) SessionScope {
	return SessionScope{NoteID: &noteID}
}

// Validate checks that the scope does not name both a deck and a note.
func (s SessionScope) Validate() error {
	if s.DeckID != nil && s.NoteID != nil {
		return ErrSessionScopeMixed
	}
	return nil
}

// StudySession describes one sitting of study. Counters are mutated after
// each answered unit; EndedAt is set only on completion. A paused session
// keeps its counters but no end time, so it is distinguishable from a
// finished one.
type StudySession struct {
	ID    uuid.UUID    `json:"id"`
	Scope SessionScope `json:"scope"`
	Type  SessionType  `json:"type"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	CardsStudied     int `json:"cards_studied"`
	CardsCorrect     int `json:"cards_correct"`
	TotalTimeSeconds int `json:"total_time_seconds"`
}

// NewStudySession creates a validated session record starting now.
func NewStudySession(scope SessionScope, sessionType SessionType) (*StudySession, error) {
	session := &StudySession{
		ID:        uuid.New(),
		Scope:     scope,
		Type:      sessionType,
		StartedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if err := s.Scope.Validate(); err != nil {
		return err
	}

	switch s.Type {
	case SessionTypeReview, SessionTypeNew, SessionTypeMixed:
	default:
		return ErrInvalidSessionType
	}

	return nil
}

// RecordAnswer bumps the running counters for one answered unit.
func (s *StudySession) RecordAnswer(correct bool, elapsedSeconds int) {
	s.CardsStudied++
	if correct {
		s.CardsCorrect++
	}
	if elapsedSeconds > 0 {
		s.TotalTimeSeconds += elapsedSeconds
	}
}

// Ended reports whether the session has been completed or paused to a close.
func (s *StudySession) Ended() bool {
	return s.EndedAt != nil
}
