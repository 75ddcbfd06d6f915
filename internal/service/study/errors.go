package study

import "errors"

// Session lifecycle errors
var (
	// ErrSessionNotActive is returned when the referenced session is not in
	// the in-memory registry: it was never started here, already completed,
	// or was paused.
	ErrSessionNotActive = errors.New("study session is not active")

	// ErrAnswerNotRevealed is returned when a quality rating is submitted
	// before the answer side has been revealed.
	ErrAnswerNotRevealed = errors.New("answer has not been revealed")

	// ErrAlreadyRevealed is returned when reveal is called twice for the same
	// unit.
	ErrAlreadyRevealed = errors.New("answer is already revealed")

	// ErrSessionComplete is returned when an operation is attempted against a
	// session that has already presented its last unit.
	ErrSessionComplete = errors.New("study session is complete")

	// ErrAnswerNotPersisted is returned when the answer write could not be
	// committed after bounded retries. The session stays on the same unit with
	// counters intact; the caller may retry the submission.
	ErrAnswerNotPersisted = errors.New("answer could not be persisted")

	// ErrFilterRequiresDeck is returned when a custom filtered session is
	// requested without a deck scope.
	ErrFilterRequiresDeck = errors.New("filtered sessions require a deck scope")
)
