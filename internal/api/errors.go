package api

import (
	"errors"
	"net/http"

	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/domain/srs"
	"github.com/quillmind/recall-api/internal/service"
	"github.com/quillmind/recall-api/internal/service/study"
	"github.com/quillmind/recall-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Session lifecycle conflicts
	case errors.Is(err, study.ErrSessionNotActive),
		errors.Is(err, study.ErrSessionComplete),
		errors.Is(err, study.ErrAnswerNotRevealed),
		errors.Is(err, study.ErrAlreadyRevealed),
		errors.Is(err, service.ErrAlreadySuspended),
		errors.Is(err, service.ErrNotSuspended),
		errors.Is(err, store.ErrStaleWrite),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidSessionType),
		errors.Is(err, domain.ErrSessionScopeMixed),
		errors.Is(err, study.ErrFilterRequiresDeck),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Transient persistence failure: the caller may retry the submission
	case errors.Is(err, study.ErrAnswerNotPersisted):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Study session not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Session lifecycle conflicts
	case errors.Is(err, study.ErrSessionNotActive):
		return "Study session is no longer active"

	case errors.Is(err, study.ErrSessionComplete):
		return "Study session is already complete"

	case errors.Is(err, study.ErrAnswerNotRevealed):
		return "Reveal the answer before submitting a rating"

	case errors.Is(err, study.ErrAlreadyRevealed):
		return "Answer is already revealed"

	case errors.Is(err, service.ErrAlreadySuspended):
		return "Card is already suspended"

	case errors.Is(err, service.ErrNotSuspended):
		return "Card is not suspended"

	case errors.Is(err, store.ErrStaleWrite):
		return "Card was modified concurrently, please retry"

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidQuality):
		return "Quality rating must be between 0 and 5"

	case errors.Is(err, domain.ErrInvalidSessionType):
		return "Invalid session type"

	case errors.Is(err, domain.ErrSessionScopeMixed):
		return "Session scope cannot name both a deck and a note"

	case errors.Is(err, study.ErrFilterRequiresDeck):
		return "Filtered sessions require a deck scope"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Transient persistence failure
	case errors.Is(err, study.ErrAnswerNotPersisted):
		return "Answer could not be saved, please retry"

	default:
		return "An unexpected error occurred"
	}
}
