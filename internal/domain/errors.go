package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidQuality is returned when a review quality rating is outside
	// the accepted 0-5 range.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidCardStatus is returned when a card status is not one of the
	// recognized values.
	ErrInvalidCardStatus = errors.New("invalid card status")

	// ErrInvalidSessionType is returned when a session type is not one of the
	// recognized values.
	ErrInvalidSessionType = errors.New("invalid session type")
)
