package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

// StartSessionRequest is the request body for starting a study session.
// Scope is optional: at most one of deck_id and note_id may be set. The
// filter switches to a custom selection and requires a deck scope.
type StartSessionRequest struct {
	Type   string              `json:"type" validate:"required,oneof=review new mixed"`
	DeckID *uuid.UUID          `json:"deck_id,omitempty"`
	NoteID *uuid.UUID          `json:"note_id,omitempty"`
	Filter *SessionFilterInput `json:"filter,omitempty"`
}

// SessionFilterInput describes a custom filtered selection.
type SessionFilterInput struct {
	Tags    []string `json:"tags,omitempty"`
	DueOnly bool     `json:"due_only,omitempty"`
	Limit   int      `json:"limit,omitempty" validate:"gte=0"`
}

// SubmitAnswerRequest is the request body for rating the current unit.
// Quality follows the 0-5 scale; the UI typically sends 0, 1, 3 or 4.
type SubmitAnswerRequest struct {
	Quality   int    `json:"quality" validate:"gte=0,lte=5"`
	LatencyMs *int64 `json:"latency_ms,omitempty" validate:"omitempty,gte=0"`
}

// CreateCardRequest is the request body for creating a card. Exactly one of
// the front/back pair or the cloze text must be supplied, matching the
// content type.
type CreateCardRequest struct {
	DeckID uuid.UUID  `json:"deck_id" validate:"required"`
	NoteID *uuid.UUID `json:"note_id,omitempty"`
	Type   string     `json:"type" validate:"required,oneof=front_back cloze"`
	Front  string     `json:"front,omitempty"`
	Back   string     `json:"back,omitempty"`
	Text   string     `json:"text,omitempty"`
	Tags   []string   `json:"tags,omitempty"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID             string      `json:"id"`
	DeckID         string      `json:"deck_id"`
	NoteID         string      `json:"note_id,omitempty"`
	Content        interface{} `json:"content"`
	Tags           []string    `json:"tags,omitempty"`
	Status         string      `json:"status"`
	EaseFactor     float64     `json:"ease_factor"`
	IntervalDays   int         `json:"interval_days"`
	Repetitions    int         `json:"repetitions"`
	NextReviewAt   time.Time   `json:"next_review_at"`
	TotalReviews   int         `json:"total_reviews"`
	CorrectReviews int         `json:"correct_reviews"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// cardToResponse transforms a domain card into its response shape.
func cardToResponse(card *domain.Card) CardResponse {
	resp := CardResponse{
		ID:             card.ID.String(),
		DeckID:         card.DeckID.String(),
		Content:        card.Content,
		Tags:           card.Tags,
		Status:         string(card.Status),
		EaseFactor:     card.EaseFactor,
		IntervalDays:   card.IntervalDays,
		Repetitions:    card.Repetitions,
		NextReviewAt:   card.NextReviewAt,
		TotalReviews:   card.TotalReviews,
		CorrectReviews: card.CorrectReviews,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
	if card.NoteID != nil {
		resp.NoteID = card.NoteID.String()
	}
	return resp
}
