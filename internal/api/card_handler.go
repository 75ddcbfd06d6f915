package api

import (
	"log/slog"
	"net/http"

	"github.com/quillmind/recall-api/internal/api/shared"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/service"
)

// CardHandler handles card lifecycle HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, log *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      log.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode create card request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card data")
		return
	}

	var (
		content domain.CardContent
		err     error
	)
	switch req.Type {
	case string(domain.ContentTypeFrontBack):
		content, err = domain.NewFrontBackContent(req.Front, req.Back)
	case string(domain.ContentTypeCloze):
		content, err = domain.NewClozeContent(req.Text)
	}
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card content")
		return
	}

	card, err := domain.NewCard(req.DeckID, req.NoteID, content, req.Tags)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card data")
		return
	}

	if err := h.cardService.CreateCard(r.Context(), card); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, h.logger, "card")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SuspendCard handles POST /cards/{id}/suspend requests.
// Suspension keeps the card's scheduling state but excludes it from every
// selection until unsuspended.
func (h *CardHandler) SuspendCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, h.logger, "card")
	if !ok {
		return
	}

	card, err := h.cardService.SuspendCard(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UnsuspendCard handles POST /cards/{id}/unsuspend requests.
func (h *CardHandler) UnsuspendCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, h.logger, "card")
	if !ok {
		return
	}

	card, err := h.cardService.UnsuspendCard(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
