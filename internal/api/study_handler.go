// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/api/shared"
	"github.com/quillmind/recall-api/internal/domain"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/service/study"
)

// StudyHandler handles study session HTTP requests
type StudyHandler struct {
	manager study.Manager
	logger  *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(manager study.Manager, log *slog.Logger) *StudyHandler {
	if manager == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("manager cannot be nil for StudyHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		manager: manager,
		logger:  log.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /study/sessions requests.
// It resolves the study set for the requested scope and type, creates the
// session, and returns the first unit (or an immediately complete session
// for an empty selection).
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode start session request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session type")
		return
	}

	opts := study.StartOptions{
		Type: domain.SessionType(req.Type),
		Scope: domain.SessionScope{
			DeckID: req.DeckID,
			NoteID: req.NoteID,
		},
	}
	if req.Filter != nil {
		opts.Filter = &study.CustomFilter{
			Tags:    req.Filter.Tags,
			DueOnly: req.Filter.DueOnly,
			Limit:   req.Filter.Limit,
		}
	}

	view, err := h.manager.Start(r.Context(), opts)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// GetCurrent handles GET /study/sessions/{id}/current requests.
// A completed session yields 204 No Content.
func (h *StudyHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.manager.Current(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if view.State == study.StateComplete {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Reveal handles POST /study/sessions/{id}/reveal requests.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.manager.Reveal(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SubmitAnswer handles POST /study/sessions/{id}/answer requests.
// On success the response carries the next unit, or the completed session
// summary when the last unit was answered. A transient persistence failure
// yields 503 and leaves the session on the same unit for retry.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode answer request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Quality rating must be between 0 and 5")
		return
	}

	view, err := h.manager.SubmitAnswer(r.Context(), sessionID, req.Quality, req.LatencyMs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Pause handles POST /study/sessions/{id}/pause requests.
func (h *StudyHandler) Pause(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.manager.Pause(r.Context(), sessionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionID extracts and parses the session id path parameter, responding
// with 400 on failure.
func (h *StudyHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid session ID format", slog.String("session_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}

	return id, true
}
