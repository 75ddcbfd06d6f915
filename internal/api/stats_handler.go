package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/api/shared"
	"github.com/quillmind/recall-api/internal/platform/logger"
	"github.com/quillmind/recall-api/internal/service/analytics"
)

// StatsHandler handles analytics HTTP requests
type StatsHandler struct {
	analytics analytics.Service
	logger    *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(service analytics.Service, log *slog.Logger) *StatsHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("analytics service cannot be nil for StatsHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		analytics: service,
		logger:    log.With(slog.String("component", "stats_handler")),
	}
}

// GetSessionStats handles GET /study/sessions/{id}/stats requests.
func (h *StatsHandler) GetSessionStats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, h.logger, "session")
	if !ok {
		return
	}

	stats, err := h.analytics.SessionStats(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetDeckStats handles GET /decks/{id}/stats requests.
func (h *StatsHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, h.logger, "deck")
	if !ok {
		return
	}

	stats, err := h.analytics.DeckStats(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetDailyStats handles GET /stats/daily?days=N requests. The window
// defaults to 30 days and is capped at a year.
func (h *StatsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 366 {
			log.Warn("invalid days parameter", slog.String("days", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = parsed
	}

	stats, err := h.analytics.DailyStats(r.Context(), days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetCardHistory handles GET /cards/{id}/reviews?limit=N requests, returning
// the card's most recent reviews newest first.
func (h *StatsHandler) GetCardHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r, h.logger, "card")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Warn("invalid limit parameter", slog.String("limit", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reviews, err := h.analytics.CardHistory(r.Context(), id, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviews)
}

// GetStreak handles GET /stats/streak requests.
func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.analytics.Streak(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"streak_days": streak})
}

// parseIDParam extracts and parses the {id} path parameter, responding with
// 400 on failure. kind names the entity for the error message.
func parseIDParam(w http.ResponseWriter, r *http.Request, log *slog.Logger, kind string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), log).Warn("invalid ID format",
			slog.String("kind", kind),
			slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}

	return id, true
}
