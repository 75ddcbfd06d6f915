package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quillmind/recall-api/internal/api"
	apiMiddleware "github.com/quillmind/recall-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	studyHandler := api.NewStudyHandler(app.studyManager, app.logger)
	statsHandler := api.NewStatsHandler(app.analytics, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Study session lifecycle
		r.Post("/study/sessions", studyHandler.StartSession)
		r.Get("/study/sessions/{id}/current", studyHandler.GetCurrent)
		r.Post("/study/sessions/{id}/reveal", studyHandler.Reveal)
		r.Post("/study/sessions/{id}/answer", studyHandler.SubmitAnswer)
		r.Post("/study/sessions/{id}/pause", studyHandler.Pause)
		r.Get("/study/sessions/{id}/stats", statsHandler.GetSessionStats)

		// Card lifecycle
		r.Post("/cards", cardHandler.CreateCard)
		r.Get("/cards/{id}", cardHandler.GetCard)
		r.Post("/cards/{id}/suspend", cardHandler.SuspendCard)
		r.Post("/cards/{id}/unsuspend", cardHandler.UnsuspendCard)
		r.Get("/cards/{id}/reviews", statsHandler.GetCardHistory)

		// Analytics
		r.Get("/decks/{id}/stats", statsHandler.GetDeckStats)
		r.Get("/stats/daily", statsHandler.GetDailyStats)
		r.Get("/stats/streak", statsHandler.GetStreak)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
