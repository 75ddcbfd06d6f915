package main

import (
	"database/sql"
	"log/slog"

	"github.com/quillmind/recall-api/internal/config"
	"github.com/quillmind/recall-api/internal/domain/srs"
	"github.com/quillmind/recall-api/internal/platform/postgres"
	"github.com/quillmind/recall-api/internal/service"
	"github.com/quillmind/recall-api/internal/service/analytics"
	"github.com/quillmind/recall-api/internal/service/study"
	"github.com/quillmind/recall-api/internal/store"
)

// application bundles the server's wired dependencies: configuration, the
// database handle, stores, and the services the handlers sit on.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cardStore    store.CardStore
	reviewStore  store.ReviewStore
	sessionStore store.SessionStore
	deckStore    store.DeckStore
	noteStore    store.NoteStore

	cardService  service.CardService
	studyManager study.Manager
	analytics    analytics.Service
}

// newApplication connects to the database and wires every service.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	cardStore := postgres.NewPostgresCardStore(db, appLogger)
	reviewStore := postgres.NewPostgresReviewStore(db, appLogger)
	sessionStore := postgres.NewPostgresSessionStore(db, appLogger)
	deckStore := postgres.NewPostgresDeckStore(db, appLogger)
	noteStore := postgres.NewPostgresNoteStore(db, appLogger)

	scheduler := srs.NewServiceWithParams(&srs.Params{
		MinEaseFactor:  cfg.SRS.MinEaseFactor,
		FirstInterval:  cfg.SRS.FirstIntervalDays,
		SecondInterval: cfg.SRS.SecondIntervalDays,
		LapseInterval:  cfg.SRS.LapseIntervalDays,
	})

	app := &application{
		config:       cfg,
		logger:       appLogger,
		db:           db,
		cardStore:    cardStore,
		reviewStore:  reviewStore,
		sessionStore: sessionStore,
		deckStore:    deckStore,
		noteStore:    noteStore,
		cardService:  service.NewCardService(cardStore, appLogger),
		studyManager: study.NewManager(
			db,
			cardStore,
			reviewStore,
			sessionStore,
			deckStore,
			noteStore,
			scheduler,
			cfg.Study,
			appLogger,
		),
		analytics: analytics.NewService(
			reviewStore,
			sessionStore,
			cardStore,
			deckStore,
			cfg.Study,
			appLogger,
		),
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
