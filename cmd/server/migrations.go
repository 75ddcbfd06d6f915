package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/quillmind/recall-api/internal/config"
	"github.com/quillmind/recall-api/migrations"
)

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "migrations"))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), slog.String("component", "migrations"))
}

// runMigrations applies or rolls back the embedded goose migrations.
// Supported commands are "up", "down" and "status".
func runMigrations(cfg *config.Config, command string) error {
	startTime := time.Now()
	migrationLogger := slog.Default().With(
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: check RECALL_DATABASE_URL or the config file")
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			migrationLogger.Error("failed to close database connection",
				slog.String("error", closeErr.Error()))
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q: expected up, down or status", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	migrationLogger.Info("migration operation completed",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}
