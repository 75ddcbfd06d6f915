package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// startHTTPServer runs the HTTP server and blocks until it exits. On SIGINT
// or SIGTERM it drains in-flight requests before returning.
func (app *application) startHTTPServer(router http.Handler) error {
	serverAddr := fmt.Sprintf(":%d", app.config.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.String("address", serverAddr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			app.logger.Error("graceful shutdown failed, forcing close",
				slog.String("error", err.Error()))
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("forced close failed: %w", closeErr)
			}
		}
	}

	app.cleanup()
	app.logger.Info("server stopped")
	return nil
}
