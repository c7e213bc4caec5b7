// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/threads/internal/api"
	"github.com/starford/threads/internal/index"
	"github.com/starford/threads/internal/mcpserver"
	"github.com/starford/threads/internal/models"
	"github.com/starford/threads/internal/sse"
	"github.com/starford/threads/internal/threadservice"
)

// Run starts the HTTP server with the given options and blocks until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("threads_file", app.threadsFile),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.String("auth_mode", cfg.Auth.Mode))

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	backend, err := OpenBackend(cfg, app.threadsFile, logger,
		threadservice.WithNotifier(func(kind string, t *models.Thread) {
			if t == nil {
				broker.PublishChange(kind, nil)
				return
			}
			broker.PublishChange(kind, t)
		}),
	)
	if err != nil {
		return err
	}
	defer backend.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := backend.Store.Checksum(); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, "threads file unreadable")
			return
		}
		writeHealth(w, http.StatusOK, "ok")
	})

	r.Mount("/api", api.NewRouter(backend.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the index in step with edits made outside the server.
	g.Go(func() error {
		err := index.Watch(gCtx, backend.DB, backend.Store, logger, func(kind, path string) {
			broker.PublishChange(kind, map[string]string{"path": path})
		})
		if err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...", slog.String("cause", context.Cause(gCtx).Error()))
		stop()
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	backend, err := OpenBackend(app.config, app.threadsFile, app.logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	app.logger.Info("MCP server starting", slog.String("threads_file", app.threadsFile))
	return mcpserver.New(backend.Service, app.version).ServeStdio()
}

func writeHealth(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, msg)
}
