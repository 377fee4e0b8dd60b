package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-units"

	"studyhub/internal/config"
	"studyhub/internal/http"
	"studyhub/internal/service"
	"studyhub/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger())
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)

	deps := &http.Deps{
		Insights:  service.NewInsightsService(documentRepo, nil),
		Documents: service.NewDocumentService(documentRepo, cfg.MaxUploadSize),
		Notes:     service.NewNoteService(storage.NewNoteRepo(db)),
		Study: service.NewStudyService(service.StudyStores{
			Documents: documentRepo,
			Todos:     storage.NewTodoRepo(db),
			Planner:   storage.NewPlannerRepo(db),
			Streaks:   storage.NewStreakRepo(db),
		}, nil),
		DB:             db,
		AllowedOrigin:  cfg.AllowedOrigin,
		RequestTimeout: cfg.RequestTimeout,
	}

	srv := &nethttp.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: http.NewRouter(deps),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server",
			"addr", srv.Addr,
			"allowed_origin", cfg.AllowedOrigin,
			"max_upload_size", units.HumanSize(float64(cfg.MaxUploadSize)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server", "timeout", cfg.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return
	}
	slog.Info("API server stopped")
}
