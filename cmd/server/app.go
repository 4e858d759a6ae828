package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/platform/gemini"
	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
)

// application holds the long-lived dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	deckService       service.DeckService
	cardService       service.CardService
	generationService service.GenerationService
}

// newApplication wires stores, services, and external clients together.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, err
	}

	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create card generator: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(newLoggingInvalidationHandler(logger))

	deckService, err := service.NewDeckService(deckStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	cardService, err := service.NewCardService(deckStore, cardStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	generationService, err := service.NewGenerationService(deckStore, cardStore, generator, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		jwtService:        jwtService,
		deckService:       deckService,
		cardService:       cardService,
		generationService: generationService,
	}, nil
}

// serve starts the HTTP server and blocks until a shutdown signal or a
// listener failure, then drains in-flight requests.
func (app *application) serve() error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.setupRouter(),
	}

	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutting down server")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.cleanup()

	app.logger.Info("server shutdown completed")
	return nil
}

// cleanup releases held resources at shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}

// loggingInvalidationHandler records invalidation hints in the logs.
// A CDN purger or cache layer would register here in a fuller deployment.
type loggingInvalidationHandler struct {
	logger *slog.Logger
}

func newLoggingInvalidationHandler(logger *slog.Logger) *loggingInvalidationHandler {
	return &loggingInvalidationHandler{
		logger: logger.With(slog.String("component", "invalidation_handler")),
	}
}

func (h *loggingInvalidationHandler) HandleEvent(ctx context.Context, event *events.InvalidationEvent) error {
	h.logger.Debug("view invalidated",
		"path", event.Path,
		"event_id", event.ID)
	return nil
}
