package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/platform/memory"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/platform/tracing"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/auth"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/phrazzld/scry-decks/internal/service/study_session"
	"github.com/phrazzld/scry-decks/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory engine is configured.
	db *sql.DB
	tx store.Transactor

	jwtService          auth.JWTService
	srsService          srs.Service
	deckService         service.DeckService
	cardReviewService   card_review.CardReviewService
	studySessionService study_session.StudySessionService

	shutdownTracing tracing.ShutdownFunc
}

// newApplication creates a new application instance with all dependencies initialized.
// The storage engine is chosen by cfg.Database.Driver.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.shutdownTracing, err = tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	if err := app.setupStorage(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.srsService, err = newSRSService(cfg.Study)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.deckService, err = service.NewDeckService(app.tx, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	app.cardReviewService = card_review.NewCardReviewService(
		app.tx,
		app.srsService,
		logger,
		card_review.WithDueLimits(cfg.Study.DefaultDueLimit, cfg.Study.MaxDueLimit),
	)

	app.studySessionService = study_session.NewStudySessionService(
		app.tx,
		logger,
		study_session.WithRecompletion(cfg.Study.AllowRecompletion),
		study_session.WithDefaultActivityDays(cfg.Study.DefaultActivityDays),
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupStorage opens the configured storage engine and, for PostgreSQL,
// applies pending migrations when auto_migrate is set.
func (app *application) setupStorage(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		app.logger.Warn("using the in-memory storage engine; data is lost on restart")
		app.tx = memory.NewDB(app.logger)
		return nil

	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return err
		}
		app.db = db

		if app.config.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		app.tx = postgres.NewTransactor(db, app.logger)
		return nil

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
}

// newSRSService builds the scheduling service, applying a configured
// interval table when one is set.
func newSRSService(cfg config.StudyConfig) (srs.Service, error) {
	if len(cfg.IntervalsHours) == 0 {
		return srs.NewDefaultService()
	}
	params, err := srs.NewParams(srs.ParamsConfig{IntervalHours: cfg.IntervalsHours})
	if err != nil {
		return nil, err
	}
	return srs.NewServiceWithParams(params)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(context.Background()); err != nil {
			app.logger.Error("Error shutting down tracing", slog.String("error", err.Error()))
		}
		app.shutdownTracing = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
