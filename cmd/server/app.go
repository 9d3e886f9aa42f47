package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/feed"
	"github.com/phrazzld/ledger-api/internal/platform/memstore"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and wiring.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore store.UserStore
	feedLog   *feed.Log

	ledgerService *service.LedgerService
}

// newApplication creates a new application instance with all dependencies
// initialized. The store and the feed are in-memory; their contents live
// for the duration of the process.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.userStore = memstore.NewUserStore(logger)
	app.feedLog = feed.NewLog(logger)

	var err error
	app.ledgerService, err = service.NewLedgerService(app.userStore, app.feedLog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
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
