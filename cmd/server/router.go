package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/ledger-api/internal/api"
	apiMiddleware "github.com/phrazzld/ledger-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	ledgerHandler := api.NewLedgerHandler(app.ledgerService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", ledgerHandler.CreateUser)
		r.Get("/users", ledgerHandler.ListUsers)
		r.Get("/users/{username}", ledgerHandler.GetUser)
		r.Post("/users/{username}/balance", ledgerHandler.CreditBalance)
		r.Post("/users/{username}/card", ledgerHandler.RegisterCard)
		r.Post("/users/{username}/friends", ledgerHandler.AddFriend)
		r.Get("/users/{username}/feed", ledgerHandler.GetUserFeed)

		r.Post("/payments", ledgerHandler.CreatePayment)
		r.Get("/feed", ledgerHandler.GetFeed)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
