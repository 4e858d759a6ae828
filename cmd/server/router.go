package main

import (
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apiMiddleware "github.com/flashdeck/flashdeck-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Deck endpoints
		r.Get("/decks", deckHandler.ListDecks)
		r.Post("/decks", deckHandler.CreateDeck)
		r.Get("/decks/{deckID}", deckHandler.GetDeck)
		r.Put("/decks/{deckID}", deckHandler.UpdateDeck)
		r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

		// Card endpoints, scoped by parent deck
		r.Get("/decks/{deckID}/cards", cardHandler.ListCards)
		r.Post("/decks/{deckID}/cards", cardHandler.CreateCard)
		r.Get("/decks/{deckID}/cards/{cardID}", cardHandler.GetCard)
		r.Put("/decks/{deckID}/cards/{cardID}", cardHandler.UpdateCard)
		r.Delete("/decks/{deckID}/cards/{cardID}", cardHandler.DeleteCard)

		// AI generation
		r.Post("/decks/{deckID}/generate", generationHandler.GenerateCards)
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
