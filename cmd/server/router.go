package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-decks/internal/api"
	apiMiddleware "github.com/phrazzld/scry-decks/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	reviewHandler := api.NewReviewHandler(app.cardReviewService, app.logger)
	sessionHandler := api.NewStudySessionHandler(app.studySessionService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/decks", deckHandler.CreateDeck)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", deckHandler.GetDeck)
			r.Post("/cards", deckHandler.CreateCard)
			r.Get("/review-cards", reviewHandler.DueCards)
			r.Post("/study-sessions", sessionHandler.StartSession)
		})

		r.Get("/cards/{cardID}", deckHandler.GetCard)
		r.Get("/cards/{cardID}/reviews", reviewHandler.CardHistory)

		r.Route("/study-sessions/{token}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.DeleteSession)
			r.Put("/complete", sessionHandler.CompleteSession)
			r.Post("/reviews", reviewHandler.SubmitReview)
		})

		r.Get("/stats/study-activity", sessionHandler.StudyActivity)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
