package router

import (
	"net/http"

	"discount-api/internal/handler"
	"discount-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New builds the HTTP router with all routes and middleware configured.
func New(discountHandler *handler.DiscountHandler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health-check", discountHandler.HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(logger))

		r.Route("/discount", func(r chi.Router) {
			r.Get("/", discountHandler.List)
			r.Post("/", discountHandler.Create)
			r.Put("/{id}", discountHandler.Update)
			r.Delete("/{id}", discountHandler.Delete)
			r.Get("/venue/{venueId}", discountHandler.ListByVenue)
		})

		// Full listing consumed by the profile service.
		r.Get("/venue", discountHandler.ListAll)
	})

	// Unrouted paths go through the generic 422 envelope.
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	return r
}
