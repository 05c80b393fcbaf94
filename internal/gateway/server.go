package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())

	// Webhooks carry their own per-source auth.
	r.Post("/webhooks/{source}", g.dispatcher.ServeHTTP)

	// Live transfer feed.
	r.Get("/ws/transfers", g.handleTransfersWS())

	// Admin endpoints, auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
			r.Route("/api", func(r chi.Router) {
				r.Get("/transfers", g.handleListTransfers())
				r.Get("/transfers/{id}", g.handleGetTransfer())
				r.Delete("/transfers/{id}", g.handleCancelTransfer())
			})
		})
	}

	return r
}
