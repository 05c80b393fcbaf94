package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arkrelay/arkrelay/internal/relay"
	"github.com/go-chi/chi/v5"
)

// handleListTransfers returns an http.HandlerFunc for GET /api/transfers.
func (g *Gateway) handleListTransfers() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if g.registry == nil {
			http.Error(w, "transfer registry unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.registry.Snapshots())
	}
}

// handleGetTransfer returns an http.HandlerFunc for GET /api/transfers/{id}.
func (g *Gateway) handleGetTransfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.registry == nil {
			http.Error(w, "transfer registry unavailable", http.StatusServiceUnavailable)
			return
		}
		snap, ok := g.registry.Get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// handleCancelTransfer returns an http.HandlerFunc for DELETE
// /api/transfers/{id}. Cancellation is cooperative; the transfer finishes
// its current chunk before stopping.
func (g *Gateway) handleCancelTransfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.registry == nil {
			http.Error(w, "transfer registry unavailable", http.StatusServiceUnavailable)
			return
		}
		id := chi.URLParam(r, "id")
		if err := g.registry.Cancel(id); err != nil {
			if errors.Is(err, relay.ErrNotFound) {
				http.Error(w, "transfer not found", http.StatusNotFound)
				return
			}
			http.Error(w, "cancel failed", http.StatusInternalServerError)
			return
		}
		g.logger.Info("transfer cancellation requested", "transfer", id)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}
