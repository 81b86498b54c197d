package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Store   string `json:"store"`
}

// Health reports liveness. Without a configured store the service runs in
// mock mode and is still healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.db == nil {
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "ok",
			Message: "Sketchfolio API",
			Store:   "mock",
		})
		return
	}

	if err := h.db.Ping(r.Context()); err != nil {
		slog.Warn("store ping failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Message: "store unavailable",
			Store:   "configured",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Message: "Sketchfolio API",
		Store:   "configured",
	})
}
