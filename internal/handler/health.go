package handler

import (
	"net/http"
	"time"

	"github.com/carebridge-ai/hospital-chatbot/internal/store"
)

// HealthHandler handles liveness and readiness endpoints.
type HealthHandler struct {
	natsClient *store.NATSClient // nil when the memory store backend is used
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(natsClient *store.NATSClient) *HealthHandler {
	return &HealthHandler{natsClient: natsClient}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Hospital Chatbot API is running",
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
