package handlers

import (
	"net/http"

	"drone-delivery-planner/internal/api/dto"
)

// Health provides a minimal liveness check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.log, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
