package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// healthTimeout bounds the storage probe so a wedged database cannot
// hang the liveness endpoint.
const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// handleHealthz reports process liveness and storage reachability.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Storage: "unchecked"}
	if h.health != nil {
		if err := h.health.Health(r.Context(), healthTimeout); err != nil {
			h.logger.Warn("storage health check failed", zap.Error(err))
			h.respondJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "degraded",
				Storage: "unreachable",
			})
			return
		}
		resp.Storage = "ok"
	}
	h.respondJSON(w, http.StatusOK, resp)
}
