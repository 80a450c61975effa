package httptransport

import (
	"net/http"

	jsonutil "nbms/internal/transport/http/shared/json"
)

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	jsonutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports dependency health. With no health probe configured
// (memory-backed deployments) readiness degenerates to liveness.
func (h *Handler) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Health != nil {
		if err := h.deps.Health(); err != nil {
			jsonutil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": err.Error(),
			})
			return
		}
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
