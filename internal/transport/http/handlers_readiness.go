package httptransport

import (
	"net/http"

	"nbms/internal/auth"
	"nbms/internal/readiness"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
)

// handleReadiness computes the export-readiness report for an instance.
// Scope defaults to "all"; "selected" restricts the run to indicators
// already approved for the instance.
func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	scope := readiness.ScopeAll
	if raw := r.URL.Query().Get("scope"); raw != "" {
		scope = readiness.Scope(raw)
		if !scope.IsValid() {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown readiness scope: "+raw))
			return
		}
	}

	instance, err := h.getInstance(r.Context(), instanceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	actor := auth.ActorFrom(r.Context())
	report, err := h.deps.Readiness.Compute(r.Context(), actor, instance, scope)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, report)
}
