package httptransport

import (
	"net/http"
	"time"

	"nbms/internal/audit"
	"nbms/internal/auth"
	governance "nbms/internal/governance/models"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
)

type instanceResponse struct {
	ID       string `json:"id"`
	Cycle    string `json:"cycle"`
	Version  string `json:"version,omitempty"`
	Label    string `json:"label"`
	Status   string `json:"status"`
	Frozen   bool   `json:"frozen"`
	FrozenAt string `json:"frozen_at,omitempty"`
	FrozenBy string `json:"frozen_by,omitempty"`
}

func toInstanceResponse(inst *governance.ReportingInstance) instanceResponse {
	resp := instanceResponse{
		ID:      inst.ID.String(),
		Cycle:   inst.Cycle,
		Version: inst.VersionLabel,
		Label:   inst.Label(),
		Status:  string(inst.Status),
		Frozen:  inst.Frozen(),
	}
	if inst.FrozenAt != nil {
		resp.FrozenAt = inst.FrozenAt.UTC().Format(time.RFC3339)
	}
	if inst.FrozenBy != nil {
		resp.FrozenBy = inst.FrozenBy.String()
	}
	return resp
}

func (h *Handler) handleListInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.deps.Instances.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	items := make([]instanceResponse, 0, len(instances))
	for _, inst := range instances {
		items = append(items, toInstanceResponse(inst))
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"instances": items})
}

// handleFreezeInstance freezes a reporting instance. Admin-only; once
// frozen, ordinary mutating actions on the instance are blocked.
func (h *Handler) handleFreezeInstance(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if !actor.Authenticated() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required to freeze an instance"))
		return
	}
	if !h.deps.Engine.IsAdmin(actor) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "freezing an instance requires an admin"))
		return
	}

	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	instance, err := h.getInstance(r.Context(), instanceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	now := requestcontext.Now(r.Context())
	if err := instance.Freeze(actor.ID, now); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.deps.Instances.Save(r.Context(), instance); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist freeze"))
		return
	}

	actorID := actor.ID
	event := audit.Event{
		ActorID: &actorID,
		Action:  audit.ActionInstanceFrozen,
		Metadata: map[string]any{
			"instance_id": instanceID.String(),
		},
	}
	if err := h.deps.Auditor.Emit(r.Context(), event); err != nil {
		h.deps.Logger.WarnContext(r.Context(), "failed to audit instance freeze",
			"instance_id", instanceID.String(), "error", err)
	}

	jsonutil.WriteJSON(w, http.StatusOK, toInstanceResponse(instance))
}
