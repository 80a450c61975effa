package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	approvalmodels "nbms/internal/approval/models"
	approvalservice "nbms/internal/approval/service"
	"nbms/internal/auth"
	governance "nbms/internal/governance/models"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
)

type approvalRequest struct {
	Note          string `json:"note"`
	Scope         string `json:"scope"`
	AdminOverride bool   `json:"admin_override"`
}

type approvalResponse struct {
	ID         string `json:"id"`
	InstanceID string `json:"instance_id"`
	Kind       string `json:"kind"`
	ObjectID   string `json:"object_id"`
	Scope      string `json:"scope"`
	Decision   string `json:"decision"`
	Note       string `json:"note,omitempty"`
	DecidedBy  string `json:"decided_by"`
	DecidedAt  string `json:"decided_at"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decideApproval(w, r, h.deps.Approvals.ApproveForInstance)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	h.decideApproval(w, r, h.deps.Approvals.RevokeForInstance)
}

func (h *Handler) decideApproval(w http.ResponseWriter, r *http.Request,
	decide func(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, req approvalservice.Request) (*approvalmodels.Approval, error),
) {
	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	ref, err := refFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req approvalRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
			return
		}
	}

	instance, err := h.getInstance(r.Context(), instanceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	obj, err := h.getObject(r.Context(), ref)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	actor := auth.ActorFrom(r.Context())
	approval, err := decide(r.Context(), actor, instance, obj, approvalservice.Request{
		Note:          req.Note,
		Scope:         req.Scope,
		AdminOverride: req.AdminOverride,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, toApprovalResponse(approval))
}

// handleListApprovals lists refs approved for the instance, filtered by the
// kind and scope query parameters.
func (h *Handler) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	kind, err := governance.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	scope := r.URL.Query().Get("scope")

	refs, err := h.deps.Approvals.ApprovedRefs(r.Context(), instanceID, kind, scope)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	items := make([]map[string]string, 0, len(refs))
	for _, ref := range refs {
		items = append(items, map[string]string{
			"kind":      string(ref.Kind),
			"object_id": ref.ID.String(),
		})
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"approved": items})
}

func toApprovalResponse(a *approvalmodels.Approval) approvalResponse {
	return approvalResponse{
		ID:         a.ID.String(),
		InstanceID: a.Key.InstanceID.String(),
		Kind:       string(a.Key.Object.Kind),
		ObjectID:   a.Key.Object.ID.String(),
		Scope:      a.Key.Scope,
		Decision:   string(a.Decision),
		Note:       a.Note,
		DecidedBy:  a.DecidedBy.String(),
		DecidedAt:  a.DecidedAt.UTC().Format(time.RFC3339),
	}
}
