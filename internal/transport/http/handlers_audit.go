package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"nbms/internal/audit"
	"nbms/internal/auth"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
)

type auditEventResponse struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	ActorID   string         `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Kind      string         `json:"kind,omitempty"`
	ObjectID  string         `json:"object_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func toAuditEventResponse(e audit.Event) auditEventResponse {
	resp := auditEventResponse{
		ID:        e.ID.String(),
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		Action:    e.Action,
		RequestID: e.RequestID,
		Metadata:  e.Metadata,
	}
	if e.ActorID != nil {
		resp.ActorID = e.ActorID.String()
	}
	if !e.Object.IsZero() {
		resp.Kind = string(e.Object.Kind)
		resp.ObjectID = e.Object.ID.String()
	}
	return resp
}

// handleListAudit returns the audit trail for one governed object. Reading
// the trail is a steward-level operation: the trail carries reviewer
// identities even when notes are redacted.
func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if !actor.Authenticated() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required to read the audit trail"))
		return
	}
	if !h.deps.Engine.IsAdmin(actor) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "reading the audit trail requires staff or admin"))
		return
	}

	ref, err := refFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	events, err := h.deps.Events.ListByObject(r.Context(), ref)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	items := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, toAuditEventResponse(e))
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"events": items})
}

type purgeRequest struct {
	OlderThan string `json:"older_than"`
}

// handlePurgeAudit deletes audit events older than the given duration.
// This is the sole mutation allowed on the trail and it is gated on the
// system admin role; the purge itself is audited.
func (h *Handler) handlePurgeAudit(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if !actor.Authenticated() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required to purge audit events"))
		return
	}
	if !h.deps.Engine.IsSystemAdmin(actor) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "purging audit events requires a system admin"))
		return
	}

	var req purgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	olderThan, err := time.ParseDuration(req.OlderThan)
	if err != nil || olderThan <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "older_than must be a positive duration"))
		return
	}

	now := requestcontext.Now(r.Context())
	cutoff := now.Add(-olderThan)
	purged, err := h.deps.Auditor.Purge(r.Context(), cutoff)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge audit events"))
		return
	}

	actorID := actor.ID
	event := audit.Event{
		ActorID: &actorID,
		Action:  audit.ActionAuditPurged,
		Metadata: map[string]any{
			"cutoff": cutoff.UTC().Format(time.RFC3339),
			"purged": purged,
		},
	}
	if err := h.deps.Auditor.Emit(r.Context(), event); err != nil {
		h.deps.Logger.WarnContext(r.Context(), "failed to audit purge", "error", err)
	}

	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{
		"purged": purged,
		"cutoff": cutoff.UTC().Format(time.RFC3339),
	})
}
