package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nbms/internal/auth"
	governance "nbms/internal/governance/models"
	"nbms/internal/report"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
)

type upsertSectionRequest struct {
	Content string `json:"content"`
}

type sectionResponse struct {
	InstanceID string `json:"instance_id"`
	Key        string `json:"key"`
	Content    string `json:"content"`
	Filled     bool   `json:"filled"`
	UpdatedBy  string `json:"updated_by,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

func toSectionResponse(s report.Section) sectionResponse {
	resp := sectionResponse{
		InstanceID: s.InstanceID.String(),
		Key:        s.Key,
		Content:    s.Content,
		Filled:     s.Filled(),
	}
	if s.UpdatedBy != nil {
		resp.UpdatedBy = s.UpdatedBy.String()
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func (h *Handler) handleListSections(w http.ResponseWriter, r *http.Request) {
	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	sections, err := h.deps.Sections.ListByInstance(r.Context(), instanceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	items := make([]sectionResponse, 0, len(sections))
	for _, s := range sections {
		items = append(items, toSectionResponse(s))
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"sections": items})
}

// handleUpsertSection writes narrative section content. Stewards and the
// secretariat edit sections; a frozen instance rejects edits like any other
// ordinary mutation.
func (h *Handler) handleUpsertSection(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if !actor.Authenticated() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required to edit sections"))
		return
	}
	if !h.deps.Engine.IsAdmin(actor) &&
		!actor.HasAnyRole(governance.RoleDataSteward, governance.RoleSecretariat) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "editing sections requires a steward or secretariat role"))
		return
	}

	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "section key is required"))
		return
	}

	instance, err := h.getInstance(r.Context(), instanceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if instance.Frozen() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInstanceFrozen, "reporting instance is frozen"))
		return
	}

	var req upsertSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	actorID := actor.ID
	section := report.Section{
		InstanceID: instanceID,
		Key:        key,
		Content:    req.Content,
		UpdatedBy:  &actorID,
		UpdatedAt:  requestcontext.Now(r.Context()),
	}
	if err := h.deps.Sections.Upsert(r.Context(), &section); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist section"))
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, toSectionResponse(section))
}
