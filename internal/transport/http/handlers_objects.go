package httptransport

import (
	"encoding/json"
	"net/http"

	"nbms/internal/auth"
	governance "nbms/internal/governance/models"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	"nbms/internal/workflow"
	dErrors "nbms/pkg/domain-errors"
)

type transitionRequest struct {
	Note string `json:"note"`
}

// objectResponse is the governed-object view returned by transition and
// read endpoints. Sensitivity and review notes are visible only to callers
// who already passed the view gate to reach the object.
type objectResponse struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Status      string `json:"status"`
	Sensitivity string `json:"sensitivity"`
	ReviewNote  string `json:"review_note,omitempty"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
}

func toObjectResponse(obj governance.Governed) objectResponse {
	ref := obj.Ref()
	meta := obj.Meta()
	resp := objectResponse{
		Kind:        string(ref.Kind),
		ID:          ref.ID.String(),
		Status:      string(meta.Status),
		Sensitivity: string(meta.Sensitivity),
		ReviewNote:  meta.ReviewNote,
	}
	switch o := obj.(type) {
	case *governance.Indicator:
		resp.Code = o.Code
		resp.Name = o.Name
	case *governance.NationalTarget:
		resp.Code = o.Code
		resp.Name = o.Title
	}
	return resp
}

// transition builds the handler for one workflow action. The note body is
// optional on the wire; the workflow service decides whether the action
// requires one.
func (h *Handler) transition(action workflow.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := refFromRequest(r)
		if err != nil {
			shared.WriteError(w, err)
			return
		}

		var req transitionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
				return
			}
		}

		obj, err := h.getObject(r.Context(), ref)
		if err != nil {
			shared.WriteError(w, err)
			return
		}

		actor := auth.ActorFrom(r.Context())
		updated, err := h.deps.Workflow.Transition(r.Context(), actor, obj, action, req.Note)
		if err != nil {
			shared.WriteError(w, err)
			return
		}

		jsonutil.WriteJSON(w, http.StatusOK, toObjectResponse(updated))
	}
}

func (h *Handler) handleGetObject(w http.ResponseWriter, r *http.Request) {
	ref, err := refFromRequest(r)
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
	if !h.deps.Engine.CanView(actor, obj) {
		// Hide existence from actors without view rights.
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "object not found"))
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, toObjectResponse(obj))
}

// handleListIndicators lists the indicators the caller may see. With a
// permission query parameter the grant registry is consulted as well, so
// the result is publicly-visible union explicitly-granted.
func (h *Handler) handleListIndicators(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())

	objects, err := h.deps.Objects.ListByKind(r.Context(), governance.KindIndicator)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	permission := r.URL.Query().Get("permission")
	var visible []governance.Governed
	if permission != "" {
		visible, err = h.deps.Engine.FilterVisibleWithPermission(r.Context(), actor, objects, permission)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	} else {
		visible = h.deps.Engine.FilterVisible(actor, objects)
	}

	items := make([]objectResponse, 0, len(visible))
	for _, obj := range visible {
		items = append(items, toObjectResponse(obj))
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"indicators": items})
}
