package httptransport

import (
	"encoding/json"
	"net/http"

	"nbms/internal/auth"
	consentmodels "nbms/internal/consent/models"
	governance "nbms/internal/governance/models"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

type setConsentRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type consentResponse struct {
	Kind            string `json:"kind"`
	ObjectID        string `json:"object_id"`
	InstanceID      string `json:"instance_id,omitempty"`
	Status          string `json:"status"`
	RequiresConsent bool   `json:"requires_consent"`
}

func (h *Handler) handleGetConsent(w http.ResponseWriter, r *http.Request) {
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
	obj, err := h.getObject(r.Context(), ref)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	status, err := h.deps.Consent.StatusFor(r.Context(), instanceID, obj)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, consentResponse{
		Kind:            string(ref.Kind),
		ObjectID:        ref.ID.String(),
		InstanceID:      instanceID.String(),
		Status:          string(status),
		RequiresConsent: h.deps.Consent.RequiresConsent(obj),
	})
}

func (h *Handler) handleSetConsent(w http.ResponseWriter, r *http.Request) {
	instanceID, err := instanceIDFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.setConsent(w, r, instanceID)
}

// handleSetGlobalConsent records the instance-independent decision that
// applies wherever no instance-specific record overrides it.
func (h *Handler) handleSetGlobalConsent(w http.ResponseWriter, r *http.Request) {
	h.setConsent(w, r, id.InstanceID{})
}

// setConsent records a consent decision. The consent service itself only
// records state; holding a consent-granting role is checked here, at the
// boundary: IPLC-sensitive records need a community representative.
func (h *Handler) setConsent(w http.ResponseWriter, r *http.Request, instanceID id.InstanceID) {
	ref, err := refFromRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req setConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	status, err := consentmodels.ParseStatus(req.Status)
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
	if err := h.consentRoleGate(actor, obj); err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.deps.Consent.Set(r.Context(), actor, instanceID, obj, status, req.Note)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := consentResponse{
		Kind:            string(ref.Kind),
		ObjectID:        ref.ID.String(),
		Status:          string(record.Status),
		RequiresConsent: h.deps.Consent.RequiresConsent(obj),
	}
	if !instanceID.IsNil() {
		resp.InstanceID = instanceID.String()
	}
	jsonutil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) consentRoleGate(actor governance.Actor, obj governance.Governed) error {
	if !actor.Authenticated() {
		return dErrors.New(dErrors.CodeUnauthenticated, "authentication required to record consent")
	}
	if h.deps.Engine.IsAdmin(actor) {
		return nil
	}
	if obj.Meta().Sensitivity == governance.SensitivityIPLC {
		if actor.HasRole(governance.RoleCommunityRep) {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden,
			"consent for iplc_sensitive records requires a community representative")
	}
	if actor.HasAnyRole(governance.RoleCommunityRep, governance.RoleDataSteward, governance.RoleSecretariat) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "actor lacks a consent-granting role")
}
