package httptransport

import (
	"encoding/json"
	"net/http"

	governance "nbms/internal/governance/models"
	"nbms/internal/transport/http/shared"
	jsonutil "nbms/internal/transport/http/shared/json"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
	"nbms/pkg/secrets"
)

type issueTokenRequest struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	OrgID       string   `json:"org_id"`
	Roles       []string `json:"roles"`
	Staff       bool     `json:"staff"`
	Superuser   bool     `json:"superuser"`
}

// handleIssueToken mints a bearer token for the described actor. It stands
// in for an identity provider; deployments gate it with a shared API secret
// (bcrypt hash in config) or disable it entirely.
func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if h.deps.TokenSecret != "" {
		provided := r.Header.Get("X-Auth-Secret")
		if err := secrets.Verify(provided, h.deps.TokenSecret); err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	actor := governance.Actor{
		ID:          userID,
		DisplayName: req.DisplayName,
		Staff:       req.Staff,
		Superuser:   req.Superuser,
	}
	if req.OrgID != "" {
		orgID, err := id.ParseOrgID(req.OrgID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		actor.OrgID = &orgID
	}
	for _, role := range req.Roles {
		actor.Roles = append(actor.Roles, governance.Role(role))
	}

	token, err := h.deps.Tokens.Issue(actor, requestcontext.Now(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "Bearer",
	})
}
