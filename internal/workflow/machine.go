// Package workflow enforces the governed-object lifecycle:
// draft -> pending_review -> approved -> published -> archived, with reject
// as the single back edge returning to draft. Transitions are role-gated,
// validated against the current status, and audited atomically with the
// state change.
package workflow

import (
	"nbms/internal/audit"
	governance "nbms/internal/governance/models"
)

// Action names a workflow transition. Values double as audit action tags.
type Action string

const (
	ActionSubmitForReview Action = audit.ActionSubmitForReview
	ActionApprove         Action = audit.ActionApprove
	ActionReject          Action = audit.ActionReject
	ActionPublish         Action = audit.ActionPublish
	ActionArchive         Action = audit.ActionArchive
)

// Rule describes one legal transition. Admins satisfy every role gate but
// never skip the From precondition: there is no draft -> published shortcut
// for anyone.
type Rule struct {
	From  governance.Status
	To    governance.Status
	Roles []governance.Role
	// AllowCreator lets the object's creator perform the transition
	// regardless of role (submit_for_review only).
	AllowCreator bool
	// RequireNote rejects blank notes with a validation error.
	RequireNote bool
	// ClearNote wipes the review note on success; SetNote stores the given
	// note. At most one of the two is set.
	ClearNote bool
	SetNote   bool
}

// Transitions is the statically-constructed transition table. It is built
// once at startup and passed to the service by dependency injection; there
// is no runtime-mutable registry.
type Transitions map[Action]Rule

// DefaultTransitions returns the canonical lifecycle table.
func DefaultTransitions() Transitions {
	return Transitions{
		ActionSubmitForReview: {
			From:         governance.StatusDraft,
			To:           governance.StatusPendingReview,
			Roles:        []governance.Role{governance.RoleIndicatorLead},
			AllowCreator: true,
			ClearNote:    true,
		},
		ActionApprove: {
			From:    governance.StatusPendingReview,
			To:      governance.StatusApproved,
			Roles:   []governance.Role{governance.RoleDataSteward, governance.RoleSecretariat},
			SetNote: true,
		},
		ActionReject: {
			From:        governance.StatusPendingReview,
			To:          governance.StatusDraft,
			Roles:       []governance.Role{governance.RoleDataSteward, governance.RoleSecretariat},
			RequireNote: true,
			SetNote:     true,
		},
		ActionPublish: {
			From:  governance.StatusApproved,
			To:    governance.StatusPublished,
			Roles: []governance.Role{governance.RoleSecretariat},
		},
		ActionArchive: {
			From:  governance.StatusPublished,
			To:    governance.StatusArchived,
			Roles: []governance.Role{governance.RoleSecretariat},
		},
	}
}
