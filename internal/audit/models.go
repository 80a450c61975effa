package audit

import (
	"time"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// Event is an immutable record of an authorization- or workflow-relevant
// action. Keep it transport-agnostic so stores and sinks can fan out.
// ActorID is nil for system actions.
type Event struct {
	ID        id.EventID
	Timestamp time.Time
	ActorID   *id.UserID
	Action    string
	Object    governance.Ref
	RequestID string
	Metadata  map[string]any
}

// Action tags written by the core services.
const (
	ActionSubmitForReview = "submit_for_review"
	ActionApprove         = "approve"
	ActionReject          = "reject"
	ActionPublish         = "publish"
	ActionArchive         = "archive"

	ActionConsentGranted  = "consent_granted"
	ActionConsentRevoked  = "consent_revoked"
	ActionConsentRequired = "consent_required"

	ActionInstanceExportApproved       = "instance_export_approved"
	ActionInstanceExportRevoked        = "instance_export_revoked"
	ActionInstanceExportBlockedConsent = "instance_export_blocked_consent"

	ActionInstanceFrozen = "instance_frozen"

	ActionAuditPurged = "audit_purged"
)
