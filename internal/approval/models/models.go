// Package models defines the instance export approval record. Approval is
// instance-scoped: approving an object for one reporting instance says
// nothing about any other instance.
package models

import (
	"time"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// DefaultScope is the approval scope used when callers do not name one.
const DefaultScope = "export"

// Decision is the recorded outcome for one approval key.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRevoked  Decision = "revoked"
)

// IsValid checks if the decision is one of the supported enum values.
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRevoked
}

// ParseDecision validates and parses a decision string.
// Use at trust boundaries for external input.
func ParseDecision(s string) (Decision, error) {
	decision := Decision(s)
	if !decision.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid approval decision: "+s)
	}
	return decision, nil
}

// Key identifies one approval row: (instance, object, scope). A second
// write to the same key overwrites the decision; history lives in the
// audit log only.
type Key struct {
	InstanceID id.InstanceID
	Object     governance.Ref
	Scope      string
}

// Approval is the authoritative "is this object part of this specific
// report" signal, independent of the object's own lifecycle status and of
// the legacy global export flag.
type Approval struct {
	ID        id.ApprovalID
	Key       Key
	Decision  Decision
	Note      string
	DecidedBy id.UserID
	DecidedAt time.Time
}
