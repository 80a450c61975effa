package models

import (
	"time"

	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// InstanceStatus tracks a reporting instance's internal progress. Distinct
// from the governed-object Status vocabulary: instances are containers, not
// governed objects.
type InstanceStatus string

const (
	InstanceDraft     InstanceStatus = "draft"
	InstanceCompiling InstanceStatus = "compiling"
	InstanceSubmitted InstanceStatus = "submitted"
)

// ReportingInstance is one versioned snapshot of a reporting cycle, e.g.
// "NR7 v1". It is the scoping key for both consent and export approval: the
// same object can be approved for instance A and not for instance B.
type ReportingInstance struct {
	ID           id.InstanceID
	Cycle        string
	VersionLabel string
	Status       InstanceStatus
	FrozenAt     *time.Time
	FrozenBy     *id.UserID
	CreatedAt    time.Time
}

// Frozen reports whether the instance has been frozen. Once frozen, ordinary
// mutating actions are blocked; admins may override explicitly.
func (r *ReportingInstance) Frozen() bool {
	return r.FrozenAt != nil
}

// Freeze marks the instance frozen by the given actor. Freezing twice is a
// conflict so a stale caller cannot silently re-stamp the freeze record.
func (r *ReportingInstance) Freeze(actorID id.UserID, now time.Time) error {
	if r.Frozen() {
		return dErrors.New(dErrors.CodeConflict, "reporting instance already frozen")
	}
	r.FrozenAt = &now
	r.FrozenBy = &actorID
	return nil
}

// Label renders the human-readable instance name.
func (r *ReportingInstance) Label() string {
	if r.VersionLabel == "" {
		return r.Cycle
	}
	return r.Cycle + " " + r.VersionLabel
}
