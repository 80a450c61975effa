// Package models defines the consent vocabulary and record shape. Consent
// is scoped to (object, reporting-instance-or-global): an instance-specific
// decision always wins over the global one.
package models

import (
	"time"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// Status is the consent state for one scope.
type Status string

const (
	// StatusRequired means consent is needed and no decision has been made.
	// It is the lazy default for sensitive records.
	StatusRequired Status = "required"
	StatusGranted  Status = "granted"
	StatusRevoked  Status = "revoked"
)

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return s == StatusRequired || s == StatusGranted || s == StatusRevoked
}

// IsDecision reports whether the status is an explicit decision an actor
// may record. "required" is a system default, never set by callers.
func (s Status) IsDecision() bool {
	return s == StatusGranted || s == StatusRevoked
}

// ParseStatus validates and parses a status string.
// Use at trust boundaries for external input.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid consent status: "+s)
	}
	return status, nil
}

// Scope keys a consent record. A zero InstanceID marks the global record
// applicable to any instance absent an instance-specific override.
type Scope struct {
	Object     governance.Ref
	InstanceID id.InstanceID
}

// Global reports whether the scope is the instance-independent record.
func (s Scope) Global() bool {
	return s.InstanceID.IsNil()
}

// Record captures the consent state for one scope.
type Record struct {
	ID        id.ConsentID
	Scope     Scope
	Status    Status
	Note      string
	DecidedBy *id.UserID
	DecidedAt *time.Time
	CreatedAt time.Time
}
