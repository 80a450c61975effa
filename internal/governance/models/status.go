// Package models holds the shared governance vocabulary: workflow status,
// sensitivity classification, roles, actors, governed-object metadata, and
// reporting instances. It is pure vocabulary - no transition or rule logic
// lives here.
package models

import (
	"fmt"

	dErrors "nbms/pkg/domain-errors"
)

// Status is the workflow lifecycle state of a governed object. The values
// form a strict total order: draft < pending_review < approved < published
// < archived.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusPublished     Status = "published"
	StatusArchived      Status = "archived"
)

// statusRanks is the single source of truth for status ordering.
var statusRanks = map[Status]int{
	StatusDraft:         0,
	StatusPendingReview: 1,
	StatusApproved:      2,
	StatusPublished:     3,
	StatusArchived:      4,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank returns the position of the status in the lifecycle order.
// Panics on invalid values; validate at trust boundaries first.
func (s Status) Rank() int {
	rank, ok := statusRanks[s]
	if !ok {
		panic(fmt.Sprintf("invalid status: %q", s))
	}
	return rank
}

// Before reports whether s precedes other in the lifecycle order.
func (s Status) Before(other Status) bool {
	return s.Rank() < other.Rank()
}

// ParseStatus validates and parses a status string.
// Use at trust boundaries for external input.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid status: %q", s))
	}
	return status, nil
}
