// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "nbms/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where an OrgID is expected.
type (
	UserID     uuid.UUID
	OrgID      uuid.UUID
	InstanceID uuid.UUID
	ObjectID   uuid.UUID
	ConsentID  uuid.UUID
	ApprovalID uuid.UUID
	GrantID    uuid.UUID
	EventID    uuid.UUID
)

// New functions - use when minting fresh identifiers.

func NewUserID() UserID         { return UserID(uuid.New()) }
func NewOrgID() OrgID           { return OrgID(uuid.New()) }
func NewInstanceID() InstanceID { return InstanceID(uuid.New()) }
func NewObjectID() ObjectID     { return ObjectID(uuid.New()) }
func NewConsentID() ConsentID   { return ConsentID(uuid.New()) }
func NewApprovalID() ApprovalID { return ApprovalID(uuid.New()) }
func NewGrantID() GrantID       { return GrantID(uuid.New()) }
func NewEventID() EventID       { return EventID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseOrgID(s string) (OrgID, error) {
	id, err := parseUUID(s, "organisation ID")
	return OrgID(id), err
}

func ParseInstanceID(s string) (InstanceID, error) {
	id, err := parseUUID(s, "reporting instance ID")
	return InstanceID(id), err
}

func ParseObjectID(s string) (ObjectID, error) {
	id, err := parseUUID(s, "object ID")
	return ObjectID(id), err
}

func ParseConsentID(s string) (ConsentID, error) {
	id, err := parseUUID(s, "consent ID")
	return ConsentID(id), err
}

func ParseApprovalID(s string) (ApprovalID, error) {
	id, err := parseUUID(s, "approval ID")
	return ApprovalID(id), err
}

// String methods - for logging and debugging.

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id OrgID) String() string      { return uuid.UUID(id).String() }
func (id InstanceID) String() string { return uuid.UUID(id).String() }
func (id ObjectID) String() string   { return uuid.UUID(id).String() }
func (id ConsentID) String() string  { return uuid.UUID(id).String() }
func (id ApprovalID) String() string { return uuid.UUID(id).String() }
func (id GrantID) String() string    { return uuid.UUID(id).String() }
func (id EventID) String() string    { return uuid.UUID(id).String() }

// IsNil methods - zero-value checks for invariant enforcement.

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OrgID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id InstanceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ObjectID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ConsentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ApprovalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id GrantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	return parsed, nil
}
