package models

import (
	id "nbms/pkg/domain"
)

// Actor is the principal a request acts as. Anonymous actors are a distinct
// variant with no organisation and no roles; every rule treats missing
// attributes as not satisfying the check (fail closed).
type Actor struct {
	ID          id.UserID
	DisplayName string
	OrgID       *id.OrgID
	Roles       []Role
	Staff       bool
	Superuser   bool
	Anonymous   bool
}

// AnonymousActor returns the unauthenticated principal.
func AnonymousActor() Actor {
	return Actor{Anonymous: true}
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return !a.Anonymous && !a.ID.IsNil()
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the actor holds at least one of the given roles.
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// SameOrg reports whether the actor belongs to the given organisation.
// A nil organisation on either side never matches.
func (a Actor) SameOrg(orgID *id.OrgID) bool {
	if a.OrgID == nil || orgID == nil {
		return false
	}
	return *a.OrgID == *orgID
}
