// Package authz implements attribute-based visibility and editability for
// governed objects. A single rule set keyed on status, sensitivity,
// organisation, and role covers every object type, so there is no per-type
// permission table to keep in sync.
package authz

import (
	governance "nbms/internal/governance/models"
)

// Predicate is a boolean visibility condition over (actor, object). The
// collection-level filter is built by OR-composing named predicates; the
// scalar CanView must stay behaviorally equivalent to that union, which the
// property tests enforce.
type Predicate func(actor governance.Actor, obj governance.Governed) bool

// Or returns a predicate that passes when any component passes.
func Or(predicates ...Predicate) Predicate {
	return func(actor governance.Actor, obj governance.Governed) bool {
		for _, p := range predicates {
			if p(actor, obj) {
				return true
			}
		}
		return false
	}
}

// And returns a predicate that passes when every component passes.
func And(predicates ...Predicate) Predicate {
	return func(actor governance.Actor, obj governance.Governed) bool {
		for _, p := range predicates {
			if !p(actor, obj) {
				return false
			}
		}
		return true
	}
}

// PublicPublished: world-readable records.
func PublicPublished(_ governance.Actor, obj governance.Governed) bool {
	meta := obj.Meta()
	return meta.Status == governance.StatusPublished && meta.Sensitivity == governance.SensitivityPublic
}

// OwnCreated: creators always see their own work regardless of status or
// sensitivity.
func OwnCreated(actor governance.Actor, obj governance.Governed) bool {
	return governance.CreatedByActor(obj, actor)
}

// OrgPublishedInternal: published internal or restricted records within the
// actor's organisation.
func OrgPublishedInternal(actor governance.Actor, obj governance.Governed) bool {
	meta := obj.Meta()
	if meta.Status != governance.StatusPublished {
		return false
	}
	if meta.Sensitivity != governance.SensitivityInternal && meta.Sensitivity != governance.SensitivityRestricted {
		return false
	}
	return actor.SameOrg(meta.OrgID)
}

// OrgPublishedIPLC: published IPLC-sensitive records require organisation
// membership and the community representative role.
func OrgPublishedIPLC(actor governance.Actor, obj governance.Governed) bool {
	meta := obj.Meta()
	if meta.Status != governance.StatusPublished {
		return false
	}
	if meta.Sensitivity != governance.SensitivityIPLC {
		return false
	}
	return actor.SameOrg(meta.OrgID) && actor.HasRole(governance.RoleCommunityRep)
}

// StewardOrgUnpublished: secretariat and data stewards see their
// organisation's drafts, pending items, and other unpublished records.
func StewardOrgUnpublished(actor governance.Actor, obj governance.Governed) bool {
	meta := obj.Meta()
	if meta.Status == governance.StatusPublished {
		return false
	}
	if !actor.HasAnyRole(governance.RoleSecretariat, governance.RoleDataSteward) {
		return false
	}
	return actor.SameOrg(meta.OrgID)
}

// visibilityUnion is the full visibility disjunction for authenticated,
// non-admin actors. CanView evaluates the same conditions in its fixed rule
// order; the two must remain equivalent.
var visibilityUnion = Or(
	PublicPublished,
	OwnCreated,
	OrgPublishedInternal,
	OrgPublishedIPLC,
	StewardOrgUnpublished,
)
