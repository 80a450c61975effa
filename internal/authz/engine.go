package authz

import (
	"context"
	"log/slog"

	governance "nbms/internal/governance/models"
	dErrors "nbms/pkg/domain-errors"
)

// Engine computes per-object and collection-level visibility and
// editability. Rules fail closed: any missing attribute (no organisation,
// no role) never satisfies a check.
type Engine struct {
	grants GrantStore
	logger *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithGrantStore attaches the object-level grant store used by
// permission-scoped filtering.
func WithGrantStore(grants GrantStore) Option {
	return func(e *Engine) {
		e.grants = grants
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine constructs the authorization engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsSystemAdmin reports whether the actor bypasses all ABAC checks. The
// bypass is a designed escape hatch: the superuser flag and the system
// admin role are equivalent.
func (e *Engine) IsSystemAdmin(actor governance.Actor) bool {
	if actor.Anonymous {
		return false
	}
	return actor.Superuser || actor.HasRole(governance.RoleSystemAdmin)
}

// IsAdmin reports whether the actor satisfies "admin" role gates in the
// workflow and approval services. Admins pass role gates but do not bypass
// status preconditions or visibility rules.
func (e *Engine) IsAdmin(actor governance.Actor) bool {
	if e.IsSystemAdmin(actor) {
		return true
	}
	return actor.Staff || actor.HasRole(governance.RoleAdmin)
}

// CanView decides whether the actor may see the object. The rule order is
// fixed; see the visibility predicates for the equivalent union form.
func (e *Engine) CanView(actor governance.Actor, obj governance.Governed) bool {
	if e.IsSystemAdmin(actor) {
		return true
	}

	meta := obj.Meta()
	if !actor.Authenticated() {
		return meta.Status == governance.StatusPublished && meta.Sensitivity == governance.SensitivityPublic
	}

	if governance.CreatedByActor(obj, actor) {
		return true
	}

	if meta.Status == governance.StatusPublished {
		switch meta.Sensitivity {
		case governance.SensitivityPublic:
			return true
		case governance.SensitivityInternal, governance.SensitivityRestricted:
			return actor.SameOrg(meta.OrgID)
		case governance.SensitivityIPLC:
			return actor.SameOrg(meta.OrgID) && actor.HasRole(governance.RoleCommunityRep)
		}
		return false
	}

	// Unpublished: stewards see their organisation's work in progress.
	if actor.HasAnyRole(governance.RoleSecretariat, governance.RoleDataSteward) {
		return actor.SameOrg(meta.OrgID)
	}

	return false
}

// CanEdit decides whether the actor may modify the object.
func (e *Engine) CanEdit(actor governance.Actor, obj governance.Governed) bool {
	if e.IsSystemAdmin(actor) {
		return true
	}
	if !actor.Authenticated() {
		return false
	}
	meta := obj.Meta()
	if actor.HasAnyRole(governance.RoleSecretariat, governance.RoleDataSteward) {
		return actor.SameOrg(meta.OrgID)
	}
	return governance.CreatedByActor(obj, actor)
}

// FilterVisible returns the subset of objects the actor may see. The filter
// is the OR-composed predicate union rather than a CanView loop so the same
// conditions can be pushed down to a query-capable store; the property tests
// keep the two shapes equivalent.
func (e *Engine) FilterVisible(actor governance.Actor, objects []governance.Governed) []governance.Governed {
	if e.IsSystemAdmin(actor) {
		return append([]governance.Governed{}, objects...)
	}

	predicate := visibilityUnion
	if !actor.Authenticated() {
		predicate = PublicPublished
	}

	filtered := make([]governance.Governed, 0, len(objects))
	for _, obj := range objects {
		if predicate(actor, obj) {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}

// FilterVisibleWithPermission restricts the result to the union of the
// always-public subset and the subset covered by an explicit object-level
// grant of the given permission. Grants never override organisation or
// sensitivity rules beyond the object they name.
func (e *Engine) FilterVisibleWithPermission(ctx context.Context, actor governance.Actor, objects []governance.Governed, permission string) ([]governance.Governed, error) {
	if permission == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "permission must not be empty")
	}
	if e.IsSystemAdmin(actor) {
		return append([]governance.Governed{}, objects...), nil
	}

	filtered := make([]governance.Governed, 0, len(objects))
	for _, obj := range objects {
		if PublicPublished(actor, obj) {
			filtered = append(filtered, obj)
			continue
		}
		if !actor.Authenticated() || e.grants == nil {
			continue
		}
		granted, err := e.grants.HasGrant(ctx, actor.ID, obj.Ref(), permission)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "grant lookup failed")
		}
		if granted {
			filtered = append(filtered, obj)
		}
	}
	return filtered, nil
}
