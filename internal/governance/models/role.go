package models

// Role names a membership in the curated role vocabulary. The set is open:
// unknown role strings parse into a Role but grant nothing anywhere in the
// rule engine, so a typo fails closed rather than open.
type Role string

const (
	RoleSystemAdmin     Role = "system_admin"
	RoleAdmin           Role = "admin"
	RoleSecretariat     Role = "secretariat"
	RoleDataSteward     Role = "data_steward"
	RoleIndicatorLead   Role = "indicator_lead"
	RoleContributor     Role = "contributor"
	RoleViewer          Role = "viewer"
	RoleSecurityOfficer Role = "security_officer"
	RoleCommunityRep    Role = "community_representative"
)

// KnownRoles lists the curated vocabulary, used for seeding and validation
// messages. Membership checks do not consult it - an unknown role simply
// never appears in any gate.
var KnownRoles = []Role{
	RoleSystemAdmin,
	RoleAdmin,
	RoleSecretariat,
	RoleDataSteward,
	RoleIndicatorLead,
	RoleContributor,
	RoleViewer,
	RoleSecurityOfficer,
	RoleCommunityRep,
}
