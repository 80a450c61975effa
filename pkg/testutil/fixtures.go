// Package testutil provides deterministic IDs and fluent builders for test
// data.
package testutil

import (
	"github.com/google/uuid"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1     id.UserID
	UserID2     id.UserID
	OrgID1      id.OrgID
	OrgID2      id.OrgID
	InstanceID1 id.InstanceID
	InstanceID2 id.InstanceID
}{
	UserID1:     id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:     id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	OrgID1:      id.OrgID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	OrgID2:      id.OrgID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	InstanceID1: id.InstanceID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	InstanceID2: id.InstanceID(uuid.MustParse("eeee0000-0000-0000-0000-000000000002")),
}

// IndicatorBuilder provides a fluent interface for building test indicators.
type IndicatorBuilder struct {
	indicator *governance.Indicator
}

// NewIndicatorBuilder creates an IndicatorBuilder with sensible defaults:
// a draft, internal indicator owned by Org1 and created by User1.
func NewIndicatorBuilder() *IndicatorBuilder {
	org := TestIDs.OrgID1
	creator := TestIDs.UserID1
	return &IndicatorBuilder{
		indicator: &governance.Indicator{
			ID:   id.NewObjectID(),
			Code: "IND-0.0",
			Name: "Test indicator",
			GovernedMeta: governance.Meta{
				Status:      governance.StatusDraft,
				Sensitivity: governance.SensitivityInternal,
				OrgID:       &org,
				CreatedBy:   &creator,
			},
		},
	}
}

func (b *IndicatorBuilder) WithCode(code string) *IndicatorBuilder {
	b.indicator.Code = code
	return b
}

func (b *IndicatorBuilder) WithStatus(status governance.Status) *IndicatorBuilder {
	b.indicator.GovernedMeta.Status = status
	return b
}

func (b *IndicatorBuilder) WithSensitivity(sensitivity governance.Sensitivity) *IndicatorBuilder {
	b.indicator.GovernedMeta.Sensitivity = sensitivity
	return b
}

func (b *IndicatorBuilder) WithOrg(orgID id.OrgID) *IndicatorBuilder {
	b.indicator.GovernedMeta.OrgID = &orgID
	return b
}

func (b *IndicatorBuilder) WithCreator(userID id.UserID) *IndicatorBuilder {
	b.indicator.GovernedMeta.CreatedBy = &userID
	return b
}

// FullyLinked populates every supporting link the readiness calculator
// checks.
func (b *IndicatorBuilder) FullyLinked() *IndicatorBuilder {
	target := id.NewObjectID()
	monitoring := id.NewObjectID()
	dataset := id.NewObjectID()
	methodology := id.NewObjectID()
	b.indicator.TargetID = &target
	b.indicator.FrameworkMappingIDs = []id.ObjectID{id.NewObjectID()}
	b.indicator.MonitoringProgrammeID = &monitoring
	b.indicator.DatasetCatalogID = &dataset
	b.indicator.MethodologyVersionID = &methodology
	return b
}

func (b *IndicatorBuilder) Build() *governance.Indicator {
	copied := *b.indicator
	return &copied
}

// ActorBuilder provides a fluent interface for building test actors.
type ActorBuilder struct {
	actor governance.Actor
}

// NewActorBuilder creates an ActorBuilder for an authenticated member of
// Org1 with no roles.
func NewActorBuilder() *ActorBuilder {
	org := TestIDs.OrgID1
	return &ActorBuilder{
		actor: governance.Actor{
			ID:          id.NewUserID(),
			DisplayName: "Test Actor",
			OrgID:       &org,
		},
	}
}

func (b *ActorBuilder) WithID(userID id.UserID) *ActorBuilder {
	b.actor.ID = userID
	return b
}

func (b *ActorBuilder) WithOrg(orgID id.OrgID) *ActorBuilder {
	b.actor.OrgID = &orgID
	return b
}

func (b *ActorBuilder) WithoutOrg() *ActorBuilder {
	b.actor.OrgID = nil
	return b
}

func (b *ActorBuilder) WithRoles(roles ...governance.Role) *ActorBuilder {
	b.actor.Roles = roles
	return b
}

func (b *ActorBuilder) AsStaff() *ActorBuilder {
	b.actor.Staff = true
	return b
}

func (b *ActorBuilder) AsSuperuser() *ActorBuilder {
	b.actor.Superuser = true
	return b
}

func (b *ActorBuilder) Build() governance.Actor {
	return b.actor
}
