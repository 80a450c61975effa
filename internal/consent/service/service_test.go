package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"nbms/internal/audit"
	"nbms/internal/consent/models"
	"nbms/internal/consent/store"
	governance "nbms/internal/governance/models"
	"nbms/internal/notify"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	consents   *store.InMemoryStore
	auditStore *audit.InMemoryStore
	sink       *notify.MemorySink
	service    *Service

	org     id.OrgID
	creator id.UserID
	rep     governance.Actor
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.consents = store.New()
	s.auditStore = audit.NewInMemoryStore()
	s.sink = notify.NewMemorySink()
	s.service = NewService(
		NewMemoryTx(Stores{Consents: s.consents, Events: s.auditStore}),
		s.consents,
		s.sink,
	)

	s.org = id.NewOrgID()
	s.creator = id.NewUserID()
	s.rep = governance.Actor{ID: id.NewUserID(), OrgID: &s.org, Roles: []governance.Role{governance.RoleCommunityRep}}
}

func (s *ServiceSuite) iplcObject() *governance.NationalTarget {
	return &governance.NationalTarget{
		ID: id.NewObjectID(),
		GovernedMeta: governance.Meta{
			Status:      governance.StatusApproved,
			Sensitivity: governance.SensitivityIPLC,
			OrgID:       &s.org,
			CreatedBy:   &s.creator,
		},
	}
}

func (s *ServiceSuite) TestRequiresConsent() {
	s.True(s.service.RequiresConsent(s.iplcObject()))

	flagged := &governance.NationalTarget{
		ID:           id.NewObjectID(),
		GovernedMeta: governance.Meta{Sensitivity: governance.SensitivityInternal, ConsentRequired: true},
	}
	s.True(s.service.RequiresConsent(flagged))

	plain := &governance.NationalTarget{
		ID:           id.NewObjectID(),
		GovernedMeta: governance.Meta{Sensitivity: governance.SensitivityInternal},
	}
	s.False(s.service.RequiresConsent(plain))
}

func (s *ServiceSuite) TestStatusDefaultsToRequired() {
	ctx := context.Background()
	obj := s.iplcObject()
	instance := id.NewInstanceID()

	status, err := s.service.StatusFor(ctx, instance, obj)
	s.Require().NoError(err)
	s.Equal(models.StatusRequired, status)

	// The default record is created lazily and persists.
	record, err := s.consents.Get(ctx, models.Scope{Object: obj.Ref()})
	s.Require().NoError(err)
	s.Equal(models.StatusRequired, record.Status)
}

func (s *ServiceSuite) TestInstanceRecordWinsOverGlobal() {
	ctx := context.Background()
	obj := s.iplcObject()
	instanceA := id.NewInstanceID()
	instanceB := id.NewInstanceID()

	// Global grant applies everywhere until an instance decision overrides it.
	_, err := s.service.Set(ctx, s.rep, id.InstanceID{}, obj, models.StatusGranted, "community agreement 2025")
	s.Require().NoError(err)

	status, err := s.service.StatusFor(ctx, instanceA, obj)
	s.Require().NoError(err)
	s.Equal(models.StatusGranted, status)

	// Instance A revokes; instance B still rides the global grant.
	_, err = s.service.Set(ctx, s.rep, instanceA, obj, models.StatusRevoked, "withdrawn for NR7")
	s.Require().NoError(err)

	status, err = s.service.StatusFor(ctx, instanceA, obj)
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, status)

	status, err = s.service.StatusFor(ctx, instanceB, obj)
	s.Require().NoError(err)
	s.Equal(models.StatusGranted, status)
}

func (s *ServiceSuite) TestInstanceScopedSetDoesNotTouchGlobal() {
	ctx := context.Background()
	obj := s.iplcObject()
	instance := id.NewInstanceID()

	_, err := s.service.Set(ctx, s.rep, instance, obj, models.StatusGranted, "")
	s.Require().NoError(err)

	_, err = s.consents.Get(ctx, models.Scope{Object: obj.Ref()})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ServiceSuite) TestSetValidation() {
	ctx := context.Background()
	obj := s.iplcObject()

	s.Run("unauthenticated fails", func() {
		_, err := s.service.Set(ctx, governance.AnonymousActor(), id.NewInstanceID(), obj, models.StatusGranted, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	s.Run("required is not a recordable decision", func() {
		_, err := s.service.Set(ctx, s.rep, id.NewInstanceID(), obj, models.StatusRequired, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown status rejected", func() {
		_, err := s.service.Set(ctx, s.rep, id.NewInstanceID(), obj, models.Status("maybe"), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestSetAuditsAndNotifies() {
	ctx := context.Background()
	obj := s.iplcObject()
	instance := id.NewInstanceID()

	_, err := s.service.Set(ctx, s.rep, instance, obj, models.StatusGranted, "fpic agreement on file")
	s.Require().NoError(err)

	count, err := s.auditStore.CountByObjectAction(ctx, obj.Ref(), audit.ActionConsentGranted)
	s.Require().NoError(err)
	s.Equal(1, count)

	events, err := s.auditStore.ListByObject(ctx, obj.Ref())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.RedactionToken, events[0].Metadata["note"], "consent notes are redacted in the audit trail")

	sent := s.sink.SentTo(s.creator)
	s.Require().Len(sent, 1)
	s.Contains(sent[0].Message, "granted")
}

func (s *ServiceSuite) TestUpsertOverwritesDecision() {
	ctx := context.Background()
	obj := s.iplcObject()
	instance := id.NewInstanceID()

	first, err := s.service.Set(ctx, s.rep, instance, obj, models.StatusGranted, "")
	s.Require().NoError(err)
	second, err := s.service.Set(ctx, s.rep, instance, obj, models.StatusRevoked, "")
	s.Require().NoError(err)

	// Same scope converges on one record; the decision flips in place.
	s.Equal(first.ID, second.ID)
	status, err := s.service.StatusFor(ctx, instance, obj)
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, status)
}
