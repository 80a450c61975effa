// Package service implements the instance approval registry. Approvals are
// the per-instance export decisions: an object enters a reporting
// instance's export set only through an explicit, audited approval, and a
// revocation removes it without touching any other instance.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nbms/internal/approval/models"
	"nbms/internal/approval/store"
	"nbms/internal/audit"
	"nbms/internal/authz"
	governance "nbms/internal/governance/models"
	"nbms/internal/notify"
	"nbms/internal/platform/metrics"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
)

// decidingRoles may record approval decisions without admin standing.
var decidingRoles = []governance.Role{
	governance.RoleDataSteward,
	governance.RoleSecretariat,
}

// ConsentGate is the slice of the consent service the registry depends on.
type ConsentGate interface {
	RequiresConsent(obj governance.Governed) bool
	Granted(ctx context.Context, instanceID id.InstanceID, obj governance.Governed) (bool, error)
}

// Stores groups the persistence handles an approval decision mutates.
type Stores struct {
	Approvals store.Store
	Events    audit.Store
}

// TxRunner provides the transactional boundary for approval mutations.
type TxRunner interface {
	RunInTx(ctx context.Context, shardKey string, fn func(stores Stores) error) error
}

// Request carries the caller-supplied parts of an approval decision.
// Scope defaults to the export scope when blank. AdminOverride lets an
// admin push past a frozen instance or a missing consent; it is ignored
// for everyone else.
type Request struct {
	Note          string
	Scope         string
	AdminOverride bool
}

func (r Request) scope() string {
	if r.Scope == "" {
		return models.DefaultScope
	}
	return r.Scope
}

// Service records and queries per-instance export approvals.
type Service struct {
	engine   *authz.Engine
	consent  ConsentGate
	tx       TxRunner
	reader   store.Store
	notifier notify.Sink
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates the approval registry. reader serves lock-free
// lookups; mutations run through the tx runner.
func NewService(engine *authz.Engine, consent ConsentGate, tx TxRunner, reader store.Store, notifier notify.Sink, opts ...Option) *Service {
	if engine == nil {
		panic("approval.NewService: authorization engine is required")
	}
	if consent == nil {
		panic("approval.NewService: consent gate is required")
	}
	if tx == nil {
		panic("approval.NewService: transaction runner is required")
	}
	if reader == nil {
		panic("approval.NewService: approval store is required")
	}
	if notifier == nil {
		panic("approval.NewService: notification sink is required")
	}
	s := &Service{engine: engine, consent: consent, tx: tx, reader: reader, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApproveForInstance marks the object as approved for the instance's
// export set. The call is refused when the actor lacks a deciding role,
// when the instance is frozen, or when the object is consent-gated without
// an effective grant; an admin with AdminOverride passes the freeze and
// consent gates.
func (s *Service) ApproveForInstance(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, req Request) (*models.Approval, error) {
	if err := s.gate(ctx, actor, instance, obj, req, true); err != nil {
		return nil, err
	}
	return s.record(ctx, actor, instance, obj, models.DecisionApproved, audit.ActionInstanceExportApproved, req)
}

// RevokeForInstance removes the object from the instance's export set.
// Revocation passes the same role and freeze gates as approval but never
// the consent gate: withdrawing an object must stay possible after consent
// is revoked.
func (s *Service) RevokeForInstance(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, req Request) (*models.Approval, error) {
	if err := s.gate(ctx, actor, instance, obj, req, false); err != nil {
		return nil, err
	}
	return s.record(ctx, actor, instance, obj, models.DecisionRevoked, audit.ActionInstanceExportRevoked, req)
}

// IsApprovedForInstance reports whether the object's latest decision for
// the instance and scope is approved. Absence of a record is false, never
// an error.
func (s *Service) IsApprovedForInstance(ctx context.Context, instanceID id.InstanceID, ref governance.Ref, scope string) (bool, error) {
	if scope == "" {
		scope = models.DefaultScope
	}
	approval, err := s.reader.Get(ctx, models.Key{InstanceID: instanceID, Object: ref, Scope: scope})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read approval")
	}
	return approval.Decision == models.DecisionApproved, nil
}

// ApprovedRefs returns the refs of the given kind currently approved for
// the instance and scope, ordered by object ID for stable output.
func (s *Service) ApprovedRefs(ctx context.Context, instanceID id.InstanceID, kind governance.Kind, scope string) ([]governance.Ref, error) {
	if scope == "" {
		scope = models.DefaultScope
	}
	refs, err := s.reader.ListApprovedRefs(ctx, instanceID, kind, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list approved objects")
	}
	return refs, nil
}

// gate runs the pre-write checks: role, freeze, and (for approvals only)
// consent. Order matters: a contributor probing a frozen instance learns
// nothing past the role refusal.
func (s *Service) gate(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, req Request, checkConsent bool) error {
	if !actor.Authenticated() {
		return dErrors.New(dErrors.CodeUnauthenticated, "authentication required to record approval")
	}
	if instance == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "reporting instance is required")
	}

	isAdmin := s.engine.IsAdmin(actor)
	if !isAdmin && !actor.HasAnyRole(decidingRoles...) {
		s.deny("role", obj)
		return dErrors.New(dErrors.CodeForbidden, "approval decisions require a data steward or secretariat role")
	}

	override := req.AdminOverride && isAdmin

	if instance.Frozen() && !override {
		s.deny("frozen", obj)
		return dErrors.New(dErrors.CodeInstanceFrozen,
			fmt.Sprintf("reporting instance %s is frozen", instance.Label()))
	}

	if checkConsent && s.consent.RequiresConsent(obj) && !override {
		granted, err := s.consent.Granted(ctx, instance.ID, obj)
		if err != nil {
			return err
		}
		if !granted {
			s.deny("consent", obj)
			return s.blockOnConsent(ctx, actor, instance, obj, req)
		}
	}
	return nil
}

// blockOnConsent records the refusal trail for a consent-blocked approval:
// one audit event plus a notification to the deciding actor, then the
// missing-consent error. The audit write is independent of any approval
// row, so it commits even though the approval does not.
func (s *Service) blockOnConsent(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, req Request) error {
	actorID := actor.ID
	err := s.tx.RunInTx(ctx, obj.Ref().String(), func(stores Stores) error {
		event := audit.Event{
			ActorID: &actorID,
			Action:  audit.ActionInstanceExportBlockedConsent,
			Object:  obj.Ref(),
			Metadata: map[string]any{
				"instance_id": instance.ID.String(),
				"scope":       req.scope(),
			},
		}
		return stores.Events.Append(ctx, event)
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record consent block")
	}

	n := notify.Notification{
		Recipient: actor.ID,
		Message:   fmt.Sprintf("Approval for %s blocked: consent not granted", obj.Ref().String()),
		URL:       "/objects/" + obj.Ref().String() + "/consent",
	}
	if notifyErr := s.notifier.Notify(ctx, n); notifyErr != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to notify actor of consent block",
			"error", notifyErr,
			"object", obj.Ref().String(),
		)
	}
	return dErrors.New(dErrors.CodeMissingConsent,
		fmt.Sprintf("consent has not been granted for %s in instance %s", obj.Ref().String(), instance.Label()))
}

func (s *Service) record(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, obj governance.Governed, decision models.Decision, action string, req Request) (*models.Approval, error) {
	now := requestcontext.Now(ctx)
	actorID := actor.ID
	approval := &models.Approval{
		ID: id.NewApprovalID(),
		Key: models.Key{
			InstanceID: instance.ID,
			Object:     obj.Ref(),
			Scope:      req.scope(),
		},
		Decision:  decision,
		Note:      req.Note,
		DecidedBy: actorID,
		DecidedAt: now,
	}

	err := s.tx.RunInTx(ctx, approval.Key.Object.String(), func(stores Stores) error {
		if err := stores.Approvals.Upsert(ctx, approval); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist approval")
		}
		event := audit.Event{
			ActorID: &actorID,
			Action:  action,
			Object:  approval.Key.Object,
			Metadata: map[string]any{
				"instance_id": instance.ID.String(),
				"scope":       approval.Key.Scope,
				"note":        req.Note,
			},
		}
		if err := stores.Events.Append(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ApprovalsRecorded.WithLabelValues(string(decision)).Inc()
	}
	return approval, nil
}

func (s *Service) deny(reason string, obj governance.Governed) {
	if s.metrics != nil {
		s.metrics.ApprovalsBlocked.WithLabelValues(reason).Inc()
	}
	if s.logger != nil {
		s.logger.Debug("approval denied", "reason", reason, "object", obj.Ref().String())
	}
}
