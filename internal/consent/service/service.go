// Package service implements the consent gate. The gate records and
// resolves consent state; it deliberately carries no role check of its own.
// Callers (the approval workflow) verify that the actor holds a
// consent-granting role before calling Set.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nbms/internal/audit"
	"nbms/internal/consent/models"
	"nbms/internal/consent/store"
	governance "nbms/internal/governance/models"
	"nbms/internal/notify"
	"nbms/internal/platform/metrics"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
	"nbms/pkg/requestcontext"
)

// Stores groups the persistence handles a consent decision mutates.
type Stores struct {
	Consents store.Store
	Events   audit.Store
}

// TxRunner provides the transactional boundary for consent mutations.
type TxRunner interface {
	RunInTx(ctx context.Context, shardKey string, fn func(stores Stores) error) error
}

// Service resolves and records consent state per (object, instance) scope.
type Service struct {
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

// NewService creates the consent gate. reader serves lock-free lookups;
// mutations run through the tx runner.
func NewService(tx TxRunner, reader store.Store, notifier notify.Sink, opts ...Option) *Service {
	if tx == nil {
		panic("consent.NewService: transaction runner is required")
	}
	if reader == nil {
		panic("consent.NewService: consent store is required")
	}
	if notifier == nil {
		panic("consent.NewService: notification sink is required for compliance")
	}
	s := &Service{tx: tx, reader: reader, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequiresConsent reports whether the object is consent-gated: every
// IPLC-sensitive record, plus anything explicitly flagged.
func (s *Service) RequiresConsent(obj governance.Governed) bool {
	meta := obj.Meta()
	return meta.Sensitivity == governance.SensitivityIPLC || meta.ConsentRequired
}

// StatusFor resolves the effective consent status for the object within the
// given instance. The instance-specific record wins; otherwise the global
// record applies; otherwise the default "required" record is created lazily
// so later decisions reference a stable record.
func (s *Service) StatusFor(ctx context.Context, instanceID id.InstanceID, obj governance.Governed) (models.Status, error) {
	ref := obj.Ref()

	if !instanceID.IsNil() {
		record, err := s.reader.Get(ctx, models.Scope{Object: ref, InstanceID: instanceID})
		if err == nil {
			return record.Status, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
		}
	}

	global, err := s.reader.Get(ctx, models.Scope{Object: ref})
	if err == nil {
		return global.Status, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}

	// No record anywhere: lazily create the global default. Insert-if-absent
	// then read back, so a racing explicit decision is never overwritten.
	record := &models.Record{
		Scope:     models.Scope{Object: ref},
		Status:    models.StatusRequired,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.reader.CreateIfAbsent(ctx, record); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create default consent record")
	}
	stored, err := s.reader.Get(ctx, models.Scope{Object: ref})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.StatusRequired, nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	return stored.Status, nil
}

// Granted reports whether consent is effective for the scope.
func (s *Service) Granted(ctx context.Context, instanceID id.InstanceID, obj governance.Governed) (bool, error) {
	status, err := s.StatusFor(ctx, instanceID, obj)
	if err != nil {
		return false, err
	}
	return status == models.StatusGranted, nil
}

// Set records an explicit consent decision for the instance scope. A
// zero instance ID targets the global record; an instance-scoped call never
// mutates the global record. The decision is audited and the object's
// creator notified.
func (s *Service) Set(ctx context.Context, actor governance.Actor, instanceID id.InstanceID, obj governance.Governed, status models.Status, note string) (*models.Record, error) {
	if !actor.Authenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "authentication required to record consent")
	}
	if !status.IsDecision() {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("consent status must be an explicit decision, got %q", status))
	}

	now := requestcontext.Now(ctx)
	actorID := actor.ID
	record := &models.Record{
		Scope:     models.Scope{Object: obj.Ref(), InstanceID: instanceID},
		Status:    status,
		Note:      note,
		DecidedBy: &actorID,
		DecidedAt: &now,
		CreatedAt: now,
	}

	err := s.tx.RunInTx(ctx, record.Scope.Object.String(), func(stores Stores) error {
		if err := stores.Consents.Upsert(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist consent decision")
		}
		event := audit.Event{
			ActorID: &actorID,
			Action:  "consent_" + string(status),
			Object:  obj.Ref(),
			Metadata: map[string]any{
				"instance_id": instanceLabel(instanceID),
				"note":        note,
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
		s.metrics.ConsentDecisions.WithLabelValues(string(status)).Inc()
	}
	s.notifyCreator(ctx, obj, status)
	return record, nil
}

func (s *Service) notifyCreator(ctx context.Context, obj governance.Governed, status models.Status) {
	createdBy := obj.Meta().CreatedBy
	if createdBy == nil {
		return
	}
	n := notify.Notification{
		Recipient: *createdBy,
		Message:   fmt.Sprintf("Consent %s for %s", status, obj.Ref().String()),
		URL:       "/objects/" + obj.Ref().String(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil && s.logger != nil {
		// Notification failures must not roll back a recorded decision.
		s.logger.WarnContext(ctx, "failed to notify creator of consent decision",
			"error", err,
			"object", obj.Ref().String(),
		)
	}
}

func instanceLabel(instanceID id.InstanceID) string {
	if instanceID.IsNil() {
		return "global"
	}
	return instanceID.String()
}
