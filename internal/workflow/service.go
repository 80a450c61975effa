package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nbms/internal/audit"
	"nbms/internal/authz"
	governance "nbms/internal/governance/models"
	"nbms/internal/platform/metrics"
	dErrors "nbms/pkg/domain-errors"
)

// Service applies workflow transitions. Every successful transition persists
// the new status and appends an audit event in the same transaction; every
// failure leaves both untouched.
type Service struct {
	engine      *authz.Engine
	tx          TxRunner
	transitions Transitions
	metrics     *metrics.Metrics
	logger      *slog.Logger
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

// NewService creates the workflow service. The transition table is injected
// so tests and future report types can carry variant tables without any
// global registry.
func NewService(engine *authz.Engine, tx TxRunner, transitions Transitions, opts ...Option) *Service {
	if engine == nil {
		panic("workflow.NewService: authorization engine is required")
	}
	if tx == nil {
		panic("workflow.NewService: transaction runner is required")
	}
	if transitions == nil {
		transitions = DefaultTransitions()
	}
	s := &Service{engine: engine, tx: tx, transitions: transitions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitForReview moves a draft into review and clears any previous review note.
func (s *Service) SubmitForReview(ctx context.Context, actor governance.Actor, obj governance.Governed) (governance.Governed, error) {
	return s.Transition(ctx, actor, obj, ActionSubmitForReview, "")
}

// Approve accepts a pending object, recording the reviewer's note.
func (s *Service) Approve(ctx context.Context, actor governance.Actor, obj governance.Governed, note string) (governance.Governed, error) {
	return s.Transition(ctx, actor, obj, ActionApprove, note)
}

// Reject returns a pending object to draft. The note is mandatory: a
// rejection without explanation is unusable to the submitter.
func (s *Service) Reject(ctx context.Context, actor governance.Actor, obj governance.Governed, note string) (governance.Governed, error) {
	return s.Transition(ctx, actor, obj, ActionReject, note)
}

// Publish releases an approved object.
func (s *Service) Publish(ctx context.Context, actor governance.Actor, obj governance.Governed) (governance.Governed, error) {
	return s.Transition(ctx, actor, obj, ActionPublish, "")
}

// Archive retires a published object.
func (s *Service) Archive(ctx context.Context, actor governance.Actor, obj governance.Governed) (governance.Governed, error) {
	return s.Transition(ctx, actor, obj, ActionArchive, "")
}

// Transition applies a named transition. Checks run strictly before any
// mutation: authentication, then the role gate, then the status
// precondition and note validation.
func (s *Service) Transition(ctx context.Context, actor governance.Actor, obj governance.Governed, action Action, note string) (governance.Governed, error) {
	rule, ok := s.transitions[action]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown workflow action: %q", action))
	}

	if !actor.Authenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "authentication required for workflow transitions")
	}

	if !s.roleGatePasses(actor, obj, rule) {
		s.deny("role")
		return nil, dErrors.New(dErrors.CodeForbidden,
			fmt.Sprintf("actor lacks a role permitted to %s", action))
	}

	meta := obj.Meta()
	if meta.Status != rule.From {
		s.deny("status")
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("cannot %s from status %q, requires %q", action, meta.Status, rule.From))
	}
	if rule.RequireNote && strings.TrimSpace(note) == "" {
		s.deny("note")
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s requires a note", action))
	}

	previous := meta.Status
	previousNote := meta.ReviewNote
	rollback := func() {
		meta.Status = previous
		meta.ReviewNote = previousNote
	}
	err := s.tx.RunInTx(ctx, obj.Ref().String(), func(stores Stores) error {
		meta.Status = rule.To
		switch {
		case rule.ClearNote:
			meta.ReviewNote = ""
		case rule.SetNote:
			meta.ReviewNote = note
		}
		if err := stores.Objects.Save(ctx, obj); err != nil {
			rollback()
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist status change")
		}

		actorID := actor.ID
		event := audit.Event{
			ActorID: &actorID,
			Action:  string(action),
			Object:  obj.Ref(),
			Metadata: map[string]any{
				"from_status": string(previous),
				"to_status":   string(rule.To),
				"note":        note,
			},
		}
		if err := stores.Events.Append(ctx, event); err != nil {
			rollback()
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.WorkflowTransitions.WithLabelValues(string(action)).Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "workflow transition",
			"action", string(action),
			"object", obj.Ref().String(),
			"actor", actor.ID.String(),
			"to_status", string(rule.To),
		)
	}
	return obj, nil
}

func (s *Service) deny(reason string) {
	if s.metrics != nil {
		s.metrics.WorkflowDenied.WithLabelValues(reason).Inc()
	}
}

func (s *Service) roleGatePasses(actor governance.Actor, obj governance.Governed, rule Rule) bool {
	if s.engine.IsAdmin(actor) {
		return true
	}
	if rule.AllowCreator && governance.CreatedByActor(obj, actor) {
		return true
	}
	return actor.HasAnyRole(rule.Roles...)
}
