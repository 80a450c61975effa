package store

import (
	"context"

	"nbms/internal/consent/models"
	governance "nbms/internal/governance/models"
)

// Store is the persistence boundary for consent records.
//
// Error Contract:
// - Get returns sentinel.ErrNotFound when no record exists for the scope
// - Upsert is race-safe: two concurrent callers writing the same scope must
//   converge on one row (uniqueness constraint plus on-conflict update, not
//   application-level locking)
// - CreateIfAbsent never touches an existing record for the scope. A read
//   path that loses a race against an explicit decision must not undo it.
type Store interface {
	Get(ctx context.Context, scope models.Scope) (*models.Record, error)
	Upsert(ctx context.Context, record *models.Record) error
	CreateIfAbsent(ctx context.Context, record *models.Record) error
	ListByObject(ctx context.Context, ref governance.Ref) ([]*models.Record, error)
}
