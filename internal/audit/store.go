package audit

import (
	"context"
	"time"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// Store is the append-only persistence boundary for audit events.
//
// Error Contract:
// - Append returns nil on success or wrapped errors on infrastructure failure
// - List methods return empty slices, never nil errors for empty results
// - Events are never updated; PurgeOlderThan is the only removal path and is
//   reserved for the separately gated retention operation
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByObject(ctx context.Context, ref governance.Ref) ([]Event, error)
	ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error)
	CountByObjectAction(ctx context.Context, ref governance.Ref, action string) (int, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
