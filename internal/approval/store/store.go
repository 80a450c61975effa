package store

import (
	"context"

	"nbms/internal/approval/models"
	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// Store persists instance export approvals. One row per key; Upsert
// overwrites the decision in place so the registry always reflects the
// latest call. Implementations must return sentinel.ErrNotFound from Get
// when no row exists for the key.
type Store interface {
	Get(ctx context.Context, key models.Key) (*models.Approval, error)
	Upsert(ctx context.Context, approval *models.Approval) error
	// ListApprovedRefs returns the refs of the given kind whose latest
	// decision for the instance and scope is approved.
	ListApprovedRefs(ctx context.Context, instanceID id.InstanceID, kind governance.Kind, scope string) ([]governance.Ref, error)
}
