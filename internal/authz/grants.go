package authz

import (
	"context"
	"sync"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// Grant is a narrow object-level permission, orthogonal to the coarse ABAC
// rules. Grants allow explicit sharing of a single record with a single
// actor without widening organisation or sensitivity rules.
type Grant struct {
	ID         id.GrantID
	ActorID    id.UserID
	Object     governance.Ref
	Permission string
}

// GrantStore is the persistence boundary for object-level grants.
type GrantStore interface {
	HasGrant(ctx context.Context, actorID id.UserID, ref governance.Ref, permission string) (bool, error)
	Save(ctx context.Context, grant Grant) error
	Revoke(ctx context.Context, actorID id.UserID, ref governance.Ref, permission string) error
}

// InMemoryGrantStore keeps grants in memory for tests and single-node runs.
type InMemoryGrantStore struct {
	mu     sync.RWMutex
	grants map[grantKey]Grant
}

type grantKey struct {
	actorID    id.UserID
	object     governance.Ref
	permission string
}

// NewInMemoryGrantStore constructs an empty grant store.
func NewInMemoryGrantStore() *InMemoryGrantStore {
	return &InMemoryGrantStore{grants: make(map[grantKey]Grant)}
}

func (s *InMemoryGrantStore) HasGrant(_ context.Context, actorID id.UserID, ref governance.Ref, permission string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[grantKey{actorID: actorID, object: ref, permission: permission}]
	return ok, nil
}

func (s *InMemoryGrantStore) Save(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant.ID.IsNil() {
		grant.ID = id.NewGrantID()
	}
	s.grants[grantKey{actorID: grant.ActorID, object: grant.Object, permission: grant.Permission}] = grant
	return nil
}

func (s *InMemoryGrantStore) Revoke(_ context.Context, actorID id.UserID, ref governance.Ref, permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{actorID: actorID, object: ref, permission: permission})
	return nil
}
