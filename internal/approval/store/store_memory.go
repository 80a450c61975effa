package store

import (
	"context"
	"sort"
	"sync"

	"nbms/internal/approval/models"
	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// InMemoryStore is a thread-safe approval store for tests and the demo
// server.
type InMemoryStore struct {
	mu        sync.RWMutex
	approvals map[models.Key]*models.Approval
}

func New() *InMemoryStore {
	return &InMemoryStore{approvals: make(map[models.Key]*models.Approval)}
}

func (s *InMemoryStore) Get(_ context.Context, key models.Key) (*models.Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	approval, ok := s.approvals[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *approval
	return &copied, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, approval *models.Approval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.approvals[approval.Key]; ok {
		approval.ID = existing.ID
	}
	copied := *approval
	s.approvals[approval.Key] = &copied
	return nil
}

func (s *InMemoryStore) ListApprovedRefs(_ context.Context, instanceID id.InstanceID, kind governance.Kind, scope string) ([]governance.Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []governance.Ref
	for key, approval := range s.approvals {
		if key.InstanceID != instanceID || key.Object.Kind != kind || key.Scope != scope {
			continue
		}
		if approval.Decision != models.DecisionApproved {
			continue
		}
		refs = append(refs, key.Object)
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].ID.String() < refs[j].ID.String()
	})
	return refs, nil
}
