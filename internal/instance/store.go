// Package instance persists reporting instances. The instance record is
// deliberately small: cycle, version, freeze state. Everything scoped to an
// instance (consent, approvals, sections) lives with its own service.
package instance

import (
	"context"
	"sort"
	"sync"

	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// Store persists reporting instances. Get returns sentinel.ErrNotFound for
// unknown IDs.
type Store interface {
	Get(ctx context.Context, instanceID id.InstanceID) (*governance.ReportingInstance, error)
	Save(ctx context.Context, inst *governance.ReportingInstance) error
	List(ctx context.Context) ([]*governance.ReportingInstance, error)
}

// InMemoryStore keeps instances in memory for tests and single-node runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	instances map[id.InstanceID]*governance.ReportingInstance
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{instances: make(map[id.InstanceID]*governance.ReportingInstance)}
}

func (s *InMemoryStore) Get(_ context.Context, instanceID id.InstanceID) (*governance.ReportingInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[instanceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *inst
	return &copied, nil
}

func (s *InMemoryStore) Save(_ context.Context, inst *governance.ReportingInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *inst
	s.instances[inst.ID] = &copied
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*governance.ReportingInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instances := make([]*governance.ReportingInstance, 0, len(s.instances))
	for _, inst := range s.instances {
		copied := *inst
		instances = append(instances, &copied)
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Label() < instances[j].Label()
	})
	return instances, nil
}
