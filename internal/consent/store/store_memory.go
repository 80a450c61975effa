package store

import (
	"context"
	"sync"

	"nbms/internal/consent/models"
	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// InMemoryStore keeps consent records in memory for tests and single-node
// runs. Records are copied on the way in and out so callers cannot mutate
// stored state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[models.Scope]*models.Record
}

// New constructs an empty in-memory consent store.
func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[models.Scope]*models.Record)}
}

func (s *InMemoryStore) Get(_ context.Context, scope models.Scope) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[scope]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[record.Scope]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else if record.ID.IsNil() {
		record.ID = id.NewConsentID()
	}
	copyRecord := *record
	s.records[record.Scope] = &copyRecord
	return nil
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Scope]; ok {
		return nil
	}
	if record.ID.IsNil() {
		record.ID = id.NewConsentID()
	}
	copyRecord := *record
	s.records[record.Scope] = &copyRecord
	return nil
}

func (s *InMemoryStore) ListByObject(_ context.Context, ref governance.Ref) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for scope, record := range s.records {
		if scope.Object == ref {
			copyRecord := *record
			out = append(out, &copyRecord)
		}
	}
	return out, nil
}
