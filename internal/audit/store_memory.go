package audit

import (
	"context"
	"sync"
	"time"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// InMemoryStore keeps audit events in memory for tests and single-node runs.
// Redaction is enforced here, at the point of writing, so no caller can
// persist sensitive metadata by bypassing the publisher.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryStore constructs an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID.IsNil() {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Metadata = RedactMetadata(event.Metadata)
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByObject(_ context.Context, ref governance.Ref) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.Object == ref {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByActor(_ context.Context, actorID id.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.ActorID != nil && *event.ActorID == actorID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *InMemoryStore) CountByObjectAction(_ context.Context, ref governance.Ref, action string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, event := range s.events {
		if event.Object == ref && event.Action == action {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	purged := 0
	for _, event := range s.events {
		if event.Timestamp.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept
	return purged, nil
}

// All returns a snapshot of every stored event, oldest first. Test helper.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...)
}
