package workflow

import (
	"context"
	"sync"

	"nbms/internal/audit"
	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	platformsync "nbms/pkg/platform/sync"
)

// ObjectStore persists governed-object state. Implementations return
// sentinel.ErrNotFound for unknown refs.
type ObjectStore interface {
	Get(ctx context.Context, ref governance.Ref) (governance.Governed, error)
	Save(ctx context.Context, obj governance.Governed) error
}

// Stores groups the persistence handles a transition mutates. A transaction
// runner hands a consistent set to the transition closure so the status
// write and the audit write commit together.
type Stores struct {
	Objects ObjectStore
	Events  audit.Store
}

// TxRunner provides the transactional boundary for workflow mutations.
// Implementations may wrap a database transaction or, in-memory, a sharded
// lock keyed by the object ref.
type TxRunner interface {
	RunInTx(ctx context.Context, shardKey string, fn func(stores Stores) error) error
}

// InMemoryObjectStore keeps governed objects in memory for tests and
// single-node runs.
type InMemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[governance.Ref]governance.Governed
}

// NewInMemoryObjectStore constructs an empty object store.
func NewInMemoryObjectStore() *InMemoryObjectStore {
	return &InMemoryObjectStore{objects: make(map[governance.Ref]governance.Governed)}
}

func (s *InMemoryObjectStore) Get(_ context.Context, ref governance.Ref) (governance.Governed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[ref]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return obj, nil
}

func (s *InMemoryObjectStore) Save(_ context.Context, obj governance.Governed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.Ref()] = obj
	return nil
}

// ListByKind returns every stored object of the given kind, unordered.
func (s *InMemoryObjectStore) ListByKind(_ context.Context, kind governance.Kind) ([]governance.Governed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var objects []governance.Governed
	for ref, obj := range s.objects {
		if ref.Kind == kind {
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

// memoryTx serializes transitions per object with a sharded lock. Memory
// stores cannot roll back, but their writes cannot fail either, so the
// lock alone preserves the all-or-nothing contract.
type memoryTx struct {
	mu     *platformsync.ShardedMutex
	stores Stores
}

// NewMemoryTx builds a TxRunner over in-memory stores.
func NewMemoryTx(stores Stores) TxRunner {
	return &memoryTx{mu: platformsync.NewShardedMutex(), stores: stores}
}

func (t *memoryTx) RunInTx(ctx context.Context, shardKey string, fn func(stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock(shardKey)
	defer t.mu.Unlock(shardKey)
	return fn(t.stores)
}
