package service

import (
	"context"

	platformsync "nbms/pkg/platform/sync"
)

// memoryTx serializes consent mutations per object with a sharded lock.
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
