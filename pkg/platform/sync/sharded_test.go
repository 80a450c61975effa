package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex()

	// Basic lock/unlock should not deadlock
	m.Lock("key1")
	m.Unlock("key1")

	// Empty key should work (defaults to shard 0)
	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("same-key")
			defer m.Unlock("same-key")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_ShardDistribution(t *testing.T) {
	m := NewShardedMutex()

	shards := make(map[int]bool)
	keys := []string{"indicator-123", "indicator-456", "target-abc", "target-xyz", "instance-1", "instance-2"}

	for _, key := range keys {
		shards[m.shardFor(key)] = true
	}

	// With 6 diverse keys and 32 shards, we should hit at least 3 different shards
	assert.GreaterOrEqual(t, len(shards), 3, "expected keys to distribute across multiple shards")
}
