// Package shardmap implements a fixed-shard-count, integer-keyed map with
// per-shard mutual exclusion, used as the concurrent accumulator during
// parallel scoring (spec.md §4.5). It is the Go analogue of the original
// source's concurrent_map.h.
package shardmap

import "sync"

type shard[V any] struct {
	mu sync.Mutex
	m  map[int]V
}

// ShardedMap is a map[int]V partitioned into a fixed number of independently
// lockable shards. Shard selection is key mod shard count, so any single
// Get or Erase call is atomic on its key; there is no cross-key atomicity.
type ShardedMap[V any] struct {
	shards []*shard[V]
}

// New returns a ShardedMap with shardCount shards. shardCount must be at
// least 1.
func New[V any](shardCount int) *ShardedMap[V] {
	if shardCount < 1 {
		shardCount = 1
	}
	shards := make([]*shard[V], shardCount)
	for i := range shards {
		shards[i] = &shard[V]{m: make(map[int]V)}
	}
	return &ShardedMap[V]{shards: shards}
}

func (sm *ShardedMap[V]) shardFor(key int) *shard[V] {
	idx := uint64(key) % uint64(len(sm.shards))
	return sm.shards[idx]
}

// Guard is a scoped-acquisition handle on one shard's lock. It is held for
// its lifetime; callers must call Close (directly or via defer) to release
// the shard's mutex. Guard never exposes the raw mutex.
type Guard[V any] struct {
	sh  *shard[V]
	key int
}

// Close releases the shard's lock. Safe to call via defer.
func (g *Guard[V]) Close() {
	g.sh.mu.Unlock()
}

// Get acquires the shard guarding key and returns a handle for reading and
// writing its entry (default-valued if absent) while holding the lock.
func (sm *ShardedMap[V]) Get(key int) *Guard[V] {
	sh := sm.shardFor(key)
	sh.mu.Lock()
	return &Guard[V]{sh: sh, key: key}
}

// Get reads the current value at the guarded key (zero value if absent).
func (g *Guard[V]) Get() V {
	return g.sh.m[g.key]
}

// Set writes v at the guarded key.
func (g *Guard[V]) Set(v V) {
	g.sh.m[g.key] = v
}

// AddFloat64 locks the shard guarding key, adds delta to its current value,
// and releases the lock. It is the common case the scorer needs (relevance
// accumulation) without requiring callers to manage a Guard themselves.
func AddFloat64(sm *ShardedMap[float64], key int, delta float64) {
	g := sm.Get(key)
	g.Set(g.Get() + delta)
	g.Close()
}

// Erase locks the owning shard and erases key.
func (sm *ShardedMap[V]) Erase(key int) {
	sh := sm.shardFor(key)
	sh.mu.Lock()
	delete(sh.m, key)
	sh.mu.Unlock()
}

// Build acquires each shard's lock in shard order and merges its contents
// into a single map. Shard keys are disjoint by construction, so the merge
// never collides.
func (sm *ShardedMap[V]) Build() map[int]V {
	result := make(map[int]V)
	for _, sh := range sm.shards {
		sh.mu.Lock()
		for k, v := range sh.m {
			result[k] = v
		}
		sh.mu.Unlock()
	}
	return result
}
