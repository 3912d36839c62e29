package storage

import (
	"fmt"
	"sync"
)

// Sharded is a sharded in-memory map with dirty tracking. The engine keeps
// scan results in one (string keys), the tile resource cache keeps fetched
// rasters in another (integer tile indices).
type Sharded[K comparable, V any] struct {
	shards     []*shard[K, V]
	shardCount int
	keyToShard func(K) int
}

type shard[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
	dirty map[K]bool
}

// NewSharded creates a sharded map. The shard count is rounded up to a power
// of two; a nil distribution function falls back to a standard one for
// string and integer keys.
func NewSharded[K comparable, V any](shardCount int, keyToShard func(K) int) *Sharded[K, V] {
	realCount := 1
	for realCount < shardCount {
		realCount *= 2
	}

	shards := make([]*shard[K, V], realCount)
	for i := range shards {
		shards[i] = &shard[K, V]{
			data:  make(map[K]V),
			dirty: make(map[K]bool),
		}
	}

	if keyToShard == nil {
		keyToShard = func(key K) int {
			switch k := any(key).(type) {
			case string:
				return int(fnv1a(k)) & (realCount - 1)
			case int:
				return k & (realCount - 1)
			case int64:
				return int(k) & (realCount - 1)
			default:
				return int(fnv1a(fmt.Sprintf("%v", key))) & (realCount - 1)
			}
		}
	}

	return &Sharded[K, V]{
		shards:     shards,
		shardCount: realCount,
		keyToShard: keyToShard,
	}
}

// FNV-1a hash function
func fnv1a(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func (s *Sharded[K, V]) getShard(key K) *shard[K, V] {
	return s.shards[s.keyToShard(key)]
}

// Set adds or updates an entry and marks it dirty.
func (s *Sharded[K, V]) Set(key K, value V) {
	sh := s.getShard(key)

	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	sh.data[key] = value
	sh.dirty[key] = true
}

// Get returns the entry for key.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	sh := s.getShard(key)

	sh.mutex.RLock()
	defer sh.mutex.RUnlock()

	value, exists := sh.data[key]
	return value, exists
}

// GetAllValues returns every stored value.
func (s *Sharded[K, V]) GetAllValues() []V {
	total := 0
	for _, sh := range s.shards {
		sh.mutex.RLock()
		total += len(sh.data)
		sh.mutex.RUnlock()
	}

	result := make([]V, 0, total)
	for _, sh := range s.shards {
		sh.mutex.RLock()
		for _, v := range sh.data {
			result = append(result, v)
		}
		sh.mutex.RUnlock()
	}
	return result
}

// GetDirty returns every entry written since the previous GetDirty call and
// clears the dirty marks. The persistence worker drains changes through this.
func (s *Sharded[K, V]) GetDirty() map[K]V {
	result := make(map[K]V)

	for _, sh := range s.shards {
		sh.mutex.Lock()
		for k := range sh.dirty {
			if v, exists := sh.data[k]; exists {
				result[k] = v
			}
			delete(sh.dirty, k)
		}
		sh.mutex.Unlock()
	}

	return result
}

// ForEach executes fn for every entry until fn returns false.
func (s *Sharded[K, V]) ForEach(fn func(key K, value V) bool) {
	for _, sh := range s.shards {
		sh.mutex.RLock()
		items := make(map[K]V, len(sh.data))
		for k, v := range sh.data {
			items[k] = v
		}
		sh.mutex.RUnlock()

		for k, v := range items {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Count returns the total number of stored entries.
func (s *Sharded[K, V]) Count() int {
	count := 0
	for _, sh := range s.shards {
		sh.mutex.RLock()
		count += len(sh.data)
		sh.mutex.RUnlock()
	}
	return count
}
