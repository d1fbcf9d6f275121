package storage

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/eugenenazirov/equipartition/internal/partition"
)

// DefaultCapacity is the number of results kept when no capacity is configured.
const DefaultCapacity = 1024

// Result is the outcome of solving one multiset of values.
// Found is false when the values have no equal-sum partition.
type Result struct {
	Partition partition.Partition
	Found     bool
}

// Storage caches solver results by multiset, so permutations of the same
// values share an entry.
type Storage interface {
	Get(values []int64) (Result, bool)
	Put(values []int64, result Result)
	Len() int
}

type entry struct {
	key    []int64
	result Result
}

// MemoryStorage keeps results in a concurrent map keyed by an xxh3 hash of
// the canonical form of the values. Reads are lock-free; writers serialise on
// mu so the size check, eviction and insert stay within capacity.
type MemoryStorage struct {
	mu       sync.Mutex
	capacity int
	entries  *xsync.Map[uint64, entry]
}

// NewMemoryStorage initialises storage holding up to capacity results.
// A capacity of zero disables caching; a negative capacity selects DefaultCapacity.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStorage{
		capacity: capacity,
		entries:  xsync.NewMap[uint64, entry](),
	}
}

// Get returns a defensive copy of the result cached for values.
func (s *MemoryStorage) Get(values []int64) (Result, bool) {
	key := partition.CanonicalKey(values)
	e, ok := s.entries.Load(hashKey(key))
	if !ok || !slices.Equal(e.key, key) {
		return Result{}, false
	}
	return cloneResult(e.result), true
}

// Put stores a copy of result for values, evicting an arbitrary entry when full.
func (s *MemoryStorage) Put(values []int64, result Result) {
	if s.capacity == 0 {
		return
	}

	key := partition.CanonicalKey(values)
	h := hashKey(key)
	stored := entry{key: key, result: cloneResult(result)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries.Load(h); !exists && s.entries.Size() >= s.capacity {
		s.evictOne()
	}
	s.entries.Store(h, stored)
}

// Len reports the number of cached results.
func (s *MemoryStorage) Len() int {
	return s.entries.Size()
}

func (s *MemoryStorage) evictOne() {
	s.entries.Range(func(k uint64, _ entry) bool {
		s.entries.Delete(k)
		return false
	})
}

func hashKey(values []int64) uint64 {
	buf := make([]byte, 0, 8*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v)) //nolint:gosec
	}
	return xxh3.Hash(buf)
}

func cloneResult(r Result) Result {
	return Result{
		Partition: partition.Partition{
			Left:  cloneValues(r.Partition.Left),
			Right: cloneValues(r.Partition.Right),
		},
		Found: r.Found,
	}
}

func cloneValues(src []int64) []int64 {
	if src == nil {
		return nil
	}
	out := make([]int64, len(src))
	copy(out, src)
	return out
}
