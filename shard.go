package ustr

import (
	"sync"

	"github.com/luke-titley/ustr/internal/util"
)

// minTableSize is the initial probe-table size per shard. Must be a power
// of two.
const minTableSize = 64

// shard is an independent partition of the cache with its own lock, probe
// table, and arena. Keeping the arena per shard means a shard's insert
// never contends with another shard for storage.
type shard struct {
	// ---- guarded by mu ----
	mu    sync.Mutex
	table []Ustr // open addressing, power-of-two size, zero Ustr = empty
	count int
	arena arena

	metrics Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
}

func newShard(blockSize int, m Metrics) *shard {
	return &shard{
		table:   make([]Ustr, minTableSize),
		arena:   newArena(blockSize),
		metrics: m,
	}
}

// getOrInsert returns the handle for b, materializing it on first sight.
// hash must be the cache-wide hash of b. Probing starts at the hash's low
// bits; shard routing consumed the high bits, so the two stay independent.
//
// The table is insert-only (interned strings are never removed), which
// keeps linear probing exact: the first empty slot both terminates a failed
// lookup and is the insertion point.
func (s *shard) getOrInsert(hash uint64, b []byte) Ustr {
	s.mu.Lock()

	mask := uint64(len(s.table) - 1)
	i := hash & mask
	for {
		e := s.table[i]
		if e.IsNil() {
			break
		}
		// Cached hash first: cheap rejection before touching the bytes.
		// The byte comparison guards against hash collisions.
		if e.Hash() == hash && e.equalBytes(b) {
			s.mu.Unlock()
			s.hits.Add(1)
			s.metrics.Hit()
			return e
		}
		i = (i + 1) & mask
	}

	u := s.arena.allocate(hash, b)
	s.table[i] = u
	s.count++
	if s.count*4 >= len(s.table)*3 {
		s.grow()
	}
	allocated := int64(alignUp(recordHeaderSize + len(b) + 1))
	s.mu.Unlock()

	s.misses.Add(1)
	s.metrics.Miss()
	s.metrics.Alloc(allocated)
	return u
}

// grow doubles the table and reinserts every entry using its cached hash.
// Content bytes are never rehashed. Called with mu held.
func (s *shard) grow() {
	old := s.table
	s.table = make([]Ustr, len(old)*2)
	mask := uint64(len(s.table) - 1)
	for _, e := range old {
		if e.IsNil() {
			continue
		}
		i := e.Hash() & mask
		for !s.table[i].IsNil() {
			i = (i + 1) & mask
		}
		s.table[i] = e
	}
}

// stats returns the shard's resident string count and arena footprint.
func (s *shard) stats() (strings int, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.arena.allocated
}

// reset drops the shard's table and arena and zeroes its counters.
// Only Cache.UnsafeReset calls this; see the warnings there.
func (s *shard) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make([]Ustr, minTableSize)
	s.count = 0
	s.arena = newArena(s.arena.blockSize)
	s.hits.Store(0)
	s.misses.Store(0)
}
