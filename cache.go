package ustr

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/luke-titley/ustr/internal/util"
)

// ErrTooLong is returned by TryIntern and TryInternBytes when the input is
// longer than MaxLength. The cache refuses oversized input outright rather
// than truncate it into the fixed-width length field.
var ErrTooLong = errors.New("ustr: input exceeds MaxLength")

// Cache is a sharded string-interning cache. All methods are safe for
// concurrent use by multiple goroutines, with the sole exception of
// UnsafeReset.
//
// Most programs want the process-wide cache reached through the package
// functions (Intern, InternBytes, ...); construct a separate Cache only to
// tune Options or to isolate a string population.
type Cache struct {
	shards []*shard
	shift  uint // hash >> shift = shard index (high bits)
	opt    Options
}

// New constructs a Cache with the provided Options.
// Defaults:
//   - nil Metrics    -> NoopMetrics
//   - Shards <= 0    -> auto, rounded up to the next power of two
//   - BlockSize <= 0 -> 64 KiB
func New(opt Options) *Cache {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	// number of shards -> power of two
	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}

	bs := opt.BlockSize
	if bs <= 0 {
		bs = 64 << 10
	}

	cs := make([]*shard, sh)
	for i := range cs {
		cs[i] = newShard(bs, opt.Metrics)
	}

	return &Cache{
		shards: cs,
		shift:  util.ShardShift(sh),
		opt:    opt,
	}
}

// TryIntern returns the canonical handle for s, materializing it on first
// use. It fails only with ErrTooLong; every valid-length input succeeds.
func (c *Cache) TryIntern(s string) (Ustr, error) {
	if uint64(len(s)) > MaxLength {
		return Ustr{}, ErrTooLong
	}
	h := xxhash.Sum64String(s)
	return c.shards[h>>c.shift].getOrInsert(h, stringBytes(s)), nil
}

// TryInternBytes is TryIntern for a byte slice. The bytes are copied on
// first sight; the caller keeps ownership of b.
func (c *Cache) TryInternBytes(b []byte) (Ustr, error) {
	if uint64(len(b)) > MaxLength {
		return Ustr{}, ErrTooLong
	}
	h := xxhash.Sum64(b)
	return c.shards[h>>c.shift].getOrInsert(h, b), nil
}

// Intern returns the canonical handle for s.
// It panics with ErrTooLong if s exceeds MaxLength; use TryIntern to handle
// that case without panicking.
func (c *Cache) Intern(s string) Ustr {
	u, err := c.TryIntern(s)
	if err != nil {
		panic(err)
	}
	return u
}

// InternBytes returns the canonical handle for b, copying the bytes on
// first sight. It panics with ErrTooLong if b exceeds MaxLength.
func (c *Cache) InternBytes(b []byte) Ustr {
	u, err := c.TryInternBytes(b)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the number of distinct strings interned across all shards.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		n, _ := s.stats()
		total += n
	}
	return total
}

// AllocatedBytes returns the total arena memory reserved across all shards,
// including record headers, terminators, and alignment padding.
func (c *Cache) AllocatedBytes() int64 {
	var total int64
	for _, s := range c.shards {
		_, b := s.stats()
		total += b
	}
	return total
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits    uint64 // interns that returned an existing handle
	Misses  uint64 // interns that materialized a new string
	Strings int    // distinct strings resident
	Bytes   int64  // arena bytes reserved
}

// Stats aggregates the per-shard counters. Hits and Misses are read without
// the shard locks, so a snapshot taken under load is approximate.
func (c *Cache) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		n, b := s.stats()
		st.Strings += n
		st.Bytes += b
	}
	return st
}

// UnsafeReset drops every shard's table and arena.
//
// This is an unsupported maintenance escape hatch, NOT part of normal
// operation. It is valid only while no other goroutine is interning or
// relying on handle identity — typically between test cases. Calling it
// concurrently with any other cache use is undefined behavior by contract
// and is deliberately not runtime-checked.
//
// Handles issued before the reset remain readable (they keep their arena
// blocks alive), but the uniqueness invariant is gone: re-interning the
// same content yields a different handle, so == between old and new
// handles for equal content reports false.
func (c *Cache) UnsafeReset() {
	for _, s := range c.shards {
		s.reset()
	}
}

// ---- process-wide default cache ----

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache, constructing it with default
// Options on first use. Initialization is exactly-once and safe under
// concurrent first use from multiple goroutines; no caller observes a
// partially constructed cache.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = New(Options{})
	})
	return defaultCache
}

// Intern returns the canonical handle for s from the process-wide cache.
// See Cache.Intern.
func Intern(s string) Ustr { return Default().Intern(s) }

// InternBytes returns the canonical handle for b from the process-wide
// cache. See Cache.InternBytes.
func InternBytes(b []byte) Ustr { return Default().InternBytes(b) }

// TryIntern is Intern returning ErrTooLong instead of panicking.
func TryIntern(s string) (Ustr, error) { return Default().TryIntern(s) }

// TryInternBytes is InternBytes returning ErrTooLong instead of panicking.
func TryInternBytes(b []byte) (Ustr, error) { return Default().TryInternBytes(b) }

// stringBytes views the bytes of s without copying. The view is read-only;
// it is only ever compared against or copied into an arena.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
