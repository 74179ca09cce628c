// Package ustr provides fast string interning: it maps byte sequences to
// small, copyable handles (Ustr) such that equal content always yields the
// same handle, each unique string is stored exactly once for the life of
// the process, and handle comparison, hashing, and dereferencing are O(1)
// with no locking.
//
// Handles suit identifier-class strings — configuration keys, symbol
// names, path components — where creation is occasional but comparison,
// copying, and hashing happen constantly.
//
// Design
//
//   - Concurrency: the cache is split into shards, each protected by a
//     Mutex. The default shard count is chosen by a heuristic
//     (≈2×GOMAXPROCS, power of two). Shard routing uses the high bits of
//     the string's hash; the only blocking point anywhere is the one shard
//     lock taken inside an intern call. Everything a handle does afterwards
//     (==, Hash, Len, Bytes) is lock-free.
//
//   - Storage: each shard owns an append-only arena of fixed-capacity
//     blocks. Records are never moved or freed, so a handle's address is
//     stable and unique for the process lifetime; that single-copy
//     invariant is what makes == a correct equality test. Memory growth is
//     unbounded by design — bounded in practice by the number of distinct
//     strings — and there is no eviction, reference counting, or
//     reclamation.
//
//   - Record layout: every string is stored with its 64-bit hash and
//     length ahead of the content, and one NUL byte after it. A handle
//     reads the hash and length at fixed negative offsets (no rehashing,
//     ever) and CPtr exposes the NUL-terminated buffer directly to C-style
//     consumers.
//
//   - Hash: xxhash64 with its fixed seed, so hashes are reproducible
//     within a run and across runs of the same build.
//
//   - Containers: Map and Set key by Ustr and reuse the precomputed hash
//     as the bucket hash, making interning-aware collections nearly free
//     to hash into.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Alloc signals. By default
//     NoopMetrics is used; plug the Prometheus adapter in metrics/prom to
//     export them.
//
// Basic usage
//
//	a := ustr.Intern("render/mesh/albedo")
//	b := ustr.Intern("render/mesh/albedo")
//	fmt.Println(a == b)   // true — one pointer comparison
//	fmt.Println(a.Len())  // 18, read from the record header
//	fmt.Println(a.Hash() == b.Hash()) // true, precomputed once
//
// With a dedicated cache
//
//	c := ustr.New(ustr.Options{Shards: 64})
//	u := c.Intern("entity.player.42")
//
// With containers
//
//	var seen ustr.Set
//	seen.Add(ustr.Intern("a"))
//	seen.Contains(ustr.Intern("a")) // true, no hashing of content
//
// Input limits
//
// Strings longer than MaxLength (the 32-bit length field) are refused:
// TryIntern returns ErrTooLong, Intern panics. Nothing is ever truncated.
//
// Resetting
//
// Cache.UnsafeReset exists for tests that need a pristine cache. It is
// undefined behavior under any concurrent use of the cache — see its
// documentation before touching it.
package ustr
