package ustr

// Options configures a Cache. Zero values are safe; sane defaults are
// applied in New():
//   - Shards <= 0    => auto (≈2×GOMAXPROCS, rounded up to a power of two)
//   - BlockSize <= 0 => 64 KiB
//   - nil Metrics    => NoopMetrics
type Options struct {
	// Shards defines the number of lock partitions. Any value is rounded
	// up to the next power of two. More shards trade per-shard table
	// overhead under few goroutines for less lock contention under many.
	Shards int

	// BlockSize is the per-shard arena block capacity in bytes. Strings
	// larger than a block are stored in dedicated blocks of their own.
	BlockSize int

	// Metrics receives interning observability signals.
	// By default NoopMetrics is used; plug a Prometheus adapter to export
	// metrics (see metrics/prom).
	Metrics Metrics
}

// Metrics exposes cache-level observability hooks.
// Implementations must be safe for concurrent use by multiple goroutines.
type Metrics interface {
	// Hit — Intern returned an already-interned handle.
	Hit()
	// Miss — Intern materialized a new string.
	Miss()
	// Alloc reports the arena bytes reserved for a newly materialized
	// string (header, payload, terminator, and alignment padding).
	Alloc(bytes int64)
}
