// Package util contains internal helpers (sharding, padding, powers of two).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"fmt"
	"runtime"
)

// ReasonableShardCount picks a practical default shard count based on CPU
// parallelism. Heuristic: nextPow2(2*GOMAXPROCS), clamped to [1..256].
// This sharply reduces lock contention without bloating memory overhead.
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	// 2×CPU, round up to power of two, then clamp to 256.
	n := int(NextPow2(uint64(p * 2)))
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// ShardShift returns the right-shift that maps a 64-bit hash to a shard
// index using the hash's HIGH bits: idx = hash >> ShardShift(shards).
//
// Routing by high bits matters here: each shard's probe table starts its
// probe sequence at the hash's LOW bits, so routing by the low bits as well
// would land every entry of a shard on the same initial probe slot.
//
// shards must be a power of two. For shards == 1 the returned shift is 64,
// which Go defines to produce 0 (everything routes to shard 0).
func ShardShift(shards int) uint {
	if shards < 1 || !IsPowerOfTwo(uint64(shards)) {
		panic(fmt.Sprintf("util.ShardShift: shard count %d is not a power of two", shards))
	}
	shift := uint(64)
	for n := uint64(shards); n > 1; n >>= 1 {
		shift--
	}
	return shift
}
