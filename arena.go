package ustr

import (
	"unsafe"
)

// Record layout. Every interned string is stored once as
//
//	offset 0   hash    uint64
//	offset 8   length  uint32
//	offset 12  payload length bytes
//	           NUL     one zero byte
//	           padding up to the next 8-byte boundary
//
// A Ustr points at the payload, so the header fields sit at fixed negative
// offsets from the handle. Records start on 8-byte boundaries inside
// 8-byte-aligned blocks, which keeps the hash load aligned.
const (
	recordHeaderSize = 12
	recordAlign      = 8

	hashOffset = -recordHeaderSize
	lenOffset  = -4
)

// MaxLength is the largest string the cache will intern, fixed by the
// uint32 length field in the record header. TryIntern returns ErrTooLong
// for longer inputs instead of truncating.
const MaxLength = 1<<32 - 1

// arena is a bump allocator over chained fixed-capacity blocks. Blocks are
// never reallocated, moved, or freed, so every address handed out stays
// valid and unique for the life of the process. There is deliberately no
// way to release individual records; the absence of reclamation is what
// makes handle identity sound.
//
// An arena belongs to exactly one shard and is mutated only under that
// shard's lock.
type arena struct {
	blocks    [][]byte // all blocks ever allocated, in order
	cur       []byte   // block currently being bumped (last of blocks, if any)
	off       int      // bump offset into cur
	blockSize int
	allocated int64 // total bytes reserved across all blocks
}

func newArena(blockSize int) arena {
	return arena{blockSize: blockSize}
}

// allocate materializes one record and returns its handle. Must be called
// with the owning shard's lock held.
func (a *arena) allocate(hash uint64, b []byte) Ustr {
	need := alignUp(recordHeaderSize + len(b) + 1)

	var rec []byte
	switch {
	case need <= len(a.cur)-a.off:
		rec = a.cur[a.off : a.off+need]
		a.off += need
	case need >= a.blockSize:
		// Oversize payload: give it a dedicated block and leave the
		// current block in place for smaller records.
		blk := newBlock(need)
		a.blocks = append(a.blocks, blk)
		rec = blk[:need]
	default:
		a.cur = newBlock(a.blockSize)
		a.blocks = append(a.blocks, a.cur)
		rec = a.cur[:need]
		a.off = need
	}
	a.allocated += int64(need)

	p := unsafe.Pointer(&rec[0])
	*(*uint64)(p) = hash
	*(*uint32)(unsafe.Add(p, 8)) = uint32(len(b))
	copy(rec[recordHeaderSize:], b)
	rec[recordHeaderSize+len(b)] = 0

	return Ustr{p: (*byte)(unsafe.Add(p, recordHeaderSize))}
}

// newBlock returns a zeroed byte block whose base address is 8-byte
// aligned. The block is backed by a []uint64 so the alignment is
// guaranteed by the allocator rather than assumed.
func newBlock(size int) []byte {
	words := (size + recordAlign - 1) / recordAlign
	backing := make([]uint64, words)
	return unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), words*recordAlign)
}

func alignUp(n int) int {
	return (n + recordAlign - 1) &^ (recordAlign - 1)
}
