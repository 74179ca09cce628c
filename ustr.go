package ustr

import (
	"bytes"
	"unsafe"
)

// Ustr is an interned string handle: a single word pointing at the payload
// of a record materialized by Intern. Two handles obtained from the same
// cache compare equal with == if and only if their contents are equal, so
// equality, map keying, and hashing never touch the string bytes.
//
// The zero value is the nil handle (IsNil reports true); it identifies no
// string and its accessors panic. The interned empty string is a valid,
// distinct handle with Len() == 0.
//
// Handles are trivially copyable and never need releasing: the cache owns
// the underlying storage for the lifetime of the process.
type Ustr struct {
	p *byte
}

// IsNil reports whether u is the zero handle.
func (u Ustr) IsNil() bool { return u.p == nil }

// Hash returns the 64-bit hash computed when the string was interned.
// It is a plain load from the record header: O(1), no recomputation.
func (u Ustr) Hash() uint64 {
	return *(*uint64)(unsafe.Add(unsafe.Pointer(u.p), hashOffset))
}

// Len returns the length of the interned string in bytes. O(1).
func (u Ustr) Len() int {
	return int(*(*uint32)(unsafe.Add(unsafe.Pointer(u.p), lenOffset)))
}

// Bytes returns a zero-copy view of exactly Len() bytes. Embedded NUL
// bytes are preserved. The view is immutable for the life of the process;
// callers must not write through it.
func (u Ustr) Bytes() []byte {
	return unsafe.Slice(u.p, u.Len())
}

// String returns the interned content as a string without copying.
// Implements fmt.Stringer.
func (u Ustr) String() string {
	n := u.Len()
	if n == 0 {
		return ""
	}
	return unsafe.String(u.p, n)
}

// CPtr returns the address of the raw NUL-terminated buffer, for handing to
// code with C string semantics (cgo, syscalls). The buffer holds exactly
// Len() content bytes followed by one NUL and is immutable and valid for
// the remaining lifetime of the process.
//
// Consumers that scan for the terminator will stop at the first NUL, so
// content with embedded NUL bytes is only fully visible through Bytes.
func (u Ustr) CPtr() unsafe.Pointer {
	return unsafe.Pointer(u.p)
}

// Cmp compares the contents of u and v lexicographically, returning
// -1, 0, or +1 in the manner of bytes.Compare. Unlike ==, which is a single
// pointer comparison, Cmp walks the bytes; use it only where an ordering
// is actually needed.
func (u Ustr) Cmp(v Ustr) int {
	if u == v {
		return 0
	}
	return bytes.Compare(u.Bytes(), v.Bytes())
}

// equalBytes reports whether the interned content equals b.
func (u Ustr) equalBytes(b []byte) bool {
	return bytes.Equal(u.Bytes(), b)
}
