package ustr

import (
	"strconv"
	"testing"
)

// Shard counts are rounded up to the next power of two; 0 picks a default.
func TestNew_ShardRounding(t *testing.T) {
	t.Parallel()

	if n := len(New(Options{Shards: 5}).shards); n != 8 {
		t.Fatalf("Shards:5 -> %d shards, want 8", n)
	}
	if n := len(New(Options{Shards: 64}).shards); n != 64 {
		t.Fatalf("Shards:64 -> %d shards, want 64", n)
	}
	if n := len(New(Options{}).shards); n < 1 {
		t.Fatalf("default shard count %d", n)
	}
}

// The package-level cache is constructed exactly once and the package
// functions all route to it.
func TestDefault_SharedCache(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Fatal("Default must return the same cache")
	}
	a := Intern("default-cache-key")
	b, err := TryIntern("default-cache-key")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("package functions must share one cache")
	}
	if c := InternBytes([]byte("default-cache-key")); c != a {
		t.Fatal("InternBytes must share the default cache")
	}
}

// Len and AllocatedBytes account every shard.
func TestCache_LenAndAllocatedBytes(t *testing.T) {
	t.Parallel()

	c := New(Options{Shards: 16})
	if c.Len() != 0 || c.AllocatedBytes() != 0 {
		t.Fatal("fresh cache must be empty")
	}

	const n = 1000
	for i := 0; i < n; i++ {
		c.Intern("key:" + strconv.Itoa(i))
	}
	if c.Len() != n {
		t.Fatalf("Len() = %d, want %d", c.Len(), n)
	}
	if c.AllocatedBytes() <= 0 {
		t.Fatal("AllocatedBytes must grow with inserts")
	}

	st := c.Stats()
	if st.Strings != n || st.Misses != n {
		t.Fatalf("Stats = %+v, want %d strings and misses", st, n)
	}
}

// Growing a shard table far past its initial size must not lose or
// duplicate entries; re-interning must keep returning the original handles.
func TestCache_TableGrowth(t *testing.T) {
	t.Parallel()

	c := New(Options{Shards: 1})
	const n = 10_000
	handles := make([]Ustr, n)
	for i := 0; i < n; i++ {
		handles[i] = c.Intern("grow:" + strconv.Itoa(i))
	}
	for i := 0; i < n; i++ {
		if u := c.Intern("grow:" + strconv.Itoa(i)); u != handles[i] {
			t.Fatalf("key %d: handle changed after growth", i)
		}
	}
	if c.Len() != n {
		t.Fatalf("Len() = %d, want %d", c.Len(), n)
	}
}

// UnsafeReset drops the cache state. Pre-reset handles stay readable, but
// identity with post-reset handles is deliberately broken.
// Must run single-threaded: no other goroutine may touch c.
func TestCache_UnsafeReset(t *testing.T) {
	t.Parallel() // parallel with other tests is fine; c is local

	c := New(Options{Shards: 4})
	old := c.Intern("survivor")
	c.UnsafeReset()

	if c.Len() != 0 {
		t.Fatalf("Len() after reset = %d, want 0", c.Len())
	}
	if got := old.String(); got != "survivor" {
		t.Fatalf("pre-reset handle content = %q", got)
	}

	fresh := c.Intern("survivor")
	if fresh == old {
		t.Fatal("reset must forget old handles; re-intern must allocate anew")
	}
	if fresh.String() != old.String() {
		t.Fatal("contents must still match")
	}
}
