package ustr

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// Many goroutines intern the same pool of distinct strings with repetition.
// Every goroutine must observe the same handle per content, and the cache
// must end with exactly one string per distinct content.
// Should pass under `-race` without detector reports.
func TestRace_InternAgreement(t *testing.T) {
	c := New(Options{Shards: 32})

	const distinct = 512
	pool := make([]string, distinct)
	for i := range pool {
		pool[i] = "pool/" + strconv.Itoa(i) + "/entry"
	}

	workers := 4 * runtime.GOMAXPROCS(0)
	results := make([][]Ustr, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		results[w] = make([]Ustr, distinct)
		out := results[w]
		seed := int64(w)*7919 + 1
		g.Go(func() error {
			r := rand.New(rand.NewSource(seed))
			// Visit every pool entry several times in random order.
			for pass := 0; pass < 4; pass++ {
				for _, i := range r.Perm(distinct) {
					out[i] = c.Intern(pool[i])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < distinct; i++ {
		for w := 1; w < workers; w++ {
			if results[w][i] != results[0][i] {
				t.Fatalf("key %d: worker %d saw a different handle", i, w)
			}
		}
	}
	if c.Len() != distinct {
		t.Fatalf("Len() = %d, want %d", c.Len(), distinct)
	}

	// All handles funneled into a Set must collapse to the distinct count,
	// regardless of which goroutine produced each one.
	var set Set
	for _, rs := range results {
		for _, u := range rs {
			set.Add(u)
		}
	}
	if set.Len() != distinct {
		t.Fatalf("Set.Len() = %d, want %d", set.Len(), distinct)
	}
}

// Large-population scenario: 20k distinct path-like strings interned
// 100k+ times total across several goroutines must produce exactly 20k
// distinct handles, without deadlock or corruption.
func TestRace_LargePopulation(t *testing.T) {
	c := New(Options{Shards: 64})

	const (
		distinct  = 20_000
		totalOps  = 100_000
		workers   = 8
		perWorker = totalOps / workers
	)

	keys := make([]string, distinct)
	for i := range keys {
		keys[i] = "srv/region-" + strconv.Itoa(i%7) + "/node/" + strconv.Itoa(i) + "/status"
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(id)*9973 + 1))
			// A deterministic first pass guarantees full coverage of the
			// keyspace across the workers; the rest is random repetition.
			for i := id; i < distinct; i += workers {
				c.Intern(keys[i])
			}
			for i := 0; i < perWorker; i++ {
				u := c.Intern(keys[r.Intn(distinct)])
				if u.IsNil() {
					t.Error("nil handle from Intern")
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() != distinct {
		t.Fatalf("Len() = %d, want %d", c.Len(), distinct)
	}
	st := c.Stats()
	if st.Misses != distinct {
		t.Fatalf("allocations = %d, want %d", st.Misses, distinct)
	}
}

// Concurrent first use of the package-level cache must initialize it
// exactly once and never expose a partially constructed cache.
func TestRace_DefaultInit(t *testing.T) {
	const workers = 32
	start := make(chan struct{})
	handles := make([]Ustr, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			<-start
			handles[id] = Intern("default-init-race")
		}(w)
	}
	close(start)
	wg.Wait()

	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Fatal("goroutines disagreed on the interned handle")
		}
	}
}
