// Command bench runs a synthetic interning workload against the cache and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/luke-titley/ustr"
	pmet "github.com/luke-titley/ustr/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		shards   = pflag.Int("shards", 0, "number of shards (0=auto)")
		workers  = pflag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = pflag.Duration("duration", 10*time.Second, "benchmark duration")

		keys  = pflag.Int("keys", 1_000_000, "distinct keyspace size")
		zipfS = pflag.Float64("zipf-s", 1.1, "Zipf s > 1 (skew)")
		zipfV = pflag.Float64("zipf-v", 1.0, "Zipf v")
		seed  = pflag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = pflag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = pflag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	pflag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "ustr", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	c := ustr.New(ustr.Options{
		Shards:  *shards,
		Metrics: metrics,
	})

	// ---- Snapshot flags for goroutines ----
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	// Every op interns a path-like key drawn from a Zipf distribution, so a
	// small set of hot keys dominates (the hit path) while the tail keeps
	// materializing new strings (the miss path).
	var total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				k := "asset/" + strconv.FormatUint(localZipf.Uint64(), 10) + "/path"
				u := c.Intern(k)
				if u.Len() != len(k) {
					log.Fatalf("corrupt handle: Len()=%d want %d", u.Len(), len(k))
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	st := c.Stats()

	hitRate := 0.0
	if n := st.Hits + st.Misses; n > 0 {
		hitRate = float64(st.Hits) / float64(n) * 100
	}

	fmt.Printf("shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*shards, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  hits=%d  misses=%d  hit-rate=%.2f%%\n",
		ops, float64(ops)/elapsed.Seconds(), st.Hits, st.Misses, hitRate)
	fmt.Printf("distinct=%d  arena=%dB\n", c.Len(), st.Bytes)
}
