// Package prom exports interning metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luke-titley/ustr"
)

// Adapter implements ustr.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	strings    prometheus.Gauge
	arenaBytes prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Interns that returned an existing handle",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Interns that materialized a new string",
			ConstLabels: constLabels,
		}),
		strings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "strings",
			Help:        "Distinct strings resident in the cache",
			ConstLabels: constLabels,
		}),
		arenaBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "arena_bytes",
			Help:        "Arena memory reserved for interned strings",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.strings, a.arenaBytes)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter and the resident-strings gauge.
// Interned strings are never reclaimed, so the gauge only grows.
func (a *Adapter) Miss() {
	a.misses.Inc()
	a.strings.Inc()
}

// Alloc adds the reserved arena bytes for a new string to the gauge.
func (a *Adapter) Alloc(bytes int64) { a.arenaBytes.Add(float64(bytes)) }

// Compile-time check: ensure Adapter implements ustr.Metrics.
var _ ustr.Metrics = (*Adapter)(nil)
