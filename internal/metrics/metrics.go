// Package metrics holds the per-run counters. Each run owns a private
// registry, so concurrent runs (and tests) never share state.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	reg *prometheus.Registry

	Lines          prometheus.Counter
	Accepted       prometheus.Counter
	Rejected       prometheus.Counter
	DecodeFailures prometheus.Counter
	ChunkFaults    prometheus.Counter
	Chunks         prometheus.Counter
	CacheLookups   *prometheus.CounterVec
	UniqueDomains  prometheus.Gauge
	RunDuration    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_lines_total",
			Help: "Input lines handed to workers.",
		}),
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_accepted_total",
			Help: "Lines that produced a valid FQDN (before deduplication).",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_rejected_total",
			Help: "Lines rejected by the rule pipeline or the validator.",
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_decode_failures_total",
			Help: "Lines dropped by the reader (invalid UTF-8 or oversized).",
		}),
		ChunkFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_chunk_faults_total",
			Help: "Lines whose processing panicked and was recovered.",
		}),
		Chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fqdnsan_chunks_total",
			Help: "Chunks merged into the result set.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fqdnsan_validation_cache_lookups_total",
			Help: "Validation cache lookups, labeled by result.",
		}, []string{"result"}),
		UniqueDomains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fqdnsan_unique_domains",
			Help: "Distinct valid FQDNs in the final set.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fqdnsan_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
	}
	m.reg.MustRegister(
		m.Lines, m.Accepted, m.Rejected, m.DecodeFailures, m.ChunkFaults,
		m.Chunks, m.CacheLookups, m.UniqueDomains, m.RunDuration,
	)
	return m
}

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveCache records cache hits and misses from one worker.
func (m *Metrics) ObserveCache(hits, misses uint64) {
	m.CacheLookups.WithLabelValues("hit").Add(float64(hits))
	m.CacheLookups.WithLabelValues("miss").Add(float64(misses))
}

// Finish records the final set size and elapsed time.
func (m *Metrics) Finish(unique int, elapsed time.Duration) {
	m.UniqueDomains.Set(float64(unique))
	m.RunDuration.Set(elapsed.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %q: %w", path, err)
	}
	return nil
}
