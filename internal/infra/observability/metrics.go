package observability

import (
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFF.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	pollCycles      *prometheus.CounterVec
	pollDiscards    *prometheus.CounterVec
	mutations       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salesdeck_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_external_errors_total",
				Help: "Total errors from the sales telemetry API.",
			},
			[]string{"endpoint"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		pollCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_poll_cycles_total",
				Help: "Completed poll cycles per view.",
			},
			[]string{"view", "result"},
		),
		pollDiscards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_poll_discards_total",
				Help: "Poll completions discarded for arriving out of order or after stop.",
			},
			[]string{"view"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdeck_mutations_total",
				Help: "Mutation submissions by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(endpoint string) {
	m.externalErrors.WithLabelValues(endpoint).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrPollCycle counts one completed poll cycle for a view.
// result is "success" or "failure".
func (m *Metrics) IncrPollCycle(view, result string) {
	m.pollCycles.WithLabelValues(view, result).Inc()
}

// IncrPollDiscard counts a discarded stale or post-stop poll completion.
func (m *Metrics) IncrPollDiscard(view string) {
	m.pollDiscards.WithLabelValues(view).Inc()
}

// IncrMutation counts a mutation submission.
// status is "success", "failure" or "rejected".
func (m *Metrics) IncrMutation(kind, status string) {
	m.mutations.WithLabelValues(kind, status).Inc()
}

// GetSyncSnapshot returns a snapshot of sync-layer metrics suitable for the
// GET /v1/metrics/sync endpoint.
func (m *Metrics) GetSyncSnapshot() *domain.SyncMetrics {
	// Prometheus counters expose cumulative values; sum across views.
	var cycles, failures, discards float64
	for _, view := range []string{"dashboard", "strategy", "inventory"} {
		cycles += getCounterValue(m.pollCycles, view, "success")
		cycles += getCounterValue(m.pollCycles, view, "failure")
		failures += getCounterValue(m.pollCycles, view, "failure")
		discards += getCounterValue(m.pollDiscards, view)
	}

	var mutations, mutationFailures float64
	for _, kind := range []string{"restock", "pipeline"} {
		mutations += getCounterValue(m.mutations, kind, "success")
		mutations += getCounterValue(m.mutations, kind, "failure")
		mutationFailures += getCounterValue(m.mutations, kind, "failure")
	}

	hits := getCounterValue(m.cacheHits, "best_sellers")
	misses := getCounterValue(m.cacheMisses, "best_sellers")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.SyncMetrics{
		PollCycles:       int64(cycles),
		PollFailures:     int64(failures),
		StaleDiscards:    int64(discards),
		Mutations:        int64(mutations),
		MutationFailures: int64(mutationFailures),
		CacheHitRate:     hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
