package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used by the repository metrics.
const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
)

// Outcome labels. Reads report hit/miss instead of success.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
)

// RepositoryMetrics records basket repository operation counts and latency.
type RepositoryMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRepositoryMetrics registers the repository metrics on the provided registerer.
func NewRepositoryMetrics(reg prometheus.Registerer) *RepositoryMetrics {
	if reg == nil {
		return &RepositoryMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basket_repository_operations_total",
		Help: "Basket repository operations by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "basket_repository_operation_duration_seconds",
		Help:    "Duration of basket repository operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(operations, duration)
	return &RepositoryMetrics{
		operations: operations,
		duration:   duration,
	}
}

// IncOperation increments the operation counter for the given outcome.
func (m *RepositoryMetrics) IncOperation(operation, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveDuration records the latency for the named operation.
func (m *RepositoryMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// CacheMetrics records cache-aside reads. Hit/miss is owned by the caching
// layer; the repository metrics underneath never see short-circuited reads.
type CacheMetrics struct {
	reads *prometheus.CounterVec
}

// NewCacheMetrics registers the cache metrics on the provided registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basket_cache_reads_total",
		Help: "Basket cache lookups by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(reads)
	return &CacheMetrics{reads: reads}
}

// IncHit counts a cache hit.
func (m *CacheMetrics) IncHit() {
	if m == nil || m.reads == nil {
		return
	}
	m.reads.WithLabelValues(OutcomeHit).Inc()
}

// IncMiss counts a cache miss.
func (m *CacheMetrics) IncMiss() {
	if m == nil || m.reads == nil {
		return
	}
	m.reads.WithLabelValues(OutcomeMiss).Inc()
}
