package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRepositoryMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	m.IncOperation(OpGet, OutcomeHit)
	m.IncOperation(OpGet, OutcomeHit)
	m.IncOperation(OpPut, OutcomeError)
	m.ObserveDuration(OpGet, 25*time.Millisecond)

	if got := counterValue(t, reg, "basket_repository_operations_total", map[string]string{"operation": "get", "outcome": "hit"}); got != 2 {
		t.Fatalf("expected 2 get/hit operations, got %v", got)
	}
	if got := counterValue(t, reg, "basket_repository_operations_total", map[string]string{"operation": "put", "outcome": "error"}); got != 1 {
		t.Fatalf("expected 1 put/error operation, got %v", got)
	}
	if got := histogramCount(t, reg, "basket_repository_operation_duration_seconds", map[string]string{"operation": "get"}); got != 1 {
		t.Fatalf("expected 1 duration observation, got %v", got)
	}
}

func TestCacheMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCacheMetrics(reg)

	m.IncHit()
	m.IncMiss()
	m.IncMiss()

	if got := counterValue(t, reg, "basket_cache_reads_total", map[string]string{"outcome": "hit"}); got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}
	if got := counterValue(t, reg, "basket_cache_reads_total", map[string]string{"outcome": "miss"}); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var repo *RepositoryMetrics
	repo.IncOperation(OpGet, OutcomeHit)
	repo.ObserveDuration(OpGet, time.Millisecond)

	var cache *CacheMetrics
	cache.IncHit()
	cache.IncMiss()

	unregistered := NewRepositoryMetrics(nil)
	unregistered.IncOperation(OpDelete, OutcomeSuccess)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metric := findMetric(t, reg, name, labels)
	if metric == nil || metric.Counter == nil {
		t.Fatalf("counter %s%v not found", name, labels)
	}
	return metric.Counter.GetValue()
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) uint64 {
	t.Helper()
	metric := findMetric(t, reg, name, labels)
	if metric == nil || metric.Histogram == nil {
		t.Fatalf("histogram %s%v not found", name, labels)
	}
	return metric.Histogram.GetSampleCount()
}

func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchesLabels(metric, labels) {
				return metric
			}
		}
	}
	return nil
}

func matchesLabels(metric *dto.Metric, labels map[string]string) bool {
	have := map[string]string{}
	for _, pair := range metric.GetLabel() {
		have[pair.GetName()] = pair.GetValue()
	}
	for k, v := range labels {
		if have[k] != v {
			return false
		}
	}
	return true
}
