package basket

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/metrics"
)

// MetricsRepository counts repository operations and records their latency.
// Each call increments exactly one outcome: reads report hit/miss/error,
// writes and deletes report success/error. The latency histogram is observed
// on every call, including failures.
type MetricsRepository struct {
	inner   Repository
	metrics *metrics.RepositoryMetrics
}

// NewMetricsRepository wraps inner with Prometheus instrumentation.
func NewMetricsRepository(inner Repository, repoMetrics *metrics.RepositoryMetrics) (*MetricsRepository, error) {
	if inner == nil {
		return nil, errors.New("inner repository is required")
	}
	return &MetricsRepository{inner: inner, metrics: repoMetrics}, nil
}

func (r *MetricsRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDuration(metrics.OpGet, time.Since(start))
	}()

	cart, err := r.inner.Get(ctx, userID)
	switch {
	case err == nil:
		r.metrics.IncOperation(metrics.OpGet, metrics.OutcomeHit)
	case pkgerrors.IsNotFound(err):
		r.metrics.IncOperation(metrics.OpGet, metrics.OutcomeMiss)
	default:
		r.metrics.IncOperation(metrics.OpGet, metrics.OutcomeError)
	}
	return cart, err
}

func (r *MetricsRepository) Put(ctx context.Context, cart *Cart) (*Cart, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDuration(metrics.OpPut, time.Since(start))
	}()

	updated, err := r.inner.Put(ctx, cart)
	if err != nil {
		r.metrics.IncOperation(metrics.OpPut, metrics.OutcomeError)
		return nil, err
	}
	r.metrics.IncOperation(metrics.OpPut, metrics.OutcomeSuccess)
	return updated, nil
}

func (r *MetricsRepository) Delete(ctx context.Context, userID string) error {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDuration(metrics.OpDelete, time.Since(start))
	}()

	if err := r.inner.Delete(ctx, userID); err != nil {
		r.metrics.IncOperation(metrics.OpDelete, metrics.OutcomeError)
		return err
	}
	r.metrics.IncOperation(metrics.OpDelete, metrics.OutcomeSuccess)
	return nil
}
