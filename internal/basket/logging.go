package basket

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// LoggingRepository records every repository call with its duration. Missing
// baskets log at info since they are an expected outcome, not a fault.
// Errors always pass through unchanged.
type LoggingRepository struct {
	inner Repository
	logg  *logger.Logger
}

// NewLoggingRepository wraps inner with structured operation logs.
func NewLoggingRepository(inner Repository, logg *logger.Logger) (*LoggingRepository, error) {
	if inner == nil {
		return nil, errors.New("inner repository is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &LoggingRepository{inner: inner, logg: logg}, nil
}

func (r *LoggingRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	ctx = r.logg.WithUserID(ctx, userID)
	r.logg.Info(ctx, "basket get started")

	start := time.Now()
	cart, err := r.inner.Get(ctx, userID)
	ctx = r.withDuration(ctx, start)

	if pkgerrors.IsNotFound(err) {
		r.logg.Info(ctx, "basket get found no basket")
		return nil, err
	}
	if err != nil {
		r.logg.Error(ctx, "basket get failed", err)
		return nil, err
	}
	r.logg.Info(r.logg.WithField(ctx, "item_count", len(cart.Items)), "basket get completed")
	return cart, nil
}

func (r *LoggingRepository) Put(ctx context.Context, cart *Cart) (*Cart, error) {
	if cart != nil {
		ctx = r.logg.WithUserID(ctx, cart.UserID)
		ctx = r.logg.WithField(ctx, "item_count", len(cart.Items))
	}
	r.logg.Info(ctx, "basket put started")

	start := time.Now()
	updated, err := r.inner.Put(ctx, cart)
	ctx = r.withDuration(ctx, start)

	if err != nil {
		r.logg.Error(ctx, "basket put failed", err)
		return nil, err
	}
	r.logg.Info(ctx, "basket put completed")
	return updated, nil
}

func (r *LoggingRepository) Delete(ctx context.Context, userID string) error {
	ctx = r.logg.WithUserID(ctx, userID)
	r.logg.Info(ctx, "basket delete started")

	start := time.Now()
	err := r.inner.Delete(ctx, userID)
	ctx = r.withDuration(ctx, start)

	if err != nil {
		r.logg.Error(ctx, "basket delete failed", err)
		return err
	}
	r.logg.Info(ctx, "basket delete completed")
	return nil
}

func (r *LoggingRepository) withDuration(ctx context.Context, start time.Time) context.Context {
	return r.logg.WithField(ctx, "duration_ms", time.Since(start).Milliseconds())
}
