package basket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/basket-service/pkg/logger"
	"github.com/angelmondragon/basket-service/pkg/metrics"
)

// byteCache is the slice of the redis client the decorator needs.
type byteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	BasketCacheKey(userID string) string
}

// CachingRepository is the cache-aside decorator. The inner repository stays
// authoritative: cache faults degrade to store reads and never fail the
// operation, and a corrupt cache entry is treated as a miss and evicted.
type CachingRepository struct {
	inner   Repository
	cache   byteCache
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.CacheMetrics
}

// NewCachingRepository wraps inner with cache-aside reads and write-through
// refreshes.
func NewCachingRepository(inner Repository, cache byteCache, ttl time.Duration, logg *logger.Logger, cacheMetrics *metrics.CacheMetrics) (*CachingRepository, error) {
	if inner == nil {
		return nil, errors.New("inner repository is required")
	}
	if cache == nil {
		return nil, errors.New("cache is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &CachingRepository{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		logg:    logg,
		metrics: cacheMetrics,
	}, nil
}

func (r *CachingRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	key := r.cache.BasketCacheKey(userID)

	data, found, err := r.cache.GetBytes(ctx, key)
	switch {
	case err != nil:
		// An unreachable cache still counts as a miss so the read totals
		// stay accurate during outages.
		r.logg.Warn(r.logg.WithField(ctx, "cache_key", key), "basket cache read failed, falling back to store")
		r.metrics.IncMiss()
	case found:
		var cart Cart
		if err := json.Unmarshal(data, &cart); err == nil {
			r.metrics.IncHit()
			return &cart, nil
		}
		// Corrupt entry counts as a miss. Evict it so the refill below
		// replaces it with a clean copy.
		r.logg.Warn(r.logg.WithField(ctx, "cache_key", key), "corrupt basket cache entry, evicting")
		r.evict(ctx, key)
		r.metrics.IncMiss()
	default:
		r.metrics.IncMiss()
	}

	cart, err := r.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, key, cart)
	return cart, nil
}

func (r *CachingRepository) Put(ctx context.Context, cart *Cart) (*Cart, error) {
	updated, err := r.inner.Put(ctx, cart)
	if err != nil {
		// The store write failed; drop any cached copy so readers cannot
		// observe state the store never accepted.
		if cart != nil {
			r.evict(ctx, r.cache.BasketCacheKey(cart.UserID))
		}
		return nil, err
	}
	r.fill(ctx, r.cache.BasketCacheKey(updated.UserID), updated)
	return updated, nil
}

func (r *CachingRepository) Delete(ctx context.Context, userID string) error {
	key := r.cache.BasketCacheKey(userID)
	if err := r.inner.Delete(ctx, userID); err != nil {
		r.evict(ctx, key)
		return err
	}
	r.evict(ctx, key)
	return nil
}

// fill refreshes the cached copy. A failed fill leaves an eviction attempt
// behind rather than a stale entry.
func (r *CachingRepository) fill(ctx context.Context, key string, cart *Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_key", key), "encoding basket for cache failed")
		r.evict(ctx, key)
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_key", key), "basket cache write failed")
		r.evict(ctx, key)
	}
}

func (r *CachingRepository) evict(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, key); err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_key", key), "basket cache eviction failed")
	}
}
