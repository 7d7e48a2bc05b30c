package basket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
)

// redisStore is the slice of the redis client the repository needs. Keeping
// it narrow lets tests swap in a fake without a running server.
type redisStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	BasketStoreKey(userID string) string
}

// RedisRepository uses Redis as the primary basket store. Unlike the caching
// decorator, faults here are store faults: there is no authoritative layer
// underneath to fall back to.
type RedisRepository struct {
	store redisStore
	ttl   time.Duration
}

// NewRedisRepository wires the Redis-primary repository. TTL zero means
// entries never expire.
func NewRedisRepository(store redisStore, ttl time.Duration) (*RedisRepository, error) {
	if store == nil {
		return nil, errors.New("redis store is required")
	}
	return &RedisRepository{store: store, ttl: ttl}, nil
}

func (r *RedisRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	data, found, err := r.store.GetBytes(ctx, r.store.BasketStoreKey(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading basket")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "basket not found")
	}
	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "decoding stored basket")
	}
	return &cart, nil
}

func (r *RedisRepository) Put(ctx context.Context, cart *Cart) (*Cart, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "encoding basket")
	}
	if err := r.store.Set(ctx, r.store.BasketStoreKey(cart.UserID), data, r.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "storing basket")
	}
	return cart, nil
}

func (r *RedisRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, r.store.BasketStoreKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "deleting basket")
	}
	return nil
}
