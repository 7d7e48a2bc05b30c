package basket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
)

type fakeRedisStore struct {
	*fakeCache
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{fakeCache: newFakeCache()}
}

func (f *fakeRedisStore) BasketStoreKey(userID string) string {
	return "basket:store:" + userID
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeRedisStore()
	repo, err := NewRedisRepository(store, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewRedisRepository: %v", err)
	}
	ctx := context.Background()

	if _, err := repo.Put(ctx, testCart(t, "alice")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	cart, err := repo.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !cart.TotalPrice().Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("unexpected total %s", cart.TotalPrice())
	}

	if err := repo.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "alice"); !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestRedisRepositoryFaultsAreStoreErrors(t *testing.T) {
	t.Parallel()

	store := newFakeRedisStore()
	store.getErr = errors.New("connection refused")
	repo, err := NewRedisRepository(store, 0)
	if err != nil {
		t.Fatalf("NewRedisRepository: %v", err)
	}

	_, err = repo.Get(context.Background(), "alice")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}
}

func TestRedisRepositoryCorruptRecordIsStoreError(t *testing.T) {
	t.Parallel()

	store := newFakeRedisStore()
	store.entries[store.BasketStoreKey("alice")] = []byte("{broken")
	repo, err := NewRedisRepository(store, 0)
	if err != nil {
		t.Fatalf("NewRedisRepository: %v", err)
	}

	_, err = repo.Get(context.Background(), "alice")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable for corrupt record, got %v", err)
	}
}
