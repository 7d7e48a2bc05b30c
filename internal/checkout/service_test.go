package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/basket-service/internal/basket"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

type stubRepository struct {
	carts map[string]*basket.Cart

	getErr    error
	deleteErr error

	deleteCalls int
}

func newStubRepository() *stubRepository {
	return &stubRepository{carts: map[string]*basket.Cart{}}
}

func (s *stubRepository) Get(_ context.Context, userID string) (*basket.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	cart, ok := s.carts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "basket not found")
	}
	return cart, nil
}

func (s *stubRepository) Put(_ context.Context, cart *basket.Cart) (*basket.Cart, error) {
	s.carts[cart.UserID] = cart
	return cart, nil
}

func (s *stubRepository) Delete(_ context.Context, userID string) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.carts, userID)
	return nil
}

type stubPublisher struct {
	err error

	calls     int
	eventType string
	key       string
	payload   any
}

func (s *stubPublisher) Publish(_ context.Context, eventType, key string, payload any) (string, error) {
	s.calls++
	s.eventType = eventType
	s.key = key
	s.payload = payload
	if s.err != nil {
		return "", s.err
	}
	return "event-123", nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func seedCart(t *testing.T, repo *stubRepository, userID string) *basket.Cart {
	t.Helper()
	cart := basket.NewCart(userID)
	item, err := basket.NewCartItem("p1", "Phone", decimal.RequireFromString("149.99"), 2)
	if err != nil {
		t.Fatalf("NewCartItem: %v", err)
	}
	cart.AddItem(item)
	repo.carts[userID] = cart
	return cart
}

func newTestService(t *testing.T, repo basket.Repository, publisher eventPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, publisher, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestExecutePublishesAndClearsBasket(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	seedCart(t, repo, "alice")
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, publisher)

	result, err := svc.Execute(context.Background(), Input{
		UserID:          "alice",
		FirstName:       "Alice",
		LastName:        "Smith",
		EmailAddress:    "alice@example.com",
		ShippingAddress: "1 Main St",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.CheckedOut {
		t.Fatalf("expected checkout, got %+v", result)
	}
	if result.EventID != "event-123" {
		t.Fatalf("expected event id from publisher, got %q", result.EventID)
	}
	if publisher.eventType != EventTypeBasketCheckout {
		t.Fatalf("unexpected event type %q", publisher.eventType)
	}
	if publisher.key != "alice" {
		t.Fatalf("expected user id as ordering key, got %q", publisher.key)
	}
	if _, ok := repo.carts["alice"]; ok {
		t.Fatal("expected basket to be deleted after checkout")
	}

	event, ok := publisher.payload.(BasketCheckoutEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", publisher.payload)
	}
	if !event.TotalPrice.Equal(decimal.RequireFromString("299.98")) {
		t.Fatalf("expected total from live cart, got %s", event.TotalPrice)
	}
	if len(event.Items) != 1 || event.Items[0].ProductID != "p1" {
		t.Fatalf("unexpected items %+v", event.Items)
	}
}

func TestExecuteMissingBasketIsNegativeResult(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, publisher)

	result, err := svc.Execute(context.Background(), Input{UserID: "ghost"})
	if err != nil {
		t.Fatalf("expected negative result, not error, got %v", err)
	}
	if result.CheckedOut {
		t.Fatal("expected CheckedOut false")
	}
	if publisher.calls != 0 {
		t.Fatal("expected no publish for missing basket")
	}
}

func TestExecutePublishFailurePreservesBasket(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	seedCart(t, repo, "alice")
	publisher := &stubPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, publisher)

	_, err := svc.Execute(context.Background(), Input{UserID: "alice"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodePublishFailure {
		t.Fatalf("expected publish failure, got %v", err)
	}
	if _, ok := repo.carts["alice"]; !ok {
		t.Fatal("expected basket to survive failed publish")
	}
	if repo.deleteCalls != 0 {
		t.Fatal("expected no delete after failed publish")
	}
}

func TestExecuteDeleteFailureSurfacesEventID(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	seedCart(t, repo, "alice")
	repo.deleteErr = pkgerrors.New(pkgerrors.CodeStoreUnavailable, "store down")
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, publisher)

	_, err := svc.Execute(context.Background(), Input{UserID: "alice"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store error, got %v", err)
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["event_id"] != "event-123" {
		t.Fatalf("expected published event id in details, got %v", details["event_id"])
	}
	if publisher.calls != 1 {
		t.Fatalf("expected a single publish, got %d", publisher.calls)
	}
}

func TestExecuteStoreFaultSurfaces(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	repo.getErr = pkgerrors.New(pkgerrors.CodeStoreUnavailable, "store down")
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, publisher)

	_, err := svc.Execute(context.Background(), Input{UserID: "alice"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store error, got %v", err)
	}
	if publisher.calls != 0 {
		t.Fatal("expected no publish when the store read fails")
	}
}
