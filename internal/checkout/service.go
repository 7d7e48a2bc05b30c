// Package checkout sequences the basket checkout flow: load the cart,
// publish the checkout event, then clear the basket. The basket is only
// deleted after the event is accepted by the bus, so a failed publish
// leaves the cart intact for retry.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/basket-service/internal/basket"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// Input carries the buyer details submitted with a checkout request.
type Input struct {
	UserID          string
	FirstName       string
	LastName        string
	EmailAddress    string
	ShippingAddress string
	CardNumber      string
	CardHolderName  string
	CardExpiration  string
}

// Result reports what the checkout attempt did. CheckedOut false with a nil
// error means there was nothing to check out.
type Result struct {
	CheckedOut bool
	Reason     string
	EventID    string
}

// eventPublisher is the slice of the event bus the service needs.
type eventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) (string, error)
}

// Service executes basket checkouts.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	repo      basket.Repository
	publisher eventPublisher
	logg      *logger.Logger
}

// NewService wires the checkout service.
func NewService(repo basket.Repository, publisher eventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ctx = s.logg.WithUserID(ctx, input.UserID)

	cart, err := s.repo.Get(ctx, input.UserID)
	if pkgerrors.IsNotFound(err) {
		s.logg.Warn(ctx, "checkout requested for missing basket")
		return &Result{CheckedOut: false, Reason: "no basket for user"}, nil
	}
	if err != nil {
		return nil, err
	}

	event := newCheckoutEvent(input, cart)
	eventID, err := s.publisher.Publish(ctx, EventTypeBasketCheckout, input.UserID, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePublishFailure, err, "publishing checkout event")
	}
	ctx = s.logg.WithField(ctx, "event_id", eventID)
	s.logg.Info(ctx, "checkout event published")

	if err := s.repo.Delete(ctx, input.UserID); err != nil {
		// The event is already on the bus. Downstream consumers dedupe on
		// the event ID, so surfacing the failure is safe but the caller
		// must not republish blindly.
		s.logg.Error(ctx, "clearing basket after checkout failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "clearing basket after checkout").
			WithDetails(map[string]any{"event_id": eventID})
	}

	s.logg.Info(ctx, "basket checked out")
	return &Result{CheckedOut: true, EventID: eventID}, nil
}
