package basket

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/basket-service/internal/discount"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// ItemInput is one requested basket line.
type ItemInput struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Service is the basket application surface used by the HTTP handlers and
// the checkout flow.
type Service interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Update(ctx context.Context, userID string, items []ItemInput) (*Cart, error)
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo      Repository
	discounts discount.Lookup
	logg      *logger.Logger
}

// NewService wires the basket service.
func NewService(repo Repository, discounts discount.Lookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if discounts == nil {
		return nil, errors.New("discount lookup is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, discounts: discounts, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.Get(ctx, userID)
}

// Update rebuilds the cart from the requested lines, applies discounts and
// stores the result. The stored cart replaces any prior state for the user.
func (s *service) Update(ctx context.Context, userID string, items []ItemInput) (*Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart := NewCart(userID)
	for _, input := range items {
		item, err := NewCartItem(input.ProductID, input.ProductName, input.UnitPrice, input.Quantity)
		if err != nil {
			return nil, err
		}
		s.applyDiscount(ctx, item)
		cart.AddItem(item)
	}

	return s.repo.Put(ctx, cart)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.Delete(ctx, userID)
}

// applyDiscount subtracts the product coupon from the unit price, flooring
// at zero. Lookup failures leave the price untouched; an unavailable
// discount service must not block basket writes.
func (s *service) applyDiscount(ctx context.Context, item *CartItem) {
	coupon, err := s.discounts.Lookup(ctx, item.ProductName)
	if err != nil {
		s.logg.Warn(
			s.logg.WithField(ctx, "product_name", item.ProductName),
			"discount lookup failed, keeping original price",
		)
		return
	}
	if !coupon.Amount.IsPositive() {
		return
	}

	discounted := item.UnitPrice.Sub(coupon.Amount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	item.UnitPrice = discounted
}
