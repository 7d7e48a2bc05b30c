package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/basket-service/internal/basket"
)

// EventTypeBasketCheckout labels the event emitted when a basket checks out.
const EventTypeBasketCheckout = "basket.checkout"

// BasketCheckoutEvent is the payload published for downstream order
// processing. The total is computed from the live cart at publish time.
type BasketCheckoutEvent struct {
	UserID          string              `json:"user_id"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	FirstName       string              `json:"first_name"`
	LastName        string              `json:"last_name"`
	EmailAddress    string              `json:"email_address"`
	ShippingAddress string              `json:"shipping_address"`
	CardNumber      string              `json:"card_number"`
	CardHolderName  string              `json:"card_holder_name"`
	CardExpiration  string              `json:"card_expiration"`
	Items           []CheckoutItemEvent `json:"items"`
}

// CheckoutItemEvent is one basket line inside the checkout payload.
type CheckoutItemEvent struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

func newCheckoutEvent(input Input, cart *basket.Cart) BasketCheckoutEvent {
	items := make([]CheckoutItemEvent, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CheckoutItemEvent{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return BasketCheckoutEvent{
		UserID:          cart.UserID,
		TotalPrice:      cart.TotalPrice(),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		EmailAddress:    input.EmailAddress,
		ShippingAddress: input.ShippingAddress,
		CardNumber:      input.CardNumber,
		CardHolderName:  input.CardHolderName,
		CardExpiration:  input.CardExpiration,
		Items:           items,
	}
}
