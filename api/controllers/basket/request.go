package basket

import (
	"github.com/shopspring/decimal"

	basketsvc "github.com/angelmondragon/basket-service/internal/basket"
	"github.com/angelmondragon/basket-service/internal/checkout"
)

// UpdateBasketRequest replaces the basket for the user in the URL. An empty
// item list clears the basket.
type UpdateBasketRequest struct {
	UserID string              `json:"user_id,omitempty"`
	Items  []BasketItemRequest `json:"items" validate:"dive"`
}

type BasketItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
}

type CheckoutBasketRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	EmailAddress    string `json:"email_address" validate:"required,email"`
	ShippingAddress string `json:"shipping_address" validate:"required"`
	CardNumber      string `json:"card_number" validate:"required"`
	CardHolderName  string `json:"card_holder_name" validate:"required"`
	CardExpiration  string `json:"card_expiration" validate:"required"`
}

func toItemInputs(items []BasketItemRequest) []basketsvc.ItemInput {
	inputs := make([]basketsvc.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, basketsvc.ItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return inputs
}

func toCheckoutInput(payload CheckoutBasketRequest) checkout.Input {
	return checkout.Input{
		UserID:          payload.UserID,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		EmailAddress:    payload.EmailAddress,
		ShippingAddress: payload.ShippingAddress,
		CardNumber:      payload.CardNumber,
		CardHolderName:  payload.CardHolderName,
		CardExpiration:  payload.CardExpiration,
	}
}
