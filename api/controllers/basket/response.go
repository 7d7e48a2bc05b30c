package basket

import (
	"github.com/shopspring/decimal"

	basketsvc "github.com/angelmondragon/basket-service/internal/basket"
)

// BasketResponse is the wire shape of a cart. The total is recomputed from
// the lines at render time.
type BasketResponse struct {
	UserID     string               `json:"user_id"`
	Items      []BasketItemResponse `json:"items"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

type BasketItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type CheckoutResponse struct {
	CheckedOut bool   `json:"checked_out"`
	EventID    string `json:"event_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func newBasketResponse(cart *basketsvc.Cart) BasketResponse {
	items := make([]BasketItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, BasketItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}
	return BasketResponse{
		UserID:     cart.UserID,
		Items:      items,
		TotalPrice: cart.TotalPrice(),
	}
}
