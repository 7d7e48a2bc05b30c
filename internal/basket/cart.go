package basket

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
)

// Cart is the per-user basket aggregate. Items are keyed by product ID;
// adding an existing product merges quantities instead of appending a
// duplicate line.
type Cart struct {
	UserID string      `json:"user_id"`
	Items  []*CartItem `json:"items"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID string) *Cart {
	return &Cart{
		UserID: userID,
		Items:  []*CartItem{},
	}
}

// AddItem merges the item into the cart. When a line with the same product ID
// already exists its quantity is increased and the existing unit price is
// kept; otherwise the item is appended.
func (c *Cart) AddItem(item *CartItem) {
	if item == nil {
		return
	}
	for _, existing := range c.Items {
		if existing.ProductID == item.ProductID {
			// Quantities from NewCartItem are positive, so this cannot fail.
			_ = existing.IncreaseQuantity(item.Quantity)
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem drops the line for the given product ID. Removing an absent
// product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i, existing := range c.Items {
		if existing.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Item returns the line for the given product ID, if present.
func (c *Cart) Item(productID string) (*CartItem, bool) {
	for _, existing := range c.Items {
		if existing.ProductID == productID {
			return existing, true
		}
	}
	return nil, false
}

// TotalPrice is derived from the current lines on every call. It is never
// stored, so a stale persisted total cannot exist.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartItem is a single product line inside a cart.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// NewCartItem validates and builds a cart line. Quantity must be positive
// and the unit price non-negative.
func NewCartItem(productID, productName string, unitPrice decimal.Decimal, quantity int) (*CartItem, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	return &CartItem{
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

// IncreaseQuantity raises the line quantity by amount.
func (i *CartItem) IncreaseQuantity(amount int) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "increase amount must not be negative")
	}
	i.Quantity += amount
	return nil
}

// DecreaseQuantity lowers the line quantity by amount, clamping at zero.
func (i *CartItem) DecreaseQuantity(amount int) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "decrease amount must not be negative")
	}
	i.Quantity -= amount
	if i.Quantity < 0 {
		i.Quantity = 0
	}
	return nil
}

// SetPrice replaces the unit price, rejecting negative values.
func (i *CartItem) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	i.UnitPrice = price
	return nil
}

// LineTotal is unit price times quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
