// Package discount resolves per-product coupons applied when a basket is
// updated. Lookups are advisory: callers treat failures as "no discount"
// rather than failing the basket write.
package discount

import (
	"context"

	"github.com/shopspring/decimal"
)

// Coupon is the discount resolved for a single product.
type Coupon struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Lookup resolves the coupon for a product by name.
type Lookup interface {
	Lookup(ctx context.Context, productName string) (Coupon, error)
}
