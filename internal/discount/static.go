package discount

import (
	"context"
	"strings"
)

// StaticLookup answers from an in-memory table. It backs local development
// and deployments without a discount service; unknown products get a zero
// coupon.
type StaticLookup struct {
	coupons map[string]Coupon
}

// NewStaticLookup builds a lookup over the given table. Product names are
// matched case-insensitively. A nil table yields zero coupons for everything.
func NewStaticLookup(coupons map[string]Coupon) *StaticLookup {
	table := make(map[string]Coupon, len(coupons))
	for name, coupon := range coupons {
		table[strings.ToLower(name)] = coupon
	}
	return &StaticLookup{coupons: table}
}

func (s *StaticLookup) Lookup(_ context.Context, productName string) (Coupon, error) {
	if coupon, ok := s.coupons[strings.ToLower(productName)]; ok {
		return coupon, nil
	}
	return Coupon{Description: "no discount"}, nil
}
