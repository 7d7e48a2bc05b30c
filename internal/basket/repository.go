package basket

import "context"

// Repository is the persistence contract shared by the store adapters and
// every decorator. Callers always compose against this interface, so the
// caching, logging and metrics layers can wrap any store interchangeably.
type Repository interface {
	// Get loads the cart for a user. A missing basket surfaces as a
	// not-found error, never as a nil cart with a nil error.
	Get(ctx context.Context, userID string) (*Cart, error)

	// Put persists the full cart for its user, replacing any prior state,
	// and returns the stored aggregate.
	Put(ctx context.Context, cart *Cart) (*Cart, error)

	// Delete removes the cart. Deleting an absent basket is not an error.
	Delete(ctx context.Context, userID string) error
}
