package domain

import "context"

// InvestmentRepository is the persistence contract for investment records.
// Every operation is scoped to the owning user; id-scoped operations on rows
// outside that scope return ErrNotFound. All methods accept context.Context
// for timeout handling and cancellation propagation.
type InvestmentRepository interface {
	// ListAll returns the user's investments ordered by purchase date
	// descending. Ordering is a display convenience, not a correctness
	// requirement for valuation.
	ListAll(ctx context.Context, userID string) ([]Investment, error)
	FindByID(ctx context.Context, userID, id string) (*Investment, error)
	// Add persists a new record and fills in the server-assigned id.
	Add(ctx context.Context, userID string, inv *Investment) error
	Update(ctx context.Context, userID string, inv *Investment) error
	Delete(ctx context.Context, userID, id string) error
	ClearAll(ctx context.Context, userID string) error
}

// AssetRef identifies a priceable asset independent of who holds it.
type AssetRef struct {
	Class    AssetClass
	MarketID string
}

// AssetLister enumerates the distinct assets referenced by any stored
// investment, across all users. Used by the quote warmer to keep the price
// cache hot; not part of the user-facing repository contract.
type AssetLister interface {
	ListAssets(ctx context.Context) ([]AssetRef, error)
}
