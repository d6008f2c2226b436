package commerce

import (
	"context"

	"shopbot/internal/config"
	"shopbot/internal/model"
	"shopbot/internal/shopify"
)

// Operations is the commerce facade the dispatcher talks to. Each method is
// a single remote operation in live mode and an in-memory stand-in in mock
// mode. Anticipated business conditions (product not found, rule not
// created) are reported through the result types; errors are reserved for
// remote-call failures.
type Operations interface {
	// FindProductByTitle returns the first matching product, or nil when
	// nothing matches
	FindProductByTitle(ctx context.Context, title string) (*model.Product, error)

	// UpdatePriceByTitle looks a product up by title and sets the price of
	// its first variant
	UpdatePriceByTitle(ctx context.Context, title string, newPrice float64) (*model.PriceUpdate, error)

	// CreateDiscount creates a discount rule and attaches the code to it.
	// startISO/endISO are optional RFC3339 bounds.
	CreateDiscount(ctx context.Context, code, discountType string, value float64, startISO, endISO string) (*model.DiscountResult, error)

	// SummarizeOrders aggregates the orders created in the last N days
	SummarizeOrders(ctx context.Context, days int) (*model.SalesSummary, error)
}

// NewOperations selects the implementation for the configured mode. The
// mode is fixed at construction; nothing reads it from ambient state at
// call time.
func NewOperations(cfg config.CommerceConfig, client *shopify.Client) Operations {
	if cfg.IsLive() {
		return NewLiveOperations(client)
	}
	return NewMockOperations()
}
