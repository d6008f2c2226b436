package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is a purchasable unit of a product carrying its own price.
// Shopify serialises prices as decimal strings.
type Variant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

// Product as returned by the Shopify admin API
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

// PriceRule is a Shopify discount definition. Value carries a signed
// magnitude; a reduction is negative (e.g. "-10.0").
type PriceRule struct {
	ID                int64   `json:"id,omitempty"`
	Title             string  `json:"title"`
	TargetType        string  `json:"target_type"`
	TargetSelection   string  `json:"target_selection"`
	AllocationMethod  string  `json:"allocation_method"`
	ValueType         string  `json:"value_type"` // percentage, fixed_amount
	Value             string  `json:"value"`
	CustomerSelection string  `json:"customer_selection"`
	StartsAt          string  `json:"starts_at"`
	EndsAt            *string `json:"ends_at"`
}

// DiscountCode is a redeemable code attached to exactly one price rule
type DiscountCode struct {
	ID   int64  `json:"id,omitempty"`
	Code string `json:"code"`
}

// Order is the slice of a Shopify order the sales summary needs
type Order struct {
	ID         int64  `json:"id"`
	TotalPrice string `json:"total_price"`
}

// PriceUpdateStatus enumerates the anticipated outcomes of a price update
type PriceUpdateStatus int

const (
	PriceUpdated PriceUpdateStatus = iota
	PriceProductNotFound
	PriceNoVariants
)

// PriceUpdate is the result of a price update operation. Title holds the
// matched product title on success, the requested title otherwise.
type PriceUpdate struct {
	Status PriceUpdateStatus
	Title  string
	Price  float64
}

// DiscountResult is the result of a discount creation operation
type DiscountResult struct {
	Created  bool
	Code     string
	Type     string
	Value    float64
	StartsAt time.Time
	EndsAt   time.Time
}

// SalesSummary aggregates the orders created within a window. Derived per
// request, never stored.
type SalesSummary struct {
	Days  int
	Count int
	Total decimal.Decimal
}
