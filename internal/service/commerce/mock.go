package commerce

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/pkg/utils"
)

// Catalog is the in-memory product store backing mock mode. All access goes
// through its methods under one mutex so concurrent handlers stay
// deterministic in tests.
type Catalog struct {
	mu       sync.Mutex
	products []model.Product
}

// NewCatalog seeds the fixed mock catalog
func NewCatalog() *Catalog {
	return &Catalog{
		products: []model.Product{
			{ID: 1111, Title: "Blue Shirt", Variants: []model.Variant{{ID: 1001, Price: "399.00"}}},
			{ID: 1112, Title: "Red Hoodie", Variants: []model.Variant{{ID: 1002, Price: "799.00"}}},
			{ID: 1113, Title: "Green Cap", Variants: []model.Variant{{ID: 1003, Price: "199.00"}}},
		},
	}
}

// Find matches by exact title first, then by substring, both
// case-insensitive. Returns a copy so callers cannot mutate the store.
func (c *Catalog) Find(title string) *model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	needle := strings.ToLower(title)
	for i := range c.products {
		if strings.ToLower(c.products[i].Title) == needle {
			p := c.products[i]
			return &p
		}
	}
	for i := range c.products {
		if strings.Contains(strings.ToLower(c.products[i].Title), needle) {
			p := c.products[i]
			return &p
		}
	}
	return nil
}

// SetPrice updates the first variant of the matched product and returns the
// matched title, or false when nothing matches
func (c *Catalog) SetPrice(title string, price string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	needle := strings.ToLower(title)
	match := -1
	for i := range c.products {
		if strings.ToLower(c.products[i].Title) == needle {
			match = i
			break
		}
	}
	if match < 0 {
		for i := range c.products {
			if strings.Contains(strings.ToLower(c.products[i].Title), needle) {
				match = i
				break
			}
		}
	}
	if match < 0 {
		return "", false
	}
	if len(c.products[match].Variants) == 0 {
		return c.products[match].Title, false
	}
	c.products[match].Variants[0].Price = price
	return c.products[match].Title, true
}

// MockOperations simulates every commerce operation in memory. Intended for
// local testing only.
type MockOperations struct {
	catalog *Catalog
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockOperations creates the mock facade with a seeded catalog
func NewMockOperations() *MockOperations {
	return &MockOperations{
		catalog: NewCatalog(),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FindProductByTitle matches against the in-memory catalog
func (o *MockOperations) FindProductByTitle(ctx context.Context, title string) (*model.Product, error) {
	p := o.catalog.Find(title)
	if p == nil {
		monitor.CommerceOp("find_product", "not_found")
		return nil, nil
	}
	monitor.CommerceOp("find_product", "ok")
	return p, nil
}

// UpdatePriceByTitle mutates the catalog entry directly
func (o *MockOperations) UpdatePriceByTitle(ctx context.Context, title string, newPrice float64) (*model.PriceUpdate, error) {
	p := o.catalog.Find(title)
	if p == nil {
		monitor.CommerceOp("update_price", "not_found")
		return &model.PriceUpdate{Status: model.PriceProductNotFound, Title: title}, nil
	}
	if len(p.Variants) == 0 {
		monitor.CommerceOp("update_price", "no_variants")
		return &model.PriceUpdate{Status: model.PriceNoVariants, Title: p.Title}, nil
	}

	matched, ok := o.catalog.SetPrice(title, decimal.NewFromFloat(newPrice).String())
	if !ok {
		monitor.CommerceOp("update_price", "no_variants")
		return &model.PriceUpdate{Status: model.PriceNoVariants, Title: matched}, nil
	}

	monitor.CommerceOp("update_price", "ok")
	return &model.PriceUpdate{
		Status: model.PriceUpdated,
		Title:  matched,
		Price:  newPrice,
	}, nil
}

// CreateDiscount synthesizes a confirmation with default start = now and
// default end = now + 7 days
func (o *MockOperations) CreateDiscount(ctx context.Context, code, discountType string, value float64, startISO, endISO string) (*model.DiscountResult, error) {
	now := o.now()
	start := now
	if startISO != "" {
		if t, err := utils.ParseISO(startISO); err == nil {
			start = t
		}
	}
	end := now.Add(7 * 24 * time.Hour)
	if endISO != "" {
		if t, err := utils.ParseISO(endISO); err == nil {
			end = t
		}
	}

	monitor.CommerceOp("create_discount", "ok")
	return &model.DiscountResult{
		Created:  true,
		Code:     code,
		Type:     discountType,
		Value:    value,
		StartsAt: start,
		EndsAt:   end,
	}, nil
}

// SummarizeOrders synthesizes believable numbers. Two calls with the same
// window produce independent results; nothing is memoized.
func (o *MockOperations) SummarizeOrders(ctx context.Context, days int) (*model.SalesSummary, error) {
	o.mu.Lock()
	count := o.rng.Intn(30) + 5
	perOrder := o.rng.Float64()*100 + 50
	o.mu.Unlock()

	total := decimal.NewFromFloat(float64(count) * perOrder).Round(2)

	monitor.CommerceOp("sales_summary", "ok")
	return &model.SalesSummary{
		Days:  days,
		Count: count,
		Total: total,
	}, nil
}

var _ Operations = (*MockOperations)(nil)
