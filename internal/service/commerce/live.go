package commerce

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/internal/shopify"
	"shopbot/pkg/utils"
)

// LiveOperations runs commerce operations against the Shopify admin API.
// No retries: a failed call surfaces once and affects only the current
// message.
type LiveOperations struct {
	client *shopify.Client
	now    func() time.Time
}

// NewLiveOperations creates the live facade
func NewLiveOperations(client *shopify.Client) *LiveOperations {
	return &LiveOperations{
		client: client,
		now:    time.Now,
	}
}

// FindProductByTitle performs a server-side title search and returns the
// first of up to 5 candidates
func (o *LiveOperations) FindProductByTitle(ctx context.Context, title string) (*model.Product, error) {
	var resp struct {
		Products []model.Product `json:"products"`
	}
	path := fmt.Sprintf("products.json?title=%s&limit=5", url.QueryEscape(title))
	if err := o.client.Get(ctx, path, &resp); err != nil {
		monitor.CommerceOp("find_product", "error")
		return nil, utils.WrapError(err, utils.CodeShopifyError, "product search failed")
	}
	if len(resp.Products) == 0 {
		monitor.CommerceOp("find_product", "not_found")
		return nil, nil
	}
	monitor.CommerceOp("find_product", "ok")
	return &resp.Products[0], nil
}

// UpdatePriceByTitle updates the first variant of the matched product
func (o *LiveOperations) UpdatePriceByTitle(ctx context.Context, title string, newPrice float64) (*model.PriceUpdate, error) {
	product, err := o.FindProductByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &model.PriceUpdate{Status: model.PriceProductNotFound, Title: title}, nil
	}
	if len(product.Variants) == 0 {
		return &model.PriceUpdate{Status: model.PriceNoVariants, Title: product.Title}, nil
	}

	variantID := product.Variants[0].ID
	body := map[string]interface{}{
		"variant": map[string]interface{}{
			"id":    variantID,
			"price": decimal.NewFromFloat(newPrice).String(),
		},
	}
	if err := o.client.Put(ctx, fmt.Sprintf("variants/%d.json", variantID), body, nil); err != nil {
		monitor.CommerceOp("update_price", "error")
		return nil, utils.WrapError(err, utils.CodeShopifyError, "variant update failed")
	}

	monitor.CommerceOp("update_price", "ok")
	return &model.PriceUpdate{
		Status: model.PriceUpdated,
		Title:  product.Title,
		Price:  newPrice,
	}, nil
}

// CreateDiscount creates a price rule, then attaches the code to it. The
// whole operation fails when the first call yields no rule identifier.
func (o *LiveOperations) CreateDiscount(ctx context.Context, code, discountType string, value float64, startISO, endISO string) (*model.DiscountResult, error) {
	valueType := "fixed_amount"
	if discountType == model.DiscountTypePercentage {
		valueType = "percentage"
	}

	startsAt := startISO
	if startsAt == "" {
		startsAt = utils.FormatISO(o.now().UTC())
	}

	var endsAt *string
	if endISO != "" {
		endsAt = &endISO
	}

	ruleBody := map[string]interface{}{
		"price_rule": model.PriceRule{
			Title:             "Rule-" + code,
			TargetType:        "line_item",
			TargetSelection:   "all",
			AllocationMethod:  "across",
			ValueType:         valueType,
			Value:             decimal.NewFromFloat(-value).String(),
			CustomerSelection: "all",
			StartsAt:          startsAt,
			EndsAt:            endsAt,
		},
	}

	var ruleResp struct {
		PriceRule model.PriceRule `json:"price_rule"`
	}
	if err := o.client.Post(ctx, "price_rules.json", ruleBody, &ruleResp); err != nil {
		monitor.CommerceOp("create_discount", "error")
		return nil, utils.WrapError(err, utils.CodeShopifyError, "price rule creation failed")
	}
	if ruleResp.PriceRule.ID == 0 {
		monitor.CommerceOp("create_discount", "no_rule")
		return &model.DiscountResult{Created: false, Code: code}, nil
	}

	codeBody := map[string]interface{}{
		"discount_code": model.DiscountCode{Code: code},
	}
	path := fmt.Sprintf("price_rules/%d/discount_codes.json", ruleResp.PriceRule.ID)
	if err := o.client.Post(ctx, path, codeBody, nil); err != nil {
		monitor.CommerceOp("create_discount", "error")
		return nil, utils.WrapError(err, utils.CodeShopifyError, "discount code attach failed")
	}

	// Code only; the mock variant echoes the full terms back.
	monitor.CommerceOp("create_discount", "ok")
	return &model.DiscountResult{
		Created: true,
		Code:    code,
	}, nil
}

// SummarizeOrders fetches orders created within the window (page size 250)
// and sums their total price as a decimal. Missing or malformed totals count
// as zero.
func (o *LiveOperations) SummarizeOrders(ctx context.Context, days int) (*model.SalesSummary, error) {
	since := utils.DaysAgoISO(o.now(), days)
	path := fmt.Sprintf("orders.json?status=any&created_at_min=%s&limit=250", url.QueryEscape(since))

	var resp struct {
		Orders []model.Order `json:"orders"`
	}
	if err := o.client.Get(ctx, path, &resp); err != nil {
		monitor.CommerceOp("sales_summary", "error")
		return nil, utils.WrapError(err, utils.CodeShopifyError, "order fetch failed")
	}

	total := decimal.Zero
	for _, order := range resp.Orders {
		if order.TotalPrice == "" {
			continue
		}
		d, err := decimal.NewFromString(order.TotalPrice)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}

	monitor.CommerceOp("sales_summary", "ok")
	return &model.SalesSummary{
		Days:  days,
		Count: len(resp.Orders),
		Total: total,
	}, nil
}

var _ Operations = (*LiveOperations)(nil)
