package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/internal/service/commerce"
	"shopbot/internal/service/intent"
	"shopbot/pkg/log"
	"shopbot/pkg/utils"
)

// Reply texts for the fallback and failure paths
const (
	ReplyApology     = "Sorry something went wrong. Try again"
	ReplyCapability  = "I can update product prices, create discounts, or show sales. Try one of those."
	ReplyPriceHint   = "Try this. Update price of Exact Product Title to 499"
	ReplyCouponHint  = "Try this. Create discount code SAVE10 for 10 percent"
	ReplySalesHint   = "Try this. Show sales summary for last 7 days"
	ReplyRuleFailure = "Could not create discount rule"
)

// Dispatcher routes one classified intent to exactly one commerce operation
// and always produces exactly one reply per non-empty message. Remote
// failures are caught here, at the outermost boundary, and converted to a
// single apology.
type Dispatcher struct {
	extractor *intent.Extractor
	ops       commerce.Operations
}

// NewDispatcher creates a dispatcher
func NewDispatcher(extractor *intent.Extractor, ops commerce.Operations) *Dispatcher {
	return &Dispatcher{
		extractor: extractor,
		ops:       ops,
	}
}

// HandleText processes one inbound message end to end and returns the reply
// text. Empty and whitespace-only messages return "" and must not be
// replied to.
func (d *Dispatcher) HandleText(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	it := d.extractor.Extract(ctx, text)

	reply, err := d.dispatch(ctx, it, text)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"action": string(it.Action),
			"code":   int(utils.GetErrorCode(err)),
			"error":  utils.GetErrorMessage(err),
		}).Error("Dispatch failed")
		monitor.ReplySent("error")
		return ReplyApology
	}

	monitor.ReplySent("ok")
	return reply
}

// dispatch routes a validated intent. Terminal on first match; only remote
// failures escape as errors.
func (d *Dispatcher) dispatch(ctx context.Context, it model.Intent, rawText string) (string, error) {
	if v := intent.Validate(it); !v.OK {
		return v.Clarification, nil
	}

	switch it.Action {
	case model.ActionUpdatePrice:
		return d.updatePrice(ctx, it)
	case model.ActionCreateDiscount:
		return d.createDiscount(ctx, it)
	case model.ActionSalesSummary:
		return d.salesSummary(ctx, it)
	default:
		return keywordHint(rawText), nil
	}
}

func (d *Dispatcher) updatePrice(ctx context.Context, it model.Intent) (string, error) {
	res, err := d.ops.UpdatePriceByTitle(ctx, it.ProductTitle, *it.NewPrice)
	if err != nil {
		return "", err
	}

	switch res.Status {
	case model.PriceProductNotFound:
		return fmt.Sprintf("Could not find a product named %s", res.Title), nil
	case model.PriceNoVariants:
		return fmt.Sprintf("No variants found for %s", res.Title), nil
	default:
		return fmt.Sprintf("Done. %s price is now %s", res.Title, formatNumber(res.Price)), nil
	}
}

func (d *Dispatcher) createDiscount(ctx context.Context, it model.Intent) (string, error) {
	res, err := d.ops.CreateDiscount(ctx, it.DiscountCode, it.DiscountType, *it.DiscountValue, it.StartDate, it.EndDate)
	if err != nil {
		return "", err
	}
	if !res.Created {
		return ReplyRuleFailure, nil
	}

	// Live results carry only the code; the mock echoes the full terms back.
	reply := fmt.Sprintf("Discount code %s created", res.Code)
	if res.Type != "" {
		reply += fmt.Sprintf(". Type %s. Value %s", res.Type, formatNumber(res.Value))
	}
	if !res.EndsAt.IsZero() {
		reply += fmt.Sprintf(". Ends %s", res.EndsAt.Format(utils.DateFormat))
	}
	return reply, nil
}

func (d *Dispatcher) salesSummary(ctx context.Context, it model.Intent) (string, error) {
	days := ResolveWindowDays(it.Period)
	s, err := d.ops.SummarizeOrders(ctx, days)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sales last %d days. Orders %d. Revenue %s",
		s.Days, s.Count, s.Total.StringFixed(2)), nil
}

// ResolveWindowDays picks the summary window from the period token: any
// token containing "30" means 30 days, everything else defaults to 7.
func ResolveWindowDays(period string) int {
	if strings.Contains(period, "30") {
		return 30
	}
	return 7
}

// keywordHint matches the raw text against simple vocabularies and returns
// the closest worked example, or the generic capability summary
func keywordHint(text string) string {
	lower := strings.ToLower(text)

	if containsAny(lower, "price", "cost") {
		return ReplyPriceHint
	}
	if containsAny(lower, "discount", "coupon", "code") {
		return ReplyCouponHint
	}
	if containsAny(lower, "sales", "revenue", "summary", "report") {
		return ReplySalesHint
	}
	return ReplyCapability
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// formatNumber renders a float the way the user typed it: no trailing zeros
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
