package intent

import (
	"strings"

	"shopbot/internal/model"
)

// Validation is the result of checking an intent's required fields
type Validation struct {
	OK            bool
	Clarification string
}

// Clarification messages carry a worked example for the missing fields
const (
	ClarifyUpdatePrice    = "I need the product name and new price. Example. Update price of Blue Shirt to 499"
	ClarifyCreateDiscount = "I need a code and a discount. Example. Create discount code SAVE10 for 10 percent"
)

// Validate checks the per-action required fields. It is pure: no network
// calls, no side effects. sales_summary has no required fields and unknown
// is never individually validated; both pass through.
func Validate(it model.Intent) Validation {
	switch it.Action {
	case model.ActionUpdatePrice:
		if strings.TrimSpace(it.ProductTitle) == "" || it.NewPrice == nil {
			return Validation{Clarification: ClarifyUpdatePrice}
		}
	case model.ActionCreateDiscount:
		if it.DiscountCode == "" || it.DiscountType == "" || it.DiscountValue == nil {
			return Validation{Clarification: ClarifyCreateDiscount}
		}
	}
	return Validation{OK: true}
}
