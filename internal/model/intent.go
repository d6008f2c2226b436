package model

// Action is the classified user intent kind
type Action string

const (
	ActionUpdatePrice    Action = "update_price"
	ActionCreateDiscount Action = "create_discount"
	ActionSalesSummary   Action = "sales_summary"
	ActionUnknown        Action = "unknown"
)

// KnownAction reports whether a is one of the closed action set
func KnownAction(a Action) bool {
	switch a {
	case ActionUpdatePrice, ActionCreateDiscount, ActionSalesSummary, ActionUnknown:
		return true
	}
	return false
}

// Discount value types accepted from the model
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeAmount     = "amount"
)

// Intent is the structured extraction result for one inbound message.
// Numeric fields are pointers so a missing value is distinguishable from
// zero; they are only set when the model returned a true JSON number.
// An Intent is created fresh per message and discarded after dispatch.
type Intent struct {
	Action        Action   `json:"action"`
	ProductTitle  string   `json:"product_title,omitempty"`
	NewPrice      *float64 `json:"new_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	DiscountCode  string   `json:"discount_code,omitempty"`
	DiscountType  string   `json:"discount_type,omitempty"`
	DiscountValue *float64 `json:"discount_value,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Period        string   `json:"period,omitempty"`
}

// UnknownIntent returns the universal fallback intent
func UnknownIntent() Intent {
	return Intent{Action: ActionUnknown}
}
