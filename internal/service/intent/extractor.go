package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopbot/internal/llm"
	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/pkg/log"
	"shopbot/pkg/utils"
)

// Extractor turns free-text messages into structured intents via a single
// model completion call. Extraction never fails outward: every parse or call
// failure collapses to the unknown intent at this boundary, and the call is
// never retried.
type Extractor struct {
	llm llm.Completer
}

// NewExtractor creates an intent extractor
func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{llm: completer}
}

// Extract classifies one message. The returned intent always carries exactly
// one action tag; callers never see an error.
func (e *Extractor) Extract(ctx context.Context, text string) model.Intent {
	raw, err := e.llm.Complete(ctx, llm.RouterPrompt, text)
	if err != nil {
		log.WithError(err).Warn("Model completion failed, falling back to unknown intent")
		monitor.IntentClassified(string(model.ActionUnknown))
		return model.UnknownIntent()
	}

	it, err := ParseIntent(raw)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Debug("Model output did not parse, falling back to unknown intent")
		it = model.UnknownIntent()
	}

	monitor.IntentClassified(string(it.Action))
	return it
}

// ParseIntent parses model output as a self-contained JSON object and
// coerces its fields. It errs only on structurally unusable output (empty,
// non-JSON, non-object); an unrecognised or missing action value yields the
// unknown intent without error. Field values of the wrong type are dropped,
// not coerced, so the validator can answer with a clarification.
func ParseIntent(raw string) (model.Intent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.UnknownIntent(), fmt.Errorf("empty model output")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.UnknownIntent(), fmt.Errorf("model output is not a JSON object: %w", err)
	}

	it := model.UnknownIntent()

	if action, ok := utils.CoerceString(fields["action"]); ok {
		if a := model.Action(action); model.KnownAction(a) {
			it.Action = a
		}
	}

	if v, ok := utils.CoerceString(fields["product_title"]); ok {
		it.ProductTitle = v
	}
	if v, ok := utils.CoerceNumber(fields["new_price"]); ok {
		it.NewPrice = &v
	}
	if v, ok := utils.CoerceString(fields["currency"]); ok {
		it.Currency = v
	}
	if v, ok := utils.CoerceString(fields["discount_code"]); ok {
		it.DiscountCode = v
	}
	if v, ok := utils.CoerceString(fields["discount_type"]); ok {
		it.DiscountType = v
	}
	if v, ok := utils.CoerceNumber(fields["discount_value"]); ok {
		it.DiscountValue = &v
	}
	if v, ok := utils.CoerceString(fields["start_date"]); ok {
		it.StartDate = v
	}
	if v, ok := utils.CoerceString(fields["end_date"]); ok {
		it.EndDate = v
	}
	if v, ok := utils.CoerceString(fields["period"]); ok {
		it.Period = v
	}

	return it, nil
}
