package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/internal/model"
)

// fakeCompleter returns a canned response or error
type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return f.response, f.err
}

func TestParseIntent(t *testing.T) {
	t.Run("valid update_price", func(t *testing.T) {
		it, err := ParseIntent(`{"action":"update_price","product_title":"Blue Shirt","new_price":499,"currency":"USD"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionUpdatePrice, it.Action)
		assert.Equal(t, "Blue Shirt", it.ProductTitle)
		require.NotNil(t, it.NewPrice)
		assert.Equal(t, 499.0, *it.NewPrice)
		assert.Equal(t, "USD", it.Currency)
	})

	t.Run("valid create_discount", func(t *testing.T) {
		it, err := ParseIntent(`{"action":"create_discount","discount_code":"SAVE10","discount_type":"percentage","discount_value":10}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionCreateDiscount, it.Action)
		assert.Equal(t, "SAVE10", it.DiscountCode)
		assert.Equal(t, "percentage", it.DiscountType)
		require.NotNil(t, it.DiscountValue)
		assert.Equal(t, 10.0, *it.DiscountValue)
	})

	t.Run("valid sales_summary with period", func(t *testing.T) {
		it, err := ParseIntent(`{"action":"sales_summary","period":"last_30_days"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionSalesSummary, it.Action)
		assert.Equal(t, "last_30_days", it.Period)
	})

	t.Run("numeric string price is dropped, not coerced", func(t *testing.T) {
		it, err := ParseIntent(`{"action":"update_price","product_title":"Blue Shirt","new_price":"499"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionUpdatePrice, it.Action)
		assert.Nil(t, it.NewPrice)
	})

	t.Run("empty output errors", func(t *testing.T) {
		it, err := ParseIntent("   ")
		assert.Error(t, err)
		assert.Equal(t, model.ActionUnknown, it.Action)
	})

	t.Run("non-JSON output errors", func(t *testing.T) {
		it, err := ParseIntent("I cannot determine the action, sorry!")
		assert.Error(t, err)
		assert.Equal(t, model.ActionUnknown, it.Action)
	})

	t.Run("JSON array errors", func(t *testing.T) {
		it, err := ParseIntent(`[{"action":"update_price"}]`)
		assert.Error(t, err)
		assert.Equal(t, model.ActionUnknown, it.Action)
	})

	t.Run("unrecognised action collapses to unknown", func(t *testing.T) {
		it, err := ParseIntent(`{"action":"delete_everything"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionUnknown, it.Action)
	})

	t.Run("missing action collapses to unknown", func(t *testing.T) {
		it, err := ParseIntent(`{"product_title":"Blue Shirt"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ActionUnknown, it.Action)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Run("successful extraction", func(t *testing.T) {
		e := NewExtractor(&fakeCompleter{response: `{"action":"sales_summary","period":"last_7_days"}`})

		it := e.Extract(context.Background(), "how are sales going")
		assert.Equal(t, model.ActionSalesSummary, it.Action)
		assert.Equal(t, "last_7_days", it.Period)
	})

	t.Run("completion error falls back to unknown", func(t *testing.T) {
		e := NewExtractor(&fakeCompleter{err: errors.New("upstream 503")})

		it := e.Extract(context.Background(), "update the price")
		assert.Equal(t, model.ActionUnknown, it.Action)
	})

	t.Run("unparsable output falls back to unknown", func(t *testing.T) {
		e := NewExtractor(&fakeCompleter{response: "sure, here is the JSON you asked for"})

		it := e.Extract(context.Background(), "update the price")
		assert.Equal(t, model.ActionUnknown, it.Action)
	})
}
