package payment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/floral-shop/internal/payment"
)

func TestBuildCheckoutParams(t *testing.T) {
	req := payment.SessionRequest{
		OrderID: 42,
		Items: []payment.LineItem{
			{Name: "Rose Bouquet", UnitPrice: 500, Currency: "usd", Quantity: 2},
			{Name: "Tulips", UnitPrice: 300, Currency: "usd", Quantity: 1},
		},
		SuccessURL: "http://localhost:8080/api/checkout/success",
		CancelURL:  "http://localhost:8080/api/checkout/cancel",
	}

	params := payment.BuildCheckoutParams(req)

	require.Len(t, params.LineItems, 2)
	first := params.LineItems[0]
	assert.Equal(t, "Rose Bouquet", *first.PriceData.ProductData.Name)
	assert.Equal(t, int64(500), *first.PriceData.UnitAmount)
	assert.Equal(t, "usd", *first.PriceData.Currency)
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, int64(1), *params.LineItems[1].Quantity)

	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "42", *params.ClientReferenceID)
	assert.Equal(t, "42", params.Metadata["order_id"])
	assert.Equal(t, req.SuccessURL, *params.SuccessURL)
	assert.Equal(t, req.CancelURL, *params.CancelURL)
}

func TestBuildCheckoutParams_NoItems(t *testing.T) {
	params := payment.BuildCheckoutParams(payment.SessionRequest{OrderID: 1})
	assert.Empty(t, params.LineItems)
	assert.Equal(t, []*string{stringPtr("card")}, params.PaymentMethodTypes)
}

func stringPtr(s string) *string { return &s }
