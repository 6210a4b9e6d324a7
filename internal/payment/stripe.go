// Package payment создаёт платёжные сессии во внешнем сервисе оплаты.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// LineItem — позиция, передаваемая в сервис оплаты по значению, а не ссылкой на товар.
type LineItem struct {
	Name      string
	UnitPrice int64 // в центах
	Currency  string
	Quantity  int64
}

// SessionRequest — запрос на создание платёжной сессии.
type SessionRequest struct {
	OrderID    int64
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

// Session — непрозрачный идентификатор сессии и адрес для редиректа пользователя.
type Session struct {
	ID  string
	URL string
}

// StripeGateway создаёт Checkout Session в Stripe.
type StripeGateway struct {
	log    *slog.Logger
	client *session.Client
}

// NewStripeGateway настраивает клиент Stripe с ограничением времени на запрос.
// Повторы отключены: неудачный вызов откатывает заказ целиком.
func NewStripeGateway(log *slog.Logger, secretKey string, timeout time.Duration) *StripeGateway {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	})
	return &StripeGateway{
		log:    log,
		client: &session.Client{B: backend, Key: secretKey},
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	const op = "payment.StripeGateway.CreateSession"
	logger := g.log.With(slog.String("op", op), slog.Int64("orderID", req.OrderID))

	params := BuildCheckoutParams(req)
	params.Context = ctx

	s, err := g.client.New(params)
	if err != nil {
		logger.Error("failed to create checkout session", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("checkout session created", slog.String("sessionID", s.ID))
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// BuildCheckoutParams переводит запрос в параметры Stripe Checkout.
func BuildCheckoutParams(req SessionRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(item.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitPrice),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	orderID := strconv.FormatInt(req.OrderID, 10)
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		ClientReferenceID:  stripe.String(orderID),
	}
	params.AddMetadata("order_id", orderID)
	return params
}
