package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linemk/floral-shop/internal/app/handlers"
	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/service"
	"github.com/linemk/floral-shop/internal/storage"
	"github.com/stretchr/testify/assert"
)

// memOrders — заказы в памяти для сквозной проверки обработчиков оплаты
type memOrders struct {
	orders map[int64]*models.Order
}

var _ storage.OrderStorage = (*memOrders)(nil)

func (m *memOrders) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	return 0, nil
}

func (m *memOrders) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	return nil
}

func (m *memOrders) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) ListOrders(ctx context.Context) ([]*models.Order, error) { return nil, nil }

func (m *memOrders) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	return nil, nil
}

func (m *memOrders) ListItemsForOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	return nil, nil
}

func (m *memOrders) UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

type memSessions struct {
	carts   map[string]*models.Cart
	pending map[string]int64
}

var _ storage.SessionStorage = (*memSessions)(nil)

func (m *memSessions) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return &models.Cart{}, nil
}

func (m *memSessions) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	m.carts[sessionID] = cart
	return nil
}

func (m *memSessions) DeleteCart(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

func (m *memSessions) SetPendingOrder(ctx context.Context, sessionID string, orderID int64) error {
	m.pending[sessionID] = orderID
	return nil
}

func (m *memSessions) GetPendingOrder(ctx context.Context, sessionID string) (int64, error) {
	id, ok := m.pending[sessionID]
	if !ok {
		return 0, storage.ErrNoPendingOrder
	}
	return id, nil
}

func (m *memSessions) ClearPendingOrder(ctx context.Context, sessionID string) error {
	delete(m.pending, sessionID)
	return nil
}

func (m *memSessions) AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

func (m *memSessions) DeleteSession(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	delete(m.pending, sessionID)
	return nil
}

func newCallbackFixture() (*memOrders, *memSessions, service.CheckoutService) {
	orders := &memOrders{orders: map[int64]*models.Order{
		1: {ID: 1, UserID: 7, Total: 1300, Status: models.OrderStatusPending},
	}}
	sessions := &memSessions{
		carts:   map[string]*models.Cart{"sid-1": {Lines: []models.CartLine{{ProductID: 1, Name: "Rose", UnitPrice: 500, Quantity: 2}}}},
		pending: map[string]int64{"sid-1": 1},
	}
	checkout := service.NewCheckoutService(testLogger(), nil, orders, sessions, nil, service.CheckoutConfig{})
	return orders, sessions, checkout
}

func callOutcome(t *testing.T, h http.Handler, path string) handlers.PaymentOutcomeResponse {
	t.Helper()
	req := withSession(httptest.NewRequest(http.MethodGet, path, nil), 7, "sid-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handlers.PaymentOutcomeResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestPaymentSuccessHandler_RepeatedReportIsNoOp(t *testing.T) {
	orders, sessions, checkout := newCallbackFixture()
	success := handlers.PaymentSuccessHandler(testLogger(), checkout)

	resp := callOutcome(t, success, "/api/checkout/success")
	assert.Equal(t, models.OrderStatusComplete, resp.Status)
	assert.Empty(t, sessions.carts)

	// перезагрузка страницы успеха
	sessions.carts["sid-1"] = &models.Cart{Lines: []models.CartLine{{ProductID: 2, Quantity: 1}}}
	resp = callOutcome(t, success, "/api/checkout/success")
	assert.Equal(t, int64(1), resp.OrderID)
	assert.Equal(t, models.OrderStatusComplete, resp.Status)
	assert.Len(t, sessions.carts, 1, "repeat report must not clear a new cart")
	assert.Equal(t, models.OrderStatusComplete, orders.orders[1].Status)
}

func TestPaymentHandlers_SuccessAfterCancelIsNoOp(t *testing.T) {
	orders, sessions, checkout := newCallbackFixture()

	resp := callOutcome(t, handlers.PaymentCancelHandler(testLogger(), checkout), "/api/checkout/cancel")
	assert.Equal(t, models.OrderStatusCanceled, resp.Status)
	assert.Len(t, sessions.carts, 1, "cancel keeps the cart")

	resp = callOutcome(t, handlers.PaymentSuccessHandler(testLogger(), checkout), "/api/checkout/success")
	assert.Equal(t, models.OrderStatusCanceled, resp.Status)
	assert.Equal(t, models.OrderStatusCanceled, orders.orders[1].Status)
	assert.Len(t, sessions.carts, 1)
}
