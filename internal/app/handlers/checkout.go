package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/service"
)

// PaymentOutcomeResponse — состояние заказа после возврата из сервиса оплаты
type PaymentOutcomeResponse struct {
	OrderID int64              `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	Message string             `json:"message"`
}

// CheckoutHandler обрабатывает POST /api/checkout.
// Отсутствие пользователя передаётся сервису как id 0, сервис сам решает порядок проверок.
func CheckoutHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		userID, _ := jwtmiddleware.FromContext(r.Context())

		result, err := checkout.BeginCheckout(r.Context(), userID, sessionID)
		if err != nil {
			writeServiceError(w, logger, "checkout failed", err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, result)
	}
}

// PaymentSuccessHandler обрабатывает GET /api/checkout/success
func PaymentSuccessHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return paymentOutcomeHandler(log.With(slog.String("op", "handlers.PaymentSuccessHandler")), checkout, service.PaymentSucceeded)
}

// PaymentCancelHandler обрабатывает GET /api/checkout/cancel
func PaymentCancelHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return paymentOutcomeHandler(log.With(slog.String("op", "handlers.PaymentCancelHandler")), checkout, service.PaymentCanceled)
}

// id заказа берётся из состояния сессии, сохранённого при оформлении
func paymentOutcomeHandler(logger *slog.Logger, checkout service.CheckoutService, outcome service.PaymentOutcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := checkout.PendingOrder(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, logger, "no pending order for session", err)
			return
		}

		order, err := checkout.OnPaymentOutcome(r.Context(), sessionID, orderID, outcome)
		if err != nil {
			writeServiceError(w, logger, "failed to apply payment outcome", err)
			return
		}

		// повторный отчёт возвращает уже сохранённый статус
		msg := "Payment successful, order completed."
		if order.Status == models.OrderStatusCanceled {
			msg = "Payment canceled."
		}
		writeJSON(w, logger, http.StatusOK, PaymentOutcomeResponse{
			OrderID: order.ID,
			Status:  order.Status,
			Message: msg,
		})
	}
}
