package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/service"
)

// ListOrdersHandler обрабатывает GET /api/orders — заказы текущего пользователя
func ListOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := orders.ListUserOrders(r.Context(), userID)
		if err != nil {
			writeServiceError(w, logger, "failed to list orders", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// OrderDetailsHandler обрабатывает GET /api/orders/{id}
func OrderDetailsHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderDetailsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		orderID, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		details, err := orders.GetOrderDetails(r.Context(), userID, orderID)
		if err != nil {
			writeServiceError(w, logger, "failed to get order", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, details)
	}
}
