package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/service"
)

// AddToCartRequest — товар и количество. Количество проверяется сервисом,
// чтобы ошибка была одной и той же для 0, отрицательных и слишком больших значений.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// CartResponse — содержимое корзины с итоговой суммой
type CartResponse struct {
	Items []models.CartLine `json:"items"`
	Total int64             `json:"total"`
}

func cartResponse(lines []models.CartLine) CartResponse {
	cart := models.Cart{Lines: lines}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return CartResponse{Items: cart.Lines, Total: cart.Total()}
}

// GetCartHandler обрабатывает GET /api/cart
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		lines, err := cartService.List(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, logger, "failed to list cart", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cartResponse(lines))
	}
}

// AddToCartHandler обрабатывает POST /api/cart/items
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		cart, err := cartService.Add(r.Context(), sessionID, req.ProductID, req.Quantity)
		if err != nil {
			writeServiceError(w, logger, "failed to add item to cart", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cartResponse(cart.Lines))
	}
}

// EmptyCartHandler обрабатывает DELETE /api/cart
func EmptyCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.EmptyCartHandler"
		logger := log.With(slog.String("op", op))

		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := cartService.Clear(r.Context(), sessionID); err != nil {
			writeServiceError(w, logger, "failed to clear cart", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cartResponse(nil))
	}
}
