package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/service"
)

// ProductRequest — поля товара в панели администратора
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Price       int64  `json:"price" validate:"gte=0,lte=100000000"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=255"`
}

func (p ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

func decodeProduct(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("invalid request: decoding error", slog.Any("error", err))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		logger.Error("invalid request: validation error", slog.Any("error", err))
		http.Error(w, "validation error", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// AdminListProductsHandler обрабатывает GET /api/admin/products
func AdminListProductsHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListProductsHandler"
		logger := log.With(slog.String("op", op))

		actorID, _ := jwtmiddleware.FromContext(r.Context())
		products, err := admin.ListProducts(r.Context(), actorID)
		if err != nil {
			writeServiceError(w, logger, "failed to list products", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// AdminCreateProductHandler обрабатывает POST /api/admin/products
func AdminCreateProductHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminCreateProductHandler"
		logger := log.With(slog.String("op", op))

		req, ok := decodeProduct(w, r, logger)
		if !ok {
			return
		}

		actorID, _ := jwtmiddleware.FromContext(r.Context())
		product, err := admin.CreateProduct(r.Context(), actorID, req.input())
		if err != nil {
			writeServiceError(w, logger, "failed to create product", err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, product)
	}
}

// AdminUpdateProductHandler обрабатывает PUT /api/admin/products/{id}
func AdminUpdateProductHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminUpdateProductHandler"
		logger := log.With(slog.String("op", op))

		productID, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		req, ok := decodeProduct(w, r, logger)
		if !ok {
			return
		}

		actorID, _ := jwtmiddleware.FromContext(r.Context())
		product, err := admin.UpdateProduct(r.Context(), actorID, productID, req.input())
		if err != nil {
			writeServiceError(w, logger, "failed to update product", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

// AdminListOrdersHandler обрабатывает GET /api/admin/orders
func AdminListOrdersHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListOrdersHandler"
		logger := log.With(slog.String("op", op))

		actorID, _ := jwtmiddleware.FromContext(r.Context())
		orders, err := admin.ListOrders(r.Context(), actorID)
		if err != nil {
			writeServiceError(w, logger, "failed to list orders", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, orders)
	}
}

// AdminCompleteOrderHandler обрабатывает POST /api/admin/orders/{id}/complete
func AdminCompleteOrderHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return adminOrderStatusHandler(log.With(slog.String("op", "handlers.AdminCompleteOrderHandler")), admin.CompleteOrder)
}

// AdminCancelOrderHandler обрабатывает POST /api/admin/orders/{id}/cancel
func AdminCancelOrderHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return adminOrderStatusHandler(log.With(slog.String("op", "handlers.AdminCancelOrderHandler")), admin.CancelOrder)
}

type orderStatusFunc func(ctx context.Context, actorID, orderID int64) (*models.Order, error)

func adminOrderStatusHandler(logger *slog.Logger, apply orderStatusFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		actorID, _ := jwtmiddleware.FromContext(r.Context())
		order, err := apply(r.Context(), actorID, orderID)
		if err != nil {
			writeServiceError(w, logger, "failed to change order status", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}
