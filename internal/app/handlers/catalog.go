package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/service"
)

// ListProductsHandler обрабатывает GET /api/products
func ListProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := catalog.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, logger, "failed to list products", err)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		product, err := catalog.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, "failed to get product", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}
