package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/storage"
)

// CatalogService — чтение каталога для покупателей.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{log: log, productRepo: productRepo}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: product %d: %w", op, id, ErrNotFound)
		}
		s.log.Error("failed to get product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}
