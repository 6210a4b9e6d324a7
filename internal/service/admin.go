package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/storage"
)

// ProductInput — редактируемые поля товара
type ProductInput struct {
	Name        string
	Price       int64
	Description string
	ImageURL    string
}

// AdminService — операции панели администратора.
// Каждая операция принимает id действующего пользователя и проверяет права по БД.
type AdminService interface {
	ListProducts(ctx context.Context, actorID int64) ([]*models.Product, error)
	CreateProduct(ctx context.Context, actorID int64, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, actorID, productID int64, in ProductInput) (*models.Product, error)
	ListOrders(ctx context.Context, actorID int64) ([]*models.Order, error)
	CompleteOrder(ctx context.Context, actorID, orderID int64) (*models.Order, error)
	CancelOrder(ctx context.Context, actorID, orderID int64) (*models.Order, error)
}

type adminService struct {
	log         *slog.Logger
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
}

func NewAdminService(log *slog.Logger, userRepo storage.UserStorage, productRepo storage.ProductStorage, orderRepo storage.OrderStorage) AdminService {
	return &adminService{
		log:         log,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *adminService) requireAdmin(ctx context.Context, logger *slog.Logger, actorID int64) error {
	if actorID == 0 {
		return ErrUnauthenticated
	}
	user, err := s.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("acting user not found", slog.Int64("actorID", actorID))
			return ErrUnauthenticated
		}
		logger.Error("failed to get acting user", slog.Any("error", err))
		return err
	}
	if !user.IsAdmin {
		logger.Warn("user is not an admin", slog.Int64("actorID", actorID))
		return ErrUnauthorized
	}
	return nil
}

func validateProduct(in ProductInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if in.Price < 0 || in.Price > models.MaxPrice {
		return fmt.Errorf("%w: price must be between 0 and %d", ErrInvalidProduct, models.MaxPrice)
	}
	return nil
}

func (s *adminService) ListProducts(ctx context.Context, actorID int64) ([]*models.Product, error) {
	const op = "service.AdminService.ListProducts"
	logger := s.log.With(slog.String("op", op))

	if err := s.requireAdmin(ctx, logger, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		logger.Error("failed to list products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

func (s *adminService) CreateProduct(ctx context.Context, actorID int64, in ProductInput) (*models.Product, error) {
	const op = "service.AdminService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", in.Name))

	if err := s.requireAdmin(ctx, logger, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateProduct(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product, err := s.productRepo.CreateProduct(ctx, &models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		if errors.Is(err, storage.ErrProductExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateProduct)
		}
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", product.ID))
	return product, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, actorID, productID int64, in ProductInput) (*models.Product, error) {
	const op = "service.AdminService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID))

	if err := s.requireAdmin(ctx, logger, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateProduct(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product := &models.Product{
		ID:          productID,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			return nil, fmt.Errorf("%s: product %d: %w", op, productID, ErrNotFound)
		case errors.Is(err, storage.ErrProductExists):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateProduct)
		}
		logger.Error("failed to update product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product updated")
	return product, nil
}

func (s *adminService) ListOrders(ctx context.Context, actorID int64) ([]*models.Order, error) {
	const op = "service.AdminService.ListOrders"
	logger := s.log.With(slog.String("op", op))

	if err := s.requireAdmin(ctx, logger, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func (s *adminService) CompleteOrder(ctx context.Context, actorID, orderID int64) (*models.Order, error) {
	return s.setOrderStatus(ctx, "service.AdminService.CompleteOrder", actorID, orderID, models.OrderStatusComplete)
}

func (s *adminService) CancelOrder(ctx context.Context, actorID, orderID int64) (*models.Order, error) {
	return s.setOrderStatus(ctx, "service.AdminService.CancelOrder", actorID, orderID, models.OrderStatusCanceled)
}

func (s *adminService) setOrderStatus(ctx context.Context, op string, actorID, orderID int64, to models.OrderStatus) (*models.Order, error) {
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	if err := s.requireAdmin(ctx, logger, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order, _, err := transitionOrder(ctx, logger, s.orderRepo, orderID, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}
