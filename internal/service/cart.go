package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/storage"
)

// CartService управляет корзиной сессии до оформления заказа.
type CartService interface {
	Add(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error)
	List(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Clear(ctx context.Context, sessionID string) error
	Total(ctx context.Context, sessionID string) (int64, error)
}

type cartService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	sessions    storage.SessionStorage
}

func NewCartService(log *slog.Logger, productRepo storage.ProductStorage, sessions storage.SessionStorage) CartService {
	return &cartService{
		log:         log,
		productRepo: productRepo,
		sessions:    sessions,
	}
}

// Add добавляет товар в корзину. При повторном добавлении количество суммируется.
// При ошибке сохранённая корзина не меняется.
func (s *cartService) Add(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	const op = "service.CartService.Add"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	if quantity < 1 || quantity > models.MaxLineQuantity {
		logger.Warn("invalid quantity")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found")
			return nil, fmt.Errorf("%s: product %d: %w", op, productID, ErrNotFound)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	cart, err := s.sessions.GetCart(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cart.QuantityOf(productID)+quantity > models.MaxLineQuantity {
		logger.Warn("line quantity limit exceeded", slog.Int("limit", models.MaxLineQuantity))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	cart.Add(product, quantity)

	if err := s.sessions.SaveCart(ctx, sessionID, cart); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("item added to cart", slog.Int("lines", len(cart.Lines)))
	return cart, nil
}

func (s *cartService) List(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	const op = "service.CartService.List"

	cart, err := s.sessions.GetCart(ctx, sessionID)
	if err != nil {
		s.log.Error("failed to load cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cart.Lines == nil {
		return []models.CartLine{}, nil
	}
	return cart.Lines, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	const op = "service.CartService.Clear"

	if err := s.sessions.DeleteCart(ctx, sessionID); err != nil {
		s.log.Error("failed to clear cart", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *cartService) Total(ctx context.Context, sessionID string) (int64, error) {
	const op = "service.CartService.Total"

	cart, err := s.sessions.GetCart(ctx, sessionID)
	if err != nil {
		s.log.Error("failed to load cart", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return cart.Total(), nil
}
