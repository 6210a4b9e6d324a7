package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/storage"
)

// OrderDetails — заказ вместе с позициями
type OrderDetails struct {
	Order *models.Order       `json:"order"`
	Items []*models.OrderItem `json:"items"`
}

// OrderService — заказы глазами покупателя.
type OrderService interface {
	ListUserOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage) OrderService {
	return &orderService{log: log, orderRepo: orderRepo}
}

func (s *orderService) ListUserOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListUserOrders"

	if userID == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	orders, err := s.orderRepo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// GetOrderDetails возвращает заказ пользователя с позициями.
// Чужой заказ неотличим от несуществующего.
func (s *orderService) GetOrderDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error) {
	const op = "service.OrderService.GetOrderDetails"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))

	if userID == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, fmt.Errorf("%s: order %d: %w", op, orderID, ErrNotFound)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.UserID != userID {
		logger.Warn("order belongs to another user")
		return nil, fmt.Errorf("%s: order %d: %w", op, orderID, ErrNotFound)
	}

	items, err := s.orderRepo.ListItemsForOrder(ctx, orderID)
	if err != nil {
		logger.Error("failed to list order items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return &OrderDetails{Order: order, Items: items}, nil
}

// transitionOrder переводит заказ в статус to.
// Переход из конечного статуса — явный no-op: возвращается текущий заказ и changed=false.
func transitionOrder(ctx context.Context, logger *slog.Logger, orderRepo storage.OrderStorage, orderID int64, to models.OrderStatus) (*models.Order, bool, error) {
	order, err := orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return nil, false, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, false, err
	}

	if !order.Status.CanTransitionTo(to) {
		logger.Info("order status unchanged", slog.String("status", string(order.Status)), slog.String("requested", string(to)))
		return order, false, nil
	}

	changed, err := orderRepo.UpdateOrderStatus(ctx, orderID, order.Status, to)
	if err != nil {
		logger.Error("failed to update order status", slog.Any("error", err))
		return nil, false, err
	}
	if !changed {
		// статус успели поменять параллельно, возвращаем актуальное состояние
		current, err := orderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			logger.Error("failed to reload order", slog.Any("error", err))
			return nil, false, err
		}
		logger.Info("order status changed concurrently", slog.String("status", string(current.Status)))
		return current, false, nil
	}

	logger.Info("order status updated", slog.String("from", string(order.Status)), slog.String("to", string(to)))
	order.Status = to
	return order, true, nil
}
