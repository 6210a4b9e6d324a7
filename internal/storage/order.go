package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/floral-shop/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами и их позициями.
type OrderStorage interface {
	// CreateOrder вставляет новый заказ в таблицу orders с использованием транзакции и возвращает его id.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error)
	// CreateOrderItem вставляет позицию заказа в рамках той же транзакции.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// ListOrders возвращает все заказы магазина, новые первыми.
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// ListOrdersByUserID возвращает заказы указанного пользователя, новые первыми.
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// ListItemsForOrder возвращает позиции заказа с JOIN для получения имени товара.
	ListItemsForOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
	// UpdateOrderStatus меняет статус только если текущий статус равен from.
	// Возвращает false, если строка не изменилась.
	UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (user_id, total, status, created_at) 
	          VALUES ($1, $2, $3, NOW()) RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, query, order.UserID, order.Total, order.Status).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
	          VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx, "SELECT id, user_id, total, status, created_at FROM orders WHERE id = $1", id)
	if err := row.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, user_id, total, status, created_at
		FROM orders
		ORDER BY created_at DESC`)
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListItemsForOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_price
		FROM order_items i
		JOIN products p ON i.product_id = p.id
		WHERE i.order_id = $1
		ORDER BY i.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2 AND status = $3", to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
