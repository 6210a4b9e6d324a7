package models

import "time"

// OrderStatus — статус заказа
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "Pending"
	OrderStatusComplete OrderStatus = "Complete"
	OrderStatusCanceled OrderStatus = "Canceled"
)

// IsTerminal сообщает, что из статуса нет переходов
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusComplete || s == OrderStatusCanceled
}

// CanTransitionTo проверяет допустимость перехода.
// Pending -> Complete, Pending -> Canceled; Complete и Canceled конечные.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	return next == OrderStatusComplete || next == OrderStatusCanceled
}

// Order представляет заказ, созданный при оформлении корзины
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Total     int64       `json:"total"` // Сумма в центах
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem — позиция заказа. UnitPrice фиксирует цену на момент оформления.
type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"` // заполняется через JOIN с таблицей products
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}
