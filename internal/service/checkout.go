package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/payment"
	"github.com/linemk/floral-shop/internal/storage"
)

// PaymentOutcome — результат оплаты, сообщённый сервисом оплаты
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "Succeeded"
	PaymentCanceled  PaymentOutcome = "Canceled"
)

// PaymentGateway создаёт платёжную сессию во внешнем сервисе.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
}

// CheckoutConfig — параметры оформления заказа
type CheckoutConfig struct {
	Currency       string
	SuccessURL     string
	CancelURL      string
	PaymentTimeout time.Duration
	LockTTL        time.Duration
}

// CheckoutResult возвращается после создания заказа и платёжной сессии.
type CheckoutResult struct {
	OrderID          int64  `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	PaymentURL       string `json:"payment_url"`
}

type CheckoutService interface {
	BeginCheckout(ctx context.Context, userID int64, sessionID string) (*CheckoutResult, error)
	OnPaymentOutcome(ctx context.Context, sessionID string, orderID int64, outcome PaymentOutcome) (*models.Order, error)
	PendingOrder(ctx context.Context, sessionID string) (int64, error)
}

type checkoutService struct {
	log       *slog.Logger
	db        *sql.DB
	orderRepo storage.OrderStorage
	sessions  storage.SessionStorage
	gateway   PaymentGateway
	cfg       CheckoutConfig
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, sessions storage.SessionStorage, gateway PaymentGateway, cfg CheckoutConfig) CheckoutService {
	return &checkoutService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
		sessions:  sessions,
		gateway:   gateway,
		cfg:       cfg,
	}
}

// BeginCheckout превращает корзину в заказ и создаёт платёжную сессию.
// Заказ и его позиции пишутся одной транзакцией; если сервис оплаты не ответил,
// транзакция откатывается и заказа в БД не остаётся. Корзина здесь не очищается.
func (s *checkoutService) BeginCheckout(ctx context.Context, userID int64, sessionID string) (*CheckoutResult, error) {
	const op = "service.CheckoutService.BeginCheckout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	cart, err := s.sessions.GetCart(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cart.IsEmpty() {
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}
	if userID == 0 {
		logger.Warn("user is not logged in")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	// защита от повторной отправки из той же сессии
	release, err := s.sessions.AcquireCheckoutLock(ctx, sessionID, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, storage.ErrLockHeld) {
			logger.Warn("checkout already in progress")
			return nil, fmt.Errorf("%s: %w", op, ErrCheckoutInProgress)
		}
		logger.Error("failed to acquire checkout lock", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Error("failed to release checkout lock", slog.Any("error", err))
		}
	}()

	total := cart.Total()
	logger.Info("starting checkout transaction", slog.Int64("total", total), slog.Int("lines", len(cart.Lines)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	orderID, err := s.orderRepo.CreateOrder(ctx, tx, &models.Order{
		UserID: userID,
		Total:  total,
		Status: models.OrderStatusPending,
	})
	if err != nil {
		rollback()
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	items := make([]payment.LineItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if err := s.orderRepo.CreateOrderItem(ctx, tx, &models.OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}); err != nil {
			rollback()
			logger.Error("failed to create order item", slog.Int64("productID", line.ProductID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}
		items = append(items, payment.LineItem{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Currency:  s.cfg.Currency,
			Quantity:  int64(line.Quantity),
		})
	}

	payCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()

	paySession, err := s.gateway.CreateSession(payCtx, payment.SessionRequest{
		OrderID:    orderID,
		Items:      items,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	})
	if err != nil {
		rollback()
		logger.Error("payment service failed, order rolled back", slog.Int64("orderID", orderID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPaymentService, err)
	}

	// id заказа нужен, когда сервис оплаты вернёт пользователя обратно;
	// пишем его до commit, чтобы в БД не осталось заказа без сессии
	if err := s.sessions.SetPendingOrder(ctx, sessionID, orderID); err != nil {
		rollback()
		logger.Error("failed to remember pending order, order rolled back",
			slog.Int64("orderID", orderID),
			slog.String("paymentSessionID", paySession.ID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		if clrErr := s.sessions.ClearPendingOrder(context.WithoutCancel(ctx), sessionID); clrErr != nil {
			logger.Error("failed to clear pending order", slog.Int64("orderID", orderID), slog.Any("error", clrErr))
		}
		logger.Error("failed to commit transaction", slog.Int64("orderID", orderID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("checkout started", slog.Int64("orderID", orderID), slog.String("paymentSessionID", paySession.ID))
	return &CheckoutResult{
		OrderID:          orderID,
		PaymentSessionID: paySession.ID,
		PaymentURL:       paySession.URL,
	}, nil
}

// OnPaymentOutcome применяет результат оплаты к заказу.
// Повторный отчёт по заказу в конечном статусе ничего не меняет и ошибкой не считается.
// Id заказа в сессии не удаляется, чтобы повторный отчёт тоже попадал сюда;
// следующее оформление его перезаписывает.
func (s *checkoutService) OnPaymentOutcome(ctx context.Context, sessionID string, orderID int64, outcome PaymentOutcome) (*models.Order, error) {
	const op = "service.CheckoutService.OnPaymentOutcome"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("outcome", string(outcome)))

	var target models.OrderStatus
	switch outcome {
	case PaymentSucceeded:
		target = models.OrderStatusComplete
	case PaymentCanceled:
		target = models.OrderStatusCanceled
	default:
		return nil, fmt.Errorf("%s: unknown payment outcome %q", op, outcome)
	}

	order, changed, err := transitionOrder(ctx, logger, s.orderRepo, orderID, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		return order, nil
	}

	// после отмены корзина остаётся, пользователь возвращается к ней
	if outcome == PaymentSucceeded {
		if err := s.sessions.DeleteCart(ctx, sessionID); err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	logger.Info("payment outcome applied", slog.String("status", string(order.Status)))
	return order, nil
}

// PendingOrder возвращает id заказа, ожидающего результата оплаты в этой сессии.
func (s *checkoutService) PendingOrder(ctx context.Context, sessionID string) (int64, error) {
	const op = "service.CheckoutService.PendingOrder"

	orderID, err := s.sessions.GetPendingOrder(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNoPendingOrder) {
			return 0, fmt.Errorf("%s: pending order: %w", op, ErrNotFound)
		}
		s.log.Error("failed to get pending order", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return orderID, nil
}
