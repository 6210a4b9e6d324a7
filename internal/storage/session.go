package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/linemk/floral-shop/internal/domain/models"
)

var (
	ErrNoPendingOrder = errors.New("no pending order in session")
	ErrLockHeld       = errors.New("checkout already in progress")
)

// SessionStorage хранит состояние сессии пользователя: корзину,
// ожидающий оплаты заказ и блокировку оформления.
type SessionStorage interface {
	// GetCart возвращает корзину сессии; отсутствие ключа — пустая корзина.
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
	SetPendingOrder(ctx context.Context, sessionID string, orderID int64) error
	GetPendingOrder(ctx context.Context, sessionID string) (int64, error)
	ClearPendingOrder(ctx context.Context, sessionID string) error
	// AcquireCheckoutLock ставит блокировку оформления на ttl.
	// Возвращает функцию снятия блокировки или ErrLockHeld.
	AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error)
	// DeleteSession удаляет все данные сессии.
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository создаёт хранилище сессий в redis, ttl продлевается при каждой записи.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionStorage {
	return &sessionRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string         { return "session:" + sessionID + ":cart" }
func pendingOrderKey(sessionID string) string { return "session:" + sessionID + ":order" }
func checkoutLockKey(sessionID string) string { return "session:" + sessionID + ":checkout-lock" }

func (r *sessionRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &models.Cart{}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	cart := &models.Cart{}
	if err := json.Unmarshal([]byte(data), cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return cart, nil
}

func (r *sessionRepository) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteCart(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *sessionRepository) SetPendingOrder(ctx context.Context, sessionID string, orderID int64) error {
	if err := r.client.Set(ctx, pendingOrderKey(sessionID), strconv.FormatInt(orderID, 10), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending order: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetPendingOrder(ctx context.Context, sessionID string) (int64, error) {
	val, err := r.client.Get(ctx, pendingOrderKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoPendingOrder
		}
		return 0, fmt.Errorf("failed to get pending order: %w", err)
	}
	orderID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pending order id %q: %w", val, err)
	}
	return orderID, nil
}

func (r *sessionRepository) ClearPendingOrder(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, pendingOrderKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear pending order: %w", err)
	}
	return nil
}

// снимаем блокировку только если она всё ещё наша
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (r *sessionRepository) AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error) {
	key := checkoutLockKey(sessionID)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseLockScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release checkout lock: %w", err)
		}
		return nil
	}
	return release, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, cartKey(sessionID), pendingOrderKey(sessionID), checkoutLockKey(sessionID)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
