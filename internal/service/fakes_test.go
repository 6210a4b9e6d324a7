package service_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/payment"
	"github.com/linemk/floral-shop/internal/service"
	"github.com/linemk/floral-shop/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

type fakeUserRepo struct {
	users map[string]*models.User // ключ — email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, storage.ErrEmailTaken
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[int64]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *fakeProductRepo) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var list []*models.Product
	for _, p := range f.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	for _, p := range f.products {
		if p.Name == product.Name {
			return nil, storage.ErrProductExists
		}
	}
	f.nextID++
	product.ID = f.nextID
	cp := *product
	f.products[product.ID] = &cp
	return product, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return storage.ErrProductNotFound
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

// fakeOrderRepo хранит заказы в памяти; методы с транзакцией не используются.
type fakeOrderRepo struct {
	orders  map[int64]*models.Order
	items   map[int64][]*models.OrderItem
	updates int
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	f := &fakeOrderRepo{orders: make(map[int64]*models.Order), items: make(map[int64][]*models.OrderItem)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	order.ID = int64(len(f.orders) + 1)
	f.orders[order.ID] = order
	return order.ID, nil
}

func (f *fakeOrderRepo) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	f.items[item.OrderID] = append(f.items[item.OrderID], item)
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context) ([]*models.Order, error) {
	var list []*models.Order
	for _, o := range f.orders {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f *fakeOrderRepo) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	var list []*models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f *fakeOrderRepo) ListItemsForOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	f.updates++
	o.Status = to
	return true, nil
}

// fakeSessions — состояние сессий в памяти. Корзина копируется при чтении и записи,
// как при сериализации в redis.
type fakeSessions struct {
	carts   map[string]models.Cart
	pending map[string]int64
	locks   map[string]bool

	setPendingErr error
}

var _ storage.SessionStorage = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		carts:   make(map[string]models.Cart),
		pending: make(map[string]int64),
		locks:   make(map[string]bool),
	}
}

func copyCart(c models.Cart) *models.Cart {
	lines := make([]models.CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &models.Cart{Lines: lines}
}

func (f *fakeSessions) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	return copyCart(f.carts[sessionID]), nil
}

func (f *fakeSessions) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	f.carts[sessionID] = *copyCart(*cart)
	return nil
}

func (f *fakeSessions) DeleteCart(ctx context.Context, sessionID string) error {
	delete(f.carts, sessionID)
	return nil
}

func (f *fakeSessions) SetPendingOrder(ctx context.Context, sessionID string, orderID int64) error {
	if f.setPendingErr != nil {
		return f.setPendingErr
	}
	f.pending[sessionID] = orderID
	return nil
}

func (f *fakeSessions) GetPendingOrder(ctx context.Context, sessionID string) (int64, error) {
	id, ok := f.pending[sessionID]
	if !ok {
		return 0, storage.ErrNoPendingOrder
	}
	return id, nil
}

func (f *fakeSessions) ClearPendingOrder(ctx context.Context, sessionID string) error {
	delete(f.pending, sessionID)
	return nil
}

func (f *fakeSessions) AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error) {
	if f.locks[sessionID] {
		return nil, storage.ErrLockHeld
	}
	f.locks[sessionID] = true
	return func(context.Context) error {
		delete(f.locks, sessionID)
		return nil
	}, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, sessionID string) error {
	delete(f.carts, sessionID)
	delete(f.pending, sessionID)
	delete(f.locks, sessionID)
	return nil
}

type fakeGateway struct {
	err   error
	calls int
	req   payment.SessionRequest
}

var _ service.PaymentGateway = (*fakeGateway)(nil)

func (f *fakeGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}
