package service_test

import (
	"context"
	"testing"

	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/service"
	"github.com/stretchr/testify/assert"
)

// adminFixture: пользователь 1 — администратор, 2 — покупатель
func adminFixture() *fakeUserRepo {
	users := newFakeUserRepo()
	users.users["admin@test.com"] = &models.User{ID: 1, Email: "admin@test.com", IsAdmin: true}
	users.users["anna@test.com"] = &models.User{ID: 2, Email: "anna@test.com"}
	return users
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	products := catalogFixture()
	admin := service.NewAdminService(testLogger(), adminFixture(), products, newFakeOrderRepo())
	ctx := context.Background()
	in := service.ProductInput{Name: "Peony", Price: 700}

	_, err := admin.CreateProduct(ctx, 2, in)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = admin.CreateProduct(ctx, 0, in)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = admin.CreateProduct(ctx, 99, in)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	assert.Len(t, products.products, 2, "catalog must not change")
}

func TestAdmin_CreateProduct(t *testing.T) {
	products := catalogFixture()
	admin := service.NewAdminService(testLogger(), adminFixture(), products, newFakeOrderRepo())
	ctx := context.Background()

	created, err := admin.CreateProduct(ctx, 1, service.ProductInput{Name: "Peony", Price: 700, Description: "Pink peonies"})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	catalog := service.NewCatalogService(testLogger(), products)
	got, err := catalog.GetProduct(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Peony", got.Name)
	assert.Equal(t, int64(700), got.Price)
}

func TestAdmin_CreateProductValidation(t *testing.T) {
	admin := service.NewAdminService(testLogger(), adminFixture(), catalogFixture(), newFakeOrderRepo())
	ctx := context.Background()

	_, err := admin.CreateProduct(ctx, 1, service.ProductInput{Name: "", Price: 100})
	assert.ErrorIs(t, err, service.ErrInvalidProduct)

	_, err = admin.CreateProduct(ctx, 1, service.ProductInput{Name: "Peony", Price: -1})
	assert.ErrorIs(t, err, service.ErrInvalidProduct)

	_, err = admin.CreateProduct(ctx, 1, service.ProductInput{Name: "Peony", Price: models.MaxPrice + 1})
	assert.ErrorIs(t, err, service.ErrInvalidProduct)

	_, err = admin.CreateProduct(ctx, 1, service.ProductInput{Name: "Rose", Price: 100})
	assert.ErrorIs(t, err, service.ErrDuplicateProduct)
}

func TestAdmin_UpdateProduct(t *testing.T) {
	products := catalogFixture()
	admin := service.NewAdminService(testLogger(), adminFixture(), products, newFakeOrderRepo())
	ctx := context.Background()

	updated, err := admin.UpdateProduct(ctx, 1, 2, service.ProductInput{Name: "Tulip", Price: 350})
	assert.NoError(t, err)
	assert.Equal(t, int64(350), updated.Price)
	assert.Equal(t, int64(350), products.products[2].Price)

	_, err = admin.UpdateProduct(ctx, 1, 42, service.ProductInput{Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdmin_UpdateProductKeepsCartSnapshot(t *testing.T) {
	products := catalogFixture()
	sessions := newFakeSessions()
	cartService := service.NewCartService(testLogger(), products, sessions)
	admin := service.NewAdminService(testLogger(), adminFixture(), products, newFakeOrderRepo())
	ctx := context.Background()

	_, err := cartService.Add(ctx, "sid-1", 1, 1)
	assert.NoError(t, err)
	_, err = admin.UpdateProduct(ctx, 1, 1, service.ProductInput{Name: "Rose", Price: 900})
	assert.NoError(t, err)

	total, err := cartService.Total(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(500), total)
}

func TestAdmin_CompleteOrder(t *testing.T) {
	orders := newFakeOrderRepo(&models.Order{ID: 5, UserID: 2, Total: 500, Status: models.OrderStatusPending})
	admin := service.NewAdminService(testLogger(), adminFixture(), catalogFixture(), orders)
	ctx := context.Background()

	order, err := admin.CompleteOrder(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, order.Status)

	// конечный статус не меняется
	order, err = admin.CancelOrder(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, order.Status)
	assert.Equal(t, 1, orders.updates)
}

func TestAdmin_CompleteMissingOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	admin := service.NewAdminService(testLogger(), adminFixture(), catalogFixture(), orders)

	_, err := admin.CompleteOrder(context.Background(), 1, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, orders.updates)
}

func TestAdmin_CancelOrderForbiddenForCustomer(t *testing.T) {
	orders := newFakeOrderRepo(&models.Order{ID: 5, UserID: 2, Status: models.OrderStatusPending})
	admin := service.NewAdminService(testLogger(), adminFixture(), catalogFixture(), orders)

	_, err := admin.CancelOrder(context.Background(), 2, 5)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.Equal(t, models.OrderStatusPending, orders.orders[5].Status)
}

func TestAdmin_ListOrders(t *testing.T) {
	orders := newFakeOrderRepo(
		&models.Order{ID: 1, UserID: 2, Status: models.OrderStatusPending},
		&models.Order{ID: 2, UserID: 3, Status: models.OrderStatusCanceled},
	)
	admin := service.NewAdminService(testLogger(), adminFixture(), catalogFixture(), orders)

	list, err := admin.ListOrders(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = admin.ListOrders(context.Background(), 2)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
