package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/floral-shop/internal/domain/models"
)

// ProductStorage описывает методы для работы с таблицей товаров.
type ProductStorage interface {
	// ListProducts возвращает весь каталог, упорядоченный по id.
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct перезаписывает все редактируемые поля товара.
	UpdateProduct(ctx context.Context, product *models.Product) error
}

// productRepository — конкретная реализация интерфейса ProductStorage.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product with this name already exists")
)

func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, price, description, image_url FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByID ищет товар по id в таблице products.
func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	query := "SELECT id, name, price, description, image_url FROM products WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, price, description, image_url) VALUES ($1, $2, $3, $4) RETURNING id",
		product.Name, product.Price, product.Description, product.ImageURL,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = $1, price = $2, description = $3, image_url = $4 WHERE id = $5",
		product.Name, product.Price, product.Description, product.ImageURL, product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
