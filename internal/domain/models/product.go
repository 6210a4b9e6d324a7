package models

// MaxPrice — верхняя граница цены в центах; вместе с MaxLineQuantity
// держит суммы корзины и заказа далеко от переполнения int64
const MaxPrice int64 = 100_000_000

// Product представляет товар каталога
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`  // Название товара (уникальное)
	Price       int64  `json:"price"` // Цена в центах
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
