package models

// CartLine — строка корзины. Name и UnitPrice копируются из товара в момент добавления.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// MaxLineQuantity — предел количества одного товара в корзине
const MaxLineQuantity = 10000

// Cart — корзина сессии, хранится вне БД до оформления заказа
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add увеличивает количество существующей строки или добавляет новую в конец.
// Количество проверяется вызывающей стороной.
func (c *Cart) Add(product *Product, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
	})
}

// Total возвращает сумму unit_price * quantity по всем строкам
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// QuantityOf возвращает количество товара в корзине, 0 если строки нет
func (c *Cart) QuantityOf(productID int64) int {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
