package domain

import "time"

type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	ImageURL      string    `json:"image_url"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	Sales         int       `json:"sales"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProductRepository interface {
	GetProductByID(id int) (*Product, error)
	ListProducts(limit, offset int) ([]Product, error)

	// ReserveStock decrements stock_quantity by quantity and increments sales
	// as one conditional update. It fails with KindNotFound when the product
	// is absent, KindOutOfStock when the in_stock flag is down and
	// KindInsufficientStock when fewer than quantity units remain. After a
	// successful reservation in_stock reflects (stock_quantity > 0).
	ReserveStock(productID, quantity int) error

	// ReleaseStock is the inverse of ReserveStock: stock_quantity grows by
	// quantity, sales shrinks by quantity floored at zero, and in_stock is
	// forced true. Used only by cancellation compensation.
	ReleaseStock(productID, quantity int) error
}
