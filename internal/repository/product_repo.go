package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) GetProductByID(id int) (*domain.Product, error) {
	query := `
        SELECT id, name, brand, image_url, price, stock_quantity, in_stock, sales, views, created_at, updated_at
        FROM products
        WHERE id = $1`
	product := &domain.Product{}

	err := r.db.QueryRow(query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.ImageURL,
		&product.Price,
		&product.StockQuantity,
		&product.InStock,
		&product.Sales,
		&product.Views,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, domain.NewError(domain.KindNotFound, "product with id %d not found", id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) ListProducts(limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, name, brand, image_url, price, stock_quantity, in_stock, sales, views, created_at, updated_at
        FROM products
        ORDER BY id
        LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Brand,
			&p.ImageURL,
			&p.Price,
			&p.StockQuantity,
			&p.InStock,
			&p.Sales,
			&p.Views,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	r.log.Debugf("Retrieved %d products (limit %d, offset %d)", len(products), limit, offset)
	return products, nil
}

const reserveAttempts = 2

// ReserveStock runs the whole reservation as one conditional UPDATE so two
// concurrent checkouts of the same product cannot interleave a read and a
// write; a lost update here would drive stock_quantity negative.
func (r *postgresProductRepository) ReserveStock(productID, quantity int) error {
	if quantity <= 0 {
		return domain.NewError(domain.KindValidation, "reservation quantity must be positive, got %d", quantity)
	}

	query := `
        UPDATE products
        SET stock_quantity = stock_quantity - $2,
            sales = sales + $2,
            in_stock = (stock_quantity - $2) > 0,
            updated_at = NOW()
        WHERE id = $1 AND in_stock = TRUE AND stock_quantity >= $2`
	for attempt := 0; attempt < reserveAttempts; attempt++ {
		result, err := r.db.Exec(query, productID, quantity)
		if err != nil {
			r.log.Errorf("Failed to reserve %d units of product %d: %v", quantity, productID, err)
			return fmt.Errorf("could not reserve stock for product %d: %w", productID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			r.log.Errorf("Failed to read affected rows for product %d reservation: %v", productID, err)
			return fmt.Errorf("could not confirm stock reservation for product %d: %w", productID, err)
		}
		if affected > 0 {
			r.log.Infof("Reserved %d units of product %d", quantity, productID)
			return nil
		}

		// The conditional update matched nothing. Re-read the row to tell
		// the caller which precondition failed.
		product, err := r.GetProductByID(productID)
		if err != nil {
			return err
		}
		failure, retry := classifyReservationFailure(product, quantity)
		if !retry {
			r.log.Warnf("Reservation of %d units of product %d (%s) rejected: %v",
				quantity, productID, product.Name, failure)
			return failure
		}
		// The re-read shows enough stock: a restock landed between the
		// update and the re-read. Try the reservation again.
		r.log.Debugf("Stock for product %d replenished concurrently, retrying reservation", productID)
	}

	r.log.Warnf("Gave up reserving %d units of product %d after %d attempts under concurrent stock changes",
		quantity, productID, reserveAttempts)
	return domain.NewError(domain.KindInsufficientStock,
		"could not reserve %d units of product %d, stock is changing concurrently", quantity, productID)
}

// classifyReservationFailure inspects a product snapshot taken after the
// conditional update matched no row. retry is true when the snapshot alone
// would have satisfied the reservation, meaning stock was replenished
// concurrently between the two statements; reporting that snapshot's numbers
// as "insufficient" would be untrue.
func classifyReservationFailure(product *domain.Product, quantity int) (failure error, retry bool) {
	if !product.InStock {
		return domain.NewError(domain.KindOutOfStock, "product %q is out of stock", product.Name), false
	}
	if product.StockQuantity < quantity {
		return domain.NewError(domain.KindInsufficientStock,
			"insufficient stock for product %q: requested %d, available %d",
			product.Name, quantity, product.StockQuantity), false
	}
	return nil, true
}

// ReleaseStock is compensation for a prior reservation. The sales counter is
// floored at zero to tolerate cancellations of orders whose reservations
// predate the current counters.
func (r *postgresProductRepository) ReleaseStock(productID, quantity int) error {
	if quantity <= 0 {
		return domain.NewError(domain.KindValidation, "release quantity must be positive, got %d", quantity)
	}

	query := `
        UPDATE products
        SET stock_quantity = stock_quantity + $2,
            sales = GREATEST(sales - $2, 0),
            in_stock = TRUE,
            updated_at = NOW()
        WHERE id = $1`
	result, err := r.db.Exec(query, productID, quantity)
	if err != nil {
		r.log.Errorf("Failed to release %d units of product %d: %v", quantity, productID, err)
		return fmt.Errorf("could not release stock for product %d: %w", productID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to read affected rows for product %d release: %v", productID, err)
		return fmt.Errorf("could not confirm stock release for product %d: %w", productID, err)
	}
	if affected == 0 {
		r.log.Warnf("Product %d not found for stock release", productID)
		return domain.NewError(domain.KindNotFound, "product with id %d not found", productID)
	}

	r.log.Infof("Released %d units back to product %d", quantity, productID)
	return nil
}
