package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"shop_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCartRepository) GetOrCreateByUserID(userID int) (*domain.Cart, error) {
	// ON CONFLICT DO NOTHING keeps the lazy create idempotent under
	// concurrent first reads for the same user.
	insertQuery := `
        INSERT INTO carts (id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.Exec(insertQuery, uuid.New(), userID); err != nil {
		r.log.Errorf("Failed to ensure cart exists for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not create cart for user %d: %w", userID, err)
	}

	cart := &domain.Cart{}
	selectQuery := `
        SELECT id, user_id, created_at, updated_at
        FROM carts
        WHERE user_id = $1`
	err := r.db.QueryRow(selectQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		r.log.Errorf("Failed to get cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart for user %d: %w", userID, err)
	}

	items, err := r.getCartItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	r.log.Debugf("Cart %s retrieved for user %d with %d items", cart.ID, userID, len(cart.Items))
	return cart, nil
}

func (r *postgresCartRepository) getCartItems(cartID uuid.UUID) ([]domain.CartItem, error) {
	itemsQuery := `
        SELECT id, product_id, quantity, size, color, price, added_at
        FROM cart_items
        WHERE cart_id = $1
        ORDER BY added_at, id`
	rows, err := r.db.Query(itemsQuery, cartID)
	if err != nil {
		r.log.Errorf("Failed to query cart items for cart %s: %v", cartID, err)
		return nil, fmt.Errorf("could not retrieve cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.Size,
			&item.Color,
			&item.Price,
			&item.AddedAt,
		); err != nil {
			r.log.Errorf("Failed to scan cart item row for cart %s: %v", cartID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during cart items iteration for cart %s: %v", cartID, err)
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// UpsertItem relies on the unique (cart_id, product_id, size, color) index:
// adding the same combination again merges quantities instead of appending a
// second row. The stored price stays the one captured on first add.
func (r *postgresCartRepository) UpsertItem(cartID uuid.UUID, item *domain.CartItem) (*domain.Cart, error) {
	query := `
        INSERT INTO cart_items (id, cart_id, product_id, quantity, size, color, price)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (cart_id, product_id, size, color)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.db.Exec(query, item.ID, cartID, item.ProductID, item.Quantity, item.Size, item.Color, item.Price)
	if err != nil {
		r.log.Errorf("Failed to upsert item (product %d) into cart %s: %v", item.ProductID, cartID, err)
		return nil, fmt.Errorf("could not add item to cart: %w", err)
	}

	if err := r.touchCart(cartID); err != nil {
		return nil, err
	}

	r.log.Infof("Item for product %d upserted into cart %s (quantity %d)", item.ProductID, cartID, item.Quantity)
	return r.getCartByID(cartID)
}

func (r *postgresCartRepository) UpdateItemQuantity(cartID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	query := `
        UPDATE cart_items
        SET quantity = $3
        WHERE cart_id = $1 AND id = $2`
	result, err := r.db.Exec(query, cartID, itemID, quantity)
	if err != nil {
		r.log.Errorf("Failed to update quantity for item %s in cart %s: %v", itemID, cartID, err)
		return nil, fmt.Errorf("could not update cart item quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to read affected rows for cart item %s update: %v", itemID, err)
		return nil, fmt.Errorf("could not confirm cart item update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Cart item %s not found in cart %s for quantity update", itemID, cartID)
		return nil, domain.NewError(domain.KindNotFound, "cart item %s not found", itemID)
	}

	if err := r.touchCart(cartID); err != nil {
		return nil, err
	}

	r.log.Infof("Cart item %s quantity set to %d in cart %s", itemID, quantity, cartID)
	return r.getCartByID(cartID)
}

func (r *postgresCartRepository) RemoveItem(cartID, itemID uuid.UUID) (*domain.Cart, error) {
	query := `
        DELETE FROM cart_items
        WHERE cart_id = $1 AND id = $2`
	// An absent item is a silent no-op, so the affected-rows count is not
	// checked here.
	if _, err := r.db.Exec(query, cartID, itemID); err != nil {
		r.log.Errorf("Failed to remove item %s from cart %s: %v", itemID, cartID, err)
		return nil, fmt.Errorf("could not remove cart item: %w", err)
	}

	if err := r.touchCart(cartID); err != nil {
		return nil, err
	}

	r.log.Infof("Cart item %s removed from cart %s (if present)", itemID, cartID)
	return r.getCartByID(cartID)
}

func (r *postgresCartRepository) Clear(cartID uuid.UUID) error {
	query := `
        DELETE FROM cart_items
        WHERE cart_id = $1`
	if _, err := r.db.Exec(query, cartID); err != nil {
		r.log.Errorf("Failed to clear cart %s: %v", cartID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}

	if err := r.touchCart(cartID); err != nil {
		return err
	}

	r.log.Infof("Cart %s cleared", cartID)
	return nil
}

func (r *postgresCartRepository) getCartByID(cartID uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	query := `
        SELECT id, user_id, created_at, updated_at
        FROM carts
        WHERE id = $1`
	err := r.db.QueryRow(query, cartID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Cart %s not found", cartID)
			return nil, domain.NewError(domain.KindNotFound, "cart %s not found", cartID)
		}
		r.log.Errorf("Failed to get cart %s: %v", cartID, err)
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	items, err := r.getCartItems(cartID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

func (r *postgresCartRepository) touchCart(cartID uuid.UUID) error {
	if _, err := r.db.Exec(`UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.log.Errorf("Failed to touch cart %s: %v", cartID, err)
		return fmt.Errorf("could not update cart timestamp: %w", err)
	}
	return nil
}
