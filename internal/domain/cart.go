package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int        `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem captures the catalog price at add time; it is never re-synced
// against the live catalog, so cart totals can go stale until checkout.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Price     float64   `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

// CartSummary is the computed view returned to callers: subtotal and item
// count are derived from the items on every read and never persisted.
type CartSummary struct {
	Cart      *Cart   `json:"cart"`
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"item_count"`
}

type CartRepository interface {
	// GetOrCreateByUserID returns the user's cart, creating an empty one on
	// first access. Repeated reads are side-effect free.
	GetOrCreateByUserID(userID int) (*Cart, error)

	// UpsertItem appends the item, or merges quantities when an item with the
	// same (product, size, color) key already exists in the cart.
	UpsertItem(cartID uuid.UUID, item *CartItem) (*Cart, error)

	// UpdateItemQuantity sets the quantity of one line item. Fails with
	// KindNotFound when the item is not in the cart.
	UpdateItemQuantity(cartID, itemID uuid.UUID, quantity int) (*Cart, error)

	// RemoveItem filters the item out; removing an absent item is a no-op.
	RemoveItem(cartID, itemID uuid.UUID) (*Cart, error)

	// Clear empties the items list, leaving the cart row in place.
	Clear(cartID uuid.UUID) error
}
