package usecase

import (
	"shop_service/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartUseCase interface {
	GetCart(userID int) (*domain.CartSummary, error)
	AddItem(userID, productID, quantity int, size, color string) (*domain.CartSummary, error)
	UpdateItemQuantity(userID int, itemID uuid.UUID, quantity int) (*domain.CartSummary, error)
	RemoveItem(userID int, itemID uuid.UUID) (*domain.CartSummary, error)
	Clear(userID int) error
}

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) GetCart(userID int) (*domain.CartSummary, error) {
	if userID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}

	cart, err := uc.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to get cart for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Debugf("Use Case: Cart retrieved for user %d with %d items", userID, len(cart.Items))
	return summarize(cart), nil
}

func (uc *cartUseCase) AddItem(userID, productID, quantity int, size, color string) (*domain.CartSummary, error) {
	if userID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}
	if productID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid product ID")
	}
	if quantity <= 0 {
		return nil, domain.NewError(domain.KindValidation, "quantity must be positive")
	}

	// Advisory availability check only. Nothing is reserved here; the real
	// reservation happens at checkout.
	product, err := uc.productRepo.GetProductByID(productID)
	if err != nil {
		uc.log.Warnf("Use Case: Product lookup failed while adding to cart for user %d: %v", userID, err)
		return nil, err
	}
	if !product.InStock {
		uc.log.Warnf("Use Case: User %d attempted to add out-of-stock product %d (%s) to cart",
			userID, productID, product.Name)
		return nil, domain.NewError(domain.KindOutOfStock, "product %q is out of stock", product.Name)
	}

	cart, err := uc.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to get cart for user %d: %v", userID, err)
		return nil, err
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
		Price:     product.Price, // captured now, never re-synced
		AddedAt:   time.Now(),
	}
	updated, err := uc.cartRepo.UpsertItem(cart.ID, item)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to add product %d to cart for user %d: %v", productID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Added %d x product %d to cart for user %d", quantity, productID, userID)
	return summarize(updated), nil
}

func (uc *cartUseCase) UpdateItemQuantity(userID int, itemID uuid.UUID, quantity int) (*domain.CartSummary, error) {
	if userID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}
	if quantity <= 0 {
		return nil, domain.NewError(domain.KindValidation, "quantity must be positive")
	}

	cart, err := uc.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to get cart for user %d: %v", userID, err)
		return nil, err
	}

	updated, err := uc.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update quantity for item %s in cart of user %d: %v", itemID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Set quantity of item %s to %d for user %d", itemID, quantity, userID)
	return summarize(updated), nil
}

func (uc *cartUseCase) RemoveItem(userID int, itemID uuid.UUID) (*domain.CartSummary, error) {
	if userID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}

	cart, err := uc.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to get cart for user %d: %v", userID, err)
		return nil, err
	}

	updated, err := uc.cartRepo.RemoveItem(cart.ID, itemID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to remove item %s from cart of user %d: %v", itemID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Removed item %s from cart of user %d (if present)", itemID, userID)
	return summarize(updated), nil
}

func (uc *cartUseCase) Clear(userID int) error {
	if userID <= 0 {
		return domain.NewError(domain.KindValidation, "invalid user ID")
	}

	cart, err := uc.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to get cart for user %d: %v", userID, err)
		return err
	}
	if err := uc.cartRepo.Clear(cart.ID); err != nil {
		uc.log.Errorf("Use Case: Failed to clear cart for user %d: %v", userID, err)
		return err
	}

	uc.log.Infof("Use Case: Cleared cart for user %d", userID)
	return nil
}

// summarize computes the subtotal and item count views from the line items.
// They are derived on every read and never persisted.
func summarize(cart *domain.Cart) *domain.CartSummary {
	subtotal := decimal.Zero
	itemCount := 0
	for _, item := range cart.Items {
		price := decimal.NewFromFloat(item.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		itemCount += item.Quantity
	}
	return &domain.CartSummary{
		Cart:      cart,
		Subtotal:  subtotal.Round(2).InexactFloat64(),
		ItemCount: itemCount,
	}
}
