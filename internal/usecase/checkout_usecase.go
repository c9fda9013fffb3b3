package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"shop_service/internal/domain"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	freeShippingThreshold = 100.0
	flatShippingCost      = 9.99
	taxRate               = 0.08
	deliveryLeadTime      = 7 * 24 * time.Hour
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, userID int, req *domain.CheckoutRequest) (*domain.Order, error)
}

type checkoutUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	cartRepo    domain.CartRepository
	log         *logrus.Logger
}

func NewCheckoutUseCase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository,
	cartRepo domain.CartRepository, logger *logrus.Logger) CheckoutUseCase {
	return &checkoutUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		log:         logger,
	}
}

func (uc *checkoutUseCase) Checkout(ctx context.Context, userID int, req *domain.CheckoutRequest) (*domain.Order, error) {
	if err := validateCheckoutRequest(userID, req); err != nil {
		uc.log.Warnf("Use Case: Checkout validation failed for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Starting checkout for user %d with %d items", userID, len(req.Items))

	// Items are validated and reserved one at a time, in the order supplied.
	// A failure on item N leaves items 1..N-1 reserved; there is no
	// cross-product transaction (the persist-failure compensation below is
	// the only rollback path).
	subtotal := decimal.Zero
	lineItems := make([]domain.OrderLineItem, 0, len(req.Items))
	reserved := make([]domain.CheckoutItem, 0, len(req.Items))

	for _, item := range req.Items {
		product, err := uc.productRepo.GetProductByID(item.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Checkout lookup failed for product %d (user %d): %v", item.ProductID, userID, err)
			return nil, err
		}
		if !product.InStock {
			uc.log.Warnf("Use Case: Product %d (%s) is out of stock during checkout for user %d",
				item.ProductID, product.Name, userID)
			return nil, domain.NewError(domain.KindOutOfStock, "product %q is out of stock", product.Name)
		}
		if product.StockQuantity < item.Quantity {
			uc.log.Warnf("Use Case: Insufficient stock for product %d (%s): requested %d, available %d",
				item.ProductID, product.Name, item.Quantity, product.StockQuantity)
			return nil, domain.NewError(domain.KindInsufficientStock,
				"insufficient stock for product %q: requested %d, available %d",
				product.Name, item.Quantity, product.StockQuantity)
		}

		if err := uc.productRepo.ReserveStock(item.ProductID, item.Quantity); err != nil {
			uc.log.Warnf("Use Case: Stock reservation failed for product %d (user %d): %v", item.ProductID, userID, err)
			return nil, err
		}
		reserved = append(reserved, item)

		lineItems = append(lineItems, domain.OrderLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Brand:     product.Brand,
			ImageURL:  product.ImageURL,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})

		price := decimal.NewFromFloat(product.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		uc.log.Infof("Use Case: Reserved %d x product %d (%s) for user %d", item.Quantity, product.ID, product.Name, userID)
	}

	shipping := decimal.NewFromFloat(flatShippingCost)
	if subtotal.GreaterThan(decimal.NewFromFloat(freeShippingThreshold)) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	status := domain.StatusPending
	if strings.EqualFold(req.PaymentMethod, domain.PaymentMethodCOD) {
		status = domain.StatusConfirmed
	}

	order := &domain.Order{
		ID:                newOrderID(),
		UserID:            userID,
		Items:             lineItems,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		ShippingAddress:   req.ShippingAddress,
		Subtotal:          subtotal.Round(2).InexactFloat64(),
		ShippingCost:      shipping.Round(2).InexactFloat64(),
		Tax:               tax.InexactFloat64(),
		Discount:          0,
		TotalAmount:       total.InexactFloat64(),
		Status:            status,
		PaymentStatus:     domain.PaymentPending,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
		EstimatedDelivery: time.Now().Add(deliveryLeadTime),
	}

	created, err := uc.orderRepo.CreateOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for user %d AFTER stock reservation: %v. Releasing reserved stock...", userID, err)
		for _, item := range reserved {
			if releaseErr := uc.productRepo.ReleaseStock(item.ProductID, item.Quantity); releaseErr != nil {
				uc.log.Errorf("Use Case: CRITICAL! Failed to release %d units of product %d after order persist failure: %v. Manual stock adjustment needed!",
					item.Quantity, item.ProductID, releaseErr)
			}
		}
		return nil, fmt.Errorf("failed to save order after reserving stock: %w", err)
	}

	// Best effort: a failure to empty the cart must not roll back the
	// already committed order.
	if cart, cartErr := uc.cartRepo.GetOrCreateByUserID(userID); cartErr != nil {
		uc.log.Warnf("Use Case: Could not load cart to clear after checkout for user %d: %v", userID, cartErr)
	} else if clearErr := uc.cartRepo.Clear(cart.ID); clearErr != nil {
		uc.log.Warnf("Use Case: Failed to clear cart after checkout for user %d: %v", userID, clearErr)
	}

	uc.log.Infof("Use Case: Order %s created for user %d: subtotal %.2f, shipping %.2f, tax %.2f, total %.2f, status %s",
		created.ID, userID, created.Subtotal, created.ShippingCost, created.Tax, created.TotalAmount, created.Status)
	return created, nil
}

func validateCheckoutRequest(userID int, req *domain.CheckoutRequest) error {
	if userID <= 0 {
		return domain.NewError(domain.KindValidation, "invalid user ID")
	}
	if req == nil || len(req.Items) == 0 {
		return domain.NewError(domain.KindValidation, "order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return domain.NewError(domain.KindValidation, "item %d: invalid product ID", i)
		}
		if item.Quantity <= 0 {
			return domain.NewError(domain.KindValidation, "item %d (product %d): quantity must be positive", i, item.ProductID)
		}
	}
	if req.CustomerName == "" {
		return domain.NewError(domain.KindValidation, "customer name is required")
	}
	if req.CustomerEmail == "" {
		return domain.NewError(domain.KindValidation, "customer email is required")
	}
	if req.CustomerPhone == "" {
		return domain.NewError(domain.KindValidation, "customer phone is required")
	}
	if req.ShippingAddress == "" {
		return domain.NewError(domain.KindValidation, "shipping address is required")
	}
	if req.PaymentMethod == "" {
		return domain.NewError(domain.KindValidation, "payment method is required")
	}
	return nil
}

const orderIDSuffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newOrderID builds a human-readable id from a timestamp prefix and a random
// alphanumeric suffix. Collisions are treated as negligible; there is no
// uniqueness retry loop.
func newOrderID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderIDSuffixChars[rand.Intn(len(orderIDSuffixChars))]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102150405"), suffix)
}
