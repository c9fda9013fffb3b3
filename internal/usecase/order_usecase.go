package usecase

import (
	"context"
	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	GetOrderByID(orderID string, requestingUserID int) (*domain.Order, error)
	ListOrdersByUserID(userID, limit, offset int) ([]domain.Order, error)
	Cancel(ctx context.Context, orderID string, requestingUserID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewOrderUseCase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *orderUseCase) GetOrderByID(orderID string, requestingUserID int) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.NewError(domain.KindValidation, "invalid order ID")
	}
	if requestingUserID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order %s: %v", orderID, err)
		return nil, err
	}

	if order.UserID != requestingUserID {
		uc.log.Warnf("Use Case: User %d attempted to access order %s owned by user %d",
			requestingUserID, orderID, order.UserID)
		return nil, domain.NewError(domain.KindForbidden, "you are not authorized to view this order")
	}

	uc.log.Infof("Use Case: Order %s retrieved for user %d", orderID, requestingUserID)
	return order, nil
}

func (uc *orderUseCase) ListOrdersByUserID(userID, limit, offset int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}

	orders, err := uc.orderRepo.ListOrdersByUserID(userID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d orders for user %d", len(orders), userID)
	return orders, nil
}

func (uc *orderUseCase) Cancel(ctx context.Context, orderID string, requestingUserID int) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.NewError(domain.KindValidation, "invalid order ID")
	}
	if requestingUserID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "invalid user ID")
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Could not get order %s for cancellation: %v", orderID, err)
		return nil, err
	}

	if order.UserID != requestingUserID {
		uc.log.Warnf("Use Case: User %d attempted to cancel order %s owned by user %d",
			requestingUserID, orderID, order.UserID)
		return nil, domain.NewError(domain.KindForbidden, "you are not authorized to cancel this order")
	}

	if !domain.IsCancellable(order.Status) {
		uc.log.Warnf("Use Case: Order %s cannot be cancelled in status '%s'", orderID, order.Status)
		return nil, domain.NewError(domain.KindInvalidState,
			"order %s cannot be cancelled in status %q", orderID, order.Status)
	}

	uc.restoreStock(order)

	updated, err := uc.orderRepo.UpdateOrderStatus(orderID, domain.StatusCancelled, domain.PaymentRefunded)
	if err != nil {
		uc.log.Errorf("Use Case: WARNING! Failed to mark order %s cancelled after returning stock: %v. Potential inconsistency!", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s cancelled by user %d", orderID, requestingUserID)
	return updated, nil
}

// UpdateStatus drives the fulfilment state machine for ops tooling. A
// transition into cancelled or refunded runs the same stock compensation as
// a customer cancellation, but without the ownership check.
func (uc *orderUseCase) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.NewError(domain.KindValidation, "invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		return nil, domain.NewError(domain.KindValidation, "invalid target order status: %s", status)
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Could not get order %s for status update: %v", orderID, err)
		return nil, err
	}

	if !domain.CanTransition(order.Status, status) {
		uc.log.Warnf("Use Case: Illegal status transition for order %s: '%s' -> '%s'", orderID, order.Status, status)
		return nil, domain.NewError(domain.KindInvalidState,
			"order %s cannot move from status %q to %q", orderID, order.Status, status)
	}

	paymentStatus := order.PaymentStatus
	if status == domain.StatusCancelled || status == domain.StatusRefunded {
		uc.restoreStock(order)
		paymentStatus = domain.PaymentRefunded
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(orderID, status, paymentStatus)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order %s: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s moved from '%s' to '%s'", orderID, order.Status, updated.Status)
	return updated, nil
}

// restoreStock returns every line item's quantity to the catalog. Each item
// is best effort: a product deleted from the catalog since checkout is
// skipped rather than failing the whole cancellation.
func (uc *orderUseCase) restoreStock(order *domain.Order) {
	for _, item := range order.Items {
		if err := uc.productRepo.ReleaseStock(item.ProductID, item.Quantity); err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				uc.log.Warnf("Use Case: Product %d no longer exists, skipping stock return for order %s", item.ProductID, order.ID)
				continue
			}
			uc.log.Errorf("Use Case: CRITICAL! Failed to return %d units of product %d for cancelled order %s: %v. Manual stock adjustment needed!",
				item.Quantity, item.ProductID, order.ID, err)
			continue
		}
		uc.log.Infof("Use Case: Returned %d units of product %d for order %s", item.Quantity, item.ProductID, order.ID)
	}
}
