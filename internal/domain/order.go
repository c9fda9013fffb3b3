package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethodCOD orders skip the payment gateway and start life confirmed.
const PaymentMethodCOD = "cod"

type Order struct {
	ID                string          `json:"id"`
	UserID            int             `json:"user_id"`
	Items             []OrderLineItem `json:"items"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerPhone     string          `json:"customer_phone"`
	ShippingAddress   string          `json:"shipping_address"`
	Subtotal          float64         `json:"subtotal"`
	ShippingCost      float64         `json:"shipping_cost"`
	Tax               float64         `json:"tax"`
	Discount          float64         `json:"discount"`
	TotalAmount       float64         `json:"total_amount"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	PaymentMethod     string          `json:"payment_method"`
	Notes             string          `json:"notes,omitempty"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OrderLineItem is a denormalized snapshot of the product at checkout time,
// so later catalog edits cannot retroactively change a historical order.
type OrderLineItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsTerminalStatus reports whether no further transition leaves status.
func IsTerminalStatus(status OrderStatus) bool {
	switch status {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsCancellable reports whether an order in status may still be cancelled:
// anything on the fulfilment path before it has shipped.
func IsCancellable(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusProcessing:
		return true
	default:
		return false
	}
}

// CanTransition validates one step of the order lifecycle:
// pending → confirmed → processing → shipped → delivered, with cancelled and
// refunded reachable from any pre-shipped state.
func CanTransition(from, to OrderStatus) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == StatusCancelled || to == StatusRefunded {
		return IsCancellable(from)
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed
	case StatusConfirmed:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusShipped
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}

type CheckoutItem struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	ShippingAddress string         `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	Notes           string         `json:"notes,omitempty"`
}

type OrderRepository interface {
	CreateOrder(order *Order) (*Order, error)
	GetOrderByID(id string) (*Order, error)
	UpdateOrderStatus(id string, status OrderStatus, paymentStatus PaymentStatus) (*Order, error)
	ListOrdersByUserID(userID int, limit, offset int) ([]Order, error)
}
