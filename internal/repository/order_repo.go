package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"shop_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (
            id, user_id, customer_name, customer_email, customer_phone, shipping_address,
            subtotal, shipping_cost, tax, discount, total_amount,
            status, payment_status, payment_method, notes, estimated_delivery
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING created_at, updated_at
    `
	err = tx.QueryRow(orderQuery,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
		order.Subtotal,
		order.ShippingCost,
		order.Tax,
		order.Discount,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.Notes,
		order.EstimatedDelivery,
	).Scan(
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		r.log.Errorf("Failed to insert order %s for user %d: %v", order.ID, order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}
	r.log.Infof("Order entry created with ID: %s for user: %d", order.ID, order.UserID)

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, name, brand, image_url, price, quantity, size, color)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.Exec(order.ID, item.ProductID, item.Name, item.Brand, item.ImageURL,
			item.Price, item.Quantity, item.Size, item.Color)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product_id: %d, quantity: %d) for order %s: %v",
				item.ProductID, item.Quantity, order.ID, err)

			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return nil, domain.NewError(domain.KindValidation,
					"invalid item data (product_id: %d): %s", item.ProductID, pqErr.Message)
			}
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Order %s created successfully with %d items.", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(id string) (*domain.Order, error) {
	order := &domain.Order{}
	orderQuery := `
        SELECT id, user_id, customer_name, customer_email, customer_phone, shipping_address,
               subtotal, shipping_cost, tax, discount, total_amount,
               status, payment_status, payment_method, notes, tracking_number,
               estimated_delivery, created_at, updated_at
        FROM orders
        WHERE id = $1
    `
	var notes, trackingNumber sql.NullString
	err := r.db.QueryRow(orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.Subtotal,
		&order.ShippingCost,
		&order.Tax,
		&order.Discount,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&notes,
		&trackingNumber,
		&order.EstimatedDelivery,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %s not found", id)
			return nil, domain.NewError(domain.KindNotFound, "order with id %s not found", id)
		}
		r.log.Errorf("Failed to get order by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	order.Notes = notes.String
	order.TrackingNumber = trackingNumber.String

	items, err := r.getOrderItems(id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	r.log.Debugf("Order %s retrieved successfully with %d items.", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(orderID string) ([]domain.OrderLineItem, error) {
	itemsQuery := `
        SELECT product_id, name, brand, image_url, price, quantity, size, color
        FROM order_items
        WHERE order_id = $1
    `
	rows, err := r.db.Query(itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderLineItem
	for rows.Next() {
		var item domain.OrderLineItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Brand, &item.ImageURL,
			&item.Price, &item.Quantity, &item.Size, &item.Color); err != nil {
			r.log.Errorf("Failed to scan order item row for order ID %s: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, payment_status = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING id, user_id, customer_name, customer_email, customer_phone, shipping_address,
                  subtotal, shipping_cost, tax, discount, total_amount,
                  status, payment_status, payment_method, notes, tracking_number,
                  estimated_delivery, created_at, updated_at
    `
	updatedOrder := &domain.Order{}
	var notes, trackingNumber sql.NullString

	err := r.db.QueryRow(query, status, paymentStatus, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.UserID,
		&updatedOrder.CustomerName,
		&updatedOrder.CustomerEmail,
		&updatedOrder.CustomerPhone,
		&updatedOrder.ShippingAddress,
		&updatedOrder.Subtotal,
		&updatedOrder.ShippingCost,
		&updatedOrder.Tax,
		&updatedOrder.Discount,
		&updatedOrder.TotalAmount,
		&updatedOrder.Status,
		&updatedOrder.PaymentStatus,
		&updatedOrder.PaymentMethod,
		&notes,
		&trackingNumber,
		&updatedOrder.EstimatedDelivery,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %s not found for status update", id)
			return nil, domain.NewError(domain.KindNotFound, "order with id %s not found", id)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Invalid status value '%s' for order ID %s: %v", status, id, err)
			return nil, domain.NewError(domain.KindValidation, "invalid order status provided: %s", status)
		}
		r.log.Errorf("Failed to update status for order ID %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}
	updatedOrder.Notes = notes.String
	updatedOrder.TrackingNumber = trackingNumber.String

	items, err := r.getOrderItems(id)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to retrieve items: %w", err)
	}
	updatedOrder.Items = items

	r.log.Infof("Status updated for order %s to '%s' (payment: '%s').",
		updatedOrder.ID, updatedOrder.Status, updatedOrder.PaymentStatus)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(userID int, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	ordersQuery := `
        SELECT id, user_id, customer_name, customer_email, customer_phone, shipping_address,
               subtotal, shipping_cost, tax, discount, total_amount,
               status, payment_status, payment_method, notes, tracking_number,
               estimated_delivery, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ordersQuery, userID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list orders for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	orderIDs := []string{}

	for rows.Next() {
		var order domain.Order
		var notes, trackingNumber sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.CustomerName,
			&order.CustomerEmail,
			&order.CustomerPhone,
			&order.ShippingAddress,
			&order.Subtotal,
			&order.ShippingCost,
			&order.Tax,
			&order.Discount,
			&order.TotalAmount,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&notes,
			&trackingNumber,
			&order.EstimatedDelivery,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row for user ID %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		order.Notes = notes.String
		order.TrackingNumber = trackingNumber.String
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		r.log.Infof("No orders found for user ID %d with limit %d, offset %d", userID, limit, offset)
		return []domain.Order{}, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, name, brand, image_url, price, quantity, size, color
        FROM order_items
        WHERE order_id = ANY($1::text[])
        ORDER BY order_id
    `
	itemRows, err := r.db.Query(itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query items for multiple orders (%v): %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[string][]domain.OrderLineItem)
	for itemRows.Next() {
		var item domain.OrderLineItem
		var orderID string
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Brand, &item.ImageURL,
			&item.Price, &item.Quantity, &item.Size, &item.Color); err != nil {
			r.log.Errorf("Failed to scan order item row during multi-order fetch: %v", err)
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Error during multi-order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderLineItem{}
		}
	}

	r.log.Infof("Retrieved %d orders for user ID %d (limit %d, offset %d)", len(orders), userID, limit, offset)
	return orders, nil
}
