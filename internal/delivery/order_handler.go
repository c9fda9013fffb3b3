package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"shop_service/internal/domain"
	"shop_service/internal/middleware"
	"shop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	checkout usecase.CheckoutUseCase
	orders   usecase.OrderUseCase
	log      *logrus.Logger
}

func NewOrderHandler(checkout usecase.CheckoutUseCase, orders usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		log:      logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	shop := router.Group("/shop")
	{
		shop.POST("/checkout", h.Checkout)
		shop.GET("/orders", h.ListOrders)
		shop.GET("/orders/:orderId", h.GetOrderByID)
		shop.PUT("/orders/:orderId/cancel", h.CancelOrder)
		shop.PUT("/orders/:orderId/status", h.UpdateOrderStatus)
	}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := middleware.UserID(c)
	h.log.Infof("Processing checkout request for User ID: %d", userID)

	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for checkout (User: %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		h.log.Warnf("Checkout failed for user %d: %v", userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Order %s created successfully for user %d", order.ID, userID)
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID := middleware.UserID(c)
	orderID := c.Param("orderId")
	h.log.Debugf("User %d requesting order details for Order ID: %s", userID, orderID)

	order, err := h.orders.GetOrderByID(orderID, userID)
	if err != nil {
		h.log.Warnf("Failed to get order %s for user %d: %v", orderID, userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := middleware.UserID(c)

	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		h.log.Warnf("Invalid limit parameter '%s' for user %d, using default 10", limitStr, userID)
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		h.log.Warnf("Invalid offset parameter '%s' for user %d, using default 0", offsetStr, userID)
		offset = 0
	}

	orders, err := h.orders.ListOrdersByUserID(userID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %d: %v", userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found for this user", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := middleware.UserID(c)
	orderID := c.Param("orderId")
	h.log.Infof("User %d attempting to cancel order %s", userID, orderID)

	order, err := h.orders.Cancel(c.Request.Context(), orderID, userID)
	if err != nil {
		h.log.Warnf("Failed to cancel order %s for user %d: %v", orderID, userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Order %s cancelled by user %d", orderID, userID)
	SuccessResponse(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	orderID := c.Param("orderId")

	var requestBody struct {
		Status *domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update order %s: %v", orderID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}
	if !domain.IsValidStatus(*requestBody.Status) {
		ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: invalid status value '%s'", *requestBody.Status))
		return
	}
	h.log.Infof("User %d attempting to update status for order %s to '%s'", userID, orderID, *requestBody.Status)

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, *requestBody.Status)
	if err != nil {
		h.log.Warnf("Failed to update status for order %s: %v", orderID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Order %s status updated to '%s'", order.ID, order.Status)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}
