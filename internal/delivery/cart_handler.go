package delivery

import (
	"net/http"

	"shop_service/internal/middleware"
	"shop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/add", h.AddItem)
		cart.PUT("/update/:itemId", h.UpdateItemQuantity)
		cart.DELETE("/remove/:itemId", h.RemoveItem)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.UserID(c)
	h.log.Debugf("Processing get cart request for User ID: %d", userID)

	summary, err := h.useCase.GetCart(userID)
	if err != nil {
		h.log.Errorf("Failed to get cart for user %d: %v", userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", summary)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var requestBody struct {
		ProductID int    `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for add cart item (User: %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Quantity == 0 {
		requestBody.Quantity = 1
	}

	summary, err := h.useCase.AddItem(userID, requestBody.ProductID, requestBody.Quantity, requestBody.Size, requestBody.Color)
	if err != nil {
		h.log.Warnf("Failed to add product %d to cart for user %d: %v", requestBody.ProductID, userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Product %d added to cart for user %d", requestBody.ProductID, userID)
	SuccessResponse(c, http.StatusOK, "Item added to cart", summary)
}

func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	userID := middleware.UserID(c)

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.log.Warnf("Invalid cart item ID parameter: %s", c.Param("itemId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart item ID format")
		return
	}

	var requestBody struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update cart item %s (User: %d): %v", itemID, userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	summary, err := h.useCase.UpdateItemQuantity(userID, itemID, requestBody.Quantity)
	if err != nil {
		h.log.Warnf("Failed to update cart item %s for user %d: %v", itemID, userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Cart item %s updated to quantity %d for user %d", itemID, requestBody.Quantity, userID)
	SuccessResponse(c, http.StatusOK, "Cart item updated", summary)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.log.Warnf("Invalid cart item ID parameter: %s", c.Param("itemId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart item ID format")
		return
	}

	summary, err := h.useCase.RemoveItem(userID, itemID)
	if err != nil {
		h.log.Errorf("Failed to remove cart item %s for user %d: %v", itemID, userID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	h.log.Infof("Cart item %s removed for user %d", itemID, userID)
	SuccessResponse(c, http.StatusOK, "Item removed from cart", summary)
}
