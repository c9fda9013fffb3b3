package delivery

import (
	"net/http"
	"strings"

	"shop_service/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// ErrorResponseFromErr maps a domain error to its HTTP status. Unexpected
// errors are surfaced as a generic 500 without internal detail.
func ErrorResponseFromErr(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		ErrorResponse(c, status, "Internal server error")
		return
	}
	ErrorResponse(c, status, err.Error())
}

func mapErrorToStatus(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindOutOfStock, domain.KindInsufficientStock, domain.KindInvalidState:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	}

	// Fallback for errors that did not originate from this core.
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") || strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") || strings.Contains(errMsg, "must be positive") || strings.Contains(errMsg, "cannot be negative") {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
