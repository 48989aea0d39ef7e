package api

import (
	"errors"
	"net/http"

	"foodmaster/internal/insights"
	"foodmaster/internal/models"
	"foodmaster/internal/shop"

	"github.com/gin-gonic/gin"
)

var errBadIndex = errors.New("draft line index must be an integer")

var validationErrors = []error{
	models.ErrInvalidName,
	models.ErrInvalidPrice,
	models.ErrInvalidCustomer,
	models.ErrEmptyOrder,
	models.ErrInvalidQuantity,
	models.ErrMissingFoodID,
	models.ErrDraftIndex,
	errBadIndex,
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, shop.ErrMenuItemNotFound), errors.Is(err, shop.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, insights.ErrRequestInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *ShopAPI) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
