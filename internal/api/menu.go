package api

import (
	"net/http"

	"foodmaster/internal/models"

	"github.com/gin-gonic/gin"
)

type createMenuItemRequest struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

func (a *ShopAPI) ListMenu(c *gin.Context) {
	c.JSON(http.StatusOK, a.shop.Menu())
}

func (a *ShopAPI) CreateMenuItem(c *gin.Context) {
	var req createMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price == nil {
		a.fail(c, models.ErrInvalidPrice)
		return
	}

	item, err := a.shop.AddItem(c.Request.Context(), req.Name, *req.Price)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteMenuItem removes the item and the order lines that reference it.
// Clients are expected to confirm with the user first.
func (a *ShopAPI) DeleteMenuItem(c *gin.Context) {
	result, err := a.shop.DeleteItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
