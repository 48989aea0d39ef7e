package api

import (
	"net/http"

	"foodmaster/internal/models"
	"foodmaster/internal/shop"
	"foodmaster/internal/stats"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CustomerName string             `json:"customerName"`
	Items        []models.OrderItem `json:"items"`
}

func (a *ShopAPI) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, a.shop.OrderViews())
}

func (a *ShopAPI) GetOrder(c *gin.Context) {
	order, ok := a.shop.FindOrder(c.Param("id"))
	if !ok {
		a.fail(c, shop.ErrOrderNotFound)
		return
	}

	c.JSON(http.StatusOK, stats.BuildOrderView(order, stats.NewIndex(a.shop.Menu())))
}

func (a *ShopAPI) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := a.shop.AddOrder(c.Request.Context(), req.CustomerName, req.Items)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (a *ShopAPI) ToggleOrder(c *gin.Context) {
	id := c.Param("id")
	order, found, err := a.shop.ToggleDelivered(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !found {
		a.fail(c, shop.ErrOrderNotFound)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order. Clients are expected to confirm first.
func (a *ShopAPI) DeleteOrder(c *gin.Context) {
	if err := a.shop.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
