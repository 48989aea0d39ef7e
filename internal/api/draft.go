package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addDraftItemRequest struct {
	FoodID   string `json:"foodId"`
	Quantity *int   `json:"quantity"`
}

type submitDraftRequest struct {
	CustomerName string `json:"customerName"`
}

func (a *ShopAPI) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, a.shop.Draft())
}

func (a *ShopAPI) AddDraftItem(c *gin.Context) {
	var req addDraftItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	draft, err := a.shop.AddToDraft(c.Request.Context(), req.FoodID, quantity)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (a *ShopAPI) RemoveDraftItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		a.fail(c, errBadIndex)
		return
	}

	draft, err := a.shop.RemoveDraftLine(c.Request.Context(), index)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (a *ShopAPI) ClearDraft(c *gin.Context) {
	c.JSON(http.StatusOK, a.shop.ClearDraft(c.Request.Context()))
}

func (a *ShopAPI) SubmitDraft(c *gin.Context) {
	var req submitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := a.shop.SubmitDraft(c.Request.Context(), req.CustomerName)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
