package api

import (
	"errors"
	"net/http"

	"foodmaster/internal/events"
	"foodmaster/internal/insights"

	"github.com/gin-gonic/gin"
)

func (a *ShopAPI) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, a.tracker.State())
}

// RequestInsights starts a report over the current orders and returns
// without waiting for it. Poll GetInsights or listen on the websocket for
// the result.
func (a *ShopAPI) RequestInsights(c *gin.Context) {
	orders, menu := a.shop.Snapshot()

	state, err := a.tracker.Start(orders, menu)
	switch {
	case errors.Is(err, insights.ErrNoOrders):
		c.JSON(http.StatusOK, gin.H{"status": insights.StatusUnavailable})
		return
	case errors.Is(err, insights.ErrRequestInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": state})
		return
	case err != nil:
		a.fail(c, err)
		return
	}

	if err := a.events.Publish(c.Request.Context(), events.New(events.InsightsStarted, state)); err != nil {
		a.logger.Warnw("failed to publish event", "type", events.InsightsStarted, "error", err)
	}

	c.JSON(http.StatusAccepted, state)
}
