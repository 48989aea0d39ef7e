package api

import (
	"net/http"
	"time"

	"foodmaster/internal/events"
	"foodmaster/internal/insights"
	"foodmaster/internal/monitoring"
	"foodmaster/internal/shop"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShopAPI represents the HTTP API of the shop
type ShopAPI struct {
	Router  *gin.Engine
	Hub     *Hub
	shop    *shop.Shop
	tracker *insights.Tracker
	events  events.Publisher
	monitor *monitoring.Monitor
	logger  *zap.SugaredLogger
}

// Deps holds the collaborators of the API. Monitor and Events may be nil.
type Deps struct {
	Shop    *shop.Shop
	Tracker *insights.Tracker
	Hub     *Hub
	Events  events.Publisher
	Monitor *monitoring.Monitor
	Logger  *zap.SugaredLogger
}

// NewShopAPI creates the router and registers every route
func NewShopAPI(deps Deps) *ShopAPI {
	router := gin.New()
	router.Use(gin.Recovery())

	api := &ShopAPI{
		Router:  router,
		Hub:     deps.Hub,
		shop:    deps.Shop,
		tracker: deps.Tracker,
		events:  deps.Events,
		monitor: deps.Monitor,
		logger:  deps.Logger,
	}
	if api.Hub == nil {
		api.Hub = NewHub(deps.Logger)
	}
	if api.events == nil {
		api.events = api.Hub
	}

	router.Use(api.observe)
	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *ShopAPI) setupRoutes() {
	a.Router.GET("/health", a.Health)

	v1 := a.Router.Group("/api/v1")
	{
		// Menu
		v1.GET("/menu", a.ListMenu)
		v1.POST("/menu", a.CreateMenuItem)
		v1.DELETE("/menu/:id", a.DeleteMenuItem)

		// Orders
		v1.GET("/orders", a.ListOrders)
		v1.GET("/orders/:id", a.GetOrder)
		v1.POST("/orders", a.CreateOrder)
		v1.POST("/orders/:id/toggle", a.ToggleOrder)
		v1.DELETE("/orders/:id", a.DeleteOrder)

		// Draft
		v1.GET("/draft", a.GetDraft)
		v1.POST("/draft/items", a.AddDraftItem)
		v1.DELETE("/draft/items/:index", a.RemoveDraftItem)
		v1.DELETE("/draft", a.ClearDraft)
		v1.POST("/draft/submit", a.SubmitDraft)

		v1.GET("/dashboard", a.GetDashboard)

		v1.GET("/insights", a.GetInsights)
		v1.POST("/insights", a.RequestInsights)

		v1.GET("/ws", a.Hub.Serve)
	}
}

// observe logs every request and records it in the monitor
func (a *ShopAPI) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	if a.monitor != nil {
		a.monitor.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
	}
	a.logger.Debugw("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", elapsed,
	)
}

// Health reports whether the shop started from intact data
func (a *ShopAPI) Health(c *gin.Context) {
	degraded := a.shop.Degraded()
	status := "ok"
	if len(degraded) > 0 {
		status = "degraded"
	}

	body := gin.H{
		"status":   status,
		"degraded": degraded,
	}
	if a.monitor != nil {
		body["uptime_seconds"] = a.monitor.GetMetrics()["uptime_seconds"]
	}

	c.JSON(http.StatusOK, body)
}

// GetDashboard returns the headline figures
func (a *ShopAPI) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dashboard": a.shop.Dashboard(),
		"degraded":  a.shop.Degraded(),
	})
}
