package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodmaster/internal/database"
	"foodmaster/internal/events"
	"foodmaster/internal/insights"
	"foodmaster/internal/models"
	"foodmaster/internal/monitoring"
	"foodmaster/internal/shop"
	"foodmaster/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	api     *ShopAPI
	shop    *shop.Shop
	tracker *insights.Tracker
}

func newTestEnv(t *testing.T, summarize insights.SummarizerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop().Sugar()
	s := shop.New(database.NewMemoryStore(), shop.Config{}, logger)
	require.NoError(t, s.Load(context.Background()))

	hub := NewHub(logger)
	s.SetPublisher(hub)

	requester := insights.NewRequester(summarize, time.Second, logger)
	tracker := insights.NewTracker(requester, func(st insights.State) {
		_ = hub.Publish(context.Background(), events.New(events.InsightsCompleted, st))
	})

	api := NewShopAPI(Deps{
		Shop:    s,
		Tracker: tracker,
		Hub:     hub,
		Monitor: monitoring.NewMonitor(),
		Logger:  logger,
	})
	t.Cleanup(hub.Close)

	return &testEnv{api: api, shop: s, tracker: tracker}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.api.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func okSummarizer(context.Context, string) (string, error) {
	return "Báo cáo", nil
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, okSummarizer)

	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Empty(t, body["degraded"])
	assert.Contains(t, body, "uptime_seconds")
}

func TestMenuLifecycle(t *testing.T) {
	env := newTestEnv(t, okSummarizer)

	w := env.do(t, http.MethodPost, "/api/v1/menu", gin.H{"name": "Phở", "price": 50000})
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.MenuItem
	decode(t, w, &item)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Phở", item.Name)

	w = env.do(t, http.MethodGet, "/api/v1/menu", nil)
	var menu []models.MenuItem
	decode(t, w, &menu)
	assert.Equal(t, []models.MenuItem{item}, menu)

	w = env.do(t, http.MethodDelete, "/api/v1/menu/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/menu/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMenuItemValidation(t *testing.T) {
	env := newTestEnv(t, okSummarizer)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing name", gin.H{"price": 10}},
		{"missing price", gin.H{"name": "Phở"}},
		{"price not a number", gin.H{"name": "Phở", "price": "cheap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/menu", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	assert.Empty(t, env.shop.Menu())
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t, okSummarizer)
	pho, err := env.shop.AddItem(context.Background(), "Phở", 50000)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customerName": "An",
		"items":        []gin.H{{"foodId": pho.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decode(t, w, &order)
	assert.False(t, order.IsDelivered)

	w = env.do(t, http.MethodGet, "/api/v1/orders", nil)
	var views []stats.OrderView
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, 100000.0, views[0].Total)
	assert.Equal(t, "100.000 đ", views[0].TotalText)
	assert.Equal(t, "Đang xử lý", views[0].StatusLabel)

	w = env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.True(t, order.IsDelivered)

	w = env.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	var view stats.OrderView
	decode(t, w, &view)
	assert.Equal(t, "Đã giao", view.StatusLabel)

	w = env.do(t, http.MethodPost, "/api/v1/orders/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t, okSummarizer)

	w := env.do(t, http.MethodPost, "/api/v1/orders", gin.H{"customerName": "", "items": []gin.H{{"foodId": "a", "quantity": 1}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/orders", gin.H{"customerName": "An", "items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/orders", gin.H{"customerName": "An", "items": []gin.H{{"foodId": "a", "quantity": 0}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.shop.Orders())
}

func TestDraftFlow(t *testing.T) {
	env := newTestEnv(t, okSummarizer)
	pho, _ := env.shop.AddItem(context.Background(), "Phở", 50000)

	w := env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": pho.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": pho.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var draft shop.DraftView
	decode(t, w, &draft)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 3, draft.Items[0].Quantity)

	w = env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": "missing", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/draft/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/draft/items/4", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/draft/submit", gin.H{"customerName": "An"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/draft", nil)
	decode(t, w, &draft)
	assert.Empty(t, draft.Items)

	w = env.do(t, http.MethodPost, "/api/v1/draft/submit", gin.H{"customerName": "An"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, _ = env.shop.AddToDraft(context.Background(), pho.ID, 1)
	w = env.do(t, http.MethodDelete, "/api/v1/draft/items/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, _ = env.shop.AddToDraft(context.Background(), pho.ID, 1)
	w = env.do(t, http.MethodDelete, "/api/v1/draft", nil)
	decode(t, w, &draft)
	assert.Empty(t, draft.Items)
}

func TestAddDraftItemQuantity(t *testing.T) {
	env := newTestEnv(t, okSummarizer)
	pho, _ := env.shop.AddItem(context.Background(), "Phở", 50000)

	w := env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": pho.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": pho.ID, "quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.shop.Draft().Items)

	w = env.do(t, http.MethodPost, "/api/v1/draft/items", gin.H{"foodId": pho.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var draft shop.DraftView
	decode(t, w, &draft)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 1, draft.Items[0].Quantity)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, okSummarizer)
	ctx := context.Background()
	pho, _ := env.shop.AddItem(ctx, "Phở", 50000)
	o, _ := env.shop.AddOrder(ctx, "An", []models.OrderItem{{FoodID: pho.ID, Quantity: 1}})
	_, _ = env.shop.AddOrder(ctx, "Bình", []models.OrderItem{{FoodID: pho.ID, Quantity: 1}})
	_, _, _ = env.shop.ToggleDelivered(ctx, o.ID)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Dashboard stats.Dashboard `json:"dashboard"`
	}
	decode(t, w, &body)
	assert.Equal(t, 100000.0, body.Dashboard.Revenue)
	assert.Equal(t, "100.000 đ", body.Dashboard.RevenueText)
	assert.Equal(t, 1, body.Dashboard.Pending)
	assert.Equal(t, 1, body.Dashboard.Completed)
}

func TestInsightsWithoutOrders(t *testing.T) {
	called := false
	env := newTestEnv(t, func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})

	w := env.do(t, http.MethodPost, "/api/v1/insights", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	assert.False(t, called)
}

func TestInsightsLifecycle(t *testing.T) {
	release := make(chan struct{})
	env := newTestEnv(t, func(ctx context.Context, prompt string) (string, error) {
		<-release
		return "Báo cáo", nil
	})
	ctx := context.Background()
	pho, _ := env.shop.AddItem(ctx, "Phở", 50000)
	_, _ = env.shop.AddOrder(ctx, "An", []models.OrderItem{{FoodID: pho.ID, Quantity: 1}})

	w := env.do(t, http.MethodPost, "/api/v1/insights", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var state insights.State
	decode(t, w, &state)
	assert.Equal(t, insights.StatusRequesting, state.Status)

	w = env.do(t, http.MethodPost, "/api/v1/insights", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(release)
	env.tracker.Wait()

	w = env.do(t, http.MethodGet, "/api/v1/insights", nil)
	decode(t, w, &state)
	assert.Equal(t, insights.StatusSucceeded, state.Status)
	assert.Equal(t, "Báo cáo", state.Report)
}

func TestWebSocketReceivesEvents(t *testing.T) {
	env := newTestEnv(t, okSummarizer)
	server := httptest.NewServer(env.api.Router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.api.Hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	_, err = env.shop.AddItem(context.Background(), "Phở", 50000)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var e map[string]interface{}
	require.NoError(t, json.Unmarshal(message, &e))
	assert.Equal(t, string(events.MenuItemAdded), e["type"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(models.ErrEmptyOrder))
	assert.Equal(t, http.StatusNotFound, statusFor(shop.ErrOrderNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(insights.ErrRequestInFlight))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
