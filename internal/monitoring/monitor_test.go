package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodmaster/internal/insights"
	"foodmaster/internal/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_RecordMutation(t *testing.T) {
	m := NewMonitor()
	m.RecordMutation("add_order")
	m.RecordMutation("add_order")
	m.RecordMutation("delete_item")

	counter := m.metrics["mutations"].(*prometheus.CounterVec)
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("add_order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("delete_item")))
}

func TestMonitor_ObserveDashboard(t *testing.T) {
	m := NewMonitor()
	m.ObserveDashboard(stats.Dashboard{Revenue: 150000, Pending: 1, Completed: 2, Orders: 3, MenuItems: 4})

	assert.Equal(t, 150000.0, testutil.ToFloat64(m.metrics["revenue"].(prometheus.Gauge)))
	orders := m.metrics["orders"].(*prometheus.GaugeVec)
	assert.Equal(t, 1.0, testutil.ToFloat64(orders.WithLabelValues("pending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(orders.WithLabelValues("delivered")))

	metrics := m.GetMetrics()
	assert.Equal(t, 4, metrics["menu_items"])
	assert.Contains(t, metrics, "uptime_seconds")
}

func TestMonitor_ObserveInsight(t *testing.T) {
	m := NewMonitor()
	m.ObserveInsight(insights.StatusFailed, 2*time.Second)

	histogram := m.metrics["insight"].(*prometheus.HistogramVec)
	assert.Equal(t, 1, testutil.CollectAndCount(histogram))
	assert.Equal(t, "failed", m.GetMetrics()["last_insight_status"])
}

func TestMonitor_Handler(t *testing.T) {
	m := NewMonitor()
	m.RecordHTTPRequest(http.MethodGet, "/api/v1/menu", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `foodmaster_http_requests_total{code="200",method="GET",route="/api/v1/menu"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
