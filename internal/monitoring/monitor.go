package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"foodmaster/internal/insights"
	"foodmaster/internal/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foodmaster"

// Monitor collects metrics about the shop, the report model and the HTTP API
type Monitor struct {
	registry  *prometheus.Registry
	metrics   map[string]prometheus.Collector
	startTime time.Time

	lastMu sync.RWMutex
	last   map[string]interface{}
}

// NewMonitor creates a monitor with its own registry
func NewMonitor() *Monitor {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Shop mutations by operation",
		},
		[]string{"op"},
	)

	revenue := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "revenue",
		Help:      "Total revenue over all orders",
	})

	orders := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Orders by delivery status",
		},
		[]string{"status"},
	)

	menuItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "menu_items",
		Help:      "Items on the menu",
	})

	insightDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insight_request_duration_seconds",
			Help:      "Time taken by report requests",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"},
	)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	metrics := map[string]prometheus.Collector{
		"mutations":     mutations,
		"revenue":       revenue,
		"orders":        orders,
		"menu_items":    menuItems,
		"insight":       insightDuration,
		"http_requests": httpRequests,
		"http_duration": httpDuration,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Monitor{
		registry:  registry,
		metrics:   metrics,
		startTime: time.Now(),
		last:      make(map[string]interface{}),
	}
}

// Registry returns the registry holding every collector of the monitor
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordMutation counts a shop mutation
func (m *Monitor) RecordMutation(op string) {
	if counter, ok := m.metrics["mutations"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(op).Inc()
	}
}

// ObserveDashboard updates the aggregate gauges
func (m *Monitor) ObserveDashboard(d stats.Dashboard) {
	if gauge, ok := m.metrics["revenue"].(prometheus.Gauge); ok {
		gauge.Set(d.Revenue)
	}
	if gauge, ok := m.metrics["orders"].(*prometheus.GaugeVec); ok {
		gauge.WithLabelValues("pending").Set(float64(d.Pending))
		gauge.WithLabelValues("delivered").Set(float64(d.Completed))
	}
	if gauge, ok := m.metrics["menu_items"].(prometheus.Gauge); ok {
		gauge.Set(float64(d.MenuItems))
	}

	m.record("revenue", d.Revenue)
	m.record("orders_pending", d.Pending)
	m.record("orders_delivered", d.Completed)
	m.record("menu_items", d.MenuItems)
}

// ObserveInsight records the outcome and latency of a report request
func (m *Monitor) ObserveInsight(status insights.Status, elapsed time.Duration) {
	if histogram, ok := m.metrics["insight"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(string(status)).Observe(elapsed.Seconds())
	}
	m.record("last_insight_status", string(status))
	m.record("last_insight_at", time.Now().Format(time.RFC3339))
}

// RecordHTTPRequest records a served request. route is the registered
// pattern, not the raw path.
func (m *Monitor) RecordHTTPRequest(method, route string, code int, elapsed time.Duration) {
	if counter, ok := m.metrics["http_requests"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	}
	if histogram, ok := m.metrics["http_duration"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(method, route).Observe(elapsed.Seconds())
	}
}

func (m *Monitor) record(name string, value interface{}) {
	m.lastMu.Lock()
	defer m.lastMu.Unlock()
	m.last[name] = value
}

// GetMetrics returns the latest recorded values and the uptime
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.lastMu.RLock()
	defer m.lastMu.RUnlock()

	metrics := make(map[string]interface{}, len(m.last)+1)
	for k, v := range m.last {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}
