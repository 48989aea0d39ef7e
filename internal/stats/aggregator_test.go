package stats

import (
	"testing"
	"time"

	"foodmaster/internal/models"

	"github.com/stretchr/testify/assert"
)

var menu = []models.MenuItem{
	{ID: "a", Name: "Phở", Price: 50000},
	{ID: "b", Name: "Bánh mì", Price: 20000},
	{ID: "c", Name: "Trà đá", Price: 5000},
}

func order(id string, delivered bool, items ...models.OrderItem) models.Order {
	return models.Order{ID: id, CustomerName: "An", Items: items, Date: time.Now(), IsDelivered: delivered}
}

func line(foodID string, qty int) models.OrderItem {
	return models.OrderItem{FoodID: foodID, Quantity: qty}
}

func TestOrderTotal(t *testing.T) {
	ix := NewIndex(menu)

	tests := []struct {
		name  string
		order models.Order
		want  float64
	}{
		{"single line", order("1", false, line("a", 2)), 100000},
		{"multiple lines", order("2", false, line("a", 1), line("b", 2), line("c", 3)), 105000},
		{"dangling line is zero", order("3", false, line("a", 1), line("gone", 10)), 50000},
		{"all dangling", order("4", false, line("gone", 1)), 0},
		{"no lines", order("5", false), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderTotal(tt.order, ix))
		})
	}
}

func TestOrderTotal_InvariantUnderReordering(t *testing.T) {
	ix := NewIndex(menu)
	forward := order("1", false, line("a", 1), line("b", 2), line("gone", 4), line("c", 3))
	reversed := order("1", false, line("c", 3), line("gone", 4), line("b", 2), line("a", 1))

	assert.Equal(t, OrderTotal(forward, ix), OrderTotal(reversed, ix))
}

func TestTotalRevenue_IgnoresStatus(t *testing.T) {
	ix := NewIndex(menu)
	orders := []models.Order{
		order("1", true, line("a", 1)),
		order("2", false, line("b", 1)),
		order("3", false, line("gone", 5)),
	}

	var sum float64
	for _, o := range orders {
		sum += OrderTotal(o, ix)
	}

	assert.Equal(t, 70000.0, TotalRevenue(orders, ix))
	assert.Equal(t, sum, TotalRevenue(orders, ix))
	assert.Zero(t, TotalRevenue(nil, ix))
}

func TestCounts_PartitionOrders(t *testing.T) {
	orders := []models.Order{
		order("1", true, line("a", 1)),
		order("2", false, line("a", 1)),
	}

	assert.Equal(t, 1, PendingCount(orders))
	assert.Equal(t, 1, CompletedCount(orders))
	assert.Equal(t, len(orders), PendingCount(orders)+CompletedCount(orders))

	assert.Zero(t, PendingCount(nil))
	assert.Zero(t, CompletedCount(nil))
}

func TestDisplayLabel(t *testing.T) {
	ix := NewIndex(menu)

	assert.Equal(t, "Phở", DisplayLabel("a", ix))
	assert.Equal(t, FallbackLabel, DisplayLabel("deleted", ix))
}

func TestBuildOrderView(t *testing.T) {
	ix := NewIndex(menu)
	o := order("1", true, line("a", 2), line("gone", 1))

	v := BuildOrderView(o, ix)

	assert.Equal(t, "1", v.ID)
	assert.Equal(t, StatusLabelDelivered, v.StatusLabel)
	assert.Equal(t, 100000.0, v.Total)
	assert.Equal(t, "100.000 đ", v.TotalText)
	assert.Equal(t, []LineView{
		{FoodID: "a", Quantity: 2, Label: "Phở", Total: 100000},
		{FoodID: "gone", Quantity: 1, Label: FallbackLabel, Dangling: true, Total: 0},
	}, v.Items)
}

func TestBuildDashboard(t *testing.T) {
	orders := []models.Order{
		order("1", true, line("a", 2)),
		order("2", false, line("b", 1), line("c", 2)),
	}

	d := BuildDashboard(orders, menu)

	assert.Equal(t, Dashboard{
		Revenue:     130000,
		RevenueText: "130.000 đ",
		Pending:     1,
		Completed:   1,
		Orders:      2,
		MenuItems:   3,
	}, d)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "50.000 đ", FormatMoney(50000))
	assert.Equal(t, "0 đ", FormatMoney(0))
	assert.Equal(t, "1.250.000 đ", FormatMoney(1250000))
	assert.Equal(t, "999 đ", FormatMoney(999.4))
	assert.Equal(t, "12.501 đ", FormatMoney(12500.6))
	assert.Equal(t, "1.000 đ", FormatMoney(999.5))
	assert.Equal(t, "0 đ", FormatMoney(-0.4))
}
