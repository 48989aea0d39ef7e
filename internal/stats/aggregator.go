// Package stats derives totals, counts and display values from a snapshot of
// the catalog and the order ledger. Nothing here stores state.
package stats

import (
	"time"

	"foodmaster/internal/models"
)

const (
	// FallbackLabel is shown for order lines whose menu item was deleted
	FallbackLabel = "Món đã xóa"

	StatusLabelDelivered = "Đã giao"
	StatusLabelPending   = "Đang xử lý"
)

// Lookup resolves a food id to its menu item. A missing item is a normal
// outcome, not an error.
type Lookup interface {
	Find(id string) (models.MenuItem, bool)
}

// Index is a Lookup over a menu snapshot
type Index map[string]models.MenuItem

// NewIndex indexes menu by id
func NewIndex(menu []models.MenuItem) Index {
	ix := make(Index, len(menu))
	for _, item := range menu {
		ix[item.ID] = item
	}
	return ix
}

func (ix Index) Find(id string) (models.MenuItem, bool) {
	item, ok := ix[id]
	return item, ok
}

// DisplayLabel returns the name of the referenced menu item, or
// FallbackLabel when the reference dangles.
func DisplayLabel(foodID string, menu Lookup) string {
	if item, ok := menu.Find(foodID); ok {
		return item.Name
	}
	return FallbackLabel
}

// LineTotal values one order line. Dangling references are worth zero.
func LineTotal(item models.OrderItem, menu Lookup) float64 {
	food, ok := menu.Find(item.FoodID)
	if !ok {
		return 0
	}
	return food.Price * float64(item.Quantity)
}

// OrderTotal sums quantity × price over the order lines
func OrderTotal(order models.Order, menu Lookup) float64 {
	var total float64
	for _, item := range order.Items {
		total += LineTotal(item, menu)
	}
	return total
}

// TotalRevenue sums OrderTotal over all orders regardless of delivery status
func TotalRevenue(orders []models.Order, menu Lookup) float64 {
	var total float64
	for _, order := range orders {
		total += OrderTotal(order, menu)
	}
	return total
}

// PendingCount counts orders not yet delivered
func PendingCount(orders []models.Order) int {
	n := 0
	for _, order := range orders {
		if !order.IsDelivered {
			n++
		}
	}
	return n
}

// CompletedCount counts delivered orders
func CompletedCount(orders []models.Order) int {
	return len(orders) - PendingCount(orders)
}

// StatusLabel returns the display text for the delivery state of an order
func StatusLabel(order models.Order) string {
	if order.IsDelivered {
		return StatusLabelDelivered
	}
	return StatusLabelPending
}

// LineView is an order line ready for display
type LineView struct {
	FoodID   string  `json:"foodId"`
	Quantity int     `json:"quantity"`
	Label    string  `json:"label"`
	Dangling bool    `json:"dangling"`
	Total    float64 `json:"total"`
}

// OrderView is an order with its derived figures
type OrderView struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Date         time.Time  `json:"date"`
	IsDelivered  bool       `json:"isDelivered"`
	StatusLabel  string     `json:"statusLabel"`
	Items        []LineView `json:"items"`
	Total        float64    `json:"total"`
	TotalText    string     `json:"totalText"`
}

// BuildOrderView resolves every line of order against menu
func BuildOrderView(order models.Order, menu Lookup) OrderView {
	lines := make([]LineView, 0, len(order.Items))
	for _, item := range order.Items {
		_, found := menu.Find(item.FoodID)
		lines = append(lines, LineView{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			Label:    DisplayLabel(item.FoodID, menu),
			Dangling: !found,
			Total:    LineTotal(item, menu),
		})
	}

	total := OrderTotal(order, menu)
	return OrderView{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Date:         order.Date,
		IsDelivered:  order.IsDelivered,
		StatusLabel:  StatusLabel(order),
		Items:        lines,
		Total:        total,
		TotalText:    FormatMoney(total),
	}
}

// BuildOrderViews keeps the ledger order
func BuildOrderViews(orders []models.Order, menu Lookup) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, BuildOrderView(order, menu))
	}
	return views
}

// Dashboard holds the headline figures of the business
type Dashboard struct {
	Revenue     float64 `json:"revenue"`
	RevenueText string  `json:"revenueText"`
	Pending     int     `json:"pending"`
	Completed   int     `json:"completed"`
	Orders      int     `json:"orders"`
	MenuItems   int     `json:"menuItems"`
}

// BuildDashboard computes the dashboard for a snapshot
func BuildDashboard(orders []models.Order, menu []models.MenuItem) Dashboard {
	revenue := TotalRevenue(orders, NewIndex(menu))
	return Dashboard{
		Revenue:     revenue,
		RevenueText: FormatMoney(revenue),
		Pending:     PendingCount(orders),
		Completed:   CompletedCount(orders),
		Orders:      len(orders),
		MenuItems:   len(menu),
	}
}
