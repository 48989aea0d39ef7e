package shop

import "foodmaster/internal/models"

// OrderLedger represents the list of orders, most recent first
type OrderLedger struct {
	orders []models.Order
}

func (l *OrderLedger) prepend(order models.Order) {
	l.orders = append([]models.Order{order}, l.orders...)
}

func (l *OrderLedger) index(id string) int {
	for i := range l.orders {
		if l.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// toggle flips the delivery flag. Unknown ids are ignored.
func (l *OrderLedger) toggle(id string) (models.Order, bool) {
	i := l.index(id)
	if i < 0 {
		return models.Order{}, false
	}
	l.orders[i].IsDelivered = !l.orders[i].IsDelivered
	return l.orders[i].Clone(), true
}

func (l *OrderLedger) remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.orders = append(l.orders[:i], l.orders[i+1:]...)
	return true
}

// dropFood removes every line referencing foodID, then every order left
// without lines. It returns the number of orders touched and dropped.
func (l *OrderLedger) dropFood(foodID string) (touched, dropped int) {
	kept := l.orders[:0]
	for _, order := range l.orders {
		items := make([]models.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			if item.FoodID != foodID {
				items = append(items, item)
			}
		}

		if len(items) != len(order.Items) {
			touched++
		}
		if len(items) == 0 {
			dropped++
			continue
		}

		order.Items = items
		kept = append(kept, order)
	}

	for i := len(kept); i < len(l.orders); i++ {
		l.orders[i] = models.Order{}
	}
	l.orders = kept
	return touched, dropped
}

// Find returns a copy of the order with the given id
func (l *OrderLedger) Find(id string) (models.Order, bool) {
	i := l.index(id)
	if i < 0 {
		return models.Order{}, false
	}
	return l.orders[i].Clone(), true
}

// Orders returns a deep copy of the ledger
func (l *OrderLedger) Orders() []models.Order {
	out := make([]models.Order, 0, len(l.orders))
	for _, order := range l.orders {
		out = append(out, order.Clone())
	}
	return out
}

func (l *OrderLedger) Len() int {
	return len(l.orders)
}
