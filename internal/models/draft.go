package models

import (
	"errors"
	"fmt"
)

var ErrDraftIndex = errors.New("draft line index out of range")

// Draft accumulates order lines before an order is submitted. Adding a food
// that is already in the draft increases the quantity of the existing line.
type Draft struct {
	items []OrderItem
}

// Add merges quantity into the line for foodID, appending a new line when
// the food is not in the draft yet.
func (d *Draft) Add(foodID string, quantity int) error {
	item := OrderItem{FoodID: foodID, Quantity: quantity}
	if err := ValidateOrderItem(item); err != nil {
		return err
	}

	for i := range d.items {
		if d.items[i].FoodID == foodID {
			d.items[i].Quantity += quantity
			return nil
		}
	}

	d.items = append(d.items, item)
	return nil
}

// Remove drops the line at index
func (d *Draft) Remove(index int) error {
	if index < 0 || index >= len(d.items) {
		return fmt.Errorf("%w: %d", ErrDraftIndex, index)
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

// RemoveFood drops every line for foodID and reports how many were removed
func (d *Draft) RemoveFood(foodID string) int {
	kept := d.items[:0]
	for _, item := range d.items {
		if item.FoodID != foodID {
			kept = append(kept, item)
		}
	}
	removed := len(d.items) - len(kept)
	d.items = kept
	return removed
}

// Items returns a copy of the draft lines in insertion order
func (d *Draft) Items() []OrderItem {
	return append([]OrderItem{}, d.items...)
}

func (d *Draft) Len() int {
	return len(d.items)
}

// Reset empties the draft
func (d *Draft) Reset() {
	d.items = nil
}
