package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCustomer = errors.New("customer name is required")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrMissingFoodID   = errors.New("order item must reference a menu item")
)

// OrderItem represents a line of an order. FoodID may reference a menu item
// that no longer exists.
type OrderItem struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

// Order represents a customer order
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
	Date         time.Time   `json:"date"`
	IsDelivered  bool        `json:"isDelivered"`
}

// OrderStatus represents the delivery state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Status returns the delivery state of the order
func (o Order) Status() OrderStatus {
	if o.IsDelivered {
		return OrderStatusDelivered
	}
	return OrderStatusPending
}

// Clone returns a copy of the order that shares no item storage with o.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}

// ValidateOrderItem validates a single order line
func ValidateOrderItem(item OrderItem) error {
	if item.FoodID == "" {
		return ErrMissingFoodID
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	return nil
}

// ValidateOrder validates the caller-supplied fields of a new order
func ValidateOrder(customerName string, items []OrderItem) error {
	if strings.TrimSpace(customerName) == "" {
		return ErrInvalidCustomer
	}
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if err := ValidateOrderItem(item); err != nil {
			return err
		}
	}
	return nil
}
