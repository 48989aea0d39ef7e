package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidName  = errors.New("menu item name is required")
	ErrInvalidPrice = errors.New("menu item price must be a finite number")
)

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ValidateMenuItem validates the fields of a new menu item.
// Negative prices are accepted.
func ValidateMenuItem(name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}
