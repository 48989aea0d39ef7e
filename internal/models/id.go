package models

import "github.com/google/uuid"

// IDGenerator produces identifiers for new menu items and orders
type IDGenerator func() string

// NewID returns a random UUID string
func NewID() string {
	return uuid.NewString()
}
