// Package events carries notifications about state changes to interested
// Views and to external consumers.
package events

import (
	"context"
	"errors"
	"time"
)

// Type names a kind of event
type Type string

const (
	MenuItemAdded     Type = "menu.item_added"
	MenuItemDeleted   Type = "menu.item_deleted"
	OrderAdded        Type = "order.added"
	OrderToggled      Type = "order.toggled"
	OrderDeleted      Type = "order.deleted"
	DraftChanged      Type = "draft.changed"
	InsightsStarted   Type = "insights.started"
	InsightsCompleted Type = "insights.completed"
)

// Event represents something that happened in the shop
type Event struct {
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// New creates an event stamped with the current time
func New(t Type, payload interface{}) Event {
	return Event{Type: t, Payload: payload, At: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes every event to all of its publishers
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
