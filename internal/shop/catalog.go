package shop

import "foodmaster/internal/models"

// Catalog represents the menu. Items keep insertion order.
type Catalog struct {
	items []models.MenuItem
}

func (c *Catalog) add(item models.MenuItem) {
	c.items = append(c.items, item)
}

// remove drops the item with the given id and reports whether it existed
func (c *Catalog) remove(id string) bool {
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find looks up a menu item. A missing item is an expected outcome.
func (c *Catalog) Find(id string) (models.MenuItem, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// Items returns a copy of the menu
func (c *Catalog) Items() []models.MenuItem {
	return append([]models.MenuItem{}, c.items...)
}

func (c *Catalog) Len() int {
	return len(c.items)
}
