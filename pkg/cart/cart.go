// Package cart holds the client-side shopping cart.
package cart

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	ErrInvalidItem     = errors.New("cart: item needs an id and a non-negative price")
)

type Item struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Cart methods may be called from several goroutines. The zero value is an
// empty cart.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts qty units of item into the cart. Adding an id that is already
// present increases its quantity; the stored title and price are kept.
func (c *Cart) Add(item Item, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if item.ID == "" || item.PriceCents < 0 {
		return ErrInvalidItem
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += qty
			return nil
		}
	}
	item.Quantity = qty
	c.items = append(c.items, item)
	return nil
}

// Remove drops the line for id. It reports whether a line was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, it := range c.items {
		total += it.PriceCents * int64(it.Quantity)
	}
	return total
}

// FormatCents renders minor units as rupees, e.g. 1234 -> "₹12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, cents/100, cents%100)
}
