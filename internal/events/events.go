package events

import (
	"context"
	"time"
)

const (
	TopicUsers    = "user_events"
	TopicProducts = "product_events"
)

const (
	TypeUserRegistered = "user_registered"
	TypeUserLoggedIn   = "user_logged_in"

	TypeProductCreated = "product_created"
	TypeProductUpdated = "product_updated"
	TypeProductDeleted = "product_deleted"
)

type UserEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userID"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	At     time.Time `json:"at"`
}

type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productID"`
	Title      string    `json:"title,omitempty"`
	PriceCents int64     `json:"price_cents,omitempty"`
	Stock      int       `json:"stock,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher delivers domain events keyed by aggregate id.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                       { return nil }
