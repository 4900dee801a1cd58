package shopclient

import (
	"errors"
	"fmt"
	"time"
)

var ErrMalformedProduct = errors.New("malformed product")

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == "admin" }

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate rejects products the shop cannot display or sell.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedProduct)
	case p.Title == "":
		return fmt.Errorf("%w: %s has no title", ErrMalformedProduct, p.ID)
	case p.PriceCents < 0:
		return fmt.Errorf("%w: %s has negative price", ErrMalformedProduct, p.ID)
	case p.Stock < 0:
		return fmt.Errorf("%w: %s has negative stock", ErrMalformedProduct, p.ID)
	}
	return nil
}

func validateAll(ps []Product) error {
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
