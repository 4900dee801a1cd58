package transport

import "github.com/Skotchmaster/storefront/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// CreateProductRequest uses a pointer for price so that an omitted price
// is distinguishable from a free product.
type CreateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  *int64 `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Stock       *int   `json:"stock"`
}

type UpdateProductRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	ImageURL    *string `json:"image_url"`
	Stock       *int    `json:"stock"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}
