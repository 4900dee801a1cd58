package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
	RoleKey   = "role"

	tokenSeenKey = "auth.token_seen"
)

func setUserContext(c echo.Context, claims *tokens.Claims) {
	c.Set(UserIDKey, claims.ID)
	c.Set(RoleKey, claims.Role)

	req := c.Request()
	l := logging.FromContext(req.Context()).With("user_id", claims.ID)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*tokens.Claims)
	return claims, ok && claims != nil
}

func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(RoleKey).(string)
	return role
}
