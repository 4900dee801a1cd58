package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

// RequireAdmin must run after RequireAuth.
func (a *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_admin")

		if _, ok := ClaimsFrom(c); !ok {
			l.Warn("admin_check_failed", "status", 401, "reason", "no authenticated user")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
		}
		if Role(c) != models.RoleAdmin {
			l.Warn("admin_check_failed", "status", 403, "reason", "role is not admin", "user_id", UserID(c))
			return echo.NewHTTPError(http.StatusForbidden, MsgAdminOnly)
		}
		return next(c)
	}
}
