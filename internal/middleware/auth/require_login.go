package middleware

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const (
	MsgMissingToken = "Missing token"
	MsgInvalidToken = "Invalid token"
	MsgAdminOnly    = "Admin only"

	bearerPrefix = "Bearer "
)

// Auth guards routes with bearer tokens minted by tokens.Codec.
type Auth struct {
	Codec  *tokens.Codec
	bearer echo.MiddlewareFunc
}

func NewAuth(codec *tokens.Codec) *Auth {
	a := &Auth{Codec: codec}
	a.bearer = echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			c.Set(tokenSeenKey, true)
			return a.Codec.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get(ClaimsKey).(*tokens.Claims); ok {
				setUserContext(c, claims)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "require_auth")
			if seen, _ := c.Get(tokenSeenKey).(bool); !seen {
				l.Warn("auth_failed", "status", 401, "reason", "missing token")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
			}
			l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		},
	})
	return a
}

// RequireAuth rejects requests without a valid bearer token and
// exposes its claims on the echo context. The scheme must be spelled
// exactly "Bearer".
func (a *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	h := a.bearer(next)
	return func(c echo.Context) error {
		if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix) {
			logging.FromContext(c.Request().Context()).With("middleware", "require_auth").
				Warn("auth_failed", "status", 401, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
		}
		return h(c)
	}
}
