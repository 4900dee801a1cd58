package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			l.Warn("register_failed", "status", 400, "reason", "validation", "field", ve.Field)
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_failed", "status", 409, "reason", "email taken")
			return echo.NewHTTPError(http.StatusConflict, "Email is already in use")
		default:
			l.Error("register_failed", "status", 500, "reason", "cannot create user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
		}
	}

	return c.JSON(http.StatusCreated, transport.AuthResponse{Token: res.Token, User: res.User})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			l.Warn("login_failed", "status", 400, "reason", "validation", "field", ve.Field)
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
		}
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.AuthResponse{Token: res.Token, User: res.User})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	user, err := h.Svc.Profile(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_me_failed", "status", 404, "reason", "user not found")
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		l.Error("get_me_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve user profile")
	}
	return c.JSON(http.StatusOK, user)
}
