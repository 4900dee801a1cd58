package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type Deps struct {
	DB      *gorm.DB
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	AuthMW  *middleware.Auth
}

// New builds the echo instance with the shared middleware stack.
func New(logger *slog.Logger, clientURL string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{clientURL},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{HeaderTotalCount, echo.HeaderXRequestID},
	}))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.HealthResponse{OK: true})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", ready(d.DB))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/me", d.Auth.Me, d.AuthMW.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)

	admin := []echo.MiddlewareFunc{d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin}
	products.POST("", d.Catalog.CreateProduct, admin...)
	products.PUT("/:id", d.Catalog.UpdateProduct, admin...)
	products.PATCH("/:id", d.Catalog.UpdateProduct, admin...)
	products.DELETE("/:id", d.Catalog.DeleteProduct, admin...)
}

func ready(gdb *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, gdb); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
