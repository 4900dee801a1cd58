package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one line per request once the error handler has produced a status.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With(
				"method", req.Method,
				"path", c.Path(),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if uid, ok := c.Get("user_id").(string); ok && uid != "" {
				attrs = append(attrs, "user_id", uid)
			}

			status := c.Response().Status
			switch {
			case status >= 500:
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
				l.Error("request completed", attrs...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}
