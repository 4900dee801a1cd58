package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const msgInternal = "Internal server error"

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}
	if code >= http.StatusInternalServerError && msg == "" {
		msg = msgInternal
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, transport.ErrorResponse{Error: msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}
