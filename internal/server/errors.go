package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
)

// setupErrorHandling lets echo.HTTPErrors through and turns everything else
// into a logged 500 with a stack trace.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		req := c.Request()
		middleware.FromContext(req.Context()).Error("Internal Server Error (Unhandled)",
			"error", err,
			"method", req.Method,
			"path", req.URL.Path,
			"stack_trace", string(debug.Stack()),
		)
		e.DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusInternalServerError), c)
	}
}
