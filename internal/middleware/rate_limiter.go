package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// LoginRateLimit is the number of admin login attempts allowed per minute per IP.
const LoginRateLimit = 10

// RateLimiter allows a burst of perMinute requests per client IP, refilled
// evenly over a minute. Rejected requests get 429 with a Retry-After hint.
func RateLimiter(perMinute int) echo.MiddlewareFunc {
	retryAfter := strconv.Itoa(max(1, 60/max(perMinute, 1)))

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(float64(perMinute) / 60),
			Burst: perMinute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Response().Header().Set("Retry-After", retryAfter)
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		},
	})
}
