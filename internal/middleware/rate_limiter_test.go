package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postLogin(e *echo.Echo, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_PerClientBurst(t *testing.T) {
	e := echo.New()
	e.POST("/admin/login", func(c echo.Context) error {
		return c.NoContent(http.StatusSeeOther)
	}, RateLimiter(LoginRateLimit))

	for i := 0; i < LoginRateLimit; i++ {
		rec := postLogin(e, "192.0.2.2:1234")
		require.Equal(t, http.StatusSeeOther, rec.Code, "attempt %d is within the burst", i+1)
	}

	rec := postLogin(e, "192.0.2.2:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "the limit is keyed by IP, not port")
	assert.Equal(t, "6", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many attempts")

	assert.Equal(t, http.StatusSeeOther, postLogin(e, "192.0.2.3:1234").Code, "other clients are unaffected")
}
