package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	e := newSessionEcho()
	e.POST("/admin/login", func(c echo.Context) error {
		if err := SetAdmin(c, true); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/admin/logout", func(c echo.Context) error {
		if err := SetAdmin(c, false); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "dashboard")
	}, RequireAdmin("/admin/login"))

	t.Run("redirects anonymous requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("htmx requests get HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("login then logout", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
		loginCookies := rec.Result().Cookies()
		require.NotEmpty(t, loginCookies)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		for _, ck := range loginCookies {
			req.AddCookie(ck)
		}
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dashboard", rec.Body.String())

		req = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
		for _, ck := range loginCookies {
			req.AddCookie(ck)
		}
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		logoutCookies := rec.Result().Cookies()
		require.NotEmpty(t, logoutCookies)
		assert.Less(t, logoutCookies[0].MaxAge, 0, "logout expires the admin cookie")
	})
}
