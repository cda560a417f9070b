package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// AdminSessionName is the cookie session carrying the admin login flag.
	AdminSessionName = "quirklab-admin"

	adminFlagKey = "authenticated"
)

// RequireAdmin protects routes that need an admin login. Plain requests are
// redirected to loginPath; htmx requests get an HX-Redirect header instead.
func RequireAdmin(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAdmin(c) {
				return next(c)
			}
			if c.Request().Header.Get("HX-Request") == "true" {
				c.Response().Header().Set("HX-Redirect", loginPath)
				return c.NoContent(http.StatusUnauthorized)
			}
			return c.Redirect(http.StatusSeeOther, loginPath)
		}
	}
}

// IsAdmin reports whether the current session has logged in as admin.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(AdminSessionName, c)
	if err != nil || sess == nil {
		return false
	}
	ok, _ := sess.Values[adminFlagKey].(bool)
	return ok
}

// SetAdmin records a successful login, or clears it when admin is false.
func SetAdmin(c echo.Context, admin bool) error {
	sess, err := session.Get(AdminSessionName, c)
	if sess == nil {
		return err
	}

	if admin {
		sess.Values[adminFlagKey] = true
		sess.Options = &sessions.Options{
			Path:     "/admin",
			MaxAge:   3600 * 8,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		}
	} else {
		delete(sess.Values, adminFlagKey)
		sess.Options = &sessions.Options{Path: "/admin", MaxAge: -1}
	}
	return sess.Save(c.Request(), c.Response())
}
