package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// ViewerSessionName is the cookie session that remembers a browser's viewer id.
	ViewerSessionName = "quirklab-viewer"
	// ViewerContextKey is where Viewer stores the id on the echo context.
	ViewerContextKey = "viewer_id"

	viewerIDKey = "id"
)

// Viewer assigns every browser a stable anonymous id kept in a cookie session.
// It must run after session.Middleware.
func Viewer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(ViewerSessionName, c)
			if err != nil {
				// A tampered or stale cookie yields a fresh session along with the error.
				slog.Debug("Viewer session could not be decoded, starting a new one", "error", err)
			}
			if sess == nil {
				return next(withViewer(c, uuid.NewString()))
			}

			id, _ := sess.Values[viewerIDKey].(string)
			if id == "" {
				id = uuid.NewString()
				sess.Values[viewerIDKey] = id
				sess.Options = &sessions.Options{
					Path:     "/",
					MaxAge:   86400 * 30,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					slog.Warn("Failed to persist viewer session", "error", err)
				}
			}

			return next(withViewer(c, id))
		}
	}
}

func withViewer(c echo.Context, id string) echo.Context {
	c.Set(ViewerContextKey, id)
	req := c.Request()
	c.SetRequest(req.WithContext(WithLogger(req.Context(), FromContext(req.Context()).With("viewer", id))))
	return c
}

// ViewerID returns the id set by Viewer, or "" when the middleware did not run.
func ViewerID(c echo.Context) string {
	id, _ := c.Get(ViewerContextKey).(string)
	return id
}
