package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// sessionContext runs an empty handler behind the session middleware and
// returns its context.
func sessionContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	var c echo.Context
	mw := session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret)))
	_ = mw(func(ctx echo.Context) error { c = ctx; return nil })(echo.New().NewContext(req, rec))
	return c, rec
}

func TestFlash_ReadOnce(t *testing.T) {
	tests := []struct {
		name        string
		set         func(echo.Context)
		wantSuccess []string
		wantError   []string
	}{
		{
			name:        "success",
			set:         func(c echo.Context) { view.SetFlashSuccess(c, "View counter reset.") },
			wantSuccess: []string{"View counter reset."},
		},
		{
			name:      "error",
			set:       func(c echo.Context) { view.SetFlashError(c, "Invalid username or password.") },
			wantError: []string{"Invalid username or password."},
		},
		{
			name: "both kinds keep their order",
			set: func(c echo.Context) {
				view.SetFlashSuccess(c, "Logged in.")
				view.SetFlashError(c, "Could not reset the view counter.")
				view.SetFlashSuccess(c, "View counter reset.")
			},
			wantSuccess: []string{"Logged in.", "View counter reset."},
			wantError:   []string{"Could not reset the view counter."},
		},
		{
			name: "nothing set",
			set:  func(echo.Context) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := sessionContext(httptest.NewRequest(http.MethodGet, "/admin", nil))
			tt.set(c)

			got := view.GetFlashData(c)
			assertMessages(t, tt.wantSuccess, got.Success)
			assertMessages(t, tt.wantError, got.Error)
			assert.Equal(t, tt.wantSuccess == nil && tt.wantError == nil, got.Empty())

			assert.True(t, view.GetFlashData(c).Empty(), "flashes are cleared once read")
		})
	}
}

func assertMessages(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, want, got)
}

func TestFlash_SurvivesRedirect(t *testing.T) {
	c, rec := sessionContext(httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	view.SetFlashSuccess(c, "Logged in.")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range cookies {
		next.AddCookie(ck)
	}
	c, _ = sessionContext(next)

	assert.Equal(t, []string{"Logged in."}, view.GetFlashData(c).Success)
}
