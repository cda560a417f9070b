package admin

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/export"
	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/admin/components"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

// Admin paths.
const (
	BasePath   = "/admin"
	LoginPath  = BasePath + "/login"
	LogoutPath = BasePath + "/logout"
	ResetPath  = BasePath + "/views/reset"
	ExportPath = BasePath + "/export.xlsx"
)

// ErrInvalidCredentials is returned when the login does not match the configured admin.
var ErrInvalidCredentials = errors.New("invalid credentials provided")

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ViewCounter is the part of the analytics counter the admin panel uses.
type ViewCounter interface {
	Total(ctx context.Context) (int64, error)
	Reset(ctx context.Context) error
}

// Handler serves the admin panel.
type Handler struct {
	views    ViewCounter
	manager  *chart.Manager
	series   chart.Series
	renderer rendering.Renderer
	siteName string
	username string
	password string
}

// NewHandler creates the admin handler for the given credentials.
func NewHandler(views ViewCounter, manager *chart.Manager, series chart.Series, renderer rendering.Renderer,
	siteName, username, password string) *Handler {
	return &Handler{
		views:    views,
		manager:  manager,
		series:   series,
		renderer: renderer,
		siteName: siteName,
		username: username,
		password: password,
	}
}

// Authenticate compares the credentials in constant time.
func (h *Handler) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// LoginPage renders the login form (GET /admin/login).
func (h *Handler) LoginPage(c echo.Context) error {
	if middleware.IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, BasePath)
	}
	return h.page(c, "Admin login", components.LoginForm(LoginPath, c.QueryParam("username")))
}

// Login checks the submitted credentials (POST /admin/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		view.SetFlashError(c, "Username and password are required.")
		return c.Redirect(http.StatusSeeOther, LoginPath)
	}

	if err := h.Authenticate(req.Username, req.Password); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed admin login", "username", req.Username)
		view.SetFlashError(c, "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, LoginPath)
	}

	if err := middleware.SetAdmin(c, true); err != nil {
		return err
	}
	view.SetFlashSuccess(c, "Logged in.")
	return c.Redirect(http.StatusSeeOther, BasePath)
}

// Logout clears the admin session (POST /admin/logout).
func (h *Handler) Logout(c echo.Context) error {
	if err := middleware.SetAdmin(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Dashboard shows the view counter and the live chart statistics (GET /admin).
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	props := components.DashboardProps{
		Stats:        h.manager.Stats(ctx),
		ResetAction:  ResetPath,
		ExportAction: ExportPath,
		LogoutAction: LogoutPath,
	}
	if total, err := h.views.Total(ctx); err != nil {
		middleware.FromContext(ctx).Error("Failed to read view counter", "error", err)
	} else {
		props.Views = &total
	}

	return h.page(c, "Dashboard", components.Dashboard(ctx, props))
}

// ResetViews sets the view counter back to zero (POST /admin/views/reset).
func (h *Handler) ResetViews(c echo.Context) error {
	if err := h.views.Reset(c.Request().Context()); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to reset view counter", "error", err)
		view.SetFlashError(c, "Could not reset the view counter.")
	} else {
		view.SetFlashSuccess(c, "View counter reset.")
	}
	return c.Redirect(http.StatusSeeOther, BasePath)
}

// Export downloads the series as an xlsx workbook (GET /admin/export.xlsx).
// Optional from and to query parameters select an index range within the series.
func (h *Handler) Export(c echo.Context) error {
	maxIndex := h.series.MaxIndex()
	d := chart.Domain{Start: 0, End: maxIndex}
	var err error
	if d.Start, err = intParam(c, "from", d.Start); err != nil {
		return err
	}
	if d.End, err = intParam(c, "to", d.End); err != nil {
		return err
	}
	if d.End > maxIndex {
		return echo.NewHTTPError(http.StatusBadRequest, "to must not exceed "+strconv.Itoa(maxIndex))
	}
	if d.Start > d.End {
		return echo.NewHTTPError(http.StatusBadRequest, "from must not exceed to")
	}

	// Built in memory so a failure still reaches the error handler as a 500.
	var buf bytes.Buffer
	if err := export.WriteSeries(&buf, h.series, d); err != nil {
		return fmt.Errorf("build xlsx export: %w", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="water-pollution.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func (h *Handler) page(c echo.Context, title string, body g.Node) error {
	return h.renderer.RenderPage(c, http.StatusOK, view.Layout(view.Page{
		Title:    title,
		SiteName: h.siteName,
		Tagline:  "Admin",
		Flash:    view.GetFlashData(c),
		Body:     body,
	}))
}
