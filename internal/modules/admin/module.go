package admin

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
	"github.com/Pranav2188/water-pollution-quirklab/internal/module"
	"github.com/Pranav2188/water-pollution-quirklab/internal/registry"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
)

// AdminModule serves the password-protected admin panel.
type AdminModule struct {
	module.BaseModule

	renderer rendering.Renderer
	series   chart.Series
	siteName string
}

// Dependencies holds all the services that the AdminModule requires to operate.
type Dependencies struct {
	Renderer rendering.Renderer
	Series   chart.Series
	SiteName string
}

// New creates a new instance of the AdminModule, injecting its dependencies.
func New(deps Dependencies) *AdminModule {
	return &AdminModule{
		renderer: deps.Renderer,
		series:   deps.Series,
		siteName: deps.SiteName,
	}
}

// Name returns the module name.
func (m *AdminModule) Name() string {
	return "admin"
}

// Boot mounts the admin routes. It needs the view counter and the chart manager
// registered by earlier modules.
func (m *AdminModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	cfg := reg.Config()
	counter := registry.MustGet(reg, registry.ViewCounterKey)
	manager := registry.MustGet(reg, registry.ChartManagerKey)

	slog.Info("Booting AdminModule: Setting up routes...")
	handler := NewHandler(counter, manager, m.series, m.renderer, m.siteName, cfg.GetAdminUsername(), cfg.GetAdminPassword())
	Routes(g, handler)
	return nil
}

// Routes mounts the admin handler under /admin.
func Routes(g *echo.Group, handler *Handler) {
	requireAdmin := middleware.RequireAdmin(LoginPath)

	admin := g.Group(BasePath)
	admin.GET("/login", handler.LoginPage)
	admin.POST("/login", handler.Login, middleware.RateLimiter(middleware.LoginRateLimit))
	admin.POST("/logout", handler.Logout)

	admin.GET("", handler.Dashboard, requireAdmin)
	admin.POST("/views/reset", handler.ResetViews, requireAdmin)
	admin.GET("/export.xlsx", handler.Export, requireAdmin)
}
