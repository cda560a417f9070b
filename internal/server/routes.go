package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Pranav2188/water-pollution-quirklab/internal/metrics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
)

// RegisterRoutes sets up the routes that do not belong to a module.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	if s.Cfg.MetricsEnabled() {
		s.E.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	if s.static != nil {
		s.E.StaticFS("/static", s.static)
	}

	ws := s.E.Group("/ws")
	ws.GET("/html", s.Bridge.Handler(websocket.ConnectionTypeHTML))
	ws.GET("/data", s.Bridge.Handler(websocket.ConnectionTypeData))
}
