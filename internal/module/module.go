package module

import (
	"context"

	"github.com/Pranav2188/water-pollution-quirklab/internal/registry"
	"github.com/labstack/echo/v4"
)

// Module is a self-contained feature of the site (pages, admin panel).
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string

	// Register is called during startup so the module can publish its services
	// in the registry before any module boots.
	Register(reg *registry.Registry) error

	// Boot mounts routes and starts background work. Every module has registered
	// by the time Boot runs.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown stops background work during graceful shutdown.
	Shutdown(ctx context.Context) error
}

// BaseModule provides no-op implementations for modules to embed.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}
