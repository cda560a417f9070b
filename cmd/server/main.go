package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	_ "go.uber.org/automaxprocs"

	"github.com/Pranav2188/water-pollution-quirklab/internal/analytics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/app"
	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/logging"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/Pranav2188/water-pollution-quirklab/internal/registry"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
	"github.com/Pranav2188/water-pollution-quirklab/internal/server"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
	"github.com/Pranav2188/water-pollution-quirklab/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Config first: it loads .env, which may set LOG_FORMAT and LOG_LEVEL.
	cfg := config.New()
	logging.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	site, err := content.Load()
	if err != nil {
		return fmt.Errorf("load site content: %w", err)
	}
	series := content.PollutionSeries()

	if err := websocket.RegisterTopics(); err != nil {
		return fmt.Errorf("register websocket topics: %w", err)
	}

	ps := pubsub.NewWatermillBridge()
	bridge := websocket.NewBridge(ps, ps)
	if err := bridge.Start(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("start websocket bridge: %w", err)
	}

	store, err := analytics.NewStore(ctx, cfg, afero.NewOsFs())
	if err != nil {
		_ = bridge.Close()
		_ = ps.Close()
		return fmt.Errorf("open view store: %w", err)
	}
	counter := analytics.NewCounter(store)

	s, err := server.New(server.Dependencies{
		Config:   cfg,
		Renderer: rendering.NewUniversalRenderer(),
		Bridge:   bridge,
		Static:   echo.MustSubFS(web.FS, "static"),
		Closers:  []io.Closer{counter, ps},
	})
	if err != nil {
		_ = counter.Close()
		_ = bridge.Close()
		_ = ps.Close()
		return err
	}

	if err := counter.Subscribe(ctx, ps); err != nil {
		_ = s.Shutdown(context.Background())
		return fmt.Errorf("subscribe view counter: %w", err)
	}

	reg := registry.New(cfg)
	registry.Set(reg, registry.WebsocketBridgeKey, bridge)
	registry.Set(reg, registry.ViewCounterKey, counter)

	modules := app.NewModules(app.Dependencies{
		Publisher:  ps,
		Subscriber: ps,
		Renderer:   s.Renderer,
		Site:       site,
		Series:     series,
	})
	if err := s.InitModules(ctx, modules, reg); err != nil {
		_ = s.Shutdown(context.Background())
		return err
	}
	s.RegisterRoutes()

	return s.Start(ctx)
}
