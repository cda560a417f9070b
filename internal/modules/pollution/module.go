package pollution

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/module"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution/events"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/Pranav2188/water-pollution-quirklab/internal/registry"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
)

// PollutionModule serves the public site: sections, slideshow and the
// per-viewer animated chart.
type PollutionModule struct {
	module.BaseModule

	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	renderer   rendering.Renderer
	site       *content.Site
	series     chart.Series
	clock      chart.Clock

	manager *chart.Manager
	frames  *FrameSubscriber
}

// Dependencies holds all the services that the PollutionModule requires to operate.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Site       *content.Site
	Series     chart.Series
	// Clock drives the reveal tickers; nil uses the wall clock.
	Clock chart.Clock
}

// New creates a new instance of the PollutionModule, injecting its dependencies.
func New(deps Dependencies) *PollutionModule {
	return &PollutionModule{
		publisher:  deps.Publisher,
		subscriber: deps.Subscriber,
		renderer:   deps.Renderer,
		site:       deps.Site,
		series:     deps.Series,
		clock:      deps.Clock,
	}
}

// Name returns the module name.
func (m *PollutionModule) Name() string {
	return "pollution"
}

// Register creates the chart manager and shares it through the registry.
func (m *PollutionModule) Register(reg *registry.Registry) error {
	cfg := reg.Config()

	m.manager = chart.NewManager(m.series.Len(), chart.ManagerOptions{
		Interval:    cfg.GetRevealInterval(),
		Clock:       m.clock,
		IdleTimeout: cfg.GetViewerIdleTimeout(),
		OnChange:    m.publishFrame,
	})
	registry.Set(reg, registry.ChartManagerKey, m.manager)
	return nil
}

// publishFrame runs on the viewer's controller goroutine.
func (m *PollutionModule) publishFrame(viewerID string, st chart.State) {
	err := pubsub.Publish(context.Background(), m.publisher, events.ChartFrame, viewerID,
		events.Frame{ViewerID: viewerID, State: st},
		map[string]string{pubsub.MetaGeneration: strconv.FormatUint(st.Generation, 10)},
	)
	if err != nil {
		slog.Error("Failed to publish chart frame", "viewer", viewerID, "error", err)
	}
}

// Boot starts the frame subscriber and the idle janitor and mounts the routes.
func (m *PollutionModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	bridge := registry.MustGet(reg, registry.WebsocketBridgeKey)
	cfg := reg.Config()

	frames, err := NewFrameSubscriber(m.subscriber, m.publisher, bridge, m.renderer, m.manager, m.series, m.site.Chart)
	if err != nil {
		return err
	}
	if err := frames.Start(ctx); err != nil {
		frames.Stop()
		return err
	}
	m.frames = frames

	go m.manager.Janitor(ctx)

	slog.Info("Booting PollutionModule: Setting up routes...")
	handler := NewHandler(m.site, m.series, m.manager, m.renderer, m.publisher, cfg.GetSlideInterval())
	Routes(g, handler)
	return nil
}

// Routes mounts the handler. Fixed paths win over /:name in echo's router.
func Routes(g *echo.Group, handler *Handler) {
	g.GET("/", handler.Home)
	g.GET("/sections/:name", handler.Section)

	g.GET("/chart", handler.Chart)
	g.GET("/chart/state", handler.ChartState)
	g.POST("/chart/zoom-in", handler.ZoomIn)
	g.POST("/chart/zoom-out", handler.ZoomOut)
	g.POST("/chart/reset", handler.ResetZoom)

	g.GET("/slides/:index", handler.Slide)
	g.GET("/slides/:index/next", handler.NextSlide)
	g.GET("/slides/:index/prev", handler.PrevSlide)

	g.GET("/:name", handler.Page)
}

// Shutdown stops every viewer's controller and drains the render pool.
func (m *PollutionModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down PollutionModule...")
	if m.manager != nil {
		m.manager.Close()
	}
	if m.frames != nil {
		m.frames.Stop()
	}
	return nil
}
