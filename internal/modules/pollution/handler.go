package pollution

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"

	"github.com/Pranav2188/water-pollution-quirklab/internal/analytics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/metrics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution/components"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
	"github.com/Pranav2188/water-pollution-quirklab/internal/slideshow"
	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

// LiveSocketPath is where pages open their HTML websocket.
const LiveSocketPath = "/ws/html"

// Handler serves the site's pages, the chart controls and the slideshow.
type Handler struct {
	site          *content.Site
	series        chart.Series
	manager       *chart.Manager
	renderer      rendering.Renderer
	publisher     pubsub.Publisher
	slideInterval time.Duration
	nav           []view.NavItem
}

// NewHandler creates the pollution handler.
func NewHandler(site *content.Site, series chart.Series, manager *chart.Manager, renderer rendering.Renderer,
	publisher pubsub.Publisher, slideInterval time.Duration) *Handler {
	return &Handler{
		site:          site,
		series:        series,
		manager:       manager,
		renderer:      renderer,
		publisher:     publisher,
		slideInterval: slideInterval,
		nav:           navItems(site),
	}
}

func navItems(site *content.Site) []view.NavItem {
	items := make([]view.NavItem, 0, len(site.Sections))
	for _, name := range site.Names() {
		href := "/" + name
		if name == content.HomeSection {
			href = "/"
		}
		items = append(items, view.NavItem{Name: name, Label: content.Label(name), Href: href})
	}
	return items
}

// Home renders the full home page.
func (h *Handler) Home(c echo.Context) error {
	return h.page(c, content.HomeSection)
}

// Page renders any section as a full page, for direct links and reloads.
func (h *Handler) Page(c echo.Context) error {
	return h.page(c, c.Param("name"))
}

// Section returns a section fragment for htmx navigation, plus the navigation
// and document title out of band.
func (h *Handler) Section(c echo.Context) error {
	sec, ok := h.site.Section(c.Param("name"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "section not found")
	}

	state, err := h.switchTo(c, sec.Name)
	if err != nil {
		return err
	}

	return h.renderer.RenderPage(c, http.StatusOK, g.Group{
		g.El("title", g.Text(components.PageTitle(h.site, sec))),
		components.SectionContent(h.sectionProps(sec, state)),
		view.NavOOB(h.nav, sec.Name),
	})
}

func (h *Handler) page(c echo.Context, name string) error {
	sec, ok := h.site.Section(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "section not found")
	}

	state, err := h.switchTo(c, sec.Name)
	if err != nil {
		return err
	}
	h.recordView(c, sec.Name)

	return h.renderer.RenderPage(c, http.StatusOK, view.Layout(view.Page{
		Title:      components.PageTitle(h.site, sec),
		SiteName:   h.site.Name,
		Tagline:    h.site.Tagline,
		Footer:     footerText(h.site.Footer),
		Nav:        h.nav,
		Active:     sec.Name,
		Flash:      view.GetFlashData(c),
		LiveSocket: LiveSocketPath,
		Body:       components.SectionContent(h.sectionProps(sec, state)),
	}))
}

func footerText(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func (h *Handler) sectionProps(sec content.Section, state *chart.State) components.SectionProps {
	return components.SectionProps{
		Site:          h.site,
		Section:       sec,
		Series:        h.series,
		State:         state,
		Slides:        slideshow.New(len(h.site.Slides), 0),
		SlideInterval: h.slideInterval,
	}
}

// switchTo activates the viewer's chart on the home section and deactivates it
// elsewhere. It returns the chart state for the home section only.
func (h *Handler) switchTo(c echo.Context, name string) (*chart.State, error) {
	ctx := c.Request().Context()
	viewerID := middleware.ViewerID(c)

	if name != content.HomeSection {
		if ctrl, ok := h.manager.Lookup(viewerID); ok {
			if _, err := ctrl.Deactivate(ctx); err != nil {
				middleware.FromContext(ctx).Warn("Failed to deactivate chart", "viewer", viewerID, "error", err)
			}
		}
		return nil, nil
	}

	ctrl, err := h.controller(viewerID)
	if err != nil {
		return nil, err
	}
	res, err := ctrl.Activate(ctx)
	if err != nil {
		return nil, chartError(err)
	}
	metrics.RevealStarted()
	return &res.State, nil
}

func (h *Handler) controller(viewerID string) (*chart.Controller, error) {
	ctrl, err := h.manager.Controller(viewerID)
	if err != nil {
		return nil, chartError(err)
	}
	metrics.SetViewers(h.manager.Count())
	return ctrl, nil
}

func chartError(err error) error {
	if errors.Is(err, chart.ErrControllerClosed) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "chart is shutting down")
	}
	return err
}

// recordView publishes a page view for the analytics counter. A failure is
// logged and never fails the page.
func (h *Handler) recordView(c echo.Context, section string) {
	ctx := c.Request().Context()
	viewerID := middleware.ViewerID(c)

	err := pubsub.Publish(ctx, h.publisher, analytics.ViewEvent, viewerID, analytics.View{
		ViewerID: viewerID,
		Section:  section,
		Path:     c.Request().URL.Path,
		At:       time.Now().UTC(),
	}, nil)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to publish page view", "error", err)
	}
}

// Chart returns the viewer's current chart fragment.
func (h *Handler) Chart(c echo.Context) error {
	st, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return h.renderChart(c, st)
}

// ChartState returns the viewer's chart state and visible records as JSON.
func (h *Handler) ChartState(c echo.Context) error {
	st, err := h.snapshot(c)
	if err != nil {
		return err
	}
	data, err := sonic.Marshal(NewDataFrame(h.series, st))
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) snapshot(c echo.Context) (chart.State, error) {
	ctrl, err := h.controller(middleware.ViewerID(c))
	if err != nil {
		return chart.State{}, err
	}
	st, err := ctrl.Snapshot(c.Request().Context())
	if err != nil {
		return chart.State{}, chartError(err)
	}
	return st, nil
}

// ZoomIn narrows the viewer's chart around its center.
func (h *Handler) ZoomIn(c echo.Context) error {
	return h.zoom(c, "in", (*chart.Controller).ZoomIn)
}

// ZoomOut widens the viewer's chart.
func (h *Handler) ZoomOut(c echo.Context) error {
	return h.zoom(c, "out", (*chart.Controller).ZoomOut)
}

// ResetZoom shows the whole series again.
func (h *Handler) ResetZoom(c echo.Context) error {
	return h.zoom(c, "reset", (*chart.Controller).Reset)
}

func (h *Handler) zoom(c echo.Context, direction string, op func(*chart.Controller, context.Context) (chart.Result, error)) error {
	ctrl, err := h.controller(middleware.ViewerID(c))
	if err != nil {
		return err
	}
	res, err := op(ctrl, c.Request().Context())
	if err != nil {
		return chartError(err)
	}
	metrics.Zoom(direction, res.Applied)
	return h.renderChart(c, res.State)
}

func (h *Handler) renderChart(c echo.Context, st chart.State) error {
	return h.renderer.RenderPage(c, http.StatusOK, components.Chart(components.ChartProps{
		Series: h.series,
		Copy:   h.site.Chart,
		State:  st,
	}))
}

// Slide shows slide :index.
func (h *Handler) Slide(c echo.Context) error {
	return h.slide(c, func(s slideshow.Slideshow) slideshow.Slideshow { return s })
}

// NextSlide advances from slide :index, wrapping around.
func (h *Handler) NextSlide(c echo.Context) error {
	return h.slide(c, slideshow.Slideshow.Next)
}

// PrevSlide steps back from slide :index, wrapping around.
func (h *Handler) PrevSlide(c echo.Context) error {
	return h.slide(c, slideshow.Slideshow.Prev)
}

func (h *Handler) slide(c echo.Context, move func(slideshow.Slideshow) slideshow.Slideshow) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid slide index")
	}
	show, err := slideshow.New(len(h.site.Slides), 0).GoTo(index)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return h.renderer.RenderPage(c, http.StatusOK, components.Slideshow(h.site.Slides, move(show), h.slideInterval))
}
