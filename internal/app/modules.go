package app

import (
	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/module"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/admin"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Site       *content.Site
	Series     chart.Series
	// Clock drives the chart reveal; nil uses the wall clock.
	Clock chart.Clock
}

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled. The admin
// module boots after pollution because it reads the chart manager from the registry.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		pollution.New(pollution.Dependencies{
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Renderer:   deps.Renderer,
			Site:       deps.Site,
			Series:     deps.Series,
			Clock:      deps.Clock,
		}),
		admin.New(admin.Dependencies{
			Renderer: deps.Renderer,
			Series:   deps.Series,
			SiteName: deps.Site.Name,
		}),
	}
}
