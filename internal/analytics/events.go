package analytics

import (
	"time"

	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
)

// View is published for every full page served.
type View struct {
	ViewerID string    `json:"viewer_id"`
	Section  string    `json:"section"`
	Path     string    `json:"path"`
	At       time.Time `json:"at"`
}

// ViewEvent carries page views from the page handlers to the counter.
var ViewEvent = pubsub.NewEvent[View]("analytics.view", "A full page of the site was served to a viewer")
