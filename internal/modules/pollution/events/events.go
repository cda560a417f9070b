package events

import (
	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
)

// Frame is one published state of a viewer's chart controller.
type Frame struct {
	ViewerID string      `json:"viewer_id"`
	State    chart.State `json:"state"`
}

// ChartFrame carries controller state changes from the chart manager to the
// frame subscriber, which renders and pushes them to the viewer's sockets.
var ChartFrame = pubsub.NewEvent[Frame]("chart.frame", "A viewer's chart controller published a new state")
