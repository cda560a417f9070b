package registry

import (
	"github.com/Pranav2188/water-pollution-quirklab/internal/analytics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
)

// Service keys shared between modules.
var (
	ChartManagerKey    = Key[*chart.Manager]("chart.manager")
	ViewCounterKey     = Key[*analytics.Counter]("analytics.counter")
	WebsocketBridgeKey = Key[*websocket.Bridge]("websocket.bridge")
)
