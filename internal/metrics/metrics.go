package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quirklab"

const (
	labelDirection = "direction"
	labelResult    = "result"
	labelEvent     = "event"
	labelConnType  = "conn_type"
)

var (
	pageViews = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "page_views_total", Help: "Full page loads served",
	})
	zoomOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "chart_zoom_operations_total", Help: "Chart zoom commands by direction and result",
	}, []string{labelDirection, labelResult})
	revealRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "chart_reveal_runs_total", Help: "Reveal animations started and completed",
	}, []string{labelEvent})
	framesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "chart_frames_dropped_total", Help: "Chart frames discarded as stale",
	})
	activeViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "chart_viewers", Help: "Viewers with a live chart controller",
	})
	wsClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "websocket_clients", Help: "Connected websocket clients by connection type",
	}, []string{labelConnType})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func PageViewed() { pageViews.Inc() }

// Zoom records a zoom command; direction is in, out or reset.
func Zoom(direction string, applied bool) {
	result := "applied"
	if !applied {
		result = "rejected"
	}
	zoomOps.With(prometheus.Labels{labelDirection: direction, labelResult: result}).Inc()
}

func RevealStarted()   { revealRuns.With(prometheus.Labels{labelEvent: "started"}).Inc() }
func RevealCompleted() { revealRuns.With(prometheus.Labels{labelEvent: "completed"}).Inc() }
func FrameDropped()    { framesDropped.Inc() }

func SetViewers(n int) { activeViewers.Set(float64(n)) }

func WebsocketConnected(connType string) {
	wsClients.With(prometheus.Labels{labelConnType: connType}).Inc()
}

func WebsocketDisconnected(connType string) {
	wsClients.With(prometheus.Labels{labelConnType: connType}).Dec()
}
