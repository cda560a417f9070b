package websocket

import (
	"github.com/Pranav2188/water-pollution-quirklab/internal/topicmgr"
)

// Framework topics used by the bridge for routing messages to connected browsers.

var (
	// TopicHTMLBroadcast broadcasts HTML fragments to every HTML client.
	TopicHTMLBroadcast = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.html.broadcast",
		Description: "Broadcast HTML fragments to all connected HTML WebSocket clients",
		Example:     `<div id="view-count" hx-swap-oob="true">42</div>`,
		Metadata: map[string]interface{}{
			"endpoint_type": "html",
			"routing_type":  "broadcast",
		},
	})

	// TopicHTMLDirect sends HTML fragments to one viewer.
	// The viewer id is given in the "recipient_id" metadata.
	TopicHTMLDirect = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.html.direct",
		Description: "Send HTML fragments to the HTML WebSocket clients of one viewer",
		Example:     `<div id="chart" hx-swap-oob="true">...</div>`,
		Metadata: map[string]interface{}{
			"endpoint_type": "html",
			"routing_type":  "direct",
			"requires":      []string{"recipient_id"},
		},
	})

	// TopicDataBroadcast broadcasts JSON to every data client.
	TopicDataBroadcast = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.data.broadcast",
		Description: "Broadcast JSON data to all connected Data WebSocket clients",
		Metadata: map[string]interface{}{
			"endpoint_type": "data",
			"routing_type":  "broadcast",
		},
	})

	// TopicDataDirect sends JSON to one viewer's data clients.
	TopicDataDirect = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.data.direct",
		Description: "Send JSON data to the Data WebSocket clients of one viewer",
		Example:     `{"type":"chart.frame","state":{"revealed":3}}`,
		Metadata: map[string]interface{}{
			"endpoint_type": "data",
			"routing_type":  "direct",
			"requires":      []string{"recipient_id"},
		},
	})

	// TopicClientReady is published when a client has connected and registered.
	TopicClientReady = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.ready",
		Description: "Published when a WebSocket client connects and is ready to receive",
		Example:     `{"endpoint":"html","viewer_id":"3f0c...","connection_id":"9a1b..."}`,
		Metadata: map[string]interface{}{
			"event_type":     "lifecycle",
			"payload_fields": []string{"endpoint", "viewer_id", "connection_id"},
		},
	})

	// TopicClientDisconnected is published when a client goes away.
	TopicClientDisconnected = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.disconnected",
		Description: "Published when a WebSocket client disconnects",
		Example:     `{"endpoint":"html","viewer_id":"3f0c...","connection_id":"9a1b...","reason":"client_closed"}`,
		Metadata: map[string]interface{}{
			"event_type":     "lifecycle",
			"payload_fields": []string{"endpoint", "viewer_id", "connection_id", "reason"},
		},
	})
)

// ClientEvent is the payload of the lifecycle topics.
type ClientEvent struct {
	Endpoint     ConnectionType `json:"endpoint"`
	ViewerID     string         `json:"viewer_id"`
	ConnectionID string         `json:"connection_id"`
	Reason       string         `json:"reason,omitempty"`
}

// RegisterTopics registers the framework topics with the default topic manager.
// Topics that are already registered are skipped.
func RegisterTopics() error {
	return RegisterTopicsWithManager(topicmgr.Default())
}

// RegisterTopicsWithManager registers the framework topics with manager.
func RegisterTopicsWithManager(manager *topicmgr.Manager) error {
	return manager.RegisterAll(
		TopicHTMLBroadcast,
		TopicHTMLDirect,
		TopicDataBroadcast,
		TopicDataDirect,
		TopicClientReady,
		TopicClientDisconnected,
	)
}
