package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Pranav2188/water-pollution-quirklab/internal/metrics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConnectionType defines the type of WebSocket connection.
type ConnectionType string

const (
	// ConnectionTypeHTML is for clients that consume HTML fragments (htmx ws extension).
	ConnectionTypeHTML ConnectionType = "html"
	// ConnectionTypeData is for clients that consume JSON.
	ConnectionTypeData ConnectionType = "data"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Outbound messages buffered per client before frames are dropped.
	sendBuffer = 64
)

// ErrBridgeClosed is returned when sending through a bridge that has shut down.
var ErrBridgeClosed = errors.New("websocket bridge closed")

// Client is a single connected browser socket.
type Client struct {
	// ID identifies this connection.
	ID string
	// ViewerID is the anonymous viewer that opened it. A viewer may have several tabs open.
	ViewerID string

	conn     *websocket.Conn
	send     chan []byte
	connType ConnectionType
	bridge   *Bridge
}

type delivery struct {
	// viewerID is empty for broadcasts.
	viewerID string
	connType ConnectionType
	payload  []byte
}

// Bridge manages all WebSocket connections and routes messages from the
// Pub/Sub bus to connected clients.
type Bridge struct {
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber

	// clients maps viewer ids to their open connections.
	clients map[string][]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewBridge initializes a new Bridge. Call Start before serving connections.
func NewBridge(pub pubsub.Publisher, sub pubsub.Subscriber) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		publisher:  pub,
		subscriber: sub,
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the framework delivery topics and launches the run loop.
// The bridge stops when ctx is canceled or Close is called.
func (b *Bridge) Start(ctx context.Context) error {
	routes := map[string]func(pubsub.Message) error{
		TopicHTMLDirect.Name():    b.directHandler(ConnectionTypeHTML),
		TopicDataDirect.Name():    b.directHandler(ConnectionTypeData),
		TopicHTMLBroadcast.Name(): b.broadcastHandler(ConnectionTypeHTML),
		TopicDataBroadcast.Name(): b.broadcastHandler(ConnectionTypeData),
	}
	for topic, route := range routes {
		route := route
		err := b.subscriber.Subscribe(b.ctx, topic, func(_ context.Context, msg pubsub.Message) error {
			return route(msg)
		})
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", topic, err)
		}
	}

	go func() {
		select {
		case <-ctx.Done():
			b.cancel()
		case <-b.ctx.Done():
		}
	}()
	go b.run()

	slog.Info("WebSocket bridge started")
	return nil
}

func (b *Bridge) directHandler(connType ConnectionType) func(pubsub.Message) error {
	return func(msg pubsub.Message) error {
		recipient := msg.Metadata[pubsub.MetaRecipient]
		if recipient == "" {
			return fmt.Errorf("%s message without %s metadata", msg.Topic, pubsub.MetaRecipient)
		}
		return b.SendDirect(recipient, msg.Payload, connType)
	}
}

func (b *Bridge) broadcastHandler(connType ConnectionType) func(pubsub.Message) error {
	return func(msg pubsub.Message) error {
		return b.Broadcast(msg.Payload, connType)
	}
}

// run owns client registration and fan-out until the bridge context ends.
func (b *Bridge) run() {
	defer close(b.done)

	for {
		select {
		case <-b.ctx.Done():
			b.mu.Lock()
			for viewerID, clients := range b.clients {
				for _, client := range clients {
					close(client.send)
					metrics.WebsocketDisconnected(string(client.connType))
				}
				delete(b.clients, viewerID)
			}
			b.mu.Unlock()
			slog.Info("WebSocket bridge stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ViewerID] = append(b.clients[client.ViewerID], client)
			b.mu.Unlock()
			metrics.WebsocketConnected(string(client.connType))
			slog.Info("Client registered", "viewerID", client.ViewerID, "connectionID", client.ID, "type", client.connType)

			// Published after the client is in the map so ready handlers can address it.
			go b.publishLifecycle(TopicClientReady.Name(), ClientEvent{
				Endpoint:     client.connType,
				ViewerID:     client.ViewerID,
				ConnectionID: client.ID,
			})

		case client := <-b.unregister:
			if !b.remove(client) {
				continue
			}
			metrics.WebsocketDisconnected(string(client.connType))
			slog.Info("Client unregistered", "viewerID", client.ViewerID, "connectionID", client.ID, "type", client.connType)

			go b.publishLifecycle(TopicClientDisconnected.Name(), ClientEvent{
				Endpoint:     client.connType,
				ViewerID:     client.ViewerID,
				ConnectionID: client.ID,
				Reason:       "client_closed",
			})

		case d := <-b.deliver:
			b.mu.RLock()
			if d.viewerID != "" {
				b.fanOut(b.clients[d.viewerID], d)
			} else {
				for _, clients := range b.clients {
					b.fanOut(clients, d)
				}
			}
			b.mu.RUnlock()
		}
	}
}

// remove drops client from the map and closes its send channel. It reports
// false when the client was already gone.
func (b *Bridge) remove(client *Client) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients := b.clients[client.ViewerID]
	for i, c := range clients {
		if c != client {
			continue
		}
		b.clients[client.ViewerID] = append(clients[:i], clients[i+1:]...)
		if len(b.clients[client.ViewerID]) == 0 {
			delete(b.clients, client.ViewerID)
		}
		close(client.send)
		return true
	}
	return false
}

func (b *Bridge) fanOut(clients []*Client, d delivery) {
	for _, client := range clients {
		if client.connType != d.connType {
			continue
		}
		select {
		case client.send <- d.payload:
		default:
			slog.Warn("Client send channel full, dropping message", "viewerID", client.ViewerID, "connectionID", client.ID)
		}
	}
}

func (b *Bridge) publishLifecycle(topic string, event ClientEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode websocket lifecycle event", "topic", topic, "error", err)
		return
	}
	err = b.publisher.Publish(b.ctx, pubsub.Message{
		Topic:   topic,
		UserID:  event.ViewerID,
		Payload: payload,
	})
	if err != nil && b.ctx.Err() == nil {
		slog.Error("Failed to publish websocket lifecycle event", "topic", topic, "error", err)
	}
}

// Handler returns an echo.HandlerFunc that upgrades requests to WebSocket
// connections of the given type. It needs the Viewer middleware upstream.
func (b *Bridge) Handler(connType ConnectionType) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewerID := middleware.ViewerID(c)
		if viewerID == "" {
			slog.Error("Bridge.Handler: no viewer id on the request")
			return c.String(http.StatusUnauthorized, "Viewer session required")
		}

		// Same-origin is enforced by the library unless OriginPatterns are set.
		conn, err := websocket.Accept(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return nil
		}

		client := &Client{
			ID:       uuid.NewString(),
			ViewerID: viewerID,
			conn:     conn,
			send:     make(chan []byte, sendBuffer),
			connType: connType,
			bridge:   b,
		}

		select {
		case b.register <- client:
		case <-b.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return nil
		}

		go client.writePump()
		go client.readPump()
		return nil
	}
}

// readPump consumes inbound frames until the connection ends. Browsers only
// receive on these sockets, so inbound payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.bridge.unregister <- c:
		case <-c.bridge.done:
		}
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, message, err := c.conn.Read(c.bridge.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "viewerID", c.ViewerID)
			} else if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				slog.Debug("WebSocket read ended", "viewerID", c.ViewerID, "error", err)
			}
			return
		}
		slog.Debug("Ignoring inbound websocket message", "viewerID", c.ViewerID, "size", len(message))
	}
}

// writePump pumps messages from the client's send channel to the WebSocket connection.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "viewerID", c.ViewerID, "error", err)
			return
		}
	}
}

// SendDirect queues payload for every connection of viewerID with the given type.
func (b *Bridge) SendDirect(viewerID string, payload []byte, connType ConnectionType) error {
	return b.enqueue(delivery{viewerID: viewerID, connType: connType, payload: payload})
}

// Broadcast queues payload for every connection of the given type.
func (b *Bridge) Broadcast(payload []byte, connType ConnectionType) error {
	return b.enqueue(delivery{connType: connType, payload: payload})
}

func (b *Bridge) enqueue(d delivery) error {
	if b.ctx.Err() != nil {
		return ErrBridgeClosed
	}
	select {
	case b.deliver <- d:
		return nil
	case <-b.done:
		return ErrBridgeClosed
	case <-b.ctx.Done():
		return ErrBridgeClosed
	}
}

// ClientCount returns the number of open connections.
func (b *Bridge) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, clients := range b.clients {
		n += len(clients)
	}
	return n
}

// Connected reports whether viewerID has at least one open connection of connType.
func (b *Bridge) Connected(viewerID string, connType ConnectionType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range b.clients[viewerID] {
		if c.connType == connType {
			return true
		}
	}
	return false
}

// Close stops the bridge and closes all client connections.
func (b *Bridge) Close() error {
	b.cancel()
	return nil
}

// Done is closed once the run loop has exited.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}
