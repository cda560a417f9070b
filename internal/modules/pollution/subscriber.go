package pollution

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/metrics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution/components"
	"github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution/events"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
)

// framePoolSize bounds concurrent frame renders across all viewers.
const framePoolSize = 32

// FrameSender is the part of the websocket bridge the subscriber pushes HTML through.
type FrameSender interface {
	SendDirect(viewerID string, payload []byte, connType websocket.ConnectionType) error
	Connected(viewerID string, connType websocket.ConnectionType) bool
}

// DataFrame is the JSON pushed to a viewer's data sockets and served by /chart/state.
type DataFrame struct {
	Type    string         `json:"type"`
	State   chart.State    `json:"state"`
	Fields  []chart.Field  `json:"fields"`
	Visible []chart.Record `json:"visible"`
}

// NewDataFrame collects the records a state shows.
func NewDataFrame(series chart.Series, st chart.State) DataFrame {
	frame := DataFrame{Type: events.ChartFrame.Name(), State: st, Fields: series.Fields(), Visible: []chart.Record{}}
	if vis, ok := st.Visible(); ok {
		frame.Visible = series.Slice(vis.Start, vis.End)
	}
	return frame
}

type frameCursor struct {
	// seq is the last state sequence sent to the viewer's HTML sockets.
	seq uint64
	// completed is the last reveal generation counted as completed.
	completed uint64
}

// FrameSubscriber turns chart.frame events into out-of-band chart fragments for
// the viewer's HTML sockets and JSON frames for its data sockets.
//
// The bus does not preserve order, so every viewer has a cursor and frames with
// a sequence at or below it are dropped.
type FrameSubscriber struct {
	subscriber pubsub.Subscriber
	publisher  pubsub.Publisher
	sender     FrameSender
	renderer   rendering.Renderer
	manager    *chart.Manager
	series     chart.Series
	chartCopy  content.ChartCopy
	pool       *ants.Pool

	mu      sync.Mutex
	cursors map[string]*frameCursor
}

// NewFrameSubscriber creates the subscriber and its render pool.
func NewFrameSubscriber(sub pubsub.Subscriber, pub pubsub.Publisher, sender FrameSender, renderer rendering.Renderer,
	manager *chart.Manager, series chart.Series, chartCopy content.ChartCopy) (*FrameSubscriber, error) {
	pool, err := ants.NewPool(framePoolSize)
	if err != nil {
		return nil, fmt.Errorf("create frame render pool: %w", err)
	}
	return &FrameSubscriber{
		subscriber: sub,
		publisher:  pub,
		sender:     sender,
		renderer:   renderer,
		manager:    manager,
		series:     series,
		chartCopy:  chartCopy,
		pool:       pool,
		cursors:    make(map[string]*frameCursor),
	}, nil
}

// Start subscribes to chart frames and websocket lifecycle events.
func (s *FrameSubscriber) Start(ctx context.Context) error {
	slog.Info("Starting pollution frame subscriber")

	subs := []struct {
		topic   string
		handler pubsub.Handler
	}{
		{events.ChartFrame.Name(), s.handleFrame},
		{websocket.TopicClientReady.Name(), s.handleClientReady},
		{websocket.TopicClientDisconnected.Name(), s.handleClientGone},
	}
	for _, sub := range subs {
		if err := s.subscriber.Subscribe(ctx, sub.topic, sub.handler); err != nil {
			return fmt.Errorf("subscribe to %s: %w", sub.topic, err)
		}
	}
	return nil
}

// Stop waits for queued renders and releases the pool.
func (s *FrameSubscriber) Stop() {
	s.pool.Release()
}

func (s *FrameSubscriber) handleFrame(ctx context.Context, msg pubsub.Message) error {
	frame, err := pubsub.Decode(events.ChartFrame, msg)
	if err != nil {
		return err
	}

	if s.stale(frame.ViewerID, frame.State.Seq) {
		metrics.FrameDropped()
		return nil
	}
	s.countCompletion(frame.ViewerID, frame.State)

	return s.pool.Submit(func() {
		s.deliver(ctx, frame.ViewerID, frame.State, false)
	})
}

// handleClientReady sends the current chart to a freshly connected HTML socket.
// Frames published before the socket connected went nowhere.
func (s *FrameSubscriber) handleClientReady(ctx context.Context, msg pubsub.Message) error {
	var ev websocket.ClientEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode client ready event: %w", err)
	}
	if ev.Endpoint != websocket.ConnectionTypeHTML {
		return nil
	}

	ctrl, ok := s.manager.Lookup(ev.ViewerID)
	if !ok {
		return nil
	}
	st, err := ctrl.Snapshot(ctx)
	if err != nil {
		return err
	}
	return s.pool.Submit(func() {
		s.deliver(ctx, ev.ViewerID, st, true)
	})
}

// handleClientGone forgets the cursor once a viewer has no HTML socket left.
func (s *FrameSubscriber) handleClientGone(ctx context.Context, msg pubsub.Message) error {
	var ev websocket.ClientEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode client disconnected event: %w", err)
	}
	if ev.Endpoint != websocket.ConnectionTypeHTML || s.sender.Connected(ev.ViewerID, websocket.ConnectionTypeHTML) {
		return nil
	}

	s.mu.Lock()
	delete(s.cursors, ev.ViewerID)
	s.mu.Unlock()
	return nil
}

func (s *FrameSubscriber) cursor(viewerID string) *frameCursor {
	cur, ok := s.cursors[viewerID]
	if !ok {
		cur = &frameCursor{}
		s.cursors[viewerID] = cur
	}
	return cur
}

func (s *FrameSubscriber) stale(viewerID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq <= s.cursor(viewerID).seq
}

func (s *FrameSubscriber) countCompletion(viewerID string, st chart.State) {
	if !st.Active || !st.Complete {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.cursor(viewerID)
	if cur.completed != st.Generation {
		cur.completed = st.Generation
		metrics.RevealCompleted()
	}
}

// deliver renders st and sends it. The cursor check and the send happen under
// one lock so a viewer's sockets only ever see increasing sequences. force
// resends the current sequence, for newly connected sockets.
func (s *FrameSubscriber) deliver(ctx context.Context, viewerID string, st chart.State, force bool) {
	html, err := s.renderer.RenderComponent(ctx, components.Chart(components.ChartProps{
		Series: s.series,
		Copy:   s.chartCopy,
		State:  st,
		OOB:    true,
	}))
	if err != nil {
		slog.Error("Failed to render chart frame", "viewer", viewerID, "error", err)
		return
	}
	data, err := sonic.Marshal(NewDataFrame(s.series, st))
	if err != nil {
		slog.Error("Failed to encode chart frame", "viewer", viewerID, "error", err)
		return
	}

	s.mu.Lock()
	cur := s.cursor(viewerID)
	if st.Seq < cur.seq || (st.Seq == cur.seq && !force) {
		s.mu.Unlock()
		metrics.FrameDropped()
		return
	}
	cur.seq = st.Seq
	err = s.sender.SendDirect(viewerID, html, websocket.ConnectionTypeHTML)
	s.mu.Unlock()
	if err != nil {
		slog.Warn("Failed to push chart frame", "viewer", viewerID, "error", err)
		return
	}

	// Data clients get the sequence in the payload and order frames themselves.
	err = s.publisher.Publish(ctx, pubsub.Message{
		Topic:   websocket.TopicDataDirect.Name(),
		UserID:  viewerID,
		Payload: data,
		Metadata: map[string]string{
			pubsub.MetaRecipient:  viewerID,
			pubsub.MetaGeneration: strconv.FormatUint(st.Generation, 10),
		},
	})
	if err != nil {
		slog.Warn("Failed to publish chart data frame", "viewer", viewerID, "error", err)
	}
}
