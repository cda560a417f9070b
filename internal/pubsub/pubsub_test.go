package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/Pranav2188/water-pollution-quirklab/internal/topicmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Viewer   string `json:"viewer"`
	Revealed int    `json:"revealed,omitempty"`
	Internal string `json:"-"`
}

var sampleEvent = NewEvent[samplePayload]("pubsubtest.sample", "Sample event used by the pubsub tests")

func TestNewEvent_RegistersTopic(t *testing.T) {
	topic, ok := topicmgr.Default().Get("pubsubtest.sample")
	require.True(t, ok)

	assert.Equal(t, "pubsubtest", topic.Module())
	assert.Equal(t, topicmgr.ScopeModule, topic.Scope())
	assert.Equal(t, []string{"viewer", "revealed"}, topic.Metadata()["payload_fields"])
	assert.Equal(t, "samplePayload", topic.Metadata()["type_name"])
}

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		received []Message
	)
	done := make(chan struct{})

	err := bridge.Subscribe(ctx, sampleEvent.Name(), func(ctx context.Context, msg Message) error {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
		close(done)
		return nil
	})
	require.NoError(t, err)

	err = Publish(ctx, bridge, sampleEvent, "viewer-1", samplePayload{Viewer: "viewer-1", Revealed: 3},
		map[string]string{MetaGeneration: "2"})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	msg := received[0]
	assert.Equal(t, "pubsubtest.sample", msg.Topic)
	assert.Equal(t, "viewer-1", msg.UserID)
	assert.Equal(t, "2", msg.Metadata[MetaGeneration])
	assert.NotContains(t, msg.Metadata, metaKeyTopic)

	payload, err := Decode(sampleEvent, msg)
	require.NoError(t, err)
	assert.Equal(t, 3, payload.Revealed)
}

func TestWatermillBridge_HandlerErrorDoesNotRedeliver(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	require.NoError(t, bridge.Subscribe(ctx, "pubsubtest.failing", func(ctx context.Context, msg Message) error {
		calls <- struct{}{}
		return assert.AnError
	}))

	require.NoError(t, bridge.Publish(ctx, Message{Topic: "pubsubtest.failing", Payload: []byte("{}")}))

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case <-calls:
		t.Fatal("failed message was redelivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDecode_TopicMismatch(t *testing.T) {
	_, err := Decode(sampleEvent, Message{Topic: "other.topic", Payload: []byte(`{}`)})
	assert.Error(t, err)

	_, err = Decode(sampleEvent, Message{Topic: sampleEvent.Name(), Payload: []byte(`not json`)})
	assert.Error(t, err)
}

func TestSlogAdapter_ForwardsErrorsWithFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := slogAdapter{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	adapter.With(watermill.LogFields{"topic": "chart.frame"}).
		Error("Publish failed", errors.New("closed"), watermill.LogFields{"msg_id": "m1"})
	adapter.Info("Subscribing", nil)
	adapter.Trace("noise", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "only the error reaches the info level")
	assert.Equal(t, "Publish failed", entry["msg"])
	assert.Equal(t, "chart.frame", entry["topic"])
	assert.Equal(t, "m1", entry["msg_id"])
	assert.Equal(t, "closed", entry["error"])
}
