package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// outputBuffer is the per-subscriber channel buffer. Reveal ticks publish
// several frames a second per viewer, so subscribers get some slack.
const outputBuffer = 64

// WatermillBridge implements Publisher and Subscriber on top of watermill's
// in-memory GoChannel. Chart frames, page views and websocket fan-out all
// travel through one bridge per process.
type WatermillBridge struct {
	pub message.Publisher
	sub message.Subscriber
	// Logger handed to watermill; it forwards to slog.
	logger watermill.LoggerAdapter
}

var (
	_ Publisher  = (*WatermillBridge)(nil)
	_ Subscriber = (*WatermillBridge)(nil)
)

const (
	// Metadata keys carrying Message.UserID and Message.Topic inside a watermill message.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// NewWatermillBridge creates the in-process bus.
func NewWatermillBridge() *WatermillBridge {
	logger := slogAdapter{logger: slog.Default().With("component", "watermill")}
	// GoChannel delivers each message to every subscriber of its topic, in memory.
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: outputBuffer},
		logger,
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

// toWatermill wraps msg in a watermill message with a fresh UUID.
func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	// UserID and Topic ride along as reserved metadata keys.
	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	// Routing metadata such as recipient_id and generation is copied as is.
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}

	return wmMsg
}

// fromWatermill rebuilds the Message a publisher sent.
func fromWatermill(wmMsg *message.Message) Message {
	// Reserved keys go back into their fields and are left out of Metadata.
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyUserID && k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish sends msg on the watermill topic named by msg.Topic.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wmMsg := toWatermill(msg)
	// Subscribers see the publisher's context through msg.Context().
	wmMsg.SetContext(ctx)
	return wb.pub.Publish(msg.Topic, wmMsg)
}

// Subscribe registers handler for topic. It returns once the subscription is
// active; messages are handled one at a time on a background goroutine until
// ctx ends or the bridge is closed.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := fromWatermill(wmMsg)

			// GoChannel redelivers a nacked message immediately and forever, so a
			// frame that failed to render would spin. Failures are logged and acked.
			if err := handler(ctx, msg); err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		// The channel closes when ctx ends or Close is called.
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts the bus down. Every subscription channel is closed, which ends
// the handler loops started by Subscribe.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}

// slogAdapter routes watermill's internal logging into slog. Watermill's
// info and debug output is chatty, so both go to debug, and trace is dropped.
type slogAdapter struct {
	logger *slog.Logger
}

var _ watermill.LoggerAdapter = slogAdapter{}

func (a slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), "error", err)...)
}

func (a slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a slogAdapter) Trace(string, watermill.LogFields) {}

func (a slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
