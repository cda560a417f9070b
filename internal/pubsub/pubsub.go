package pubsub

import (
	"context"
)

// Metadata keys shared by publishers and subscribers.
const (
	// MetaRecipient names the viewer a direct message is addressed to.
	MetaRecipient = "recipient_id"
	// MetaGeneration carries the reveal generation of a chart frame.
	MetaGeneration = "generation"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "chart.frame").
	Topic string
	// UserID identifies the viewer the message concerns.
	UserID string
	// Payload contains the raw message data (JSON or an HTML fragment).
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for routing.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with the handler
	// on a background goroutine until ctx is canceled or the subscriber is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
