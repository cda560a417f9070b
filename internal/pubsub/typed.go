package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/Pranav2188/water-pollution-quirklab/internal/topicmgr"
)

// Event[T] binds a topic name to its payload type.
type Event[T any] struct {
	topicName string
	config    topicmgr.TopicConfig
}

// NewEvent creates a typed event and registers it with the default topic manager.
// The payload's json field names are recorded as topic metadata. The owning module
// is the first dot-separated segment of the name ("chart.frame" belongs to "chart").
func NewEvent[T any](name string, description string) Event[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]string, 0)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			fieldName, _, _ := strings.Cut(tag, ",")
			fields = append(fields, fieldName)
		}
	}

	module, _, _ := strings.Cut(name, ".")

	config := topicmgr.TopicConfig{
		Name:        name,
		Module:      module,
		Description: description,
		Pattern:     name,
		Metadata: map[string]interface{}{
			"payload_fields": fields,
			"type_name":      t.Name(),
			"is_typed":       true,
		},
	}

	// Events are package-level values; an invalid definition is a programming error.
	topicmgr.Default().MustRegister(topicmgr.DefineModule(config))

	return Event[T]{
		topicName: name,
		config:    config,
	}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Description returns the documentation string given at definition.
func (e Event[T]) Description() string {
	return e.config.Description
}

// Publish sends a typed event on behalf of userID.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T, metadata map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:    event.Name(),
		UserID:   userID,
		Payload:  data,
		Metadata: metadata,
	})
}

// Decode unmarshals a message published with Publish for the same event.
func Decode[T any](event Event[T], msg Message) (T, error) {
	var payload T
	if msg.Topic != "" && msg.Topic != event.Name() {
		return payload, fmt.Errorf("message topic %q does not match event %q", msg.Topic, event.Name())
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", event.Name(), err)
	}
	return payload, nil
}
