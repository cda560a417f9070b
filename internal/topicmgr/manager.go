package topicmgr

import (
	"sync"
)

// Manager is the entry point for topic registration and discovery.
type Manager struct {
	registry  *Registry
	validator *Validator
}

// NewManager creates a new topic manager with registry and validator
func NewManager() *Manager {
	return &Manager{
		registry:  NewRegistry(),
		validator: NewValidator(),
	}
}

// Register validates a topic and adds it to the registry.
func (m *Manager) Register(topic Topic) error {
	if err := m.validator.ValidateDefinition(topic); err != nil {
		name, module := "", ""
		if topic != nil {
			name, module = topic.Name(), topic.Module()
		}
		return &TopicError{
			Type:    ErrorValidationFailed,
			Topic:   name,
			Module:  module,
			Message: "topic validation failed",
			Cause:   err,
		}
	}

	return m.registry.Register(topic)
}

// RegisterAll registers every topic, ignoring topics that are already known.
func (m *Manager) RegisterAll(topics ...Topic) error {
	for _, topic := range topics {
		if err := m.Register(topic); err != nil && !IsDuplicate(err) {
			return err
		}
	}
	return nil
}

// MustRegister registers a topic and panics on failure. Intended for
// package-level topic definitions evaluated at init time.
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil && !IsDuplicate(err) {
		panic("failed to register topic: " + err.Error())
	}
}

// Get retrieves a topic by name.
func (m *Manager) Get(name string) (Topic, bool) {
	return m.registry.Get(name)
}

// List returns all registered topics sorted by name.
func (m *Manager) List() []Topic {
	return m.registry.Select(nil)
}

// ListByModule returns the topics owned by module.
func (m *Manager) ListByModule(module string) []Topic {
	return m.registry.Select(func(t Topic) bool { return t.Module() == module })
}

// ListFrameworkTopics returns all framework-scoped topics.
func (m *Manager) ListFrameworkTopics() []Topic {
	return m.registry.Select(func(t Topic) bool { return t.Scope() == ScopeFramework })
}

// Stats returns registry statistics.
func (m *Manager) Stats() RegistryStats {
	return m.registry.Stats()
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide manager.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
