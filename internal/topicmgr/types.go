package topicmgr

// Topic is a named channel on the message bus together with the
// documentation quirkctl topics prints.
type Topic interface {
	// Name is unique within a Manager.
	Name() string

	// Module is empty for framework topics.
	Module() string

	Description() string

	// Pattern returns the routing pattern
	Pattern() string

	// Example returns a payload example
	Example() string

	Metadata() map[string]interface{}

	Scope() TopicScope
}

// TypedTopic is the concrete Topic produced by DefineFramework and DefineModule.
type TypedTopic struct {
	name        string
	module      string
	description string
	pattern     string
	example     string
	metadata    map[string]interface{}
	scope       TopicScope
}

var _ Topic = (*TypedTopic)(nil)

// TopicConfig holds configuration for creating a new topic
type TopicConfig struct {
	Name        string                 `json:"name"`
	Module      string                 `json:"module"`
	Scope       TopicScope             `json:"scope"`
	Description string                 `json:"description"`
	Pattern     string                 `json:"pattern"`
	Example     string                 `json:"example"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// TopicScope defines whether a topic belongs to framework or module level
type TopicScope string

const (
	ScopeFramework TopicScope = "framework" // websocket fan-out, server lifecycle
	ScopeModule    TopicScope = "module"    // chart frames, analytics events
)

// TopicError is returned by Manager.Register.
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Module  string    `json:"module"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType defines the type of topic management error
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
)

func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TopicError) Unwrap() error {
	return e.Cause
}

// IsDuplicate reports whether err is a duplicate registration error.
func IsDuplicate(err error) bool {
	te, ok := err.(*TopicError)
	return ok && te.Type == ErrorDuplicateRegistration
}

func (t *TypedTopic) Name() string        { return t.name }
func (t *TypedTopic) Module() string      { return t.module }
func (t *TypedTopic) Description() string { return t.description }
func (t *TypedTopic) Pattern() string     { return t.pattern }
func (t *TypedTopic) Example() string     { return t.example }
func (t *TypedTopic) Scope() TopicScope   { return t.scope }
func (t *TypedTopic) String() string      { return t.name }

// Metadata returns a copy of the topic metadata.
func (t *TypedTopic) Metadata() map[string]interface{} {
	result := make(map[string]interface{}, len(t.metadata))
	for k, v := range t.metadata {
		result[k] = v
	}
	return result
}

// DefineFramework creates a topic owned by the framework (no module).
func DefineFramework(config TopicConfig) Topic {
	config.Scope = ScopeFramework
	config.Module = ""
	return newTypedTopic(config)
}

// DefineModule creates a topic owned by a module.
func DefineModule(config TopicConfig) Topic {
	config.Scope = ScopeModule
	return newTypedTopic(config)
}

func newTypedTopic(config TopicConfig) *TypedTopic {
	pattern := config.Pattern
	if pattern == "" {
		pattern = config.Name
	}
	return &TypedTopic{
		name:        config.Name,
		module:      config.Module,
		description: config.Description,
		pattern:     pattern,
		example:     config.Example,
		metadata:    config.Metadata,
		scope:       config.Scope,
	}
}
