package topicmgr

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds validated topics by name.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]Topic
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{topics: make(map[string]Topic)}
}

// Register adds topic, failing with ErrorDuplicateRegistration when the name is taken.
func (r *Registry) Register(topic Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := topic.Name()
	if _, taken := r.topics[name]; taken {
		return &TopicError{
			Type:    ErrorDuplicateRegistration,
			Topic:   name,
			Module:  topic.Module(),
			Message: fmt.Sprintf("topic already registered: %s", name),
		}
	}
	r.topics[name] = topic
	return nil
}

// Get looks a topic up by name.
func (r *Registry) Get(name string) (Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[name]
	return t, ok
}

// Select returns the topics keep accepts, sorted by name. A nil keep selects all.
func (r *Registry) Select(keep func(Topic) bool) []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Topic, 0, len(r.topics))
	for _, t := range r.topics {
		if keep == nil || keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Stats counts topics per scope and per owning module.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{TotalTopics: len(r.topics), ModuleBreakdown: make(map[string]int)}
	for _, t := range r.topics {
		if t.Scope() == ScopeFramework {
			stats.FrameworkTopics++
			continue
		}
		stats.ModuleTopics++
		stats.ModuleBreakdown[t.Module()]++
	}
	return stats
}

// RegistryStats is the summary printed by quirkctl topics.
type RegistryStats struct {
	TotalTopics     int            `json:"total_topics"`
	FrameworkTopics int            `json:"framework_topics"`
	ModuleTopics    int            `json:"module_topics"`
	ModuleBreakdown map[string]int `json:"module_breakdown"`
}
