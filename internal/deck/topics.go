package deck

import (
	"slices"
	"strings"
	"sync"
)

// topicMemory remembers recently generated topics per key, newest last.
type topicMemory struct {
	mu     sync.Mutex
	limit  int
	topics map[string][]string
}

func newTopicMemory(limit int) *topicMemory {
	return &topicMemory{limit: limit, topics: make(map[string][]string)}
}

func (m *topicMemory) recent(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.topics[key])
}

func (m *topicMemory) remember(key string, topics ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.topics[key]
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		// Re-remembering a topic moves it to the end.
		list = slices.DeleteFunc(list, func(s string) bool { return strings.EqualFold(s, t) })
		list = append(list, t)
	}
	if m.limit > 0 && len(list) > m.limit {
		list = slices.Clone(list[len(list)-m.limit:])
	}
	m.topics[key] = list
}
