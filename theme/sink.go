package theme

import (
	"sort"
	"sync"
)

// Sink is a rendering surface that accepts CSS custom properties,
// such as a browser document root.
type Sink interface {
	SetProperties(props []Property) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(props []Property) error

// SetProperties calls f(props).
func (f SinkFunc) SetProperties(props []Property) error {
	return f(props)
}

// PropertyMap is an in-memory surface. It is safe for concurrent use.
type PropertyMap struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewPropertyMap returns an empty surface.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{values: make(map[string]string)}
}

// SetProperties writes every property and counts one write batch.
func (m *PropertyMap) SetProperties(props []Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range props {
		m.values[p.Name] = p.Value
	}
	m.writes++
	return nil
}

// Get returns the current value of name.
func (m *PropertyMap) Get(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[name]
}

// Values returns a copy of all properties.
func (m *PropertyMap) Values() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Names returns the property names in sorted order.
func (m *PropertyMap) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Writes returns how many batches have been written.
func (m *PropertyMap) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// MultiSink fans out writes to every sink and returns the first error.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(props []Property) error {
		var first error
		for _, s := range sinks {
			if err := s.SetProperties(props); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
