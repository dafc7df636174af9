package metadata

import (
	"sort"
	"sync"
)

// Map associates domain classes with their compiled metadata records. It is
// the artifact handed to renderers and link generators: given an instance's
// class, it answers how that instance is represented.
//
// A Map built by MapBuilder is safe for concurrent readers. Register may be
// called after construction to add entries programmatically; it is guarded
// so late registration does not race lookups.
type Map struct {
	mu      sync.RWMutex
	records map[string]Metadata
}

// NewMap returns an empty metadata map.
func NewMap() *Map {
	return &Map{
		records: make(map[string]Metadata),
	}
}

// Has reports whether metadata is registered for the given class.
func (m *Map) Has(class string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[class]
	return ok
}

// Get returns the metadata registered for the given class. A miss returns
// a *NotFoundError.
func (m *Map) Get(class string) (Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[class]
	if !ok {
		return nil, &NotFoundError{Class: class}
	}
	return record, nil
}

// Register adds metadata for its class. An existing entry for the same
// class is replaced.
func (m *Map) Register(record Metadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Class()] = record
}

// Classes returns the registered class names in sorted order.
func (m *Map) Classes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	classes := make([]string, 0, len(m.records))
	for class := range m.records {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Len returns the number of registered classes.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
